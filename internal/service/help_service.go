package service

import (
	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/repository"
)

type HelpService struct {
	HelpRepo *repository.HelpRepository
}

func NewHelpService(helpRepo *repository.HelpRepository) *HelpService {
	return &HelpService{HelpRepo: helpRepo}
}

func (s *HelpService) List(role model.UserRole, category string) ([]model.HelpArticle, error) {
	if role == model.Admin {
		return s.HelpRepo.ListAll()
	}
	return s.HelpRepo.ListPublished(category)
}

func (s *HelpService) Get(id uint) (*model.HelpArticle, error) {
	return s.HelpRepo.FindByID(id)
}

func (s *HelpService) Create(article *model.HelpArticle) error {
	return s.HelpRepo.Create(article)
}

func (s *HelpService) Update(id uint, updates *model.HelpArticle) (*model.HelpArticle, error) {
	article, err := s.HelpRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if updates.Title != "" {
		article.Title = updates.Title
	}
	if updates.Body != "" {
		article.Body = updates.Body
	}
	if updates.Category != "" {
		article.Category = updates.Category
	}
	if updates.Position != 0 {
		article.Position = updates.Position
	}
	article.Published = updates.Published

	if err := s.HelpRepo.Update(article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *HelpService) Delete(id uint) error {
	return s.HelpRepo.Delete(id)
}
