package repository

import (
	"edu_lms_backend/internal/model"

	"gorm.io/gorm"
)

type HelpRepository struct {
	DB *gorm.DB
}

func NewHelpRepository(db *gorm.DB) *HelpRepository {
	return &HelpRepository{DB: db}
}

func (r *HelpRepository) Create(article *model.HelpArticle) error {
	return r.DB.Create(article).Error
}

func (r *HelpRepository) FindByID(id uint) (*model.HelpArticle, error) {
	var article model.HelpArticle
	err := r.DB.First(&article, id).Error
	return &article, err
}

func (r *HelpRepository) Update(article *model.HelpArticle) error {
	return r.DB.Save(article).Error
}

func (r *HelpRepository) Delete(id uint) error {
	return r.DB.Delete(&model.HelpArticle{}, id).Error
}

func (r *HelpRepository) ListPublished(category string) ([]model.HelpArticle, error) {
	var articles []model.HelpArticle
	query := r.DB.Where("published = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Order("position ASC, id ASC").Find(&articles).Error
	return articles, err
}

func (r *HelpRepository) ListAll() ([]model.HelpArticle, error) {
	var articles []model.HelpArticle
	err := r.DB.Order("position ASC, id ASC").Find(&articles).Error
	return articles, err
}
