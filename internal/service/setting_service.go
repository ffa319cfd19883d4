package service

import (
	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/repository"
)

type SettingService struct {
	SettingRepo *repository.SettingRepository
}

func NewSettingService(settingRepo *repository.SettingRepository) *SettingService {
	return &SettingService{SettingRepo: settingRepo}
}

// Get 没有记录时返回默认值，不落库
func (s *SettingService) Get(userID uint) (*model.UserSetting, error) {
	return s.SettingRepo.GetByUser(userID)
}

func (s *SettingService) Update(userID uint, setting *model.UserSetting) (*model.UserSetting, error) {
	setting.UserID = userID
	if setting.Theme == "" {
		setting.Theme = "light"
	}
	if setting.Language == "" {
		setting.Language = "en"
	}
	if err := s.SettingRepo.Upsert(setting); err != nil {
		return nil, err
	}
	return s.SettingRepo.GetByUser(userID)
}
