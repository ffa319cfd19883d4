package repository

import (
	"edu_lms_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository struct {
	DB *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{DB: db}
}

// GetByUser 没有记录时返回默认值
func (r *SettingRepository) GetByUser(userID uint) (*model.UserSetting, error) {
	var setting model.UserSetting
	err := r.DB.Where("user_id = ?", userID).First(&setting).Error
	if err == gorm.ErrRecordNotFound {
		return &model.UserSetting{
			UserID:             userID,
			EmailNotifications: true,
			Theme:              "light",
			Language:           "en",
		}, nil
	}
	return &setting, err
}

func (r *SettingRepository) Upsert(setting *model.UserSetting) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email_notifications", "theme", "language", "updated_at"}),
	}).Create(setting).Error
}
