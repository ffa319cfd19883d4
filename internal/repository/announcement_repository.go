package repository

import (
	"edu_lms_backend/internal/model"

	"gorm.io/gorm"
)

type AnnouncementRepository struct {
	DB *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) *AnnouncementRepository {
	return &AnnouncementRepository{DB: db}
}

func (r *AnnouncementRepository) Create(announcement *model.Announcement) error {
	return r.DB.Create(announcement).Error
}

func (r *AnnouncementRepository) FindByID(id uint) (*model.Announcement, error) {
	var announcement model.Announcement
	err := r.DB.Preload("Author").First(&announcement, id).Error
	return &announcement, err
}

func (r *AnnouncementRepository) Update(announcement *model.Announcement) error {
	return r.DB.Save(announcement).Error
}

func (r *AnnouncementRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Announcement{}, id).Error
}

// ListByCourse 置顶优先，其余按时间倒序
func (r *AnnouncementRepository) ListByCourse(courseID uint, limit int) ([]model.Announcement, error) {
	var announcements []model.Announcement
	query := r.DB.Preload("Author").
		Where("course_id = ?", courseID).
		Order("pinned DESC, created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&announcements).Error
	return announcements, err
}
