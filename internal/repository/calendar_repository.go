package repository

import (
	"edu_lms_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type CalendarRepository struct {
	DB *gorm.DB
}

func NewCalendarRepository(db *gorm.DB) *CalendarRepository {
	return &CalendarRepository{DB: db}
}

func (r *CalendarRepository) Create(event *model.CalendarEvent) error {
	return r.DB.Create(event).Error
}

func (r *CalendarRepository) FindByID(id uint) (*model.CalendarEvent, error) {
	var event model.CalendarEvent
	err := r.DB.First(&event, id).Error
	return &event, err
}

func (r *CalendarRepository) Update(event *model.CalendarEvent) error {
	return r.DB.Save(event).Error
}

func (r *CalendarRepository) Delete(id uint) error {
	return r.DB.Delete(&model.CalendarEvent{}, id).Error
}

// ListVisible 自己的事件 + 已注册课程的课程级事件
func (r *CalendarRepository) ListVisible(userID uint, courseIDs []uint, from, to time.Time) ([]model.CalendarEvent, error) {
	var events []model.CalendarEvent
	query := r.DB.Where("starts_at >= ? AND starts_at < ?", from, to)
	if len(courseIDs) > 0 {
		query = query.Where("user_id = ? OR course_id IN ?", userID, courseIDs)
	} else {
		query = query.Where("user_id = ?", userID)
	}
	err := query.Order("starts_at ASC").Find(&events).Error
	return events, err
}
