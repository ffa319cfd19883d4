package repository

import (
	"edu_lms_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type MessageRepository struct {
	DB *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) Create(message *model.DirectMessage) error {
	return r.DB.Create(message).Error
}

func (r *MessageRepository) FindByID(id uint) (*model.DirectMessage, error) {
	var message model.DirectMessage
	err := r.DB.Preload("Sender").Preload("Recipient").First(&message, id).Error
	return &message, err
}

func (r *MessageRepository) Inbox(userID uint, page, limit int) ([]model.DirectMessage, int64, error) {
	var messages []model.DirectMessage
	var total int64

	query := r.DB.Model(&model.DirectMessage{}).Where("recipient_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Sender").
		Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&messages).Error
	return messages, total, err
}

func (r *MessageRepository) Sent(userID uint, page, limit int) ([]model.DirectMessage, int64, error) {
	var messages []model.DirectMessage
	var total int64

	query := r.DB.Model(&model.DirectMessage{}).Where("sender_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Recipient").
		Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&messages).Error
	return messages, total, err
}

func (r *MessageRepository) MarkRead(id uint) error {
	now := time.Now()
	return r.DB.Model(&model.DirectMessage{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", &now).
		Error
}

func (r *MessageRepository) Delete(id uint) error {
	return r.DB.Delete(&model.DirectMessage{}, id).Error
}

func (r *MessageRepository) CountUnread(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.DirectMessage{}).
		Where("recipient_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}
