package repository

import (
	"edu_lms_backend/internal/model"

	"gorm.io/gorm"
)

type ChatbotRepository struct {
	DB *gorm.DB
}

func NewChatbotRepository(db *gorm.DB) *ChatbotRepository {
	return &ChatbotRepository{DB: db}
}

func (r *ChatbotRepository) CreateConversation(conversation *model.ChatConversation) error {
	return r.DB.Create(conversation).Error
}

func (r *ChatbotRepository) FindConversation(id string) (*model.ChatConversation, error) {
	var conversation model.ChatConversation
	err := r.DB.Where("id = ?", id).First(&conversation).Error
	return &conversation, err
}

func (r *ChatbotRepository) ListConversationsByUser(userID uint) ([]model.ChatConversation, error) {
	var conversations []model.ChatConversation
	err := r.DB.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&conversations).Error
	return conversations, err
}

func (r *ChatbotRepository) CreateMessage(message *model.ChatMessage) error {
	return r.DB.Create(message).Error
}

// ListMessages 会话消息按时间正序
func (r *ChatbotRepository) ListMessages(conversationID string) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := r.DB.Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}
