package service

import (
	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/repository"
	"edu_lms_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type MessageService struct {
	MessageRepo *repository.MessageRepository
	UserRepo    *repository.UserRepository
}

func NewMessageService(messageRepo *repository.MessageRepository, userRepo *repository.UserRepository) *MessageService {
	return &MessageService{
		MessageRepo: messageRepo,
		UserRepo:    userRepo,
	}
}

func (s *MessageService) Send(senderID, recipientID uint, subject, body, attachmentURL string) (*model.DirectMessage, error) {
	if senderID == recipientID {
		return nil, errors.New("cannot message yourself")
	}
	if _, err := s.UserRepo.FindByID(recipientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	message := &model.DirectMessage{
		SenderID:      senderID,
		RecipientID:   recipientID,
		Subject:       subject,
		Body:          body,
		AttachmentURL: attachmentURL,
	}
	if err := s.MessageRepo.Create(message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *MessageService) Inbox(userID uint, page, limit int) ([]model.DirectMessage, int64, error) {
	return s.MessageRepo.Inbox(userID, page, limit)
}

func (s *MessageService) Sent(userID uint, page, limit int) ([]model.DirectMessage, int64, error) {
	return s.MessageRepo.Sent(userID, page, limit)
}

// Read 收件人打开消息时标记已读
func (s *MessageService) Read(userID, messageID uint) (*model.DirectMessage, error) {
	message, err := s.MessageRepo.FindByID(messageID)
	if err != nil {
		return nil, err
	}
	if message.SenderID != userID && message.RecipientID != userID {
		return nil, util.ErrPermissionDenied
	}

	if message.RecipientID == userID && message.ReadAt == nil {
		if err := s.MessageRepo.MarkRead(messageID); err != nil {
			return nil, err
		}
	}
	return message, nil
}

func (s *MessageService) Delete(userID, messageID uint) error {
	message, err := s.MessageRepo.FindByID(messageID)
	if err != nil {
		return err
	}
	if message.SenderID != userID && message.RecipientID != userID {
		return util.ErrPermissionDenied
	}
	return s.MessageRepo.Delete(messageID)
}

func (s *MessageService) UnreadCount(userID uint) (int64, error) {
	return s.MessageRepo.CountUnread(userID)
}
