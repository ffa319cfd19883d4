package model

import "time"

// DirectMessage 学员/教师之间的站内信
type DirectMessage struct {
	BaseModel
	SenderID      uint       `gorm:"index;not null" json:"senderId"`
	Sender        User       `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	RecipientID   uint       `gorm:"index;not null" json:"recipientId"`
	Recipient     User       `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
	Subject       string     `gorm:"size:200" json:"subject"`
	Body          string     `gorm:"type:text" json:"body"`
	AttachmentURL string     `gorm:"size:255" json:"attachmentUrl"`
	ReadAt        *time.Time `json:"readAt,omitempty"`
}

func (DirectMessage) TableName() string {
	return "direct_messages"
}
