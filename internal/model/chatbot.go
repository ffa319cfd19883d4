package model

import "time"

type SenderType string

const (
	SenderUser SenderType = "user"
	SenderBot  SenderType = "bot"
)

// ChatConversation 机器人会话，归属单个用户，可选关联课程
type ChatConversation struct {
	UUIDBase
	UserID   uint          `gorm:"index;not null" json:"userId"`
	CourseID *uint         `gorm:"index" json:"courseId,omitempty"`
	Title    string        `gorm:"size:200" json:"title"`
	Messages []ChatMessage `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

func (ChatConversation) TableName() string {
	return "chat_conversations"
}

// ChatMessage 会话内按时间追加的消息记录
type ChatMessage struct {
	UUIDBase
	ConversationID string     `gorm:"index:idx_conv_created;type:varchar(36);not null" json:"conversationId"`
	CreatedAt      time.Time  `gorm:"index:idx_conv_created" json:"createdAt"`
	SenderType     SenderType `gorm:"type:enum('user','bot');not null" json:"senderType"`
	Content        string     `gorm:"type:text;not null" json:"content"`
	Intent         string     `gorm:"size:50" json:"intent,omitempty"` // 分类结果，仅 bot 消息携带
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
