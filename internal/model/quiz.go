package model

import "time"

// swagger:model Quiz
type Quiz struct {
	BaseModel
	CourseID         uint           `gorm:"index;not null" json:"courseId"`
	Title            string         `gorm:"size:200;not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	TimeLimitMinutes int            `gorm:"default:0" json:"timeLimitMinutes"`
	Published        bool           `gorm:"default:false" json:"published"`
	Questions        []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

type QuizQuestion struct {
	BaseModel
	QuizID   uint         `gorm:"index;not null" json:"quizId"`
	Text     string       `gorm:"type:text;not null" json:"text"`
	Position int          `gorm:"default:0" json:"position"`
	Points   int          `gorm:"default:1" json:"points"`
	Answers  []QuizAnswer `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

type QuizAnswer struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Text       string `gorm:"size:500;not null" json:"text"`
	// Correct 仅教师端下发，学生端序列化前必须清除
	Correct bool `gorm:"default:false" json:"correct,omitempty"`
}

func (QuizAnswer) TableName() string {
	return "quiz_answers"
}

type QuizAttempt struct {
	BaseModel
	QuizID      uint           `gorm:"index;not null" json:"quizId"`
	UserID      uint           `gorm:"index;not null" json:"userId"`
	CourseID    uint           `gorm:"index;not null" json:"courseId"`
	Score       float64        `gorm:"default:0" json:"score"`
	StartedAt   time.Time      `gorm:"default:CURRENT_TIMESTAMP(3)" json:"startedAt"`
	SubmittedAt *time.Time     `json:"submittedAt,omitempty"`
	Responses   []QuizResponse `gorm:"foreignKey:AttemptID" json:"responses,omitempty"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

type QuizResponse struct {
	BaseModel
	AttemptID  uint `gorm:"index;not null" json:"attemptId"`
	QuestionID uint `gorm:"not null" json:"questionId"`
	AnswerID   uint `gorm:"not null" json:"answerId"`
	Correct    bool `gorm:"default:false" json:"correct"`
}

func (QuizResponse) TableName() string {
	return "quiz_responses"
}
