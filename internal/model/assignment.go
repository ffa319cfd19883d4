package model

import "time"

// swagger:model Assignment
type Assignment struct {
	BaseModel
	CourseID    uint      `gorm:"index;not null" json:"courseId"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	DueDate     time.Time `json:"dueDate"`
	MaxPoints   int       `gorm:"default:100" json:"maxPoints"`
}

func (Assignment) TableName() string {
	return "assignments"
}

type AssignmentSubmission struct {
	BaseModel
	AssignmentID  uint       `gorm:"index;not null" json:"assignmentId"`
	UserID        uint       `gorm:"index;not null" json:"userId"`
	CourseID      uint       `gorm:"index;not null" json:"courseId"`
	Content       string     `gorm:"type:text" json:"content"`
	AttachmentURL string     `gorm:"size:255" json:"attachmentUrl"`
	SubmittedAt   time.Time  `gorm:"default:CURRENT_TIMESTAMP(3)" json:"submittedAt"`
	Grade         *float64   `json:"grade,omitempty"` // 百分制
	Feedback      string     `gorm:"type:text" json:"feedback"`
	GradedAt      *time.Time `json:"gradedAt,omitempty"`
	GraderID      *uint      `json:"graderId,omitempty"`
}

func (AssignmentSubmission) TableName() string {
	return "assignment_submissions"
}
