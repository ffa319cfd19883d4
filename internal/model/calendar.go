package model

import "time"

type EventType string

const (
	EventAssignmentDue EventType = "assignment_due"
	EventQuiz          EventType = "quiz"
	EventLecture       EventType = "lecture"
	EventOther         EventType = "other"
)

// swagger:model CalendarEvent
type CalendarEvent struct {
	BaseModel
	UserID      uint       `gorm:"index;not null" json:"userId"`
	CourseID    *uint      `gorm:"index" json:"courseId,omitempty"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	EventType   EventType  `gorm:"type:enum('assignment_due','quiz','lecture','other');default:'other'" json:"eventType"`
	StartsAt    time.Time  `gorm:"index;not null" json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt,omitempty"`
}

func (CalendarEvent) TableName() string {
	return "calendar_events"
}
