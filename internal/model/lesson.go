package model

import "time"

// swagger:model Lesson
type Lesson struct {
	BaseModel
	CourseID     uint   `gorm:"index;not null" json:"courseId"`
	Title        string `gorm:"size:200;not null" json:"title"`
	Content      string `gorm:"type:text" json:"content"`
	VideoURL     string `gorm:"size:255" json:"videoUrl"`
	ThumbnailURL string `gorm:"size:255" json:"thumbnailUrl"`
	Position     int    `gorm:"default:0" json:"position"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// LessonProgress 每个学生每节课至多一条进度记录
type LessonProgress struct {
	BaseModel
	UserID      uint       `gorm:"uniqueIndex:idx_user_lesson;not null" json:"userId"`
	LessonID    uint       `gorm:"uniqueIndex:idx_user_lesson;index;not null" json:"lessonId"`
	CourseID    uint       `gorm:"index;not null" json:"courseId"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}
