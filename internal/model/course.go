package model

import "time"

// swagger:model Course
type Course struct {
	BaseModel
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	TeacherID   uint   `gorm:"index;not null" json:"teacherId"`
	Teacher     User   `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Category    string `gorm:"size:50" json:"category"`
	Thumbnail   string `gorm:"size:255" json:"thumbnail"`
	Published   bool   `gorm:"default:false" json:"published"`
}

func (Course) TableName() string {
	return "courses"
}

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

// Enrollment 一个学生在一门课程中至多一条记录
type Enrollment struct {
	BaseModel
	UserID      uint             `gorm:"uniqueIndex:idx_user_course;not null" json:"userId"`
	User        User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CourseID    uint             `gorm:"uniqueIndex:idx_user_course;index;not null" json:"courseId"`
	Course      Course           `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Status      EnrollmentStatus `gorm:"type:enum('active','completed','dropped');default:'active'" json:"status"`
	EnrolledAt  time.Time        `gorm:"default:CURRENT_TIMESTAMP(3)" json:"enrolledAt"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
