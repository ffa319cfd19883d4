package model

import "time"

type PairingStatus string

const (
	PairingActive    PairingStatus = "active"
	PairingPaused    PairingStatus = "paused"
	PairingCompleted PairingStatus = "completed"
)

// MentorshipPairing (mentor, mentee, course) 三元组在 active 状态下唯一。
// 匹配器整体替换：先结束课程下所有 active 配对，再插入新一批。
type MentorshipPairing struct {
	BaseModel
	MentorID  uint          `gorm:"index;not null" json:"mentorId"`
	Mentor    User          `gorm:"foreignKey:MentorID" json:"mentor,omitempty"`
	MenteeID  uint          `gorm:"index;not null" json:"menteeId"`
	Mentee    User          `gorm:"foreignKey:MenteeID" json:"mentee,omitempty"`
	CourseID  uint          `gorm:"index;not null" json:"courseId"`
	Status    PairingStatus `gorm:"type:enum('active','paused','completed');default:'active'" json:"status"`
	StartedAt time.Time     `gorm:"default:CURRENT_TIMESTAMP(3)" json:"startedAt"`
	EndedAt   *time.Time    `json:"endedAt,omitempty"`
}

func (MentorshipPairing) TableName() string {
	return "mentorship_pairings"
}

type MentorRequestStatus string

const (
	RequestPending   MentorRequestStatus = "pending"
	RequestAccepted  MentorRequestStatus = "accepted"
	RequestRejected  MentorRequestStatus = "rejected"
	RequestCompleted MentorRequestStatus = "completed"
)

type MentorRequest struct {
	BaseModel
	StudentID        uint                `gorm:"index;not null" json:"studentId"`
	Student          User                `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	CourseID         uint                `gorm:"index;not null" json:"courseId"`
	HelpDescription  string              `gorm:"type:text" json:"helpDescription"`
	Status           MentorRequestStatus `gorm:"type:enum('pending','accepted','rejected','completed');default:'pending'" json:"status"`
	AssignedMentorID *uint               `json:"assignedMentorId,omitempty"`
}

func (MentorRequest) TableName() string {
	return "mentor_requests"
}
