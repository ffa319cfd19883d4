package model

// swagger:model Announcement
type Announcement struct {
	BaseModel
	CourseID uint   `gorm:"index;not null" json:"courseId"`
	AuthorID uint   `gorm:"index;not null" json:"authorId"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Title    string `gorm:"size:200;not null" json:"title"`
	Body     string `gorm:"type:text" json:"body"`
	Pinned   bool   `gorm:"default:false" json:"pinned"`
}

func (Announcement) TableName() string {
	return "announcements"
}
