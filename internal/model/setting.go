package model

// UserSetting 每个用户一条，按需 upsert
type UserSetting struct {
	BaseModel
	UserID             uint   `gorm:"uniqueIndex;not null" json:"userId"`
	EmailNotifications bool   `gorm:"default:true" json:"emailNotifications"`
	Theme              string `gorm:"size:20;default:'light'" json:"theme"`
	Language           string `gorm:"size:10;default:'en'" json:"language"`
}

func (UserSetting) TableName() string {
	return "user_settings"
}
