package model

// swagger:model HelpArticle
type HelpArticle struct {
	BaseModel
	Title     string `gorm:"size:200;not null" json:"title"`
	Body      string `gorm:"type:text" json:"body"`
	Category  string `gorm:"size:50;index" json:"category"`
	Position  int    `gorm:"default:0" json:"position"`
	Published bool   `gorm:"default:true" json:"published"`
}

func (HelpArticle) TableName() string {
	return "help_articles"
}
