package model

import "time"

type PerformanceLevel string

const (
	PerformanceExcellent PerformanceLevel = "excellent"
	PerformanceGood      PerformanceLevel = "good"
	PerformanceAverage   PerformanceLevel = "average"
	PerformanceAtRisk    PerformanceLevel = "at_risk"
	PerformanceCritical  PerformanceLevel = "critical"
)

// Prediction 是追加式的成绩预测记录，不做更新。
// 某学生在某课程下的"当前"预测 = prediction_date 最新的一条，
// 读取必须走 PredictionRepository 的 latest 系列方法。
type Prediction struct {
	BaseModel
	UserID           uint             `gorm:"index:idx_pred_user_course;not null" json:"userId"`
	CourseID         uint             `gorm:"index:idx_pred_user_course;index;not null" json:"courseId"`
	PredictedGrade   float64          `gorm:"not null" json:"predictedGrade"`
	ConfidenceScore  float64          `gorm:"not null" json:"confidenceScore"`
	PerformanceLevel PerformanceLevel `gorm:"type:enum('excellent','good','average','at_risk','critical');not null" json:"performanceLevel"`
	Factors          string           `gorm:"type:text" json:"factors"` // JSON 序列化的特征快照
	PredictionDate   time.Time        `gorm:"index;not null" json:"predictionDate"`
}

func (Prediction) TableName() string {
	return "predictions"
}

// PredictionFactors 生成预测时的输入特征，写入 Prediction.Factors
type PredictionFactors struct {
	QuizAverage       float64 `json:"quizAverage"`
	QuizCount         int     `json:"quizCount"`
	AssignmentAverage float64 `json:"assignmentAverage"`
	AssignmentCount   int     `json:"assignmentCount"`
	CompletionRatio   float64 `json:"completionRatio"`
}
