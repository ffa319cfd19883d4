package repository

import (
	"edu_lms_backend/internal/model"

	"gorm.io/gorm"
)

type PredictionRepository struct {
	DB *gorm.DB
}

func NewPredictionRepository(db *gorm.DB) *PredictionRepository {
	return &PredictionRepository{DB: db}
}

// Create 预测记录只追加，不更新
func (r *PredictionRepository) Create(prediction *model.Prediction) error {
	return r.DB.Create(prediction).Error
}

// LatestForStudent 某学生在某课程下的当前预测（prediction_date 最新的一条）
func (r *PredictionRepository) LatestForStudent(courseID, userID uint) (*model.Prediction, error) {
	var prediction model.Prediction
	err := r.DB.Where("course_id = ? AND user_id = ?", courseID, userID).
		Order("prediction_date DESC, id DESC").
		First(&prediction).Error
	return &prediction, err
}

// ListLatestByCourse 课程内每个学生的当前预测。
// 同一学生同一时间戳的并列记录取 id 较大者。
func (r *PredictionRepository) ListLatestByCourse(courseID uint) ([]model.Prediction, error) {
	var predictions []model.Prediction
	err := r.DB.Where("course_id = ?", courseID).
		Order("user_id ASC, prediction_date DESC, id DESC").
		Find(&predictions).Error
	if err != nil {
		return nil, err
	}

	latest := make([]model.Prediction, 0, len(predictions))
	seen := make(map[uint]bool, len(predictions))
	for _, p := range predictions {
		if seen[p.UserID] {
			continue
		}
		seen[p.UserID] = true
		latest = append(latest, p)
	}
	return latest, nil
}

func (r *PredictionRepository) ListHistory(courseID, userID uint, limit int) ([]model.Prediction, error) {
	var predictions []model.Prediction
	query := r.DB.Where("course_id = ? AND user_id = ?", courseID, userID).
		Order("prediction_date DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&predictions).Error
	return predictions, err
}
