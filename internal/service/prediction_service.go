package service

import (
	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/util"
	"edu_lms_backend/pkg/logger"
	"edu_lms_backend/pkg/monitoring"
	"encoding/json"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PredictionStore 预测记录的追加与最新读取
type PredictionStore interface {
	Create(prediction *model.Prediction) error
	LatestForStudent(courseID, userID uint) (*model.Prediction, error)
	ListLatestByCourse(courseID uint) ([]model.Prediction, error)
	ListHistory(courseID, userID uint, limit int) ([]model.Prediction, error)
}

// CourseFinder 课程存在性与归属校验
type CourseFinder interface {
	FindByID(id uint) (*model.Course, error)
}

// EnrollmentSource 课程内的 active 学生
type EnrollmentSource interface {
	ListActiveByCourse(courseID uint) ([]model.Enrollment, error)
	IsActive(userID, courseID uint) (bool, error)
}

// GradeSignals 预测输入特征的只读查询
type GradeSignals interface {
	QuizPercentages(userID, courseID uint) ([]float64, error)
	AssignmentPercentages(userID, courseID uint) ([]float64, error)
	LessonCompletionRatio(userID, courseID uint) (float64, error)
}

type PredictionService struct {
	Predictions PredictionStore
	Courses     CourseFinder
	Enrollments EnrollmentSource
	Signals     GradeSignals
}

func NewPredictionService(predictions PredictionStore, courses CourseFinder, enrollments EnrollmentSource, signals GradeSignals) *PredictionService {
	return &PredictionService{
		Predictions: predictions,
		Courses:     courses,
		Enrollments: enrollments,
		Signals:     signals,
	}
}

// GeneratePredictions 为课程内每个有成绩数据的 active 学生追加一条新预测。
// 只有课程教师和管理员可以触发。没有任何学生有数据时返回 ErrNoActiveEnrollments。
func (s *PredictionService) GeneratePredictions(requesterID uint, role model.UserRole, courseID uint) ([]model.Prediction, error) {
	course, err := s.Courses.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if role != model.Admin && course.TeacherID != requesterID {
		return nil, util.ErrPermissionDenied
	}

	enrollments, err := s.Enrollments.ListActiveByCourse(courseID)
	if err != nil {
		return nil, err
	}
	if len(enrollments) == 0 {
		return nil, util.ErrNoActiveEnrollments
	}

	now := time.Now()
	generated := make([]model.Prediction, 0, len(enrollments))
	for _, enrollment := range enrollments {
		prediction, err := s.predictStudent(enrollment.UserID, courseID, now)
		if err != nil {
			return nil, err
		}
		if prediction == nil {
			// 没有任何测验或作业成绩的学生跳过，不产生猜测性预测
			continue
		}
		if err := s.Predictions.Create(prediction); err != nil {
			return nil, err
		}
		generated = append(generated, *prediction)
	}

	if len(generated) == 0 {
		return nil, util.ErrNoActiveEnrollments
	}

	monitoring.PredictionsGenerated.Add(float64(len(generated)))
	logger.Log.Info("predictions generated",
		zap.Uint("courseId", courseID),
		zap.Int("count", len(generated)))
	return generated, nil
}

// GetMyPrediction 学生查询自己在某课程的当前预测
func (s *PredictionService) GetMyPrediction(userID, courseID uint) (*model.Prediction, error) {
	prediction, err := s.Predictions.LatestForStudent(courseID, userID)
	if err != nil {
		return nil, err
	}
	return prediction, nil
}

// ListCoursePredictions 教师/管理员查看课程内每个学生的当前预测
func (s *PredictionService) ListCoursePredictions(requesterID uint, role model.UserRole, courseID uint) ([]model.Prediction, error) {
	course, err := s.Courses.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if role != model.Admin && course.TeacherID != requesterID {
		return nil, util.ErrPermissionDenied
	}
	return s.Predictions.ListLatestByCourse(courseID)
}

// GetHistory 预测历史，学生只能看自己的
func (s *PredictionService) GetHistory(requesterID uint, role model.UserRole, courseID, userID uint, limit int) ([]model.Prediction, error) {
	if role == model.Student && requesterID != userID {
		return nil, util.ErrPermissionDenied
	}
	return s.Predictions.ListHistory(courseID, userID, limit)
}

func (s *PredictionService) predictStudent(userID, courseID uint, at time.Time) (*model.Prediction, error) {
	quizzes, err := s.Signals.QuizPercentages(userID, courseID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.Signals.AssignmentPercentages(userID, courseID)
	if err != nil {
		return nil, err
	}
	if len(quizzes) == 0 && len(assignments) == 0 {
		return nil, nil
	}
	completion, err := s.Signals.LessonCompletionRatio(userID, courseID)
	if err != nil {
		return nil, err
	}

	grade, confidence := computePrediction(quizzes, assignments, completion)
	factors := model.PredictionFactors{
		QuizAverage:       mean(quizzes),
		QuizCount:         len(quizzes),
		AssignmentAverage: mean(assignments),
		AssignmentCount:   len(assignments),
		CompletionRatio:   completion,
	}
	encoded, err := json.Marshal(factors)
	if err != nil {
		return nil, err
	}

	return &model.Prediction{
		UserID:           userID,
		CourseID:         courseID,
		PredictedGrade:   grade,
		ConfidenceScore:  confidence,
		PerformanceLevel: PerformanceLevelFor(grade),
		Factors:          string(encoded),
		PredictionDate:   at,
	}, nil
}

// computePrediction 加权混合测验与作业平均分。
// 两者都有时 0.6 测验 + 0.4 作业，只有一种时直接用该均值。
// 置信度：单一来源 0.4；双来源 0.5，双来源各有多个数据点时 0.7；
// 课时完成度超过一半再加 0.2，上限 0.9。
func computePrediction(quizzes, assignments []float64, completion float64) (float64, float64) {
	quizAvg := mean(quizzes)
	asgAvg := mean(assignments)

	var grade, confidence float64
	switch {
	case len(quizzes) > 0 && len(assignments) > 0:
		grade = 0.6*quizAvg + 0.4*asgAvg
		confidence = 0.5
		if len(quizzes) > 1 && len(assignments) > 1 {
			confidence = 0.7
		}
	case len(quizzes) > 0:
		grade = quizAvg
		confidence = 0.4
	default:
		grade = asgAvg
		confidence = 0.4
	}

	if completion > 0.5 {
		confidence += 0.2
	}
	// 档位值都是一位小数，规整掉浮点加法误差
	confidence = math.Round(confidence*10) / 10
	if confidence > 0.9 {
		confidence = 0.9
	}
	return grade, confidence
}

// PerformanceLevelFor 预测分到等级的固定边界
func PerformanceLevelFor(grade float64) model.PerformanceLevel {
	switch {
	case grade >= 90:
		return model.PerformanceExcellent
	case grade >= 80:
		return model.PerformanceGood
	case grade >= 70:
		return model.PerformanceAverage
	case grade >= 60:
		return model.PerformanceAtRisk
	default:
		return model.PerformanceCritical
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
