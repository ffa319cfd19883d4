package repository

import (
	"edu_lms_backend/internal/model"

	"gorm.io/gorm"
)

// AnalyticsRepository 聚合查询：预测器的成绩信号、课程统计、个人总览。
// 全部是对已提交/已评分记录的只读扫描。
type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

// QuizPercentages 某学生在某课程所有已提交测验的百分制得分
func (r *AnalyticsRepository) QuizPercentages(userID, courseID uint) ([]float64, error) {
	var scores []float64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("user_id = ? AND course_id = ? AND submitted_at IS NOT NULL", userID, courseID).
		Pluck("score", &scores).Error
	return scores, err
}

// AssignmentPercentages 某学生在某课程所有已评分作业的百分制得分
func (r *AnalyticsRepository) AssignmentPercentages(userID, courseID uint) ([]float64, error) {
	var grades []float64
	err := r.DB.Model(&model.AssignmentSubmission{}).
		Where("user_id = ? AND course_id = ? AND grade IS NOT NULL", userID, courseID).
		Pluck("grade", &grades).Error
	return grades, err
}

// LessonCompletionRatio 课时完成比例，课程没有课时时返回 0
func (r *AnalyticsRepository) LessonCompletionRatio(userID, courseID uint) (float64, error) {
	var total int64
	if err := r.DB.Model(&model.Lesson{}).Where("course_id = ?", courseID).Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	var completed int64
	if err := r.DB.Model(&model.LessonProgress{}).
		Where("user_id = ? AND course_id = ? AND completed = ?", userID, courseID, true).
		Count(&completed).Error; err != nil {
		return 0, err
	}
	return float64(completed) / float64(total), nil
}

// AverageGrade 测验与作业得分合并后的平均分，无数据时返回 nil
func (r *AnalyticsRepository) AverageGrade(userID, courseID uint) (*float64, error) {
	quizzes, err := r.QuizPercentages(userID, courseID)
	if err != nil {
		return nil, err
	}
	assignments, err := r.AssignmentPercentages(userID, courseID)
	if err != nil {
		return nil, err
	}

	all := append(quizzes, assignments...)
	if len(all) == 0 {
		return nil, nil
	}

	var sum float64
	for _, s := range all {
		sum += s
	}
	avg := sum / float64(len(all))
	return &avg, nil
}

func (r *AnalyticsRepository) CourseQuizAverage(courseID uint) (float64, error) {
	var avg *float64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("course_id = ? AND submitted_at IS NOT NULL", courseID).
		Select("AVG(score)").
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}

func (r *AnalyticsRepository) CourseAssignmentAverage(courseID uint) (float64, error) {
	var avg *float64
	err := r.DB.Model(&model.AssignmentSubmission{}).
		Where("course_id = ? AND grade IS NOT NULL", courseID).
		Select("AVG(grade)").
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}

// CourseCompletionRatio 课程整体课时完成度 = 已完成进度数 / (active学生数 × 课时数)
func (r *AnalyticsRepository) CourseCompletionRatio(courseID uint) (float64, error) {
	var lessons int64
	if err := r.DB.Model(&model.Lesson{}).Where("course_id = ?", courseID).Count(&lessons).Error; err != nil {
		return 0, err
	}

	var students int64
	if err := r.DB.Model(&model.Enrollment{}).
		Where("course_id = ? AND status = ?", courseID, model.EnrollmentActive).
		Count(&students).Error; err != nil {
		return 0, err
	}

	if lessons == 0 || students == 0 {
		return 0, nil
	}

	var completed int64
	if err := r.DB.Model(&model.LessonProgress{}).
		Where("course_id = ? AND completed = ?", courseID, true).
		Count(&completed).Error; err != nil {
		return 0, err
	}
	return float64(completed) / float64(lessons*students), nil
}

func (r *AnalyticsRepository) StudentOverview(userID uint) (*model.StudentOverview, error) {
	overview := &model.StudentOverview{}

	if err := r.DB.Model(&model.Enrollment{}).
		Where("user_id = ? AND status = ?", userID, model.EnrollmentActive).
		Count(&overview.EnrolledCourses).Error; err != nil {
		return nil, err
	}

	if err := r.DB.Model(&model.Enrollment{}).
		Where("user_id = ? AND status = ?", userID, model.EnrollmentCompleted).
		Count(&overview.CompletedCourses).Error; err != nil {
		return nil, err
	}

	var quizAvg *float64
	if err := r.DB.Model(&model.QuizAttempt{}).
		Where("user_id = ? AND submitted_at IS NOT NULL", userID).
		Select("AVG(score)").
		Scan(&quizAvg).Error; err != nil {
		return nil, err
	}
	if quizAvg != nil {
		overview.AverageQuizScore = *quizAvg
	}

	var asgAvg *float64
	if err := r.DB.Model(&model.AssignmentSubmission{}).
		Where("user_id = ? AND grade IS NOT NULL", userID).
		Select("AVG(grade)").
		Scan(&asgAvg).Error; err != nil {
		return nil, err
	}
	if asgAvg != nil {
		overview.AverageAssignment = *asgAvg
	}

	if err := r.DB.Model(&model.LessonProgress{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&overview.LessonsCompleted).Error; err != nil {
		return nil, err
	}

	return overview, nil
}

func (r *AnalyticsRepository) CountQuizAttempts(userID, courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("user_id = ? AND course_id = ? AND submitted_at IS NOT NULL", userID, courseID).
		Count(&count).Error
	return count, err
}

func (r *AnalyticsRepository) CountSubmissions(userID, courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.AssignmentSubmission{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count, err
}
