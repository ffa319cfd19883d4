package repository

import (
	"edu_lms_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// BotDataRepository 机器人动态应答的专用查询集合。
// 每个数据库驱动意图对应一两个只读查询，查询失败由服务层降级处理。
type BotDataRepository struct {
	DB *gorm.DB
}

func NewBotDataRepository(db *gorm.DB) *BotDataRepository {
	return &BotDataRepository{DB: db}
}

func (r *BotDataRepository) ListCourses(limit int) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("published = ?", true).Order("id ASC").Limit(limit).Find(&courses).Error
	return courses, err
}

func (r *BotDataRepository) CourseByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

func (r *BotDataRepository) AssignmentsByCourse(courseID uint, limit int) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.DB.Where("course_id = ?", courseID).Order("due_date ASC").Limit(limit).Find(&assignments).Error
	return assignments, err
}

func (r *BotDataRepository) AnnouncementsByCourse(courseID uint, limit int) ([]model.Announcement, error) {
	var announcements []model.Announcement
	err := r.DB.Where("course_id = ?", courseID).
		Order("pinned DESC, created_at DESC").
		Limit(limit).
		Find(&announcements).Error
	return announcements, err
}

func (r *BotDataRepository) LessonsByCourse(courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("course_id = ?", courseID).Order("position ASC, id ASC").Find(&lessons).Error
	return lessons, err
}

func (r *BotDataRepository) QuizzesByCourse(courseID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("course_id = ? AND published = ?", courseID, true).Order("id ASC").Find(&quizzes).Error
	return quizzes, err
}

func (r *BotDataRepository) ActiveEnrollmentCount(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("course_id = ? AND status = ?", courseID, model.EnrollmentActive).
		Count(&count).Error
	return count, err
}

func (r *BotDataRepository) UserQuizAttempts(userID, courseID uint, limit int) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("user_id = ? AND course_id = ? AND submitted_at IS NOT NULL", userID, courseID).
		Order("id DESC").
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}

// GradeAverages 测验/作业平均分，无数据返回 nil
func (r *BotDataRepository) GradeAverages(userID, courseID uint) (*float64, *float64, error) {
	var quizAvg *float64
	if err := r.DB.Model(&model.QuizAttempt{}).
		Where("user_id = ? AND course_id = ? AND submitted_at IS NOT NULL", userID, courseID).
		Select("AVG(score)").
		Scan(&quizAvg).Error; err != nil {
		return nil, nil, err
	}

	var asgAvg *float64
	if err := r.DB.Model(&model.AssignmentSubmission{}).
		Where("user_id = ? AND course_id = ? AND grade IS NOT NULL", userID, courseID).
		Select("AVG(grade)").
		Scan(&asgAvg).Error; err != nil {
		return nil, nil, err
	}
	return quizAvg, asgAvg, nil
}

func (r *BotDataRepository) LatestPrediction(userID, courseID uint) (*model.Prediction, error) {
	var prediction model.Prediction
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("prediction_date DESC, id DESC").
		First(&prediction).Error
	return &prediction, err
}

func (r *BotDataRepository) UpcomingEvents(userID uint, limit int) ([]model.CalendarEvent, error) {
	var events []model.CalendarEvent
	err := r.DB.Where("user_id = ? AND starts_at >= ?", userID, time.Now()).
		Order("starts_at ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *BotDataRepository) PendingMentorRequests(userID uint) ([]model.MentorRequest, error) {
	var requests []model.MentorRequest
	err := r.DB.Where("student_id = ? AND status = ?", userID, model.RequestPending).
		Order("id DESC").
		Find(&requests).Error
	return requests, err
}

// ProgressCounts 课时完成数与总数
func (r *BotDataRepository) ProgressCounts(userID, courseID uint) (int64, int64, error) {
	var total int64
	if err := r.DB.Model(&model.Lesson{}).Where("course_id = ?", courseID).Count(&total).Error; err != nil {
		return 0, 0, err
	}

	var completed int64
	if err := r.DB.Model(&model.LessonProgress{}).
		Where("user_id = ? AND course_id = ? AND completed = ?", userID, courseID, true).
		Count(&completed).Error; err != nil {
		return 0, 0, err
	}
	return completed, total, nil
}
