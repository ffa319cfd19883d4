package repository

import (
	"edu_lms_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *EnrollmentRepository) FindByUserAndCourse(userID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	return &enrollment, err
}

// ListActiveByCourse 课程内所有 active 注册，带学生信息
func (r *EnrollmentRepository) ListActiveByCourse(courseID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("User").
		Where("course_id = ? AND status = ?", courseID, model.EnrollmentActive).
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) ListByUser(userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("Course").Preload("Course.Teacher").
		Where("user_id = ?", userID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) UpdateStatus(id uint, status model.EnrollmentStatus) error {
	updates := map[string]interface{}{"status": status}
	if status == model.EnrollmentCompleted {
		now := time.Now()
		updates["completed_at"] = &now
	}
	return r.DB.Model(&model.Enrollment{}).Where("id = ?", id).Updates(updates).Error
}

func (r *EnrollmentRepository) IsActive(userID, courseID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, model.EnrollmentActive).
		Count(&count).Error
	return count > 0, err
}

func (r *EnrollmentRepository) CountActiveByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("course_id = ? AND status = ?", courseID, model.EnrollmentActive).
		Count(&count).Error
	return count, err
}

// EnrolledCourseIDs 用户当前 active 注册的课程ID，用于日历/公告可见性过滤
func (r *EnrollmentRepository) EnrolledCourseIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Enrollment{}).
		Where("user_id = ? AND status = ?", userID, model.EnrollmentActive).
		Pluck("course_id", &ids).Error
	return ids, err
}
