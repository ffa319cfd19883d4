package repository

import (
	"edu_lms_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Create(assignment *model.Assignment) error {
	return r.DB.Create(assignment).Error
}

func (r *AssignmentRepository) FindByID(id uint) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.DB.First(&assignment, id).Error
	return &assignment, err
}

func (r *AssignmentRepository) Update(assignment *model.Assignment) error {
	return r.DB.Save(assignment).Error
}

func (r *AssignmentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Assignment{}, id).Error
}

func (r *AssignmentRepository) ListByCourse(courseID uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.DB.Where("course_id = ?", courseID).Order("due_date ASC").Find(&assignments).Error
	return assignments, err
}

func (r *AssignmentRepository) CreateSubmission(submission *model.AssignmentSubmission) error {
	return r.DB.Create(submission).Error
}

// UpdateSubmission 重新提交时覆盖内容并清掉旧评分，Save 会写入零值字段
func (r *AssignmentRepository) UpdateSubmission(submission *model.AssignmentSubmission) error {
	return r.DB.Save(submission).Error
}

func (r *AssignmentRepository) FindSubmission(id uint) (*model.AssignmentSubmission, error) {
	var submission model.AssignmentSubmission
	err := r.DB.First(&submission, id).Error
	return &submission, err
}

func (r *AssignmentRepository) FindSubmissionByUser(assignmentID, userID uint) (*model.AssignmentSubmission, error) {
	var submission model.AssignmentSubmission
	err := r.DB.Where("assignment_id = ? AND user_id = ?", assignmentID, userID).First(&submission).Error
	return &submission, err
}

func (r *AssignmentRepository) ListSubmissions(assignmentID uint) ([]model.AssignmentSubmission, error) {
	var submissions []model.AssignmentSubmission
	err := r.DB.Where("assignment_id = ?", assignmentID).Order("submitted_at ASC").Find(&submissions).Error
	return submissions, err
}

func (r *AssignmentRepository) ListSubmissionsByUserCourse(userID, courseID uint) ([]model.AssignmentSubmission, error) {
	var submissions []model.AssignmentSubmission
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}

func (r *AssignmentRepository) GradeSubmission(id uint, grade float64, feedback string, graderID uint) error {
	now := time.Now()
	return r.DB.Model(&model.AssignmentSubmission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"grade":     grade,
			"feedback":  feedback,
			"graded_at": &now,
			"grader_id": graderID,
		}).Error
}
