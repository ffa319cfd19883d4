package repository

import (
	"edu_lms_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type MentorshipRepository struct {
	DB *gorm.DB
}

func NewMentorshipRepository(db *gorm.DB) *MentorshipRepository {
	return &MentorshipRepository{DB: db}
}

// ReplacePairings 整体替换课程配对：先把现有 active 配对标记 completed
// 并写入结束时间，再插入新一批，单事务保证原子性。
func (r *MentorshipRepository) ReplacePairings(courseID uint, pairings []model.MentorshipPairing) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(&model.MentorshipPairing{}).
			Where("course_id = ? AND status = ?", courseID, model.PairingActive).
			Updates(map[string]interface{}{
				"status":   model.PairingCompleted,
				"ended_at": &now,
			}).Error; err != nil {
			return err
		}

		for i := range pairings {
			if err := tx.Create(&pairings[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *MentorshipRepository) ListActiveByCourse(courseID uint) ([]model.MentorshipPairing, error) {
	var pairings []model.MentorshipPairing
	err := r.DB.Preload("Mentor").Preload("Mentee").
		Where("course_id = ? AND status = ?", courseID, model.PairingActive).
		Find(&pairings).Error
	return pairings, err
}

func (r *MentorshipRepository) ListActiveByMentor(mentorID uint) ([]model.MentorshipPairing, error) {
	var pairings []model.MentorshipPairing
	err := r.DB.Preload("Mentee").
		Where("mentor_id = ? AND status = ?", mentorID, model.PairingActive).
		Find(&pairings).Error
	return pairings, err
}

func (r *MentorshipRepository) ListActiveByMentee(menteeID uint) ([]model.MentorshipPairing, error) {
	var pairings []model.MentorshipPairing
	err := r.DB.Preload("Mentor").
		Where("mentee_id = ? AND status = ?", menteeID, model.PairingActive).
		Find(&pairings).Error
	return pairings, err
}

func (r *MentorshipRepository) HasActiveMentor(mentorID, courseID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.MentorshipPairing{}).
		Where("mentor_id = ? AND course_id = ? AND status = ?", mentorID, courseID, model.PairingActive).
		Count(&count).Error
	return count > 0, err
}

func (r *MentorshipRepository) CountActiveByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.MentorshipPairing{}).
		Where("course_id = ? AND status = ?", courseID, model.PairingActive).
		Count(&count).Error
	return count, err
}

func (r *MentorshipRepository) CreateRequest(request *model.MentorRequest) error {
	return r.DB.Create(request).Error
}

func (r *MentorshipRepository) FindRequestByID(id uint) (*model.MentorRequest, error) {
	var request model.MentorRequest
	err := r.DB.Preload("Student").First(&request, id).Error
	return &request, err
}

func (r *MentorshipRepository) ListRequestsByStudent(studentID uint) ([]model.MentorRequest, error) {
	var requests []model.MentorRequest
	err := r.DB.Where("student_id = ?", studentID).Order("id DESC").Find(&requests).Error
	return requests, err
}

func (r *MentorshipRepository) ListRequestsByCourse(courseID uint, status model.MentorRequestStatus) ([]model.MentorRequest, error) {
	var requests []model.MentorRequest
	query := r.DB.Preload("Student").Where("course_id = ?", courseID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("id DESC").Find(&requests).Error
	return requests, err
}

func (r *MentorshipRepository) UpdateRequestStatus(id uint, status model.MentorRequestStatus) error {
	return r.DB.Model(&model.MentorRequest{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

// AcceptRequest 标记申请为已接受并建立配对，两步必须同事务落库
func (r *MentorshipRepository) AcceptRequest(request *model.MentorRequest, mentorID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.MentorRequest{}).
			Where("id = ?", request.ID).
			Updates(map[string]interface{}{
				"status":             model.RequestAccepted,
				"assigned_mentor_id": mentorID,
			}).Error; err != nil {
			return err
		}

		pairing := model.MentorshipPairing{
			MentorID:  mentorID,
			MenteeID:  request.StudentID,
			CourseID:  request.CourseID,
			Status:    model.PairingActive,
			StartedAt: time.Now(),
		}
		return tx.Create(&pairing).Error
	})
}

func (r *MentorshipRepository) CountPendingByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.MentorRequest{}).
		Where("course_id = ? AND status = ?", courseID, model.RequestPending).
		Count(&count).Error
	return count, err
}
