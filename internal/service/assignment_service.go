package service

import (
	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/repository"
	"edu_lms_backend/internal/util"
	"edu_lms_backend/pkg/logger"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AssignmentService struct {
	AssignmentRepo *repository.AssignmentRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	CalendarRepo   *repository.CalendarRepository
}

func NewAssignmentService(assignmentRepo *repository.AssignmentRepository, courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository, calendarRepo *repository.CalendarRepository) *AssignmentService {
	return &AssignmentService{
		AssignmentRepo: assignmentRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		CalendarRepo:   calendarRepo,
	}
}

// Create 建作业的同时在课程日历上挂一条截止事件
func (s *AssignmentService) Create(requesterID uint, role model.UserRole, assignment *model.Assignment) error {
	if err := s.authorizeTeacher(requesterID, role, assignment.CourseID); err != nil {
		return err
	}
	if err := s.AssignmentRepo.Create(assignment); err != nil {
		return err
	}

	courseID := assignment.CourseID
	event := &model.CalendarEvent{
		UserID:      requesterID,
		CourseID:    &courseID,
		Title:       assignment.Title + " due",
		Description: assignment.Description,
		EventType:   model.EventAssignmentDue,
		StartsAt:    assignment.DueDate,
	}
	if err := s.CalendarRepo.Create(event); err != nil {
		// 日历事件失败不回滚作业
		logger.Log.Warn("assignment due event not created",
			zap.Uint("assignmentId", assignment.ID),
			zap.Error(err))
	}
	return nil
}

func (s *AssignmentService) Get(userID uint, role model.UserRole, assignmentID uint) (*model.Assignment, error) {
	assignment, err := s.AssignmentRepo.FindByID(assignmentID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeViewer(userID, role, assignment.CourseID); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) ListByCourse(userID uint, role model.UserRole, courseID uint) ([]model.Assignment, error) {
	if err := s.authorizeViewer(userID, role, courseID); err != nil {
		return nil, err
	}
	return s.AssignmentRepo.ListByCourse(courseID)
}

func (s *AssignmentService) Update(requesterID uint, role model.UserRole, assignmentID uint, updates *model.Assignment) (*model.Assignment, error) {
	assignment, err := s.AssignmentRepo.FindByID(assignmentID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeTeacher(requesterID, role, assignment.CourseID); err != nil {
		return nil, err
	}

	if updates.Title != "" {
		assignment.Title = updates.Title
	}
	if updates.Description != "" {
		assignment.Description = updates.Description
	}
	if !updates.DueDate.IsZero() {
		assignment.DueDate = updates.DueDate
	}
	if updates.MaxPoints != 0 {
		assignment.MaxPoints = updates.MaxPoints
	}
	if err := s.AssignmentRepo.Update(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) Delete(requesterID uint, role model.UserRole, assignmentID uint) error {
	assignment, err := s.AssignmentRepo.FindByID(assignmentID)
	if err != nil {
		return err
	}
	if err := s.authorizeTeacher(requesterID, role, assignment.CourseID); err != nil {
		return err
	}
	return s.AssignmentRepo.Delete(assignmentID)
}

// Submit 学生提交，同一作业重复提交覆盖旧内容并清空已有评分
func (s *AssignmentService) Submit(userID, assignmentID uint, content, attachmentURL string) (*model.AssignmentSubmission, error) {
	assignment, err := s.AssignmentRepo.FindByID(assignmentID)
	if err != nil {
		return nil, err
	}

	active, err := s.EnrollmentRepo.IsActive(userID, assignment.CourseID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, util.ErrNotEnrolled
	}

	existing, err := s.AssignmentRepo.FindSubmissionByUser(assignmentID, userID)
	if err == nil {
		existing.Content = content
		existing.AttachmentURL = attachmentURL
		existing.Grade = nil
		existing.Feedback = ""
		existing.GradedAt = nil
		existing.GraderID = nil
		if err := s.AssignmentRepo.UpdateSubmission(existing); err != nil {
			return nil, err
		}
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	submission := &model.AssignmentSubmission{
		AssignmentID:  assignmentID,
		UserID:        userID,
		CourseID:      assignment.CourseID,
		Content:       content,
		AttachmentURL: attachmentURL,
	}
	if err := s.AssignmentRepo.CreateSubmission(submission); err != nil {
		return nil, err
	}
	return submission, nil
}

// Grade 教师评分，grade 取 0 到 100
func (s *AssignmentService) Grade(requesterID uint, role model.UserRole, submissionID uint, grade float64, feedback string) (*model.AssignmentSubmission, error) {
	if grade < 0 || grade > 100 {
		return nil, errors.New("grade must be between 0 and 100")
	}

	submission, err := s.AssignmentRepo.FindSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeTeacher(requesterID, role, submission.CourseID); err != nil {
		return nil, err
	}

	if err := s.AssignmentRepo.GradeSubmission(submissionID, grade, feedback, requesterID); err != nil {
		return nil, err
	}
	return s.AssignmentRepo.FindSubmission(submissionID)
}

func (s *AssignmentService) ListSubmissions(requesterID uint, role model.UserRole, assignmentID uint) ([]model.AssignmentSubmission, error) {
	assignment, err := s.AssignmentRepo.FindByID(assignmentID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeTeacher(requesterID, role, assignment.CourseID); err != nil {
		return nil, err
	}
	return s.AssignmentRepo.ListSubmissions(assignmentID)
}

func (s *AssignmentService) GetMySubmission(userID, assignmentID uint) (*model.AssignmentSubmission, error) {
	return s.AssignmentRepo.FindSubmissionByUser(assignmentID, userID)
}

func (s *AssignmentService) authorizeTeacher(requesterID uint, role model.UserRole, courseID uint) error {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}
	if role != model.Admin && course.TeacherID != requesterID {
		return util.ErrPermissionDenied
	}
	return nil
}

func (s *AssignmentService) authorizeViewer(userID uint, role model.UserRole, courseID uint) error {
	if role == model.Admin {
		return nil
	}

	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCourseNotFound
		}
		return err
	}
	if course.TeacherID == userID {
		return nil
	}

	active, err := s.EnrollmentRepo.IsActive(userID, courseID)
	if err != nil {
		return err
	}
	if !active {
		return util.ErrNotEnrolled
	}
	return nil
}
