package service

import (
	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/repository"
	"edu_lms_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewCourseService(courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

func (s *CourseService) Create(teacherID uint, course *model.Course) error {
	course.TeacherID = teacherID
	return s.CourseRepo.Create(course)
}

func (s *CourseService) GetByID(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) ListPublished(category string, page, limit int) ([]model.Course, int64, error) {
	return s.CourseRepo.ListPublished(category, page, limit)
}

func (s *CourseService) ListByTeacher(teacherID uint) ([]model.Course, error) {
	return s.CourseRepo.ListByTeacher(teacherID)
}

func (s *CourseService) Update(requesterID uint, role model.UserRole, courseID uint, updates *model.Course) (*model.Course, error) {
	course, err := s.authorizeOwner(requesterID, role, courseID)
	if err != nil {
		return nil, err
	}

	if updates.Title != "" {
		course.Title = updates.Title
	}
	if updates.Description != "" {
		course.Description = updates.Description
	}
	if updates.Category != "" {
		course.Category = updates.Category
	}
	if updates.Thumbnail != "" {
		course.Thumbnail = updates.Thumbnail
	}
	course.Published = updates.Published

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Delete(requesterID uint, role model.UserRole, courseID uint) error {
	if _, err := s.authorizeOwner(requesterID, role, courseID); err != nil {
		return err
	}
	return s.CourseRepo.Delete(courseID)
}

// Enroll 学生注册已发布课程，重复注册时恢复 dropped 记录而不是新建
func (s *CourseService) Enroll(userID, courseID uint) (*model.Enrollment, error) {
	course, err := s.GetByID(courseID)
	if err != nil {
		return nil, err
	}
	if !course.Published {
		return nil, util.ErrCourseNotFound
	}

	existing, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID)
	if err == nil {
		if existing.Status == model.EnrollmentDropped {
			if err := s.EnrollmentRepo.UpdateStatus(existing.ID, model.EnrollmentActive); err != nil {
				return nil, err
			}
			existing.Status = model.EnrollmentActive
			return existing, nil
		}
		return nil, util.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := &model.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   model.EnrollmentActive,
	}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *CourseService) Drop(userID, courseID uint) error {
	enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotEnrolled
		}
		return err
	}
	if enrollment.Status != model.EnrollmentActive {
		return util.ErrNotEnrolled
	}
	return s.EnrollmentRepo.UpdateStatus(enrollment.ID, model.EnrollmentDropped)
}

func (s *CourseService) CompleteEnrollment(requesterID uint, role model.UserRole, courseID, userID uint) error {
	if _, err := s.authorizeOwner(requesterID, role, courseID); err != nil {
		return err
	}

	enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotEnrolled
		}
		return err
	}
	return s.EnrollmentRepo.UpdateStatus(enrollment.ID, model.EnrollmentCompleted)
}

func (s *CourseService) ListEnrollments(requesterID uint, role model.UserRole, courseID uint) ([]model.Enrollment, error) {
	if _, err := s.authorizeOwner(requesterID, role, courseID); err != nil {
		return nil, err
	}
	return s.EnrollmentRepo.ListActiveByCourse(courseID)
}

func (s *CourseService) ListMyEnrollments(userID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByUser(userID)
}

func (s *CourseService) authorizeOwner(requesterID uint, role model.UserRole, courseID uint) (*model.Course, error) {
	course, err := s.GetByID(courseID)
	if err != nil {
		return nil, err
	}
	if role != model.Admin && course.TeacherID != requesterID {
		return nil, util.ErrPermissionDenied
	}
	return course, nil
}
