package service

import (
	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/repository"
	"edu_lms_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type AnnouncementService struct {
	AnnouncementRepo *repository.AnnouncementRepository
	CourseRepo       *repository.CourseRepository
	EnrollmentRepo   *repository.EnrollmentRepository
}

func NewAnnouncementService(announcementRepo *repository.AnnouncementRepository, courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository) *AnnouncementService {
	return &AnnouncementService{
		AnnouncementRepo: announcementRepo,
		CourseRepo:       courseRepo,
		EnrollmentRepo:   enrollmentRepo,
	}
}

func (s *AnnouncementService) Create(requesterID uint, role model.UserRole, announcement *model.Announcement) error {
	if err := s.authorizeTeacher(requesterID, role, announcement.CourseID); err != nil {
		return err
	}
	announcement.AuthorID = requesterID
	return s.AnnouncementRepo.Create(announcement)
}

func (s *AnnouncementService) ListByCourse(userID uint, role model.UserRole, courseID uint, limit int) ([]model.Announcement, error) {
	if role != model.Admin {
		course, err := s.CourseRepo.FindByID(courseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrCourseNotFound
			}
			return nil, err
		}
		if course.TeacherID != userID {
			active, err := s.EnrollmentRepo.IsActive(userID, courseID)
			if err != nil {
				return nil, err
			}
			if !active {
				return nil, util.ErrNotEnrolled
			}
		}
	}
	return s.AnnouncementRepo.ListByCourse(courseID, limit)
}

func (s *AnnouncementService) Update(requesterID uint, role model.UserRole, announcementID uint, updates *model.Announcement) (*model.Announcement, error) {
	announcement, err := s.AnnouncementRepo.FindByID(announcementID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeTeacher(requesterID, role, announcement.CourseID); err != nil {
		return nil, err
	}

	if updates.Title != "" {
		announcement.Title = updates.Title
	}
	if updates.Body != "" {
		announcement.Body = updates.Body
	}
	announcement.Pinned = updates.Pinned

	if err := s.AnnouncementRepo.Update(announcement); err != nil {
		return nil, err
	}
	return announcement, nil
}

func (s *AnnouncementService) Delete(requesterID uint, role model.UserRole, announcementID uint) error {
	announcement, err := s.AnnouncementRepo.FindByID(announcementID)
	if err != nil {
		return err
	}
	if err := s.authorizeTeacher(requesterID, role, announcement.CourseID); err != nil {
		return err
	}
	return s.AnnouncementRepo.Delete(announcementID)
}

func (s *AnnouncementService) authorizeTeacher(requesterID uint, role model.UserRole, courseID uint) error {
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
