package service

import (
	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/repository"
	"edu_lms_backend/internal/util"
	"time"
)

type CalendarService struct {
	CalendarRepo   *repository.CalendarRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewCalendarService(calendarRepo *repository.CalendarRepository, enrollmentRepo *repository.EnrollmentRepository) *CalendarService {
	return &CalendarService{
		CalendarRepo:   calendarRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

func (s *CalendarService) Create(userID uint, event *model.CalendarEvent) error {
	event.UserID = userID
	if event.EventType == "" {
		event.EventType = model.EventOther
	}
	return s.CalendarRepo.Create(event)
}

// ListVisible 自己的事件加上已注册课程的课程事件，默认窗口前后 30 天
func (s *CalendarService) ListVisible(userID uint, from, to time.Time) ([]model.CalendarEvent, error) {
	if from.IsZero() {
		from = time.Now().AddDate(0, 0, -30)
	}
	if to.IsZero() {
		to = time.Now().AddDate(0, 0, 30)
	}

	courseIDs, err := s.EnrollmentRepo.EnrolledCourseIDs(userID)
	if err != nil {
		return nil, err
	}
	return s.CalendarRepo.ListVisible(userID, courseIDs, from, to)
}

func (s *CalendarService) Update(userID uint, eventID uint, updates *model.CalendarEvent) (*model.CalendarEvent, error) {
	event, err := s.ownedEvent(userID, eventID)
	if err != nil {
		return nil, err
	}

	if updates.Title != "" {
		event.Title = updates.Title
	}
	if updates.Description != "" {
		event.Description = updates.Description
	}
	if updates.EventType != "" {
		event.EventType = updates.EventType
	}
	if !updates.StartsAt.IsZero() {
		event.StartsAt = updates.StartsAt
	}
	if updates.EndsAt != nil {
		event.EndsAt = updates.EndsAt
	}

	if err := s.CalendarRepo.Update(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *CalendarService) Delete(userID, eventID uint) error {
	if _, err := s.ownedEvent(userID, eventID); err != nil {
		return err
	}
	return s.CalendarRepo.Delete(eventID)
}

func (s *CalendarService) ownedEvent(userID, eventID uint) (*model.CalendarEvent, error) {
	event, err := s.CalendarRepo.FindByID(eventID)
	if err != nil {
		return nil, err
	}
	if event.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return event, nil
}
