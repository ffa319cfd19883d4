package service

import (
	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/repository"
	"edu_lms_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type AnalyticsService struct {
	AnalyticsRepo   *repository.AnalyticsRepository
	PredictionRepo  *repository.PredictionRepository
	MentorshipRepo  *repository.MentorshipRepository
	CourseRepo      *repository.CourseRepository
	EnrollmentRepo  *repository.EnrollmentRepository
}

func NewAnalyticsService(analyticsRepo *repository.AnalyticsRepository, predictionRepo *repository.PredictionRepository, mentorshipRepo *repository.MentorshipRepository, courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository) *AnalyticsService {
	return &AnalyticsService{
		AnalyticsRepo:  analyticsRepo,
		PredictionRepo: predictionRepo,
		MentorshipRepo: mentorshipRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

// CourseAnalytics 教师视角的课程聚合指标，等级分布来自每个学生的最新预测
func (s *AnalyticsService) CourseAnalytics(requesterID uint, role model.UserRole, courseID uint) (*model.CourseAnalytics, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if role != model.Admin && course.TeacherID != requesterID {
		return nil, util.ErrPermissionDenied
	}

	analytics := &model.CourseAnalytics{CourseID: courseID}

	analytics.ActiveEnrollments, err = s.EnrollmentRepo.CountActiveByCourse(courseID)
	if err != nil {
		return nil, err
	}
	analytics.AverageQuizScore, err = s.AnalyticsRepo.CourseQuizAverage(courseID)
	if err != nil {
		return nil, err
	}
	analytics.AverageAssignment, err = s.AnalyticsRepo.CourseAssignmentAverage(courseID)
	if err != nil {
		return nil, err
	}
	analytics.CompletionRatio, err = s.AnalyticsRepo.CourseCompletionRatio(courseID)
	if err != nil {
		return nil, err
	}

	predictions, err := s.PredictionRepo.ListLatestByCourse(courseID)
	if err != nil {
		return nil, err
	}
	distribution := make(map[model.PerformanceLevel]int)
	for _, p := range predictions {
		distribution[p.PerformanceLevel]++
	}
	analytics.LevelDistribution = distribution

	analytics.PendingMentorReqs, err = s.MentorshipRepo.CountPendingByCourse(courseID)
	if err != nil {
		return nil, err
	}
	analytics.ActivePairings, err = s.MentorshipRepo.CountActiveByCourse(courseID)
	if err != nil {
		return nil, err
	}
	return analytics, nil
}

// MyOverview 学生跨课程的学习总览
func (s *AnalyticsService) MyOverview(userID uint) (*model.StudentOverview, error) {
	return s.AnalyticsRepo.StudentOverview(userID)
}
