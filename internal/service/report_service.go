package service

import (
	"context"
	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/repository"
	"edu_lms_backend/internal/util"
	"edu_lms_backend/pkg/logger"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// reportCacheTTL 报表聚合结果的缓存时间
const reportCacheTTL = 10 * time.Minute

type ReportService struct {
	Grades         *GradeService
	AnalyticsRepo  *repository.AnalyticsRepository
	LessonRepo     *repository.LessonRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Redis          *redis.Client
}

func NewReportService(grades *GradeService, analyticsRepo *repository.AnalyticsRepository, lessonRepo *repository.LessonRepository, courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository, rdb *redis.Client) *ReportService {
	return &ReportService{
		Grades:         grades,
		AnalyticsRepo:  analyticsRepo,
		LessonRepo:     lessonRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		Redis:          rdb,
	}
}

// GradeReport 课程成绩报表，Redis 缓存 10 分钟
func (s *ReportService) GradeReport(ctx context.Context, requesterID uint, role model.UserRole, courseID uint) ([]model.GradebookRow, error) {
	key := fmt.Sprintf("lms:report:grades:%d", courseID)

	var cached []model.GradebookRow
	if s.cacheGet(ctx, key, &cached) {
		// 缓存命中也要过权限
		if err := s.authorizeTeacher(requesterID, role, courseID); err != nil {
			return nil, err
		}
		return cached, nil
	}

	rows, err := s.Grades.Gradebook(requesterID, role, courseID)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, rows)
	return rows, nil
}

// EngagementReport 课程参与度报表：每个学生的课时完成、作答与最近活动
func (s *ReportService) EngagementReport(ctx context.Context, requesterID uint, role model.UserRole, courseID uint) ([]model.EngagementRow, error) {
	if err := s.authorizeTeacher(requesterID, role, courseID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("lms:report:engagement:%d", courseID)
	var cached []model.EngagementRow
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	totalLessons, err := s.LessonRepo.CountByCourse(courseID)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.EnrollmentRepo.ListActiveByCourse(courseID)
	if err != nil {
		return nil, err
	}

	rows := make([]model.EngagementRow, 0, len(enrollments))
	for _, enrollment := range enrollments {
		row := model.EngagementRow{
			UserID:       enrollment.UserID,
			Name:         enrollment.User.Name,
			LessonsTotal: totalLessons,
		}

		row.LessonsCompleted, err = s.LessonRepo.CountCompleted(enrollment.UserID, courseID)
		if err != nil {
			return nil, err
		}
		row.QuizAttempts, err = s.AnalyticsRepo.CountQuizAttempts(enrollment.UserID, courseID)
		if err != nil {
			return nil, err
		}
		row.Submissions, err = s.AnalyticsRepo.CountSubmissions(enrollment.UserID, courseID)
		if err != nil {
			return nil, err
		}
		row.LastActivity, err = s.LessonRepo.LastCompletedAt(enrollment.UserID, courseID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	s.cacheSet(ctx, key, rows)
	return rows, nil
}

func (s *ReportService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.Redis == nil {
		return false
	}
	raw, err := s.Redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (s *ReportService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.Redis == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	s.Redis.Set(ctx, key, raw, reportCacheTTL)
}

func (s *ReportService) authorizeTeacher(requesterID uint, role model.UserRole, courseID uint) error {
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
