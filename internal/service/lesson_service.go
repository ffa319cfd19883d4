package service

import (
	"context"
	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/repository"
	"edu_lms_backend/internal/util"
	"edu_lms_backend/pkg/logger"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// progressCacheTTL 课程进度比例的缓存时间
const progressCacheTTL = 24 * time.Hour

type LessonService struct {
	LessonRepo     *repository.LessonRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Storage        *StorageService
	Redis          *redis.Client
}

func NewLessonService(lessonRepo *repository.LessonRepository, courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository, storage *StorageService, rdb *redis.Client) *LessonService {
	return &LessonService{
		LessonRepo:     lessonRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		Storage:        storage,
		Redis:          rdb,
	}
}

func (s *LessonService) Create(requesterID uint, role model.UserRole, lesson *model.Lesson) error {
	if err := s.authorizeTeacher(requesterID, role, lesson.CourseID); err != nil {
		return err
	}
	return s.LessonRepo.Create(lesson)
}

func (s *LessonService) Get(userID uint, role model.UserRole, lessonID uint) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeViewer(userID, role, lesson.CourseID); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) ListByCourse(userID uint, role model.UserRole, courseID uint) ([]model.Lesson, error) {
	if err := s.authorizeViewer(userID, role, courseID); err != nil {
		return nil, err
	}
	return s.LessonRepo.ListByCourse(courseID)
}

func (s *LessonService) Update(requesterID uint, role model.UserRole, lessonID uint, updates *model.Lesson) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeTeacher(requesterID, role, lesson.CourseID); err != nil {
		return nil, err
	}

	if updates.Title != "" {
		lesson.Title = updates.Title
	}
	if updates.Content != "" {
		lesson.Content = updates.Content
	}
	if updates.Position != 0 {
		lesson.Position = updates.Position
	}
	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) Delete(requesterID uint, role model.UserRole, lessonID uint) error {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		return err
	}
	if err := s.authorizeTeacher(requesterID, role, lesson.CourseID); err != nil {
		return err
	}
	return s.LessonRepo.Delete(lessonID)
}

// UploadVideo 保存课时视频并用 ffmpeg 抓取封面帧
func (s *LessonService) UploadVideo(ctx context.Context, requesterID uint, role model.UserRole, lessonID uint, file *multipart.FileHeader) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeTeacher(requesterID, role, lesson.CourseID); err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{"video/"})
	if err != nil {
		return nil, err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	// 先落到临时文件，probe 和截帧都要本地路径
	tmp, err := os.CreateTemp("", "lesson-video-*"+filepath.Ext(file.Filename))
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return nil, err
	}
	tmp.Close()

	videoName := ObjectName("lessons/videos", file.Filename)
	videoURL, err := s.Storage.UploadFile(ctx, videoName, tmp.Name(), mimeType)
	if err != nil {
		return nil, err
	}

	thumbPath := tmp.Name() + ".jpg"
	thumbURL := ""
	if err := util.GenerateThumbnail(tmp.Name(), thumbPath, "00:00:01"); err != nil {
		// 截帧失败不阻塞上传
		logger.Log.Warn("lesson thumbnail generation failed",
			zap.Uint("lessonId", lessonID),
			zap.Error(err))
	} else {
		defer os.Remove(thumbPath)
		thumbName := ObjectName("lessons/thumbnails", "thumb.jpg")
		thumbURL, err = s.Storage.UploadFile(ctx, thumbName, thumbPath, "image/jpeg")
		if err != nil {
			return nil, err
		}
	}

	lesson.VideoURL = videoURL
	if thumbURL != "" {
		lesson.ThumbnailURL = thumbURL
	}
	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// MarkComplete 学生标记课时完成，并使课程进度缓存失效
func (s *LessonService) MarkComplete(ctx context.Context, userID, lessonID uint) (*model.LessonProgress, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		return nil, err
	}

	active, err := s.EnrollmentRepo.IsActive(userID, lesson.CourseID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, util.ErrNotEnrolled
	}

	now := time.Now()
	progress := &model.LessonProgress{
		UserID:      userID,
		LessonID:    lessonID,
		CourseID:    lesson.CourseID,
		Completed:   true,
		CompletedAt: &now,
	}
	if err := s.LessonRepo.UpsertProgress(progress); err != nil {
		return nil, err
	}

	if s.Redis != nil {
		s.Redis.Del(ctx, progressCacheKey(userID, lesson.CourseID))
	}
	return progress, nil
}

// CourseProgress 学生在课程内的完成比例，Redis 缓存 24 小时
func (s *LessonService) CourseProgress(ctx context.Context, userID, courseID uint) (float64, error) {
	key := progressCacheKey(userID, courseID)
	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, key).Float64()
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("progress cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	total, err := s.LessonRepo.CountByCourse(courseID)
	if err != nil {
		return 0, err
	}

	ratio := 0.0
	if total > 0 {
		completed, err := s.LessonRepo.CountCompleted(userID, courseID)
		if err != nil {
			return 0, err
		}
		ratio = float64(completed) / float64(total)
	}

	if s.Redis != nil {
		s.Redis.Set(ctx, key, ratio, progressCacheTTL)
	}
	return ratio, nil
}

func (s *LessonService) ListProgress(userID, courseID uint) ([]model.LessonProgress, error) {
	return s.LessonRepo.ListProgress(userID, courseID)
}

func progressCacheKey(userID, courseID uint) string {
	return fmt.Sprintf("lms:progress:%d:%d", userID, courseID)
}

func (s *LessonService) authorizeTeacher(requesterID uint, role model.UserRole, courseID uint) error {
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

// authorizeViewer 教师看自己的课，学生必须 active 注册
func (s *LessonService) authorizeViewer(userID uint, role model.UserRole, courseID uint) error {
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
