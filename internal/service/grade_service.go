package service

import (
	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/repository"
	"edu_lms_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type GradeService struct {
	QuizRepo       *repository.QuizRepository
	AssignmentRepo *repository.AssignmentRepository
	AnalyticsRepo  *repository.AnalyticsRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewGradeService(quizRepo *repository.QuizRepository, assignmentRepo *repository.AssignmentRepository, analyticsRepo *repository.AnalyticsRepository, courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository) *GradeService {
	return &GradeService{
		QuizRepo:       quizRepo,
		AssignmentRepo: assignmentRepo,
		AnalyticsRepo:  analyticsRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

// CourseGrades 学生在一门课程内的全部成绩与平均分
func (s *GradeService) CourseGrades(userID, courseID uint) (*model.CourseGrades, error) {
	attempts, err := s.QuizRepo.ListAttemptsByUserCourse(userID, courseID)
	if err != nil {
		return nil, err
	}
	submissions, err := s.AssignmentRepo.ListSubmissionsByUserCourse(userID, courseID)
	if err != nil {
		return nil, err
	}

	grades := &model.CourseGrades{
		CourseID:     courseID,
		QuizAttempts: attempts,
		Submissions:  submissions,
	}

	if len(attempts) > 0 {
		var sum float64
		for _, a := range attempts {
			sum += a.Score
		}
		avg := sum / float64(len(attempts))
		grades.QuizAverage = &avg
	}

	graded := 0
	var gradedSum float64
	for _, sub := range submissions {
		if sub.Grade != nil {
			graded++
			gradedSum += *sub.Grade
		}
	}
	if graded > 0 {
		avg := gradedSum / float64(graded)
		grades.AssignmentAverage = &avg
	}

	overall, err := s.AnalyticsRepo.AverageGrade(userID, courseID)
	if err != nil {
		return nil, err
	}
	grades.OverallAverage = overall
	return grades, nil
}

// Gradebook 教师视角：课程内每个 active 学生的平均分一览
func (s *GradeService) Gradebook(requesterID uint, role model.UserRole, courseID uint) ([]model.GradebookRow, error) {
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

	enrollments, err := s.EnrollmentRepo.ListActiveByCourse(courseID)
	if err != nil {
		return nil, err
	}

	rows := make([]model.GradebookRow, 0, len(enrollments))
	for _, enrollment := range enrollments {
		row := model.GradebookRow{
			UserID: enrollment.UserID,
			Name:   enrollment.User.Name,
			Email:  enrollment.User.Email,
		}

		quizzes, err := s.AnalyticsRepo.QuizPercentages(enrollment.UserID, courseID)
		if err != nil {
			return nil, err
		}
		if len(quizzes) > 0 {
			avg := mean(quizzes)
			row.QuizAverage = &avg
		}

		assignments, err := s.AnalyticsRepo.AssignmentPercentages(enrollment.UserID, courseID)
		if err != nil {
			return nil, err
		}
		if len(assignments) > 0 {
			avg := mean(assignments)
			row.AssignmentAverage = &avg
		}

		overall, err := s.AnalyticsRepo.AverageGrade(enrollment.UserID, courseID)
		if err != nil {
			return nil, err
		}
		row.OverallAverage = overall
		rows = append(rows, row)
	}
	return rows, nil
}
