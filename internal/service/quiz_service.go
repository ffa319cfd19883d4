package service

import (
	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/repository"
	"edu_lms_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type QuizService struct {
	QuizRepo       *repository.QuizRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewQuizService(quizRepo *repository.QuizRepository, courseRepo *repository.CourseRepository, enrollmentRepo *repository.EnrollmentRepository) *QuizService {
	return &QuizService{
		QuizRepo:       quizRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

func (s *QuizService) Create(requesterID uint, role model.UserRole, quiz *model.Quiz) error {
	if err := s.authorizeTeacher(requesterID, role, quiz.CourseID); err != nil {
		return err
	}
	return s.QuizRepo.Create(quiz)
}

// Get 返回带题目的测验。学生视角会剥离选项的 correct 标记。
func (s *QuizService) Get(userID uint, role model.UserRole, quizID uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		return nil, err
	}

	teacherView, err := s.isTeacherView(userID, role, quiz.CourseID)
	if err != nil {
		return nil, err
	}
	if teacherView {
		return quiz, nil
	}

	if !quiz.Published {
		return nil, util.ErrQuizNotPublished
	}
	active, err := s.EnrollmentRepo.IsActive(userID, quiz.CourseID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, util.ErrNotEnrolled
	}

	stripAnswerKeys(quiz)
	return quiz, nil
}

func (s *QuizService) ListByCourse(userID uint, role model.UserRole, courseID uint) ([]model.Quiz, error) {
	teacherView, err := s.isTeacherView(userID, role, courseID)
	if err != nil {
		return nil, err
	}
	if teacherView {
		return s.QuizRepo.ListByCourse(courseID, false)
	}

	active, err := s.EnrollmentRepo.IsActive(userID, courseID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, util.ErrNotEnrolled
	}
	return s.QuizRepo.ListByCourse(courseID, true)
}

func (s *QuizService) Update(requesterID uint, role model.UserRole, quizID uint, updates *model.Quiz) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeTeacher(requesterID, role, quiz.CourseID); err != nil {
		return nil, err
	}

	if updates.Title != "" {
		quiz.Title = updates.Title
	}
	if updates.Description != "" {
		quiz.Description = updates.Description
	}
	if updates.TimeLimitMinutes != 0 {
		quiz.TimeLimitMinutes = updates.TimeLimitMinutes
	}
	quiz.Published = updates.Published

	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) Delete(requesterID uint, role model.UserRole, quizID uint) error {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return err
	}
	if err := s.authorizeTeacher(requesterID, role, quiz.CourseID); err != nil {
		return err
	}
	return s.QuizRepo.Delete(quizID)
}

func (s *QuizService) AddQuestion(requesterID uint, role model.UserRole, quizID uint, question *model.QuizQuestion) error {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return err
	}
	if err := s.authorizeTeacher(requesterID, role, quiz.CourseID); err != nil {
		return err
	}
	question.QuizID = quizID
	return s.QuizRepo.CreateQuestion(question)
}

// StartAttempt 学生开始作答，需课程 active 注册且测验已发布
func (s *QuizService) StartAttempt(userID, quizID uint) (*model.QuizAttempt, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.Published {
		return nil, util.ErrQuizNotPublished
	}

	active, err := s.EnrollmentRepo.IsActive(userID, quiz.CourseID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, util.ErrNotEnrolled
	}

	attempt := &model.QuizAttempt{
		QuizID:   quizID,
		UserID:   userID,
		CourseID: quiz.CourseID,
	}
	if err := s.QuizRepo.CreateAttempt(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// SubmitAttempt 自动判分：score = 答对题数 / 总题数 × 100。
// 每题取一个选项，多余的答案忽略，缺答按错算。
func (s *QuizService) SubmitAttempt(userID, attemptID uint, answers map[uint]uint) (*model.QuizAttempt, error) {
	attempt, err := s.QuizRepo.FindAttempt(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	if attempt.SubmittedAt != nil {
		return nil, util.ErrAttemptSubmitted
	}

	quiz, err := s.QuizRepo.FindByIDWithQuestions(attempt.QuizID)
	if err != nil {
		return nil, err
	}

	score, responses := gradeAttempt(quiz, answers)
	attempt.Score = score
	if err := s.QuizRepo.SubmitAttempt(attempt, responses); err != nil {
		return nil, err
	}
	return attempt, nil
}

func (s *QuizService) ListAttempts(requesterID uint, role model.UserRole, quizID uint) ([]model.QuizAttempt, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeTeacher(requesterID, role, quiz.CourseID); err != nil {
		return nil, err
	}
	return s.QuizRepo.ListAttemptsByQuiz(quizID)
}

func (s *QuizService) ListMyAttempts(userID, courseID uint) ([]model.QuizAttempt, error) {
	return s.QuizRepo.ListAttemptsByUserCourse(userID, courseID)
}

// gradeAttempt 没有题目的测验得 0 分
func gradeAttempt(quiz *model.Quiz, answers map[uint]uint) (float64, []model.QuizResponse) {
	total := len(quiz.Questions)
	if total == 0 {
		return 0, nil
	}

	correct := 0
	responses := make([]model.QuizResponse, 0, total)
	for _, question := range quiz.Questions {
		answerID, answered := answers[question.ID]
		if !answered {
			continue
		}

		isCorrect := false
		for _, option := range question.Answers {
			if option.ID == answerID {
				isCorrect = option.Correct
				break
			}
		}
		if isCorrect {
			correct++
		}
		responses = append(responses, model.QuizResponse{
			QuestionID: question.ID,
			AnswerID:   answerID,
			Correct:    isCorrect,
		})
	}

	return float64(correct) / float64(total) * 100, responses
}

func stripAnswerKeys(quiz *model.Quiz) {
	for i := range quiz.Questions {
		for j := range quiz.Questions[i].Answers {
			quiz.Questions[i].Answers[j].Correct = false
		}
	}
}

func (s *QuizService) isTeacherView(userID uint, role model.UserRole, courseID uint) (bool, error) {
	if role == model.Admin {
		return true, nil
	}
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, util.ErrCourseNotFound
		}
		return false, err
	}
	return course.TeacherID == userID, nil
}

func (s *QuizService) authorizeTeacher(requesterID uint, role model.UserRole, courseID uint) error {
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
