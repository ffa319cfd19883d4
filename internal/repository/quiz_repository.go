package repository

import (
	"edu_lms_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.First(&quiz, id).Error
	return &quiz, err
}

// FindByIDWithQuestions 带题目和选项，教师端/判分用
func (r *QuizRepository) FindByIDWithQuestions(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("quiz_questions.position ASC, quiz_questions.id ASC")
	}).Preload("Questions.Answers").First(&quiz, id).Error
	return &quiz, err
}

func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.DB.Save(quiz).Error
}

func (r *QuizRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Quiz{}, id).Error
}

func (r *QuizRepository) ListByCourse(courseID uint, publishedOnly bool) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	query := r.DB.Where("course_id = ?", courseID)
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	err := query.Order("id ASC").Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) CreateQuestion(question *model.QuizQuestion) error {
	return r.DB.Create(question).Error
}

func (r *QuizRepository) UpdateQuestion(question *model.QuizQuestion) error {
	return r.DB.Save(question).Error
}

func (r *QuizRepository) DeleteQuestion(id uint) error {
	return r.DB.Delete(&model.QuizQuestion{}, id).Error
}

func (r *QuizRepository) CreateAnswer(answer *model.QuizAnswer) error {
	return r.DB.Create(answer).Error
}

func (r *QuizRepository) CreateAttempt(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *QuizRepository) FindAttempt(id uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.First(&attempt, id).Error
	return &attempt, err
}

// SubmitAttempt 写入本次作答并更新得分，单事务
func (r *QuizRepository) SubmitAttempt(attempt *model.QuizAttempt, responses []model.QuizResponse) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		attempt.SubmittedAt = &now
		if err := tx.Save(attempt).Error; err != nil {
			return err
		}
		for i := range responses {
			responses[i].AttemptID = attempt.ID
			if err := tx.Create(&responses[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *QuizRepository) ListAttemptsByQuiz(quizID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("quiz_id = ?", quizID).Order("id DESC").Find(&attempts).Error
	return attempts, err
}

func (r *QuizRepository) ListAttemptsByUserCourse(userID, courseID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("user_id = ? AND course_id = ? AND submitted_at IS NOT NULL", userID, courseID).
		Order("id DESC").
		Find(&attempts).Error
	return attempts, err
}
