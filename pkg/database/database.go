package database

import (
	"edu_lms_backend/internal/config"
	"edu_lms_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Enrollment{},
		&model.Lesson{},
		&model.LessonProgress{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.QuizAnswer{},
		&model.QuizAttempt{},
		&model.QuizResponse{},
		&model.Assignment{},
		&model.AssignmentSubmission{},
		&model.Announcement{},
		&model.Prediction{},
		&model.MentorshipPairing{},
		&model.MentorRequest{},
		&model.ChatConversation{},
		&model.ChatMessage{},
		&model.DirectMessage{},
		&model.CalendarEvent{},
		&model.UserSetting{},
		&model.HelpArticle{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认帮助文档（首次启动时插入）
	var count int64
	db.Model(&model.HelpArticle{}).Count(&count)
	if count == 0 {
		defaultArticles := []model.HelpArticle{
			{Title: "如何加入课程", Body: "在课程列表页点击\"加入课程\"即可。退出课程会保留你的历史成绩。", Category: "courses", Position: 1, Published: true},
			{Title: "测验如何计分", Body: "测验按答对题数占总题数的比例折算成百分制，提交后立即出分。", Category: "quizzes", Position: 2, Published: true},
			{Title: "什么是学习伙伴配对", Body: "系统会根据成绩预测，把课程内成绩靠前的同学与需要帮助的同学配对互助。你也可以主动发起求助申请。", Category: "mentoring", Position: 3, Published: true},
			{Title: "How do I talk to the assistant", Body: "Open the chat panel and ask in plain language, e.g. \"show my grades for course 3\".", Category: "chatbot", Position: 4, Published: true},
		}
		for _, a := range defaultArticles {
			db.Create(&a)
		}
	}

	return db, nil
}
