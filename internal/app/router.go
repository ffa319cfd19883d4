package app

import (
	"edu_lms_backend/docs"
	"edu_lms_backend/internal/config"
	"edu_lms_backend/internal/middleware"
	"edu_lms_backend/internal/model"

	"edu_lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	// 1. 公共路由(无需登录)
	public := router.Group("/api/auth")
	{
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerAccountRoutes(authGroup, c)
		a.registerCourseRoutes(authGroup, c)
		a.registerLearningRoutes(authGroup, c)
		a.registerMentoringRoutes(authGroup, c)
		a.registerChatbotRoutes(authGroup, c)
		a.registerUtilityRoutes(authGroup, c)
	}
}

func (a *App) registerAccountRoutes(rg *gin.RouterGroup, c *controllers) {
	auth := rg.Group("/auth")
	{
		auth.GET("/profile", c.auth.Profile)
		auth.PUT("/profile", c.auth.UpdateProfile)
		auth.PUT("/password", c.auth.ChangePassword)
		auth.POST("/avatar", c.auth.UploadAvatar)
	}

	// 用户管理
	users := rg.Group("/users")
	{
		users.GET("", middleware.RoleMiddleware(model.Admin, model.Teacher), c.user.List)
		users.GET("/:id", middleware.RoleMiddleware(model.Admin, model.Teacher), c.user.Get)

		adminOnly := users.Group("")
		adminOnly.Use(middleware.RoleMiddleware(model.Admin))
		{
			adminOnly.POST("", c.user.Create)
			adminOnly.PUT("/:id/role", c.user.SetRole)
			adminOnly.POST("/:id/reset-password", c.user.ResetPassword)
			adminOnly.PUT("/:id/disable", c.user.SetDisabled)
			adminOnly.DELETE("/:id", c.user.Delete)
		}
	}
}

func (a *App) registerCourseRoutes(rg *gin.RouterGroup, c *controllers) {
	courses := rg.Group("/courses")
	{
		courses.GET("", c.course.List)
		courses.POST("", middleware.RoleMiddleware(model.Teacher, model.Admin), c.course.Create)
		courses.GET("/enrollments", c.course.MyEnrollments)
		courses.GET("/:id", c.course.Get)
		courses.PUT("/:id", middleware.RoleMiddleware(model.Teacher, model.Admin), c.course.Update)
		courses.DELETE("/:id", middleware.RoleMiddleware(model.Teacher, model.Admin), c.course.Delete)
		courses.POST("/:id/enroll", c.course.Enroll)
		courses.DELETE("/:id/enroll", c.course.Drop)
		courses.GET("/:id/students", middleware.RoleMiddleware(model.Teacher, model.Admin), c.course.Students)
		courses.GET("/:id/progress", c.lesson.CourseProgress)

		// 课程内容
		courses.GET("/:id/lessons", c.lesson.ListByCourse)
		courses.POST("/:id/lessons", middleware.RoleMiddleware(model.Teacher, model.Admin), c.lesson.Create)
		courses.GET("/:id/quizzes", c.quiz.ListByCourse)
		courses.POST("/:id/quizzes", middleware.RoleMiddleware(model.Teacher, model.Admin), c.quiz.Create)
		courses.GET("/:id/assignments", c.assignment.ListByCourse)
		courses.POST("/:id/assignments", middleware.RoleMiddleware(model.Teacher, model.Admin), c.assignment.Create)
		courses.GET("/:id/announcements", c.announcement.ListByCourse)
		courses.POST("/:id/announcements", middleware.RoleMiddleware(model.Teacher, model.Admin), c.announcement.Create)
	}

	announcements := rg.Group("/announcements")
	announcements.Use(middleware.RoleMiddleware(model.Teacher, model.Admin))
	{
		announcements.PUT("/:id", c.announcement.Update)
		announcements.DELETE("/:id", c.announcement.Delete)
	}
}

func (a *App) registerLearningRoutes(rg *gin.RouterGroup, c *controllers) {
	lessons := rg.Group("/lessons")
	{
		lessons.GET("/:id", c.lesson.Get)
		lessons.PUT("/:id", middleware.RoleMiddleware(model.Teacher, model.Admin), c.lesson.Update)
		lessons.DELETE("/:id", middleware.RoleMiddleware(model.Teacher, model.Admin), c.lesson.Delete)
		lessons.POST("/:id/video", middleware.RoleMiddleware(model.Teacher, model.Admin), c.lesson.UploadVideo)
		lessons.POST("/:id/complete", c.lesson.Complete)
	}

	quizzes := rg.Group("/quizzes")
	{
		quizzes.GET("/:id", c.quiz.Get)
		quizzes.PUT("/:id", middleware.RoleMiddleware(model.Teacher, model.Admin), c.quiz.Update)
		quizzes.DELETE("/:id", middleware.RoleMiddleware(model.Teacher, model.Admin), c.quiz.Delete)
		quizzes.POST("/:id/questions", middleware.RoleMiddleware(model.Teacher, model.Admin), c.quiz.AddQuestion)
		quizzes.POST("/:id/attempts", c.quiz.StartAttempt)
		quizzes.GET("/:id/attempts", c.quiz.ListAttempts)
		quizzes.PUT("/attempts/:id/submit", c.quiz.SubmitAttempt)
	}

	assignments := rg.Group("/assignments")
	{
		assignments.GET("/:id", c.assignment.Get)
		assignments.PUT("/:id", middleware.RoleMiddleware(model.Teacher, model.Admin), c.assignment.Update)
		assignments.DELETE("/:id", middleware.RoleMiddleware(model.Teacher, model.Admin), c.assignment.Delete)
		assignments.POST("/:id/submissions", c.assignment.Submit)
		assignments.GET("/:id/submissions", middleware.RoleMiddleware(model.Teacher, model.Admin), c.assignment.ListSubmissions)
		assignments.GET("/:id/submissions/me", c.assignment.MySubmission)
		assignments.POST("/attachments", c.assignment.UploadAttachment)
		assignments.PUT("/submissions/:id/grade", middleware.RoleMiddleware(model.Teacher, model.Admin), c.assignment.Grade)
	}

	grades := rg.Group("/grades")
	{
		grades.GET("/courses/:id", c.grade.MyCourseGrades)
		grades.GET("/courses/:id/gradebook", middleware.RoleMiddleware(model.Teacher, model.Admin), c.grade.Gradebook)
	}
}

func (a *App) registerMentoringRoutes(rg *gin.RouterGroup, c *controllers) {
	predictions := rg.Group("/ai-predictions")
	{
		predictions.POST("/courses/:id/generate", middleware.RoleMiddleware(model.Teacher, model.Admin), c.prediction.Generate)
		predictions.GET("/courses/:id", middleware.RoleMiddleware(model.Teacher, model.Admin), c.prediction.ListByCourse)
		predictions.GET("/courses/:id/users/:userId", c.prediction.History)
		predictions.GET("/me/courses/:id", c.prediction.MyPrediction)
	}

	mentoring := rg.Group("/mentoring")
	{
		mentoring.POST("/courses/:id/match", middleware.RoleMiddleware(model.Teacher, model.Admin), c.mentorship.Match)
		mentoring.GET("/courses/:id/pairings", c.mentorship.Pairings)
		mentoring.GET("/mentees", c.mentorship.MyMentees)
		mentoring.GET("/mentors", c.mentorship.MyMentors)
		mentoring.POST("/requests", c.mentorship.CreateRequest)
		mentoring.GET("/requests", c.mentorship.ListRequests)
		mentoring.PUT("/requests/:id/accept", c.mentorship.AcceptRequest)
		mentoring.PUT("/requests/:id/reject", middleware.RoleMiddleware(model.Teacher, model.Admin), c.mentorship.RejectRequest)
		mentoring.PUT("/requests/:id/complete", c.mentorship.CompleteRequest)
	}
}

func (a *App) registerChatbotRoutes(rg *gin.RouterGroup, c *controllers) {
	chatbot := rg.Group("/chatbot")
	{
		chatbot.POST("/conversations", c.chatbot.StartConversation)
		chatbot.GET("/conversations", c.chatbot.ListConversations)
		chatbot.GET("/conversations/:id/messages", c.chatbot.Messages)
		chatbot.POST("/conversations/:id/messages", c.chatbot.SendMessage)
		chatbot.POST("/reload", middleware.RoleMiddleware(model.Admin), c.chatbot.Reload)
	}
}

func (a *App) registerUtilityRoutes(rg *gin.RouterGroup, c *controllers) {
	calendar := rg.Group("/calendar/events")
	{
		calendar.GET("", c.calendar.List)
		calendar.POST("", c.calendar.Create)
		calendar.PUT("/:id", c.calendar.Update)
		calendar.DELETE("/:id", c.calendar.Delete)
	}

	messages := rg.Group("/messages")
	{
		messages.POST("", c.message.Send)
		messages.GET("/inbox", c.message.Inbox)
		messages.GET("/sent", c.message.Sent)
		messages.GET("/unread-count", c.message.UnreadCount)
		messages.POST("/attachments", c.message.UploadAttachment)
		messages.GET("/:id", c.message.Read)
		messages.DELETE("/:id", c.message.Delete)
	}

	settings := rg.Group("/settings")
	{
		settings.GET("", c.setting.Get)
		settings.PUT("", c.setting.Update)
	}

	help := rg.Group("/help/articles")
	{
		help.GET("", c.help.List)
		help.GET("/:id", c.help.Get)

		adminOnly := help.Group("")
		adminOnly.Use(middleware.RoleMiddleware(model.Admin))
		{
			adminOnly.POST("", c.help.Create)
			adminOnly.PUT("/:id", c.help.Update)
			adminOnly.DELETE("/:id", c.help.Delete)
		}
	}

	analytics := rg.Group("/analytics")
	{
		analytics.GET("/courses/:id", middleware.RoleMiddleware(model.Teacher, model.Admin), c.analytics.CourseAnalytics)
		analytics.GET("/me", c.analytics.MyOverview)
	}

	reports := rg.Group("/reports")
	reports.Use(middleware.RoleMiddleware(model.Teacher, model.Admin))
	{
		reports.GET("/courses/:id/grades", c.report.GradeReport)
		reports.GET("/courses/:id/engagement", c.report.EngagementReport)
	}
}
