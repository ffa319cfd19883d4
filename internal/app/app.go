package app

import (
	"context"
	"edu_lms_backend/internal/config"
	"edu_lms_backend/internal/controller"
	"edu_lms_backend/internal/repository"
	"edu_lms_backend/internal/service"
	"edu_lms_backend/pkg/database"
	"edu_lms_backend/pkg/logger"
	"edu_lms_backend/pkg/monitoring"
	"edu_lms_backend/pkg/security"
	"edu_lms_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	course       *repository.CourseRepository
	enrollment   *repository.EnrollmentRepository
	lesson       *repository.LessonRepository
	quiz         *repository.QuizRepository
	assignment   *repository.AssignmentRepository
	announcement *repository.AnnouncementRepository
	prediction   *repository.PredictionRepository
	mentorship   *repository.MentorshipRepository
	chatbot      *repository.ChatbotRepository
	botData      *repository.BotDataRepository
	message      *repository.MessageRepository
	calendar     *repository.CalendarRepository
	setting      *repository.SettingRepository
	help         *repository.HelpRepository
	analytics    *repository.AnalyticsRepository
}

type services struct {
	auth         *service.AuthService
	user         *service.UserService
	storage      *service.StorageService
	course       *service.CourseService
	lesson       *service.LessonService
	quiz         *service.QuizService
	assignment   *service.AssignmentService
	announcement *service.AnnouncementService
	prediction   *service.PredictionService
	mentorship   *service.MentorshipService
	chatbot      *service.ChatbotService
	calendar     *service.CalendarService
	grade        *service.GradeService
	message      *service.MessageService
	setting      *service.SettingService
	help         *service.HelpService
	analytics    *service.AnalyticsService
	report       *service.ReportService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	course       *controller.CourseController
	lesson       *controller.LessonController
	quiz         *controller.QuizController
	assignment   *controller.AssignmentController
	announcement *controller.AnnouncementController
	prediction   *controller.PredictionController
	mentorship   *controller.MentorshipController
	chatbot      *controller.ChatbotController
	calendar     *controller.CalendarController
	grade        *controller.GradeController
	message      *controller.MessageController
	setting      *controller.SettingController
	help         *controller.HelpController
	analytics    *controller.AnalyticsController
	report       *controller.ReportController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热更新入口，通知所有已注册的回调
func (a *App) ApplyConfig(cfg *config.Config) {
	*a.Config = *cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		course:       repository.NewCourseRepository(db),
		enrollment:   repository.NewEnrollmentRepository(db),
		lesson:       repository.NewLessonRepository(db),
		quiz:         repository.NewQuizRepository(db),
		assignment:   repository.NewAssignmentRepository(db),
		announcement: repository.NewAnnouncementRepository(db),
		prediction:   repository.NewPredictionRepository(db),
		mentorship:   repository.NewMentorshipRepository(db),
		chatbot:      repository.NewChatbotRepository(db),
		botData:      repository.NewBotDataRepository(db),
		message:      repository.NewMessageRepository(db),
		calendar:     repository.NewCalendarRepository(db),
		setting:      repository.NewSettingRepository(db),
		help:         repository.NewHelpRepository(db),
		analytics:    repository.NewAnalyticsRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.course = service.NewCourseService(repos.course, repos.enrollment)
	s.lesson = service.NewLessonService(repos.lesson, repos.course, repos.enrollment, s.storage, rdb)
	s.quiz = service.NewQuizService(repos.quiz, repos.course, repos.enrollment)
	s.assignment = service.NewAssignmentService(repos.assignment, repos.course, repos.enrollment, repos.calendar)
	s.announcement = service.NewAnnouncementService(repos.announcement, repos.course, repos.enrollment)
	s.prediction = service.NewPredictionService(repos.prediction, repos.course, repos.enrollment, repos.analytics)
	s.mentorship = service.NewMentorshipService(repos.mentorship, repos.prediction, repos.course, repos.enrollment, repos.analytics)

	classifier, err := service.NewIntentClassifier(cfg.Chatbot)
	if err != nil {
		logger.Log.Fatal("Failed to initialize intent classifier", zap.Error(err))
	}
	s.chatbot = service.NewChatbotService(repos.chatbot, repos.botData, classifier)

	s.calendar = service.NewCalendarService(repos.calendar, repos.enrollment)
	s.grade = service.NewGradeService(repos.quiz, repos.assignment, repos.analytics, repos.course, repos.enrollment)
	s.message = service.NewMessageService(repos.message, repos.user)
	s.setting = service.NewSettingService(repos.setting)
	s.help = service.NewHelpService(repos.help)
	s.analytics = service.NewAnalyticsService(repos.analytics, repos.prediction, repos.mentorship, repos.course, repos.enrollment)
	s.report = service.NewReportService(s.grade, repos.analytics, repos.lesson, repos.course, repos.enrollment, rdb)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth, s.user, s.storage),
		user:         controller.NewUserController(s.user),
		course:       controller.NewCourseController(s.course),
		lesson:       controller.NewLessonController(s.lesson),
		quiz:         controller.NewQuizController(s.quiz),
		assignment:   controller.NewAssignmentController(s.assignment, s.storage),
		announcement: controller.NewAnnouncementController(s.announcement),
		prediction:   controller.NewPredictionController(s.prediction),
		mentorship:   controller.NewMentorshipController(s.mentorship),
		chatbot:      controller.NewChatbotController(s.chatbot),
		calendar:     controller.NewCalendarController(s.calendar),
		grade:        controller.NewGradeController(s.grade),
		message:      controller.NewMessageController(s.message, s.storage),
		setting:      controller.NewSettingController(s.setting),
		help:         controller.NewHelpController(s.help),
		analytics:    controller.NewAnalyticsController(s.analytics),
		report:       controller.NewReportController(s.report),
		health:       controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 6000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("edu-lms-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
		router.Static("/api/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
