package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leap_assessment_backend/internal/config"
	"leap_assessment_backend/internal/controller"
	"leap_assessment_backend/internal/repository"
	"leap_assessment_backend/internal/service"
	"leap_assessment_backend/pkg/configwatcher"
	"leap_assessment_backend/pkg/database"
	"leap_assessment_backend/pkg/logger"
	"leap_assessment_backend/pkg/monitoring"
	"leap_assessment_backend/pkg/security"
	"leap_assessment_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user     *repository.UserRepository
	response *repository.ResponseRepository
	question *repository.QuestionRepository
	draft    *repository.DraftRepository
}

type services struct {
	auth       *service.AuthService
	captcha    *service.CaptchaService
	draft      *service.DraftService
	content    *service.ContentService
	submission *service.SubmissionService
	result     *service.ResultService
	report     *service.ReportService
}

type controllers struct {
	auth       *controller.AuthController
	assessment *controller.AssessmentController
	content    *controller.ContentController
	draft      *controller.DraftController
	report     *controller.ReportController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		response: repository.NewResponseRepository(db),
		question: repository.NewQuestionRepository(db),
		draft:    repository.NewDraftRepository(rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, rdb, cfg)
	s.captcha = service.NewCaptchaService(rdb, cfg)
	s.draft = service.NewDraftService(repos.draft)
	s.content = service.NewContentService(repos.question)
	s.submission = service.NewSubmissionService(repos.response, s.captcha, s.draft, cfg)
	s.result = service.NewResultService(repos.response, service.NewRedisResultLimiter(rdb, cfg), cfg)
	s.report = service.NewReportService(cfg, s.result, repos.response)

	return s
}

func (a *App) initControllers(s *services, cfg *config.Config, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, s.captcha, cfg),
		assessment: controller.NewAssessmentController(s.submission, s.result),
		content:    controller.NewContentController(s.content),
		draft:      controller.NewDraftController(s.draft),
		report:     controller.NewReportController(s.report),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests == 0 {
		maxRequests = 6000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window == 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, cfg, db)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("leap-assessment", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	go configwatcher.WatchConfig("configs/config.yaml", app.applyConfig)

	return app
}

// applyConfig hot-reloads the tunables that are safe to change while
// serving. Structural settings (ports, DSNs, JWT secret) need a restart.
func (a *App) applyConfig(newCfg *config.Config) {
	a.Config.Captcha = newCfg.Captcha
	a.Config.MagicLink = newCfg.MagicLink
	a.Config.Results = newCfg.Results
	a.Config.RateLimit = newCfg.RateLimit
	logger.Log.Info("Configuration reloaded",
		zap.Bool("captcha_required", newCfg.Captcha.Required),
		zap.Duration("anonymous_window", newCfg.Results.AnonymousWindow))
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

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
