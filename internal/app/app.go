package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"nihongo_backend/internal/config"
	"nihongo_backend/internal/controller"
	"nihongo_backend/internal/repository"
	"nihongo_backend/internal/service"
	"nihongo_backend/pkg/configwatcher"
	"nihongo_backend/pkg/database"
	"nihongo_backend/pkg/logger"
	"nihongo_backend/pkg/monitoring"
	"nihongo_backend/pkg/security"
	"nihongo_backend/pkg/tracing"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	guard           *service.Guard
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	lesson    *repository.LessonRepository
	user      *repository.UserRepository
	result    *repository.ResultRepository
	activity  *repository.ActivityRepository
	bookmark  *repository.BookmarkRepository
	system    *repository.SystemRepository
	dashboard *repository.DashboardCacheRepository
}

type services struct {
	activity  *service.ActivityService
	lesson    *service.LessonService
	user      *service.UserService
	result    *service.ResultService
	bookmark  *service.BookmarkService
	system    *service.SystemService
	dashboard *service.DashboardService
}

type controllers struct {
	lesson    *controller.LessonController
	user      *controller.UserController
	result    *controller.ResultController
	activity  *controller.ActivityController
	bookmark  *controller.BookmarkController
	system    *controller.SystemController
	dashboard *controller.DashboardController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		lesson:    repository.NewLessonRepository(db),
		user:      repository.NewUserRepository(db),
		result:    repository.NewResultRepository(db),
		activity:  repository.NewActivityRepository(db),
		bookmark:  repository.NewBookmarkRepository(db),
		system:    repository.NewSystemRepository(db),
		dashboard: repository.NewDashboardCacheRepository(rdb, a.Config.Dashboard.CacheTTL),
	}
}

func (a *App) initServices(repos *repositories) *services {
	s := &services{}

	s.activity = service.NewActivityService(repos.activity)
	s.lesson = service.NewLessonService(repos.lesson, a.guard)
	s.user = service.NewUserService(repos.user, s.activity, a.guard)
	s.result = service.NewResultService(repos.result, repos.lesson, s.activity)
	s.bookmark = service.NewBookmarkService(repos.bookmark, s.activity)
	s.system = service.NewSystemService(repos.system, a.guard)
	s.dashboard = service.NewDashboardService(
		repos.lesson,
		repos.user,
		repos.result,
		s.activity,
		repos.bookmark,
		repos.dashboard,
	)

	return s
}

func (a *App) initControllers(s *services, repos *repositories) *controllers {
	return &controllers{
		lesson:    controller.NewLessonController(s.lesson),
		user:      controller.NewUserController(s.user, a.Config.Auth.Secret, a.Config.Auth.ExpireHours),
		result:    controller.NewResultController(s.result),
		activity:  controller.NewActivityController(s.activity),
		bookmark:  controller.NewBookmarkController(s.bookmark),
		system:    controller.NewSystemController(s.system, repos.dashboard),
		dashboard: controller.NewDashboardController(s.dashboard),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New wires an App around an open database. rdb may be nil. Nothing is
// started; it is what tests build their routers from.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	if cfg.Server.Mode != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		guard:  service.NewGuard(cfg.Auth.Mode),
	}

	repos := app.initRepositories(db, rdb)
	app.services = app.initServices(repos)
	controllers := app.initControllers(app.services, repos)

	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetMode(newCfg.Server.Mode)
		app.guard.SetMode(newCfg.Auth.Mode)
		logger.Log.Info("Configuration applied",
			zap.String("mode", newCfg.Server.Mode),
			zap.Bool("enforce_roles", app.guard.Enforcing()),
		)
	})

	return app
}

// NewApp connects to the store and cache, seeds lessons and builds the App.
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	if cfg.Seed.Enabled {
		seedLessons(db, cfg.Seed.LessonsFile)
	}

	app := New(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

// seedLessons fills an empty lessons table. Failure is not fatal: the API
// works without sample content.
func seedLessons(db *gorm.DB, path string) {
	lessons, err := database.LoadSeedLessons(path)
	if err != nil {
		logger.Log.Warn("Skipping lesson seed", zap.String("file", path), zap.Error(err))
		return
	}
	n, err := database.SeedLessons(db, lessons)
	if err != nil {
		logger.Log.Error("Failed to seed lessons", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Log.Info("Seeded lessons", zap.Int("count", n))
	}
}

func (a *App) watchConfig(ctx context.Context) {
	if a.Config.Path == "" {
		return
	}
	go func() {
		err := configwatcher.WatchConfig(ctx, a.Config.Path, func(cfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(cfg)
			}
		})
		if err != nil {
			logger.Log.Warn("Config hot reload disabled", zap.Error(err))
		}
	}()
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	a.watchConfig(watchCtx)

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Log.Info("Server exiting")
	logger.Log.Sync()
}
