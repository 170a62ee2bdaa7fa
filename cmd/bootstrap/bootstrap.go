package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medilink-api/config"
	deliveryHttp "medilink-api/internal/delivery/http"
	"medilink-api/internal/delivery/http/handler"
	"medilink-api/internal/delivery/http/middleware"
	"medilink-api/internal/infrastructure/cache"
	"medilink-api/internal/infrastructure/database"
	"medilink-api/internal/repository"
	"medilink-api/internal/service"
	"medilink-api/internal/usecase"
	"medilink-api/pkg/jwt"
	"medilink-api/pkg/metrics"
	"medilink-api/pkg/storage"
	"medilink-api/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Log         *logrus.Logger
}

// Dependencies are the infrastructure pieces the HTTP stack is built on.
type Dependencies struct {
	Config   *config.Config
	DB       *gorm.DB
	Log      *logrus.Logger
	Sessions service.SessionStore
	Files    *storage.Store
	Metrics  *metrics.Metrics
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	log := setupLogger(cfg.App.LogLevel)
	app.Log = log
	log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewConnection(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db, cfg.DB, log); err != nil {
			return nil, err
		}
	}
	if err := repository.NewRoleRepository().Seed(context.Background(), db); err != nil {
		return nil, fmt.Errorf("failed to seed roles: %w", err)
	}

	// Sessions live in Redis when configured, in process memory otherwise
	var sessions service.SessionStore
	if cache.Enabled(cfg.Redis) {
		redisClient, err := cache.NewRedisClient(cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		app.RedisClient = redisClient
		sessions = service.NewRedisSessionStore(redisClient, log)
	} else {
		log.Warn("REDIS_HOST not set, using in-memory session store")
		sessions = service.NewMemorySessionStore(cache.NewMemoryCache())
	}

	files := storage.NewLocal(cfg.Storage.Dir, cfg.Storage.URLPrefix)

	httpHandler := NewHandler(Dependencies{
		Config:   cfg,
		DB:       db,
		Log:      log,
		Sessions: sessions,
		Files:    files,
		Metrics:  metrics.NewMetrics("medilink"),
	})

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           httpHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return app, nil
}

// setupLogger configures a JSON logger at the given level, info by default.
func setupLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	return log
}

// NewHandler wires repositories, services, usecases and handlers into the router.
func NewHandler(deps Dependencies) http.Handler {
	cfg, db, log := deps.Config, deps.DB, deps.Log

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	profileRepo := repository.NewProfileRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	annonceRepo := repository.NewAnnonceRepository()
	notificationRepo := repository.NewNotificationRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	notificationService := service.NewNotificationService(log, notificationRepo)
	provisioner := usecase.NewProfileProvisioner(log, profileRepo, deps.Files)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, roleRepo, profileRepo, provisioner, jwtService, deps.Sessions, auditService, deps.Files, deps.Metrics)
	userUsecase := usecase.NewUserUsecase(db, log, userRepo, profileRepo, deps.Sessions, auditService, deps.Files)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, userRepo, appointmentRepo, profileRepo, notificationService, auditService, deps.Metrics)
	annonceUsecase := usecase.NewAnnonceUsecase(db, log, annonceRepo, auditService, deps.Files)
	directoryUsecase := usecase.NewDirectoryUsecase(db, log, userRepo, profileRepo)
	dashboardUsecase := usecase.NewDashboardUsecase(db, log, appointmentRepo, annonceRepo, notificationRepo)
	notificationUsecase := usecase.NewNotificationUsecase(db, log, notificationRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:         handler.NewAuthHandler(authUsecase, customValidator),
		User:         handler.NewUserHandler(userUsecase, customValidator),
		Appointment:  handler.NewAppointmentHandler(appointmentUsecase, customValidator),
		Annonce:      handler.NewAnnonceHandler(annonceUsecase, customValidator),
		Directory:    handler.NewDirectoryHandler(directoryUsecase),
		Dashboard:    handler.NewDashboardHandler(dashboardUsecase),
		Notification: handler.NewNotificationHandler(notificationUsecase),
		AuditLog:     handler.NewAuditLogHandler(auditLogUsecase),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, deps.Sessions, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigin)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit)

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, authMiddleware, corsMiddleware, rateLimiter, deps.Files, deps.Metrics, log)
	return router.Setup()
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
