package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hospital-queue/config"
	deliveryHttp "hospital-queue/internal/delivery/http"
	"hospital-queue/internal/delivery/http/handler"
	"hospital-queue/internal/delivery/http/middleware"
	"hospital-queue/internal/infrastructure/cache"
	"hospital-queue/internal/infrastructure/database"
	"hospital-queue/internal/repository"
	"hospital-queue/internal/service"
	"hospital-queue/internal/usecase"
	"hospital-queue/pkg/jwt"
	"hospital-queue/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config          *config.Config
	DB              *gorm.DB
	RedisClient     *redis.Client
	SequenceService *service.SequenceService
	LoginRateLimit  *middleware.RateLimitMiddleware
	Server          *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	setupLogger(cfg.App.LogLevel)
	logrus.Info("Configuration loaded successfully")

	return NewWithConfig(context.Background(), cfg)
}

// NewWithConfig wires the application from an already loaded configuration.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	db, err := database.NewConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Infof("Database connected successfully (driver=%s)", cfg.DB.Driver)

	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.RedisClient = redisClient
		logrus.Info("Redis connected successfully")
	}

	server, err := app.initializeServer(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer(ctx context.Context) (*http.Server, error) {
	cfg := app.Config
	db := app.DB
	log := logrus.StandardLogger()

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Initialize repositories
	doctorRepo := repository.NewDoctorRepository()
	patientRepo := repository.NewPatientRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	storeRepo := repository.NewStoreRepository()

	// Initialize services
	sequenceService := service.NewSequenceService(app.RedisClient, log, appointmentRepo)
	app.SequenceService = sequenceService
	auditService := service.NewAuditService(log, auditLogRepo)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, cfg.Admin.PasswordHash, jwtService, auditService)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, customValidator, doctorRepo, appointmentRepo, auditService)
	registrationUsecase := usecase.NewRegistrationUsecase(db, log, customValidator, doctorRepo, patientRepo, appointmentRepo, sequenceService, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, patientRepo, appointmentRepo, storeRepo, sequenceService, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, customValidator, auditLogRepo)

	if cfg.DB.ResetOnStart {
		if err := appointmentUsecase.ResetAll(ctx); err != nil {
			return nil, fmt.Errorf("failed to reset database: %w", err)
		}
		logrus.Warn("Database reset on start")
	} else if err := sequenceService.SyncOnStartup(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to sync appointment sequences: %w", err)
	}

	if cfg.Admin.PasswordHash == "" {
		logrus.Warn("ADMIN_PASSWORD_HASH is empty: maintenance endpoints are disabled")
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase)
	patientHandler := handler.NewPatientHandler(registrationUsecase)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	corsMiddleware := middleware.NewCORSMiddleware()
	loggingMiddleware := middleware.NewLoggingMiddleware(log)
	loginRateLimit := middleware.NewRateLimitMiddleware(cfg.Login.RateLimit, cfg.Login.Burst)
	app.LoginRateLimit = loginRateLimit

	router := deliveryHttp.NewRouter(authHandler, doctorHandler, patientHandler, appointmentHandler, auditLogHandler, authMiddleware, corsMiddleware, loggingMiddleware, loginRateLimit)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close stops background services and closes the database and Redis handles.
func (app *App) Close() {
	if app.SequenceService != nil {
		app.SequenceService.Stop()
	}
	if app.LoginRateLimit != nil {
		app.LoginRateLimit.Stop()
	}

	database.Close(app.DB)

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
