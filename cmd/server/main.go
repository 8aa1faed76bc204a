package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ahmedhrayyan/phonebook-backend/internal/config"
	"github.com/ahmedhrayyan/phonebook-backend/internal/handler"
	"github.com/ahmedhrayyan/phonebook-backend/internal/metrics"
	"github.com/ahmedhrayyan/phonebook-backend/internal/middleware"
	"github.com/ahmedhrayyan/phonebook-backend/internal/migrations"
	"github.com/ahmedhrayyan/phonebook-backend/internal/repository"
	"github.com/ahmedhrayyan/phonebook-backend/internal/service"
	"github.com/ahmedhrayyan/phonebook-backend/internal/storage"
	"github.com/ahmedhrayyan/phonebook-backend/internal/utils"
	"github.com/ahmedhrayyan/phonebook-backend/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	log := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.Debug("no .env file found, relying on environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, cfg.DSN(), log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer dbPool.Close()

	// --- Migrations ---
	migrationURL, err := cfg.MigrationURL()
	if err != nil {
		log.WithError(err).Fatal("invalid database url")
	}
	if err := migrations.Up(migrationURL, log); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	// --- Upload storage ---
	var store storage.Store
	switch cfg.UploadBackend {
	case config.UploadBackendS3:
		store, err = storage.NewS3StoreFromEnv(ctx, cfg.UploadBucket, cfg.UploadPrefix)
		if err != nil {
			log.WithError(err).Fatal("failed to init S3 upload storage")
		}
		log.WithField("bucket", cfg.UploadBucket).Info("uploads will be stored in S3")
	default:
		store = storage.NewLocalStore(cfg.UploadsDir)
		log.WithField("dir", cfg.UploadsDir).Info("uploads will be stored on disk")
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpiration)
	validation.Setup()

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	contactRepo := repository.NewContactRepository(dbPool)
	phoneRepo := repository.NewPhoneRepository(dbPool)
	typeRepo := repository.NewTypeRepository(dbPool)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, jwtUtil, log)
	contactService := service.NewContactService(contactRepo, typeRepo, log)
	phoneService := service.NewPhoneService(phoneRepo, contactRepo, typeRepo, log)
	typeService := service.NewTypeService(typeRepo)
	uploadService := service.NewUploadService(store, cfg.AllowedExtensions, log)

	// --- Initialize Handlers ---
	authHandler := handler.NewAuthHandler(authService, log)
	contactHandler := handler.NewContactHandler(contactService, log)
	phoneHandler := handler.NewPhoneHandler(phoneService, log)
	typeHandler := handler.NewTypeHandler(typeService, log)
	uploadHandler := handler.NewUploadHandler(uploadService, log)

	// --- Setup Gin Router ---
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes
	router.Use(
		middleware.RequestLogger(log),
		middleware.Recovery(log),
		middleware.Metrics(),
		middleware.CORS(),
	)
	handler.RegisterFallbacks(router)

	// --- Initialize Middlewares ---
	jwtAuthMW := middleware.JWTAuthMiddleware(jwtUtil)
	rateLimitMW := middleware.RateLimit(middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))
	bodyLimitMW := middleware.BodyLimit(cfg.MaxUploadBytes)

	// --- Register Routes ---
	apiGroup := router.Group("/api")
	authHandler.RegisterAuthRoutes(apiGroup, rateLimitMW)
	contactHandler.RegisterContactRoutes(apiGroup, jwtAuthMW)
	phoneHandler.RegisterPhoneRoutes(apiGroup, jwtAuthMW)
	typeHandler.RegisterTypeRoutes(apiGroup)
	uploadHandler.RegisterUploadRoutes(apiGroup, router, jwtAuthMW, bodyLimitMW)

	router.GET("/health", handler.Health(dbPool))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.ServerPort).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen failed")
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
		os.Exit(1)
	}

	log.Info("server exiting")
}
