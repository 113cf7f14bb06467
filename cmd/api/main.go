package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-application-form/config"
	_ "go-application-form/docs" // Important for Swagger
	"go-application-form/internal/delivery/http/middleware"
	v1 "go-application-form/internal/delivery/http/v1"
	"go-application-form/internal/domain"
	"go-application-form/internal/sink"
	"go-application-form/internal/usecase"
	"go-application-form/pkg/logger"
	"go-application-form/pkg/redis"
	"go-application-form/pkg/validation"

	"github.com/gin-gonic/gin"
)

// @title           Job Application Form API
// @version         1.0
// @description     Server-side controller for the job application form: field updates, validation and submission.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting application form server", "port", cfg.Port)
	gin.SetMode(cfg.GinMode)

	// 3. Optional shared rate-limit store
	var redisHealth usecase.HealthCheckFunc
	if cfg.RedisURL != "" {
		if err := redis.Initialize(context.Background(), redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, rate limiting falls back to memory", "error", err)
		} else {
			redisHealth = redis.HealthCheck
			defer redis.Close()
		}
	}

	// 4. Setup UseCases
	validate := validation.New()
	formSink := sink.NewLogSink(logger.Log)
	sessions := usecase.NewFormSessionUsecase(formSink, validate, logger.Log, usecase.SessionConfig{
		TTL:         cfg.FormSessionTTL,
		MaxSessions: cfg.FormMaxSessions,
	})
	healthUC := usecase.NewHealthUsecase(sessions, redisHealth)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	if cfg.FormSessionTTL > 0 {
		go sessions.RunSweeper(sweepCtx, time.Minute)
	}

	// 5. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		FormUC:   sessions,
		HealthUC: healthUC,
		NewForm: func() domain.ApplicationForm {
			return usecase.NewFormController(formSink, validate, logger.Log)
		},
		Config: cfg,
	})

	// 6. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}
	middleware.StopRateLimitCleanup()

	logger.Log.Info("Server exiting")
}
