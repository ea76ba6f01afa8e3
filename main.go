package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/sharanry/legal-assistant/config"
	"github.com/sharanry/legal-assistant/handler"
	"github.com/sharanry/legal-assistant/middleware"
	"github.com/sharanry/legal-assistant/pkg/logger"
	"github.com/sharanry/legal-assistant/service"
)

func main() {
	// .env is optional; real deployments set the variables directly
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	artifacts, err := service.NewArtifactStore(&cfg.Storage)
	if err != nil {
		slog.Error("failed to initialize artifact store", "error", err)
		os.Exit(1)
	}
	if minioStore, ok := artifacts.(*service.MinioArtifactStore); ok {
		if err := minioStore.EnsureBucket(context.Background()); err != nil {
			slog.Error("failed to ensure MINIO bucket", "error", err)
			os.Exit(1)
		}
	}

	store := service.NewJobStore(
		time.Duration(cfg.Jobs.RetentionMinutes)*time.Minute,
		cfg.Jobs.MaxJobs,
	)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	store.StartSweeper(sweepCtx, time.Duration(cfg.Jobs.SweepIntervalSeconds)*time.Second)

	modelClient := service.NewModelClient(&cfg.Model)
	extractor := service.NewPDFExtractor()
	analyzer := service.NewAnalyzer(
		store,
		artifacts,
		extractor,
		modelClient,
		time.Duration(cfg.Jobs.ProcessingTimeoutMin)*time.Minute,
	)

	analyzeHandler := handler.NewAnalyzeHandler(store, artifacts, analyzer, cfg.MaxUploadBytes())

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	router.Use(middleware.RateLimit(100, time.Minute))

	// Uploads above the limit get cut off at the transport level too;
	// the handler still produces the client-facing 400.
	router.MaxMultipartMemory = cfg.MaxUploadBytes()

	api := router.Group("/api")
	{
		api.POST("/analyze-contract", analyzeHandler.Upload)
		api.GET("/job-status/:jobId", analyzeHandler.JobStatus)
		api.GET("/health", handler.Health)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}
