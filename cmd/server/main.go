package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sgharlow/adaptlearn/internal/api"
	"github.com/sgharlow/adaptlearn/internal/catalog"
	"github.com/sgharlow/adaptlearn/internal/config"
	"github.com/sgharlow/adaptlearn/internal/db"
	"github.com/sgharlow/adaptlearn/internal/jobs"
	"github.com/sgharlow/adaptlearn/internal/logger"
	"github.com/sgharlow/adaptlearn/internal/repository/sqlite"
	"github.com/sgharlow/adaptlearn/internal/services"
	"github.com/sgharlow/adaptlearn/internal/tutor"
	"github.com/sgharlow/adaptlearn/internal/voice"
	"github.com/sgharlow/adaptlearn/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("AdaptLearn Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("content_dir=%s", cfg.ContentDir)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("speech_model=%s", cfg.SpeechModel)
	log.Debug("speech_voice=%s", cfg.SpeechVoice)
	log.Debug("chat_model=%s", cfg.ChatModel)
	log.Debug("narration_worker_count=%d", cfg.NarrationWorkerCount)
	log.Debug("narration_queue_size=%d", cfg.NarrationQueueSize)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Load lesson catalog
	cat, err := catalog.NewLoader(cfg.ContentDir)
	if err != nil {
		log.Error("failed to load catalog: %v", err)
		os.Exit(1)
	}

	// Repositories
	learnerRepo := sqlite.NewLearnerRepository(database.DB)
	progressRepo := sqlite.NewProgressRepository(database.DB)
	narrationRepo := sqlite.NewNarrationRepository(database.DB)

	// Optional speech and tutor clients. Missing API key disables them
	// without failing startup.
	var voiceClient voice.Client
	var tutorClient tutor.Client
	if cfg.OpenAIAPIKey != "" {
		voiceClient, err = voice.NewClient(voice.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.SpeechModel,
			Voice:   cfg.SpeechVoice,
		})
		if err != nil {
			log.Error("failed to create voice client: %v", err)
			os.Exit(1)
		}
		tutorClient, err = tutor.NewClient(tutor.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.ChatModel,
		})
		if err != nil {
			log.Error("failed to create tutor client: %v", err)
			os.Exit(1)
		}
	} else {
		log.Warn("OPENAI_API_KEY not set, speech and tutor endpoints disabled")
	}

	// Background narration prefetch
	narrationPool := worker.NewPool(cfg.NarrationWorkerCount, cfg.NarrationQueueSize)

	// Services
	narrationService := services.NewNarrationService(narrationRepo, voiceClient)
	jobQueue := jobs.NewWorkerQueue(narrationPool, narrationService)
	recommendationService := services.NewRecommendationService(progressRepo, cat)
	progressService := services.NewProgressService(progressRepo, cat, recommendationService, jobQueue)

	srv := &api.Server{
		DB:              database,
		Catalog:         cat,
		Learners:        services.NewLearnerService(learnerRepo, cat),
		Progress:        progressService,
		Recommendations: recommendationService,
		Narration:       narrationService,
		Tutor:           services.NewTutorService(cat, tutorClient),
	}

	ctx, cancel := context.WithCancel(context.Background())
	narrationPool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Cancel worker context
	log.Debug("stopping worker pool")
	cancel()

	// Shutdown HTTP server
	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Wait for workers to finish
	narrationPool.Stop()

	log.Info("===========================================")
	log.Info("AdaptLearn Server Stopped")
	log.Info("===========================================")
}
