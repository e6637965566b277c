package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"email-triage-go/internal/classifier"
	"email-triage-go/internal/config"
	"email-triage-go/internal/database"
	"email-triage-go/internal/datastore"
	"email-triage-go/internal/handler"
	"email-triage-go/internal/ingest"
	"email-triage-go/internal/metrics"
	"email-triage-go/internal/pipeline"
	"email-triage-go/internal/queue"
	"email-triage-go/internal/repository"
	"email-triage-go/internal/router"
	"email-triage-go/internal/scheduler"
)

// Run initializes and starts the application
func Run() error {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	logrus.Info("Starting AI Email Triage Service")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	dbConn, err := database.InitDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	m := metrics.NewMetrics()
	repo := repository.New(dbConn)

	// The work queue is process-scoped: constructed once, shared by ingestion
	// and the worker, lost on restart
	workQueue := queue.New()

	clf := classifier.NewOpenAIClassifier(cfg.OpenAI)
	if cfg.OpenAI.APIKey == "" {
		logrus.Warn("No OpenAI API key configured, classification will fall back to defaults")
	}

	worker := pipeline.NewWorker(repo, clf, workQueue, m, cfg.Worker)
	ingestor := ingest.NewService(repo, workQueue, m)
	store := datastore.NewClient(cfg.Datastore)
	sched := scheduler.NewScheduler(&cfg.Sync, store, ingestor, m)

	h := handler.NewHandlers(repo, ingestor, worker, sched, store)
	r := router.SetupRouter(h)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if err := worker.Start(); err != nil {
		return fmt.Errorf("failed to start pipeline worker: %w", err)
	}

	if cfg.Sync.Enabled {
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start sync scheduler: %w", err)
		}
	}

	go func() {
		logrus.Infof("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sched.Stop(); err != nil {
		logrus.Errorf("Failed to stop sync scheduler: %v", err)
	}
	sched.Wait()

	if err := worker.Stop(); err != nil {
		logrus.Errorf("Failed to stop pipeline worker: %v", err)
	}
	worker.Wait()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("HTTP server shutdown error: %v", err)
	}

	logrus.Info("Server stopped gracefully")
	return nil
}
