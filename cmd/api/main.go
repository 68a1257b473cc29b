package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/api/option"

	"github.com/apeksha07/insurance-advisor/internal/api/handlers"
	"github.com/apeksha07/insurance-advisor/internal/api/middleware"
	"github.com/apeksha07/insurance-advisor/internal/config"
	"github.com/apeksha07/insurance-advisor/internal/engine"
	"github.com/apeksha07/insurance-advisor/internal/gemini"
	"github.com/apeksha07/insurance-advisor/internal/jobs"
	"github.com/apeksha07/insurance-advisor/internal/jobs/inmemory"
	"github.com/apeksha07/insurance-advisor/internal/logger"
	"github.com/apeksha07/insurance-advisor/internal/plans"
	"github.com/apeksha07/insurance-advisor/internal/statements"
)

func main() {
	var (
		port = flag.String("port", "", "HTTP server port (overrides PORT env)")
	)
	flag.Parse()

	log := logger.New()

	cfg := config.Load()
	if *port != "" {
		cfg.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	// Classifier. Requires GEMINI_API_KEY or application-default credentials.
	labeler, err := gemini.NewLabeler(ctx, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini labeler")
	}

	eng := engine.NewWithOptions(labeler, logger.NewComponent("engine"), engine.Options{
		Workers:      cfg.ClassifierWorkers,
		MinCallDelay: cfg.ClassifierMinDelay,
		CallTimeout:  cfg.ClassifierTimeout,
	})

	// Job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.QueueBufferSize, cfg.QueueWorkers, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	var fetchOpts []option.ClientOption
	if cfg.GoogleCredentialsFile != "" {
		fetchOpts = append(fetchOpts, option.WithCredentialsFile(cfg.GoogleCredentialsFile))
	}

	jobHandler := jobs.WithStagedCleanup(log, func(ctx context.Context, job *jobs.AnalysisJob) error {
		log.Info().
			Str("job_id", job.JobID).
			Str("source_uri", job.SourceURI).
			Msg("Processing analysis job")

		data, err := statements.Fetch(ctx, job.SourceURI, fetchOpts...)
		if err != nil {
			return fmt.Errorf("fetch statement: %w", err)
		}

		report, err := eng.Analyze(ctx, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("analyze statement: %w", err)
		}
		job.Report = report

		log.Info().
			Str("job_id", job.JobID).
			Int("transactions", report.TransactionCount).
			Msg("Analysis job completed")
		return nil
	})

	go func() {
		log.Info().Msg("Starting analysis workers")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Analysis workers stopped with error")
		}
	}()

	// Router
	mux := http.NewServeMux()

	analysisHandler := handlers.NewAnalysisHandler(eng, jobQueue, jobStore, cfg.UploadDir, logger.NewComponent("handlers"))
	analysisHandler.RegisterRoutes(mux)

	if cfg.PredictorURL != "" {
		plansHandler := handlers.NewPlansHandler(plans.NewHTTPScorer(cfg.PredictorURL), logger.NewComponent("plans"))
		plansHandler.RegisterRoutes(mux)
	} else {
		log.Warn().Msg("No predictor URL configured - plan recommendations will be disabled")
	}

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}
	if err := jobQueue.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close job queue")
	}

	log.Info().Msg("Server exited")
}
