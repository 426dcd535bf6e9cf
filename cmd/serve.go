package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lectern-app/lectern-api/api"
	"github.com/lectern-app/lectern-api/api/types"
	"github.com/lectern-app/lectern-api/internal/database"
	"github.com/lectern-app/lectern-api/internal/models"
	"github.com/lectern-app/lectern-api/internal/services/certificates"
	"github.com/lectern-app/lectern-api/internal/services/cleanup"
	"github.com/lectern-app/lectern-api/internal/services/genai"
	"github.com/lectern-app/lectern-api/internal/services/generation"
	"github.com/lectern-app/lectern-api/internal/services/jobs"
	"github.com/lectern-app/lectern-api/internal/services/progress"
	"github.com/lectern-app/lectern-api/internal/services/transcripts"
	"github.com/lectern-app/lectern-api/internal/services/workers"
	"github.com/lectern-app/lectern-api/pkg/config"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the Lectern API server with the configured settings.

The server ingests transcript chunks, runs the background merge and
generation workers, and serves the progress and certificate endpoints.

Example:
  lectern-api serve
  lectern-api serve --port 9090
  lectern-api serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if serverHost == "" {
		serverHost = cfg.Server.Host
	}
	if serverPort == 0 {
		serverPort = cfg.Server.Port
	}

	db, err := database.Initialize(database.Options{
		Path:        cfg.Database.Path,
		EnableWAL:   cfg.Database.EnableWAL,
		LogQueries:  cfg.Database.LogQueries,
		MaxOpen:     cfg.Database.MaxConnections,
		MaxIdle:     cfg.Database.MaxIdleConnections,
		MaxLifetime: cfg.Database.ConnectionMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("[WARN] Failed to close database: %v", err)
		}
	}()

	if err := db.AutoMigrate(
		&models.TranscriptJob{},
		&models.GeneratedArtifact{},
		&models.ProgressRecord{},
		&models.Certificate{},
		&models.Job{},
	); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	deps := buildDependencies(db, cfg)

	// Start the worker pool before the HTTP server so jobs enqueued by the
	// first requests are picked up immediately
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	if err := deps.WorkerPool.Start(workerCtx); err != nil {
		return fmt.Errorf("failed to start worker pool: %w", err)
	}

	janitor := cleanup.NewService(deps.JobService, cfg.Processing.JobRetentionDays, 6*time.Hour)
	janitor.Start(workerCtx)
	defer janitor.Stop()

	address := fmt.Sprintf("%s:%d", serverHost, serverPort)
	server := api.NewServer(address)
	server.SetDependencies(deps)
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	log.Printf("Starting Lectern API server on %s", address)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-stop:
		log.Println("Shutting down server...")
	case err := <-serverErr:
		fmt.Fprintf(os.Stderr, "%v\n", err)
		log.Println("Shutting down server...")
	}

	// Stop claiming new jobs first, then drain HTTP
	deps.WorkerPool.Stop()
	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server forced to shutdown: %v\n", err)
		return err
	}

	log.Println("Server gracefully stopped")
	return nil
}

// buildDependencies wires the service graph used by both handlers and workers
func buildDependencies(db *database.DB, cfg *config.Config) *types.Dependencies {
	transcriptRepo := transcripts.NewRepository(db.DB)
	transcriptService := transcripts.NewService(transcriptRepo)

	completer := genai.NewClient(genai.Config{
		APIKey:  cfg.GenAI.APIKey,
		BaseURL: cfg.GenAI.BaseURL,
		Model:   cfg.GenAI.Model,
		Timeout: cfg.GenAI.Timeout,
	})
	generator := genai.NewResilientClient(completer,
		genai.WithMaxRetries(cfg.GenAI.MaxRetries),
		genai.WithBaseDelay(cfg.GenAI.BaseDelay),
	)

	generationRepo := generation.NewRepository(db.DB)
	generationService := generation.NewService(generationRepo, generator, transcriptService, cfg.GenAI.GeneratorVersion)

	certificateRepo := certificates.NewRepository(db.DB)
	certificateService := certificates.NewService(certificateRepo)

	progressRepo := progress.NewRepository(db.DB)
	progressService := progress.NewService(progressRepo, certificateService, cfg.Scoring.CompletionThreshold)

	jobRepo := jobs.NewRepository(db.DB)
	jobService := jobs.NewService(jobRepo)

	pool := workers.NewWorkerPool(jobService, cfg.Processing.Workers, cfg.Processing.PollInterval)
	pool.RegisterProcessor(workers.NewMergeProcessor(transcriptService, jobService))
	pool.RegisterProcessor(workers.NewGenerationProcessor(generationService, jobService))

	return &types.Dependencies{
		DB:                 db,
		TranscriptService:  transcriptService,
		GenerationService:  generationService,
		ProgressService:    progressService,
		CertificateService: certificateService,
		JobService:         jobService,
		WorkerPool:         pool,
	}
}
