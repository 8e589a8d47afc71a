package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"medrep/internal/analysis"
	"medrep/internal/config"
	"medrep/internal/email/noop"
	"medrep/internal/email/ses"
	"medrep/internal/extract"
	"medrep/internal/handler"
	"medrep/internal/llm/gemini"
	"medrep/internal/port"
	"medrep/internal/repository/postgres"
	"medrep/internal/router"
	"medrep/internal/service"
	s3storage "medrep/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	fileRepo := postgres.NewFileMetaRepo(db)
	reportRepo := postgres.NewReportRepo(db)
	batchRepo := postgres.NewBatchRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize extraction and analysis
	if err := extract.SetUnidocLicense(cfg.Extract.UnidocLicenseKey); err != nil {
		return err
	}
	extractor := extract.NewExtractor()
	analyzer := analysis.NewAnalyzer(gemini.NewClient(&cfg.LLM))
	runner := analysis.NewBatchRunner(extractor, analyzer, cfg.Batch.MaxInflightDocs)

	// Initialize email sender
	var sender port.EmailSender
	if cfg.Email.Provider == "ses" {
		sender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	} else {
		sender = noop.NewNoopSender()
	}

	// Initialize services
	authSvc := service.NewAuthService(cfg.Auth)
	fileSvc := service.NewFileService(fileRepo, s3Client, &cfg.S3)
	reportSvc := service.NewReportService(fileRepo, reportRepo, s3Client, extractor, analyzer, cfg.LLM.DefaultModel)
	batchSvc := service.NewBatchService(batchRepo, fileRepo, s3Client, runner, sender)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	fileH := handler.NewFileHandler(fileSvc)
	reportH := handler.NewReportHandler(reportSvc)
	batchH := handler.NewBatchHandler(batchSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(cfg, authSvc, authH, fileH, reportH, batchH, healthH)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start the batch queue worker
	worker := service.NewBatchQueueWorker(batchRepo, batchSvc, service.BatchQueueConfig{
		PollInterval: time.Duration(cfg.Batch.PollIntervalSecs) * time.Second,
		Concurrency:  cfg.Batch.Concurrency,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		stop()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	<-workerDone
	log.Println("Shutdown complete")
	return nil
}
