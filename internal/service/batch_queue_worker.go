package service

import (
	"context"
	"log"
	"sync"
	"time"

	"medrep/internal/port"
)

// BatchQueueConfig holds settings for the batch queue worker.
type BatchQueueConfig struct {
	PollInterval time.Duration
	Concurrency  int
	RunTimeout   time.Duration
}

// BatchQueueWorker polls for queued batch runs and dispatches them for
// execution.
type BatchQueueWorker struct {
	batchRepo    port.BatchRepository
	batchService BatchService
	cfg          BatchQueueConfig
	wg           sync.WaitGroup
}

// NewBatchQueueWorker creates a new BatchQueueWorker.
func NewBatchQueueWorker(batchRepo port.BatchRepository, batchService BatchService, cfg BatchQueueConfig) *BatchQueueWorker {
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 30 * time.Minute
	}
	return &BatchQueueWorker{
		batchRepo:    batchRepo,
		batchService: batchService,
		cfg:          cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight batch runs have finished.
func (w *BatchQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("batchQueueWorker: started (poll=%s, concurrency=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency)

	for {
		select {
		case <-ctx.Done():
			log.Printf("batchQueueWorker: shutting down, waiting for in-flight runs...")
			w.wg.Wait()
			log.Printf("batchQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			runs, err := w.batchRepo.ClaimQueued(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					// Context canceled during poll — exit gracefully
					continue
				}
				log.Printf("batchQueueWorker: ClaimQueued error: %v", err)
				continue
			}

			for i := range runs {
				run := runs[i] // copy for goroutine

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Use a fresh context independent of the poll context
					// so in-flight runs complete even during shutdown.
					runCtx, cancel := context.WithTimeout(context.Background(), w.cfg.RunTimeout)
					defer cancel()

					log.Printf("batchQueueWorker: dispatching batch %s", run.ID)
					if err := w.batchService.RunBatch(runCtx, &run); err != nil {
						log.Printf("batchQueueWorker: batch %s: %v", run.ID, err)
					}
				}()
			}
		}
	}
}
