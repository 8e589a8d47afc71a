package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"medrep/internal/analysis"
	"medrep/internal/domain"
	"medrep/internal/port"
)

// CreateBatchInput is the DTO for batch creation requests. FileIDs order is
// the batch's input order and is preserved through to the outcome rows.
type CreateBatchInput struct {
	FileIDs     []uuid.UUID `json:"file_ids" binding:"required"`
	NotifyEmail string      `json:"notify_email" binding:"omitempty,email"`
}

// BatchService manages batch analysis runs over sets of uploaded reports.
type BatchService interface {
	CreateBatch(ctx context.Context, input CreateBatchInput) (*domain.BatchRun, error)
	GetBatch(ctx context.Context, batchID uuid.UUID) (*domain.BatchRun, []domain.BatchItem, error)
	ListBatches(ctx context.Context, offset, limit int) ([]domain.BatchRun, int, error)
	// RunBatch executes one claimed run to completion. It never returns an
	// error for per-document failures; only run-level persistence problems
	// surface.
	RunBatch(ctx context.Context, run *domain.BatchRun) error
}

type batchService struct {
	batchRepo port.BatchRepository
	fileRepo  port.FileMetaRepository
	storage   port.ObjectStorage
	runner    *analysis.BatchRunner
	sender    port.EmailSender
}

// NewBatchService creates a new BatchService implementation.
func NewBatchService(
	batchRepo port.BatchRepository,
	fileRepo port.FileMetaRepository,
	storage port.ObjectStorage,
	runner *analysis.BatchRunner,
	sender port.EmailSender,
) BatchService {
	return &batchService{
		batchRepo: batchRepo,
		fileRepo:  fileRepo,
		storage:   storage,
		runner:    runner,
		sender:    sender,
	}
}

func (s *batchService) CreateBatch(ctx context.Context, input CreateBatchInput) (*domain.BatchRun, error) {
	if len(input.FileIDs) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	run := &domain.BatchRun{
		ID:          uuid.New(),
		Status:      domain.BatchStatusQueued,
		NotifyEmail: input.NotifyEmail,
	}

	items := make([]domain.BatchItem, 0, len(input.FileIDs))
	for idx, fileID := range input.FileIDs {
		meta, err := s.fileRepo.GetByID(ctx, fileID)
		if err != nil {
			return nil, err
		}
		if meta.Status != domain.FileStatusUploaded {
			return nil, fmt.Errorf("%w: %s", domain.ErrFileNotReady, fileID)
		}
		items = append(items, domain.BatchItem{
			ID:       uuid.New(),
			BatchID:  run.ID,
			Idx:      idx,
			FileID:   fileID,
			FileName: meta.OriginalName,
			Status:   domain.OutcomePending,
		})
	}

	if err := s.batchRepo.CreateRun(ctx, run, items); err != nil {
		return nil, err
	}

	log.Printf("batchService.CreateBatch: queued batch %s with %d files", run.ID, len(items))
	return run, nil
}

func (s *batchService) GetBatch(ctx context.Context, batchID uuid.UUID) (*domain.BatchRun, []domain.BatchItem, error) {
	run, err := s.batchRepo.GetRun(ctx, batchID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.batchRepo.ListItems(ctx, batchID)
	if err != nil {
		return nil, nil, err
	}
	return run, items, nil
}

func (s *batchService) ListBatches(ctx context.Context, offset, limit int) ([]domain.BatchRun, int, error) {
	return s.batchRepo.ListRuns(ctx, offset, limit)
}

func (s *batchService) RunBatch(ctx context.Context, run *domain.BatchRun) error {
	items, err := s.batchRepo.ListItems(ctx, run.ID)
	if err != nil {
		return s.failRun(ctx, run, fmt.Sprintf("loading items: %v", err))
	}

	log.Printf("batchService.RunBatch: running batch %s (%d documents)", run.ID, len(items))

	// Fetch each document. A document that cannot be loaded gets its failure
	// recorded and is excluded from the runner; handleItem maps a runner
	// index back to its item row.
	handles := make([]analysis.DocumentHandle, 0, len(items))
	handleItem := make([]int, 0, len(items))
	for i := range items {
		item := &items[i]
		meta, err := s.fileRepo.GetByID(ctx, item.FileID)
		if err == nil {
			var data []byte
			data, err = s.storage.Download(ctx, meta.S3Bucket, meta.S3Key)
			if err == nil {
				handles = append(handles, analysis.DocumentHandle{
					ID:   item.FileID.String(),
					Name: item.FileName,
					Kind: meta.Kind,
					Data: data,
				})
				handleItem = append(handleItem, i)
				continue
			}
		}
		item.Status = domain.OutcomeFailed
		item.FailureKind = domain.FailureUnreadableFormat
		item.FailureReason = fmt.Sprintf("loading document: %v", err)
		if uerr := s.batchRepo.UpdateItem(ctx, item); uerr != nil {
			return s.failRun(ctx, run, fmt.Sprintf("persisting item %d: %v", item.Idx, uerr))
		}
	}

	outcomes, aggregate := s.runner.Run(ctx, handles)

	failures := 0
	for j := range outcomes {
		out := &outcomes[j]
		item := &items[handleItem[j]]
		item.Status = out.Status
		item.FailureKind = out.FailureKind
		item.FailureReason = out.FailureReason
		if out.Result != nil {
			answers, merr := json.Marshal(out.Result.Answers)
			if merr != nil {
				return s.failRun(ctx, run, fmt.Sprintf("encoding answers for item %d: %v", item.Idx, merr))
			}
			item.Answers = answers
		}
		if err := s.batchRepo.UpdateItem(ctx, item); err != nil {
			return s.failRun(ctx, run, fmt.Sprintf("persisting item %d: %v", item.Idx, err))
		}
	}
	for i := range items {
		if items[i].Status == domain.OutcomeFailed {
			failures++
		}
	}

	aggJSON, err := json.Marshal(aggregate)
	if err != nil {
		return s.failRun(ctx, run, fmt.Sprintf("encoding aggregate: %v", err))
	}

	now := time.Now().UTC()
	run.Status = domain.BatchStatusCompleted
	run.Aggregate = aggJSON
	run.CompletedAt = &now
	if err := s.batchRepo.UpdateRun(ctx, run); err != nil {
		return fmt.Errorf("batchService.RunBatch: completing run: %w", err)
	}

	log.Printf("batchService.RunBatch: batch %s completed (%d analyzed, %d failed)",
		run.ID, aggregate.Documents(), failures)

	if run.NotifyEmail != "" {
		err := s.sender.SendBatchSummary(ctx, run.NotifyEmail, port.BatchSummaryEmail{
			BatchID:   run.ID.String(),
			Documents: len(items),
			Failures:  failures,
			Summary:   aggregate.RenderText(),
		})
		if err != nil {
			// Notification failure does not fail the run.
			log.Printf("batchService.RunBatch: summary email for batch %s failed: %v", run.ID, err)
		}
	}
	return nil
}

func (s *batchService) failRun(ctx context.Context, run *domain.BatchRun, reason string) error {
	log.Printf("batchService.RunBatch: batch %s failed: %s", run.ID, reason)
	now := time.Now().UTC()
	run.Status = domain.BatchStatusFailed
	run.Error = reason
	run.CompletedAt = &now
	if err := s.batchRepo.UpdateRun(ctx, run); err != nil {
		return fmt.Errorf("batchService.RunBatch: marking run failed: %w", err)
	}
	return nil
}
