package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"medrep/internal/domain"
	"medrep/internal/port"
)

type batchRepo struct {
	db *sqlx.DB
}

// NewBatchRepo creates a new PostgreSQL-backed BatchRepository.
func NewBatchRepo(db *sqlx.DB) port.BatchRepository {
	return &batchRepo{db: db}
}

func (r *batchRepo) CreateRun(ctx context.Context, run *domain.BatchRun, items []domain.BatchItem) error {
	now := time.Now().UTC()
	run.CreatedAt = now
	run.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("batchRepo.CreateRun begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO batch_runs
		 (id, status, notify_email, aggregate, error, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		run.ID, run.Status, run.NotifyEmail, run.Aggregate, run.Error,
		run.CreatedAt, run.UpdatedAt)
	if err != nil {
		return fmt.Errorf("batchRepo.CreateRun run: %w", err)
	}

	for i := range items {
		item := &items[i]
		item.CreatedAt = now
		item.UpdatedAt = now
		_, err = tx.ExecContext(ctx,
			`INSERT INTO batch_items
			 (id, batch_id, idx, file_id, file_name, status, failure_kind,
			  failure_reason, answers, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			item.ID, item.BatchID, item.Idx, item.FileID, item.FileName,
			item.Status, item.FailureKind, item.FailureReason, item.Answers,
			item.CreatedAt, item.UpdatedAt)
		if err != nil {
			return fmt.Errorf("batchRepo.CreateRun item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("batchRepo.CreateRun commit: %w", err)
	}
	return nil
}

func (r *batchRepo) GetRun(ctx context.Context, batchID uuid.UUID) (*domain.BatchRun, error) {
	var run domain.BatchRun
	err := r.db.GetContext(ctx, &run,
		"SELECT * FROM batch_runs WHERE id = $1", batchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBatchNotFound
		}
		return nil, fmt.Errorf("batchRepo.GetRun: %w", err)
	}
	return &run, nil
}

func (r *batchRepo) ListRuns(ctx context.Context, offset, limit int) ([]domain.BatchRun, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM batch_runs")
	if err != nil {
		return nil, 0, fmt.Errorf("batchRepo.ListRuns count: %w", err)
	}

	var runs []domain.BatchRun
	err = r.db.SelectContext(ctx, &runs,
		"SELECT * FROM batch_runs ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("batchRepo.ListRuns: %w", err)
	}
	return runs, total, nil
}

func (r *batchRepo) ListItems(ctx context.Context, batchID uuid.UUID) ([]domain.BatchItem, error) {
	var items []domain.BatchItem
	err := r.db.SelectContext(ctx, &items,
		"SELECT * FROM batch_items WHERE batch_id = $1 ORDER BY idx ASC", batchID)
	if err != nil {
		return nil, fmt.Errorf("batchRepo.ListItems: %w", err)
	}
	return items, nil
}

func (r *batchRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.BatchRun, error) {
	now := time.Now().UTC()

	var runs []domain.BatchRun
	err := r.db.SelectContext(ctx, &runs,
		`UPDATE batch_runs SET status = $1, started_at = $2, updated_at = $2
		 WHERE id IN (
		 	SELECT id FROM batch_runs
		 	WHERE status = $3
		 	ORDER BY created_at ASC
		 	LIMIT $4
		 	FOR UPDATE SKIP LOCKED
		 )
		 RETURNING *`,
		domain.BatchStatusRunning, now, domain.BatchStatusQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("batchRepo.ClaimQueued: %w", err)
	}
	return runs, nil
}

func (r *batchRepo) UpdateRun(ctx context.Context, run *domain.BatchRun) error {
	run.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		`UPDATE batch_runs
		 SET status = $1, aggregate = $2, error = $3, started_at = $4,
		     completed_at = $5, updated_at = $6
		 WHERE id = $7`,
		run.Status, run.Aggregate, run.Error, run.StartedAt,
		run.CompletedAt, run.UpdatedAt, run.ID)
	if err != nil {
		return fmt.Errorf("batchRepo.UpdateRun: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrBatchNotFound
	}
	return nil
}

func (r *batchRepo) UpdateItem(ctx context.Context, item *domain.BatchItem) error {
	item.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		`UPDATE batch_items
		 SET status = $1, failure_kind = $2, failure_reason = $3, answers = $4,
		     updated_at = $5
		 WHERE id = $6`,
		item.Status, item.FailureKind, item.FailureReason, item.Answers,
		item.UpdatedAt, item.ID)
	if err != nil {
		return fmt.Errorf("batchRepo.UpdateItem: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
