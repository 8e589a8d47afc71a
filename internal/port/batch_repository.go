package port

import (
	"context"

	"github.com/google/uuid"

	"medrep/internal/domain"
)

// BatchRepository abstracts persistence of batch runs and their per-document
// outcome rows.
type BatchRepository interface {
	CreateRun(ctx context.Context, run *domain.BatchRun, items []domain.BatchItem) error
	GetRun(ctx context.Context, batchID uuid.UUID) (*domain.BatchRun, error)
	ListRuns(ctx context.Context, offset, limit int) ([]domain.BatchRun, int, error)
	// ListItems returns a run's items ordered by input index.
	ListItems(ctx context.Context, batchID uuid.UUID) ([]domain.BatchItem, error)
	// ClaimQueued atomically claims up to limit queued runs, moving them to
	// the running state. Claimed runs belong to the caller.
	ClaimQueued(ctx context.Context, limit int) ([]domain.BatchRun, error)
	UpdateRun(ctx context.Context, run *domain.BatchRun) error
	UpdateItem(ctx context.Context, item *domain.BatchItem) error
}
