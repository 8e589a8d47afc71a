package port

import (
	"context"

	"github.com/google/uuid"

	"medrep/internal/domain"
)

// ReportRepository abstracts persistence of single-report analyses.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.ReportAnalysis) error
	GetByID(ctx context.Context, reportID uuid.UUID) (*domain.ReportAnalysis, error)
	Update(ctx context.Context, report *domain.ReportAnalysis) error
}
