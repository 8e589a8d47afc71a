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

type reportRepo struct {
	db *sqlx.DB
}

// NewReportRepo creates a new PostgreSQL-backed ReportRepository.
func NewReportRepo(db *sqlx.DB) port.ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) Create(ctx context.Context, report *domain.ReportAnalysis) error {
	now := time.Now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now

	query := `INSERT INTO report_analyses
		(id, file_id, status, model, answers, error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		report.ID, report.FileID, report.Status, report.Model,
		report.Answers, report.Error, report.CreatedAt, report.UpdatedAt)
	if err != nil {
		return fmt.Errorf("reportRepo.Create: %w", err)
	}
	return nil
}

func (r *reportRepo) GetByID(ctx context.Context, reportID uuid.UUID) (*domain.ReportAnalysis, error) {
	var report domain.ReportAnalysis
	err := r.db.GetContext(ctx, &report,
		"SELECT * FROM report_analyses WHERE id = $1", reportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("reportRepo.GetByID: %w", err)
	}
	return &report, nil
}

func (r *reportRepo) Update(ctx context.Context, report *domain.ReportAnalysis) error {
	report.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		`UPDATE report_analyses
		 SET status = $1, model = $2, answers = $3, error = $4, updated_at = $5
		 WHERE id = $6`,
		report.Status, report.Model, report.Answers, report.Error,
		report.UpdatedAt, report.ID)
	if err != nil {
		return fmt.Errorf("reportRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}
