package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"medrep/internal/analysis"
	"medrep/internal/domain"
	"medrep/internal/port"
)

// ReportService runs the analytical query battery against a single uploaded
// report and stores the result.
type ReportService interface {
	Analyze(ctx context.Context, fileID uuid.UUID) (*domain.ReportAnalysis, error)
	GetByID(ctx context.Context, reportID uuid.UUID) (*domain.ReportAnalysis, error)
}

type reportService struct {
	fileRepo   port.FileMetaRepository
	reportRepo port.ReportRepository
	storage    port.ObjectStorage
	extractor  port.TextExtractor
	analyzer   *analysis.Analyzer
	model      string
}

// NewReportService creates a new ReportService implementation.
func NewReportService(
	fileRepo port.FileMetaRepository,
	reportRepo port.ReportRepository,
	storage port.ObjectStorage,
	extractor port.TextExtractor,
	analyzer *analysis.Analyzer,
	model string,
) ReportService {
	return &reportService{
		fileRepo:   fileRepo,
		reportRepo: reportRepo,
		storage:    storage,
		extractor:  extractor,
		analyzer:   analyzer,
		model:      model,
	}
}

func (s *reportService) Analyze(ctx context.Context, fileID uuid.UUID) (*domain.ReportAnalysis, error) {
	meta, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if meta.Status != domain.FileStatusUploaded {
		return nil, domain.ErrFileNotReady
	}

	report := &domain.ReportAnalysis{
		ID:     uuid.New(),
		FileID: fileID,
		Status: domain.ReportStatusPending,
		Model:  s.model,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	log.Printf("reportService.Analyze: analyzing file %s (%s)", meta.ID, meta.OriginalName)

	data, err := s.storage.Download(ctx, meta.S3Bucket, meta.S3Key)
	if err != nil {
		return s.fail(ctx, report, fmt.Sprintf("downloading file: %v", err))
	}

	text, err := s.extractor.Extract(ctx, port.ExtractInput{
		Data: data,
		Kind: meta.Kind,
		Name: meta.OriginalName,
	})
	if err != nil {
		return s.fail(ctx, report, fmt.Sprintf("extracting text: %v", err))
	}

	result := s.analyzer.Analyze(ctx, text)
	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return s.fail(ctx, report, fmt.Sprintf("encoding answers: %v", err))
	}

	report.Status = domain.ReportStatusCompleted
	report.Answers = answers
	if err := s.reportRepo.Update(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) GetByID(ctx context.Context, reportID uuid.UUID) (*domain.ReportAnalysis, error) {
	return s.reportRepo.GetByID(ctx, reportID)
}

func (s *reportService) fail(ctx context.Context, report *domain.ReportAnalysis, reason string) (*domain.ReportAnalysis, error) {
	log.Printf("reportService.Analyze: report %s failed: %s", report.ID, reason)
	report.Status = domain.ReportStatusFailed
	report.Error = reason
	if err := s.reportRepo.Update(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}
