package noop

import (
	"context"
	"log"

	"medrep/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs batch summaries to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendBatchSummary(_ context.Context, toEmail string, summary port.BatchSummaryEmail) error {
	log.Printf("[NOOP EMAIL] Batch summary for %s: batch=%s documents=%d failures=%d",
		toEmail, summary.BatchID, summary.Documents, summary.Failures)
	return nil
}
