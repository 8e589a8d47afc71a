package port

import "context"

// BatchSummaryEmail carries the rendered group-level summary for one
// completed batch run.
type BatchSummaryEmail struct {
	BatchID   string
	Documents int
	Failures  int
	Summary   string
}

// EmailSender defines the contract for sending notification emails.
type EmailSender interface {
	SendBatchSummary(ctx context.Context, toEmail string, summary BatchSummaryEmail) error
}
