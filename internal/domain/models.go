package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FileMeta stores metadata about an uploaded report file.
type FileMeta struct {
	ID           uuid.UUID    `db:"id" json:"id"`
	FileName     string       `db:"file_name" json:"file_name"`
	OriginalName string       `db:"original_name" json:"original_name"`
	Kind         DocumentKind `db:"kind" json:"kind"`
	FileSize     int64        `db:"file_size" json:"file_size"`
	S3Bucket     string       `db:"s3_bucket" json:"s3_bucket"`
	S3Key        string       `db:"s3_key" json:"s3_key"`
	ContentType  string       `db:"content_type" json:"content_type"`
	Status       FileStatus   `db:"status" json:"status"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// ReportAnalysis is a stored single-report analysis: the five raw answers
// for one uploaded file.
type ReportAnalysis struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	FileID    uuid.UUID       `db:"file_id" json:"file_id"`
	Status    ReportStatus    `db:"status" json:"status"`
	Model     string          `db:"model" json:"model"`
	Answers   json.RawMessage `db:"answers" json:"answers"`
	Error     string          `db:"error" json:"error,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// BatchRun is one batch analysis invocation over an ordered set of files.
// Aggregate holds the serialized group aggregate once the run completes.
type BatchRun struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	Status      BatchStatus     `db:"status" json:"status"`
	NotifyEmail string          `db:"notify_email" json:"notify_email,omitempty"`
	Aggregate   json.RawMessage `db:"aggregate" json:"aggregate,omitempty"`
	Error       string          `db:"error" json:"error,omitempty"`
	StartedAt   *time.Time      `db:"started_at" json:"started_at,omitempty"`
	CompletedAt *time.Time      `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// BatchItem is one document's outcome within a batch run. Idx preserves the
// input position; exactly one row exists per input file, whether or not the
// document was analyzed successfully.
type BatchItem struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	BatchID       uuid.UUID       `db:"batch_id" json:"batch_id"`
	Idx           int             `db:"idx" json:"idx"`
	FileID        uuid.UUID       `db:"file_id" json:"file_id"`
	FileName      string          `db:"file_name" json:"file_name"`
	Status        OutcomeStatus   `db:"status" json:"status"`
	FailureKind   FailureKind     `db:"failure_kind" json:"failure_kind,omitempty"`
	FailureReason string          `db:"failure_reason" json:"failure_reason,omitempty"`
	Answers       json.RawMessage `db:"answers" json:"answers,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}
