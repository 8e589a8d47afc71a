package domain

// DocumentKind represents the supported report encodings.
type DocumentKind string

const (
	KindPDF  DocumentKind = "pdf"
	KindCSV  DocumentKind = "csv"
	KindXLSX DocumentKind = "xlsx"
)

// AllowedKinds maps DocumentKind to its MIME content type.
var AllowedKinds = map[DocumentKind]string{
	KindPDF:  "application/pdf",
	KindCSV:  "text/csv",
	KindXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// AllowedExtensions maps file extensions (without dot) to DocumentKind.
var AllowedExtensions = map[string]DocumentKind{
	"pdf":  KindPDF,
	"csv":  KindCSV,
	"xlsx": KindXLSX,
}

// FileStatus represents the lifecycle of an uploaded report file.
type FileStatus string

const (
	FileStatusPending  FileStatus = "pending"
	FileStatusUploaded FileStatus = "uploaded"
	FileStatusFailed   FileStatus = "failed"
	FileStatusDeleted  FileStatus = "deleted"
)

// BatchStatus represents the lifecycle of a batch run.
type BatchStatus string

const (
	BatchStatusQueued    BatchStatus = "queued"
	BatchStatusRunning   BatchStatus = "running"
	BatchStatusCompleted BatchStatus = "completed"
	BatchStatusFailed    BatchStatus = "failed"
)

// ReportStatus represents the lifecycle of a single-report analysis.
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusCompleted ReportStatus = "completed"
	ReportStatusFailed    ReportStatus = "failed"
)

// OutcomeStatus marks a batch item as analyzed or failed.
type OutcomeStatus string

const (
	OutcomePending OutcomeStatus = "pending"
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeFailed  OutcomeStatus = "failed"
)

// FailureKind classifies why a document contributed nothing to a batch.
type FailureKind string

const (
	FailureUnsupportedKind   FailureKind = "unsupported_kind"
	FailureUnreadableFormat  FailureKind = "unreadable_format"
	FailureNoExtractableText FailureKind = "no_extractable_text"
)
