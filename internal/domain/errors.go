package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrFileNotReady        = errors.New("file is not in uploaded state")
	ErrEmptyBatch          = errors.New("batch requires at least one file")
	ErrBatchNotFound       = errors.New("batch run not found")
	ErrReportNotFound      = errors.New("report analysis not found")

	// Extraction failure taxonomy. These terminate one document's
	// contribution to a batch but never abort the batch itself.
	ErrUnsupportedKind   = errors.New("unsupported document kind")
	ErrUnreadableFormat  = errors.New("document format could not be read")
	ErrNoExtractableText = errors.New("no extractable text in document")
)
