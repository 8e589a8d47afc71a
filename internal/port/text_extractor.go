package port

import (
	"context"

	"medrep/internal/domain"
)

// ExtractInput carries the raw bytes of one uploaded report.
type ExtractInput struct {
	Data []byte
	Kind domain.DocumentKind
	Name string
}

// TextExtractor turns a raw document into plain text. Failures are reported
// through the domain extraction error taxonomy (ErrUnsupportedKind,
// ErrUnreadableFormat, ErrNoExtractableText).
type TextExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (string, error)
}
