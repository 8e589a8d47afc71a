package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/unidoc/unipdf/v3/common/license"

	"medrep/internal/domain"
	"medrep/internal/port"
)

// SetUnidocLicense registers the UniPDF metered license key. Must be called
// once before any PDF extraction; an empty key is a no-op so the service can
// still run for CSV/XLSX-only workloads.
func SetUnidocLicense(key string) error {
	if key == "" {
		return nil
	}
	if err := license.SetMeteredKey(key); err != nil {
		return fmt.Errorf("setting unidoc license key: %w", err)
	}
	return nil
}

type extractor struct{}

// NewExtractor creates a TextExtractor that dispatches on document kind.
func NewExtractor() port.TextExtractor {
	return &extractor{}
}

func (e *extractor) Extract(ctx context.Context, input port.ExtractInput) (string, error) {
	var (
		text string
		err  error
	)

	switch input.Kind {
	case domain.KindPDF:
		text, err = extractPDF(input.Data)
	case domain.KindCSV:
		text, err = extractCSV(input.Data)
	case domain.KindXLSX:
		text, err = extractXLSX(input.Data)
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedKind, input.Kind)
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", domain.ErrNoExtractableText
	}
	return text, nil
}
