package extract

import (
	"bytes"
	"fmt"
	"strings"

	pdfextractor "github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"

	"medrep/internal/domain"
)

// extractPDF pulls the text layer out of every page of a PDF.
func extractPDF(data []byte) (string, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnreadableFormat, err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnreadableFormat, err)
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", domain.ErrUnreadableFormat, i, err)
		}

		ex, err := pdfextractor.New(page)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", domain.ErrUnreadableFormat, i, err)
		}

		text, err := ex.ExtractText()
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", domain.ErrUnreadableFormat, i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
