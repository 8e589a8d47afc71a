package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"medrep/internal/domain"
)

// extractCSV renders a CSV file as plain text, one comma-joined line per
// record, so the analysis prompts see the tabular content in reading order.
func extractCSV(data []byte) (string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // tolerate ragged rows

	records, err := r.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnreadableFormat, err)
	}
	if len(records) == 0 {
		return "", domain.ErrNoExtractableText
	}

	var sb strings.Builder
	for _, record := range records {
		sb.WriteString(strings.Join(record, ", "))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
