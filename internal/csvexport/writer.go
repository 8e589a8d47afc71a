package csvexport

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"medrep/internal/analysis"
	"medrep/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (11 columns).
var columns = []string{
	"Index",
	"Document Name",
	"File ID",
	"Status",
	"Failure Kind",
	"Failure Reason",
	"Abnormalities",
	"Conditions",
	"Medications",
	"Supplements",
	"Activities",
}

// Writer wraps csv.Writer for exporting batch outcomes as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteItems converts a batch's outcome rows to CSV and writes them. Items
// are expected in input order.
func (w *Writer) WriteItems(items []domain.BatchItem) error {
	for i := range items {
		if err := w.csv.Write(itemToRow(&items[i])); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary appends the group aggregate as a trailing summary row.
func (w *Writer) WriteSummary(agg *analysis.GroupAggregate) error {
	row := make([]string, len(columns))
	row[1] = "GROUP SUMMARY"
	row[3] = strconv.Itoa(agg.Documents()) + " analyzed"
	row[6] = joinFindings(agg.CommonAbnormalities)
	row[7] = joinFindings(agg.CommonConditions)
	row[8] = joinSeq(agg.Medications)
	row[9] = joinSeq(agg.Supplements)
	row[10] = joinSeq(agg.Activities)
	return w.csv.Write(row)
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// itemToRow converts one outcome row. A failed document gets its failure
// columns filled and the answer columns left empty.
func itemToRow(item *domain.BatchItem) []string {
	row := make([]string, len(columns))
	row[0] = strconv.Itoa(item.Idx)
	row[1] = item.FileName
	row[2] = item.FileID.String()
	row[3] = string(item.Status)
	row[4] = string(item.FailureKind)
	row[5] = item.FailureReason

	if item.Status != domain.OutcomeSuccess || len(item.Answers) == 0 {
		return row
	}

	var answers map[string]analysis.Answer
	if err := json.Unmarshal(item.Answers, &answers); err != nil {
		return row
	}

	row[6] = answers[analysis.QueryAbnormalities].Text
	row[7] = answers[analysis.QueryConditions].Text
	row[8] = answers[analysis.QueryMedications].Text
	row[9] = answers[analysis.QuerySupplements].Text
	row[10] = answers[analysis.QueryActivities].Text
	return row
}

func joinFindings(set *analysis.FindingSet) string {
	if set == nil {
		return ""
	}
	return strings.Join(set.Findings(), ", ")
}

func joinSeq(seq []string) string {
	return strings.Join(seq, "; ")
}

// FileName builds the attachment name for a batch export.
func FileName(batchID string) string {
	return "batch-" + batchID + "-" + time.Now().UTC().Format("20060102") + ".csv"
}
