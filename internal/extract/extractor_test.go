package extract

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"medrep/internal/domain"
	"medrep/internal/port"
)

func TestExtract_CSV(t *testing.T) {
	data := []byte("Test,Result,Range\nHemoglobin,9.1,12-16\nTSH,8.2,0.4-4.0\n")

	text, err := NewExtractor().Extract(context.Background(), port.ExtractInput{
		Data: data,
		Kind: domain.KindCSV,
		Name: "labs.csv",
	})

	require.NoError(t, err)
	assert.Contains(t, text, "Hemoglobin, 9.1, 12-16")
	assert.Contains(t, text, "TSH, 8.2, 0.4-4.0")
}

func TestExtract_CSVRaggedRows(t *testing.T) {
	data := []byte("a,b,c\nd,e\nf\n")

	text, err := NewExtractor().Extract(context.Background(), port.ExtractInput{
		Data: data,
		Kind: domain.KindCSV,
	})

	require.NoError(t, err)
	assert.Contains(t, text, "d, e")
}

func TestExtract_CSVEmpty(t *testing.T) {
	_, err := NewExtractor().Extract(context.Background(), port.ExtractInput{
		Data: []byte(""),
		Kind: domain.KindCSV,
	})

	assert.ErrorIs(t, err, domain.ErrNoExtractableText)
}

func TestExtract_XLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Test"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "Result"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Glucose"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 140))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	text, err := NewExtractor().Extract(context.Background(), port.ExtractInput{
		Data: buf.Bytes(),
		Kind: domain.KindXLSX,
		Name: "labs.xlsx",
	})

	require.NoError(t, err)
	assert.Contains(t, text, "Test, Result")
	assert.Contains(t, text, "Glucose, 140")
}

func TestExtract_XLSXGarbage(t *testing.T) {
	_, err := NewExtractor().Extract(context.Background(), port.ExtractInput{
		Data: []byte("not a zip archive"),
		Kind: domain.KindXLSX,
	})

	assert.ErrorIs(t, err, domain.ErrUnreadableFormat)
}

func TestExtract_PDFGarbage(t *testing.T) {
	_, err := NewExtractor().Extract(context.Background(), port.ExtractInput{
		Data: []byte("%PDF-not-really"),
		Kind: domain.KindPDF,
	})

	assert.ErrorIs(t, err, domain.ErrUnreadableFormat)
}

func TestExtract_UnsupportedKind(t *testing.T) {
	_, err := NewExtractor().Extract(context.Background(), port.ExtractInput{
		Data: []byte("plain text"),
		Kind: domain.DocumentKind("docx"),
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedKind)
}

func TestExtract_WhitespaceOnlyText(t *testing.T) {
	// A parsable document whose cells are all blank yields no usable text.
	data := []byte("   \n")

	_, err := NewExtractor().Extract(context.Background(), port.ExtractInput{
		Data: data,
		Kind: domain.KindCSV,
	})

	assert.ErrorIs(t, err, domain.ErrNoExtractableText)
}
