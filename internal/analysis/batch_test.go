package analysis_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"medrep/internal/analysis"
	"medrep/internal/domain"
	"medrep/internal/port"
	"medrep/mocks"
)

func batteryExpectations(client *mocks.MockAnalysisClient, text string) {
	for _, q := range analysis.Battery {
		client.On("Complete", mock.Anything, text+"\n\n"+q.Prompt).
			Return(q.Name+" of "+text, nil)
	}
}

func TestBatchRunner_OutcomesMatchInputOrder(t *testing.T) {
	extractor := new(mocks.MockTextExtractor)
	client := new(mocks.MockAnalysisClient)

	handles := make([]analysis.DocumentHandle, 6)
	for i := range handles {
		text := fmt.Sprintf("report %d", i)
		handles[i] = analysis.DocumentHandle{
			ID:   fmt.Sprintf("doc-%d", i),
			Name: fmt.Sprintf("report-%d.pdf", i),
			Kind: domain.KindPDF,
			Data: []byte(text),
		}
		extractor.On("Extract", mock.Anything, port.ExtractInput{
			Data: []byte(text),
			Kind: domain.KindPDF,
			Name: handles[i].Name,
		}).Return(text, nil)
		batteryExpectations(client, text)
	}

	runner := analysis.NewBatchRunner(extractor, analysis.NewAnalyzer(client), 2)
	outcomes, agg := runner.Run(context.Background(), handles)

	require.Len(t, outcomes, len(handles))
	for i, out := range outcomes {
		assert.Equal(t, i, out.Index)
		assert.Equal(t, handles[i].ID, out.DocumentID)
		assert.Equal(t, domain.OutcomeSuccess, out.Status)
		require.NotNil(t, out.Result)
	}
	assert.Equal(t, len(handles), agg.Documents())
}

func TestBatchRunner_FailedDocumentContributesNothing(t *testing.T) {
	extractor := new(mocks.MockTextExtractor)
	client := new(mocks.MockAnalysisClient)

	good := analysis.DocumentHandle{ID: "good", Name: "good.pdf", Kind: domain.KindPDF, Data: []byte("good text")}
	bad := analysis.DocumentHandle{ID: "bad", Name: "bad.pdf", Kind: domain.KindPDF, Data: []byte("scan")}

	extractor.On("Extract", mock.Anything, mock.MatchedBy(func(in port.ExtractInput) bool {
		return in.Name == "good.pdf"
	})).Return("good text", nil)
	extractor.On("Extract", mock.Anything, mock.MatchedBy(func(in port.ExtractInput) bool {
		return in.Name == "bad.pdf"
	})).Return("", fmt.Errorf("page 1: %w", domain.ErrUnreadableFormat))
	batteryExpectations(client, "good text")

	runner := analysis.NewBatchRunner(extractor, analysis.NewAnalyzer(client), 4)
	outcomes, agg := runner.Run(context.Background(), []analysis.DocumentHandle{good, bad})

	require.Len(t, outcomes, 2)
	assert.Equal(t, domain.OutcomeSuccess, outcomes[0].Status)
	assert.Equal(t, domain.OutcomeFailed, outcomes[1].Status)
	assert.Equal(t, domain.FailureUnreadableFormat, outcomes[1].FailureKind)
	assert.Nil(t, outcomes[1].Result)

	// Only the analyzed document appears in the aggregate.
	assert.Equal(t, 1, agg.Documents())
	assert.Len(t, agg.Medications, 1)
}

func TestBatchRunner_MixedBatch(t *testing.T) {
	extractor := new(mocks.MockTextExtractor)
	client := new(mocks.MockAnalysisClient)

	handles := []analysis.DocumentHandle{
		{ID: "a", Name: "a.pdf", Kind: domain.KindPDF, Data: []byte("text a")},
		{ID: "b", Name: "b.xlsx", Kind: domain.KindXLSX, Data: []byte{}},
		{ID: "c", Name: "c.csv", Kind: domain.KindCSV, Data: []byte("text c")},
	}
	extractor.On("Extract", mock.Anything, mock.MatchedBy(func(in port.ExtractInput) bool {
		return in.Name == "a.pdf"
	})).Return("text a", nil)
	extractor.On("Extract", mock.Anything, mock.MatchedBy(func(in port.ExtractInput) bool {
		return in.Name == "b.xlsx"
	})).Return("", domain.ErrNoExtractableText)
	extractor.On("Extract", mock.Anything, mock.MatchedBy(func(in port.ExtractInput) bool {
		return in.Name == "c.csv"
	})).Return("text c", nil)
	batteryExpectations(client, "text a")
	batteryExpectations(client, "text c")

	runner := analysis.NewBatchRunner(extractor, analysis.NewAnalyzer(client), 0) // falls back to default bound
	outcomes, agg := runner.Run(context.Background(), handles)

	require.Len(t, outcomes, 3)
	assert.Equal(t, domain.OutcomeSuccess, outcomes[0].Status)
	assert.Equal(t, domain.OutcomeFailed, outcomes[1].Status)
	assert.Equal(t, domain.FailureNoExtractableText, outcomes[1].FailureKind)
	assert.Equal(t, domain.OutcomeSuccess, outcomes[2].Status)

	assert.Equal(t, 2, agg.Documents())
	// Fold order follows input order, not completion order.
	assert.Equal(t, []string{"medications of text a", "medications of text c"}, agg.Medications)
}

func TestBatchRunner_DeterministicAcrossRuns(t *testing.T) {
	buildRunner := func() *analysis.BatchRunner {
		extractor := new(mocks.MockTextExtractor)
		client := new(mocks.MockAnalysisClient)
		for i := 0; i < 5; i++ {
			text := fmt.Sprintf("report %d", i)
			extractor.On("Extract", mock.Anything, mock.MatchedBy(func(in port.ExtractInput) bool {
				return string(in.Data) == text
			})).Return(text, nil)
			batteryExpectations(client, text)
		}
		return analysis.NewBatchRunner(extractor, analysis.NewAnalyzer(client), 3)
	}

	handles := make([]analysis.DocumentHandle, 5)
	for i := range handles {
		handles[i] = analysis.DocumentHandle{
			ID:   fmt.Sprintf("doc-%d", i),
			Kind: domain.KindPDF,
			Data: []byte(fmt.Sprintf("report %d", i)),
		}
	}

	_, first := buildRunner().Run(context.Background(), handles)
	_, second := buildRunner().Run(context.Background(), handles)

	assert.Equal(t, first.Medications, second.Medications)
	assert.Equal(t, first.CommonAbnormalities.Findings(), second.CommonAbnormalities.Findings())
	assert.Equal(t, first.CommonConditions.Findings(), second.CommonConditions.Findings())
}

func TestBatchRunner_EmptyBatch(t *testing.T) {
	runner := analysis.NewBatchRunner(new(mocks.MockTextExtractor), analysis.NewAnalyzer(new(mocks.MockAnalysisClient)), 2)
	outcomes, agg := runner.Run(context.Background(), nil)

	assert.Empty(t, outcomes)
	assert.Equal(t, 0, agg.Documents())
}
