package analysis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"medrep/internal/analysis"
	"medrep/mocks"
)

func TestAnalyze_AllQueriesSucceed(t *testing.T) {
	client := new(mocks.MockAnalysisClient)
	text := "Hemoglobin 9.1 g/dL. TSH elevated."
	for _, q := range analysis.Battery {
		client.On("Complete", mock.Anything, text+"\n\n"+q.Prompt).
			Return("answer for "+q.Name, nil).Once()
	}

	result := analysis.NewAnalyzer(client).Analyze(context.Background(), text)

	require.Len(t, result.Answers, len(analysis.Battery))
	for _, q := range analysis.Battery {
		ans := result.Answer(q.Name)
		assert.False(t, ans.Failed)
		assert.Equal(t, "answer for "+q.Name, ans.Text)
	}
	client.AssertExpectations(t)
}

func TestAnalyze_FailedQueryGetsMarker(t *testing.T) {
	client := new(mocks.MockAnalysisClient)
	text := "some report text"
	for _, q := range analysis.Battery {
		if q.Name == analysis.QueryConditions {
			client.On("Complete", mock.Anything, text+"\n\n"+q.Prompt).
				Return("", errors.New("upstream timeout")).Once()
			continue
		}
		client.On("Complete", mock.Anything, text+"\n\n"+q.Prompt).
			Return("ok", nil).Once()
	}

	result := analysis.NewAnalyzer(client).Analyze(context.Background(), text)

	// One failure never suppresses the remaining queries.
	require.Len(t, result.Answers, len(analysis.Battery))
	failed := result.Answer(analysis.QueryConditions)
	assert.True(t, failed.Failed)
	assert.Equal(t, "Error: upstream timeout", failed.Text)
	assert.False(t, result.Answer(analysis.QueryMedications).Failed)
	client.AssertExpectations(t)
}

func TestAnalyze_EmptyTextSkipsServiceCalls(t *testing.T) {
	client := new(mocks.MockAnalysisClient)

	result := analysis.NewAnalyzer(client).Analyze(context.Background(), "   \n\t ")

	require.Len(t, result.Answers, len(analysis.Battery))
	for _, q := range analysis.Battery {
		ans := result.Answer(q.Name)
		assert.True(t, ans.Failed)
		assert.Equal(t, "Error: empty document text", ans.Text)
	}
	client.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}
