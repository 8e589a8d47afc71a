package port

import "context"

// AnalysisClient abstracts the external text-understanding service.
// Complete sends one prompt and returns the raw free-text answer.
type AnalysisClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}
