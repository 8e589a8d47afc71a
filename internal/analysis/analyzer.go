package analysis

import (
	"context"
	"fmt"
	"strings"

	"medrep/internal/port"
)

// Answer is the outcome of one analytical query against one document. For a
// failed query Text holds the failure marker ("Error: ...") so downstream
// consumers see the reason verbatim.
type Answer struct {
	Text   string `json:"text"`
	Failed bool   `json:"failed"`
}

// AnalysisResult maps every query name in the battery to its answer.
// Invariant: exactly one entry per defined query — a failed call yields a
// failure-marked entry, never an absent key.
type AnalysisResult struct {
	Answers map[string]Answer `json:"answers"`
}

// Answer returns the entry for the named query.
func (r *AnalysisResult) Answer(name string) Answer {
	return r.Answers[name]
}

// Analyzer runs the fixed query battery against one document's text.
type Analyzer struct {
	client port.AnalysisClient
}

// NewAnalyzer creates an Analyzer backed by the given analysis client.
func NewAnalyzer(client port.AnalysisClient) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze invokes every query in the battery, in order, against text. Each
// call is independent: a failed query never prevents the remaining queries
// from running, and no error escapes this boundary — failures become
// failure-marked answers. The returned result always has one entry per query.
func (a *Analyzer) Analyze(ctx context.Context, text string) *AnalysisResult {
	result := &AnalysisResult{Answers: make(map[string]Answer, len(Battery))}

	if strings.TrimSpace(text) == "" {
		// No service call for empty input.
		for _, q := range Battery {
			result.Answers[q.Name] = failedAnswer("empty document text")
		}
		return result
	}

	for _, q := range Battery {
		out, err := a.client.Complete(ctx, text+"\n\n"+q.Prompt)
		if err != nil {
			result.Answers[q.Name] = failedAnswer(err.Error())
			continue
		}
		result.Answers[q.Name] = Answer{Text: out}
	}
	return result
}

func failedAnswer(reason string) Answer {
	return Answer{Text: fmt.Sprintf("Error: %s", reason), Failed: true}
}
