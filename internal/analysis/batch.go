package analysis

import (
	"context"
	"errors"
	"sync"

	"medrep/internal/domain"
	"medrep/internal/port"
)

const defaultMaxInflight = 4

// DocumentHandle references one document queued for batch analysis.
type DocumentHandle struct {
	ID   string
	Name string
	Kind domain.DocumentKind
	Data []byte
}

// Outcome is the per-document result of a batch run. Exactly one outcome
// exists per input handle, in input order. A success outcome may still carry
// failure-marked answers for individual queries.
type Outcome struct {
	Index         int
	DocumentID    string
	DocumentName  string
	Status        domain.OutcomeStatus
	FailureKind   domain.FailureKind
	FailureReason string
	Result        *AnalysisResult
}

// BatchRunner fans a set of documents out to independent extraction and
// analysis pipelines and folds the successes into a group aggregate. One
// document's failure never aborts the batch.
type BatchRunner struct {
	extractor   port.TextExtractor
	analyzer    *Analyzer
	maxInflight int
}

// NewBatchRunner creates a BatchRunner. maxInflight bounds the number of
// documents processed concurrently; values below 1 fall back to the default.
func NewBatchRunner(extractor port.TextExtractor, analyzer *Analyzer, maxInflight int) *BatchRunner {
	if maxInflight < 1 {
		maxInflight = defaultMaxInflight
	}
	return &BatchRunner{
		extractor:   extractor,
		analyzer:    analyzer,
		maxInflight: maxInflight,
	}
}

// Run processes every handle and returns one outcome per handle, in input
// order, plus the group aggregate over the successfully analyzed documents.
// Documents run concurrently up to the inflight bound; each in-flight unit is
// tagged with its input index and reassembled by index, so outcome order is
// independent of completion order. Folding happens on this goroutine only,
// in input order, once all workers have finished.
func (r *BatchRunner) Run(ctx context.Context, handles []DocumentHandle) ([]Outcome, *GroupAggregate) {
	outcomes := make([]Outcome, len(handles))
	sem := make(chan struct{}, r.maxInflight)
	var wg sync.WaitGroup

	for i := range handles {
		i := i
		sem <- struct{}{} // acquire
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }() // release
			outcomes[i] = r.processOne(ctx, i, handles[i])
		}()
	}
	wg.Wait()

	aggregate := NewGroupAggregate()
	for i := range outcomes {
		if outcomes[i].Status == domain.OutcomeSuccess {
			aggregate.Fold(outcomes[i].Result)
		}
	}
	return outcomes, aggregate
}

// processOne runs extraction and analysis for a single document. Extraction
// failure terminates this document's contribution; query-level failures stay
// inside the AnalysisResult and the outcome is still a success.
func (r *BatchRunner) processOne(ctx context.Context, idx int, handle DocumentHandle) Outcome {
	outcome := Outcome{
		Index:        idx,
		DocumentID:   handle.ID,
		DocumentName: handle.Name,
	}

	text, err := r.extractor.Extract(ctx, port.ExtractInput{
		Data: handle.Data,
		Kind: handle.Kind,
		Name: handle.Name,
	})
	if err != nil {
		outcome.Status = domain.OutcomeFailed
		outcome.FailureKind = classifyExtractionError(err)
		outcome.FailureReason = err.Error()
		return outcome
	}

	outcome.Status = domain.OutcomeSuccess
	outcome.Result = r.analyzer.Analyze(ctx, text)
	return outcome
}

func classifyExtractionError(err error) domain.FailureKind {
	switch {
	case errors.Is(err, domain.ErrUnsupportedKind):
		return domain.FailureUnsupportedKind
	case errors.Is(err, domain.ErrNoExtractableText):
		return domain.FailureNoExtractableText
	default:
		return domain.FailureUnreadableFormat
	}
}
