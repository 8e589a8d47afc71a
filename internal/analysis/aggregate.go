package analysis

import (
	"fmt"
	"strings"
)

// GroupAggregate is the batch-level output. The two finding sets grow by set
// union across documents; the three sequences grow by one appended entry per
// successfully analyzed document, failure markers included, so sequence
// length always equals the number of analyzed documents.
type GroupAggregate struct {
	CommonAbnormalities *FindingSet `json:"common_abnormalities"`
	CommonConditions    *FindingSet `json:"common_conditions"`
	Medications         []string    `json:"medications"`
	Supplements         []string    `json:"supplements"`
	Activities          []string    `json:"activities"`
}

// NewGroupAggregate creates an empty aggregate.
func NewGroupAggregate() *GroupAggregate {
	return &GroupAggregate{
		CommonAbnormalities: NewFindingSet(),
		CommonConditions:    NewFindingSet(),
		Medications:         []string{},
		Supplements:         []string{},
		Activities:          []string{},
	}
}

// Fold merges one document's analysis result into the aggregate. Updates are
// monotonic: sets only grow, sequences only append. Not safe for concurrent
// use; the batch runner applies folds from a single goroutine.
func (g *GroupAggregate) Fold(res *AnalysisResult) {
	g.CommonAbnormalities.Union(Sanitize(res.Answer(QueryAbnormalities).Text))
	g.CommonConditions.Union(Sanitize(res.Answer(QueryConditions).Text))
	g.Medications = append(g.Medications, res.Answer(QueryMedications).Text)
	g.Supplements = append(g.Supplements, res.Answer(QuerySupplements).Text)
	g.Activities = append(g.Activities, res.Answer(QueryActivities).Text)
}

// Documents returns the number of documents folded in.
func (g *GroupAggregate) Documents() int {
	return len(g.Medications)
}

// RenderText renders the aggregate as a plain-text summary, one section per
// field.
func (g *GroupAggregate) RenderText() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Common Abnormalities: %s\n", strings.Join(g.CommonAbnormalities.Findings(), ", "))
	fmt.Fprintf(&sb, "Common Conditions: %s\n", strings.Join(g.CommonConditions.Findings(), ", "))
	fmt.Fprintf(&sb, "Medications: %s\n", strings.Join(g.Medications, "; "))
	fmt.Fprintf(&sb, "Supplements: %s\n", strings.Join(g.Supplements, "; "))
	fmt.Fprintf(&sb, "Activities: %s\n", strings.Join(g.Activities, "; "))
	return sb.String()
}
