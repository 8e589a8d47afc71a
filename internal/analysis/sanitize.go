package analysis

import (
	"encoding/json"
	"sort"
	"strings"
)

// FindingSet is a deduplicated set of normalized finding strings. Membership
// is case-insensitive and whitespace-trimmed; the first-seen casing is kept
// for display. It serializes as a sorted JSON array.
type FindingSet struct {
	keys     map[string]struct{}
	findings []string
}

// NewFindingSet creates an empty FindingSet.
func NewFindingSet() *FindingSet {
	return &FindingSet{keys: make(map[string]struct{})}
}

// Add inserts one finding. Surrounding whitespace is trimmed; empty and
// duplicate findings are dropped.
func (s *FindingSet) Add(raw string) {
	f := strings.TrimSpace(raw)
	if f == "" {
		return
	}
	key := strings.ToLower(f)
	if _, ok := s.keys[key]; ok {
		return
	}
	s.keys[key] = struct{}{}
	s.findings = append(s.findings, f)
}

// Union merges every finding from other into s.
func (s *FindingSet) Union(other *FindingSet) {
	if other == nil {
		return
	}
	for _, f := range other.findings {
		s.Add(f)
	}
}

// Contains reports whether the set holds the (normalized) finding.
func (s *FindingSet) Contains(f string) bool {
	_, ok := s.keys[strings.ToLower(strings.TrimSpace(f))]
	return ok
}

// Len returns the number of distinct findings.
func (s *FindingSet) Len() int {
	return len(s.findings)
}

// Findings returns the findings sorted lexicographically. Insertion order is
// not significant.
func (s *FindingSet) Findings() []string {
	out := make([]string, len(s.findings))
	copy(out, s.findings)
	sort.Strings(out)
	return out
}

// MarshalJSON serializes the set as a sorted string array.
func (s *FindingSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Findings())
}

// UnmarshalJSON rebuilds the set from a string array.
func (s *FindingSet) UnmarshalJSON(data []byte) error {
	var findings []string
	if err := json.Unmarshal(data, &findings); err != nil {
		return err
	}
	s.keys = make(map[string]struct{})
	s.findings = nil
	for _, f := range findings {
		s.Add(f)
	}
	return nil
}

// Sanitize normalizes a free-text analysis answer into a set of atomic
// findings: split on commas, trim whitespace, drop empty segments, collapse
// duplicates. Deterministic and side-effect free. A failure marker string is
// sanitized like any other answer; callers that need to distinguish failure
// from "no findings" keep that distinction in the outcome record, not here.
func Sanitize(raw string) *FindingSet {
	set := NewFindingSet()
	for _, segment := range strings.Split(raw, ",") {
		set.Add(segment)
	}
	return set
}
