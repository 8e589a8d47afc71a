package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize_SplitTrimDrop(t *testing.T) {
	set := Sanitize("A, b ,C,,  ")

	assert.Equal(t, 3, set.Len())
	assert.Equal(t, []string{"A", "C", "b"}, set.Findings())
}

func TestSanitize_Deduplicates(t *testing.T) {
	set := Sanitize("anemia, Anemia, ANEMIA, fatigue")

	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains("anemia"))
	assert.True(t, set.Contains("Fatigue"))
	// First-seen casing wins.
	assert.Equal(t, []string{"anemia", "fatigue"}, set.Findings())
}

func TestSanitize_FailureMarkerIsOneFinding(t *testing.T) {
	set := Sanitize("Error: timeout")

	assert.Equal(t, 1, set.Len())
	assert.True(t, set.Contains("Error: timeout"))
}

func TestSanitize_EmptyInput(t *testing.T) {
	assert.Equal(t, 0, Sanitize("").Len())
	assert.Equal(t, 0, Sanitize("  , ,, ").Len())
}

func TestFindingSet_UnionIsIdempotent(t *testing.T) {
	a := Sanitize("anemia, fatigue")
	b := Sanitize("Fatigue, vertigo")

	a.Union(b)
	require.Equal(t, 3, a.Len())

	// Folding the same set again changes nothing.
	a.Union(b)
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, []string{"anemia", "fatigue", "vertigo"}, a.Findings())
}

func TestFindingSet_UnionNil(t *testing.T) {
	a := Sanitize("anemia")
	a.Union(nil)
	assert.Equal(t, 1, a.Len())
}

func TestFindingSet_JSONRoundTrip(t *testing.T) {
	set := Sanitize("vertigo, anemia, Anemia")

	data, err := json.Marshal(set)
	require.NoError(t, err)
	assert.JSONEq(t, `["anemia","vertigo"]`, string(data))

	var decoded FindingSet
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, set.Findings(), decoded.Findings())
}
