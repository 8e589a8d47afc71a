package analysis

// Query is one named analytical prompt from the fixed battery.
type Query struct {
	Name   string
	Prompt string
}

// Query names. The first two feed the deduplicated finding sets; the last
// three are appended to the aggregate one entry per document.
const (
	QueryAbnormalities = "abnormalities"
	QueryConditions    = "conditions"
	QueryMedications   = "medications"
	QuerySupplements   = "supplements"
	QueryActivities    = "activities"
)

// Battery is the fixed, ordered set of analytical queries applied to every
// document. The prompts are part of the service contract, not configuration.
var Battery = []Query{
	{Name: QueryAbnormalities, Prompt: "List all abnormalities."},
	{Name: QueryConditions, Prompt: "Identify conditions of concern."},
	{Name: QueryMedications, Prompt: "Suggest medications with reasons."},
	{Name: QuerySupplements, Prompt: "Recommend food supplements with benefits."},
	{Name: QueryActivities, Prompt: "Suggest suitable activities with benefits."},
}
