package rules

// ValidationResult is the aggregate outcome of one validation call.
//
// IsValid is true iff Errors is empty. RulesEvaluated counts rules that
// passed structural validation, whether or not they fired. Buckets are
// never nil: an empty run serializes as empty arrays, not null, so API
// consumers can index without guarding.
type ValidationResult struct {
	IsValid         bool     `json:"is_valid"`
	Errors          []Action `json:"errors"`
	Warnings        []Action `json:"warnings"`
	Suggestions     []Action `json:"suggestions"`
	ExecutionTimeMS float64  `json:"execution_time_ms"`
	RulesEvaluated  int      `json:"rules_evaluated"`
}

// NewValidationResult returns an empty, valid result with allocated buckets.
func NewValidationResult() ValidationResult {
	return ValidationResult{
		IsValid:     true,
		Errors:      []Action{},
		Warnings:    []Action{},
		Suggestions: []Action{},
	}
}

// Add routes an action into its bucket and recomputes IsValid.
func (r *ValidationResult) Add(a Action) {
	switch a.Type.Bucket() {
	case BucketErrors:
		r.Errors = append(r.Errors, a)
	case BucketWarnings:
		r.Warnings = append(r.Warnings, a)
	case BucketSuggestions:
		r.Suggestions = append(r.Suggestions, a)
	}
	r.IsValid = len(r.Errors) == 0
}

// Merge appends another result's buckets in order and recomputes IsValid.
// Used when parallel rule evaluation reassembles per-rule outcomes.
func (r *ValidationResult) Merge(other ValidationResult) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Suggestions = append(r.Suggestions, other.Suggestions...)
	r.IsValid = len(r.Errors) == 0
}
