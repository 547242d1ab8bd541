package rules

// ActionType identifies what a fired rule contributes to the result.
type ActionType string

const (
	ActionError      ActionType = "error"
	ActionWarning    ActionType = "warning"
	ActionSuggestion ActionType = "suggestion"
	ActionBlock      ActionType = "block"
	ActionRequire    ActionType = "require"
)

// Valid reports whether the action type is one of the known kinds.
func (t ActionType) Valid() bool {
	switch t {
	case ActionError, ActionWarning, ActionSuggestion, ActionBlock, ActionRequire:
		return true
	}
	return false
}

// Bucket returns the result bucket this action type lands in:
// error and block go to errors, warning to warnings, suggestion and
// require to suggestions. Unknown types fall back to warnings so a
// malformed action is visible without failing the run.
func (t ActionType) Bucket() Bucket {
	switch t {
	case ActionError, ActionBlock:
		return BucketErrors
	case ActionWarning:
		return BucketWarnings
	case ActionSuggestion, ActionRequire:
		return BucketSuggestions
	default:
		return BucketWarnings
	}
}

// Bucket names a ValidationResult list.
type Bucket int

const (
	BucketErrors Bucket = iota
	BucketWarnings
	BucketSuggestions
)

// Severity grades an action for presentation. The engine does not branch
// on severity; it is carried through to the result untouched.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether the severity is one of the known grades.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Action is the payload a fired rule contributes to the result.
type Action struct {
	ID       string         `json:"id"`
	Type     ActionType     `json:"type"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Data     map[string]any `json:"data,omitempty"`
}
