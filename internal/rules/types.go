package rules

import (
	"encoding/json"
	"fmt"
)

// ConditionType identifies what a condition inspects.
type ConditionType string

const (
	// ConditionTagPresent tests membership of the target tag in the selection.
	ConditionTagPresent ConditionType = "tag_present"

	// ConditionTagAbsent is the negated membership test.
	ConditionTagAbsent ConditionType = "tag_absent"

	// ConditionPlotBlockSelected tests membership of the target plot block.
	ConditionPlotBlockSelected ConditionType = "plot_block_selected"

	// ConditionPlotBlockExcluded is the negated plot-block membership test.
	ConditionPlotBlockExcluded ConditionType = "plot_block_excluded"

	// ConditionTagClassConstraint compares the count of selected tags in a
	// tag class against the condition value.
	ConditionTagClassConstraint ConditionType = "tag_class_constraint"
)

// Valid reports whether the condition type is one of the known kinds.
func (t ConditionType) Valid() bool {
	switch t {
	case ConditionTagPresent, ConditionTagAbsent,
		ConditionPlotBlockSelected, ConditionPlotBlockExcluded,
		ConditionTagClassConstraint:
		return true
	}
	return false
}

// Operator is the comparison applied by a condition.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpIn          Operator = "in"
	OpNotIn       Operator = "not_in"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
)

// Valid reports whether the operator is one of the known comparisons.
func (o Operator) Valid() bool {
	switch o {
	case OpEquals, OpNotEquals, OpIn, OpNotIn, OpGreaterThan, OpLessThan:
		return true
	}
	return false
}

// LogicOperator combines a rule's condition results.
type LogicOperator string

const (
	LogicAnd LogicOperator = "AND"
	LogicOr  LogicOperator = "OR"
)

// Valid reports whether the logic operator is AND or OR.
func (l LogicOperator) Valid() bool {
	return l == LogicAnd || l == LogicOr
}

// Condition is a single predicate over a validation input.
// Immutable once constructed.
type Condition struct {
	ID       string        `json:"id"`
	Type     ConditionType `json:"type"`
	Target   string        `json:"target"`
	Operator Operator      `json:"operator"`
	Value    Value         `json:"value"`
	Weight   int           `json:"weight"`
}

// conditionJSON is the wire shape of a Condition. Value needs custom
// decoding into the sealed union.
type conditionJSON struct {
	ID       string          `json:"id"`
	Type     ConditionType   `json:"type"`
	Target   string          `json:"target"`
	Operator Operator        `json:"operator"`
	Value    json.RawMessage `json:"value"`
	Weight   int             `json:"weight"`
}

// MarshalJSON implements json.Marshaler for Condition.
func (c Condition) MarshalJSON() ([]byte, error) {
	raw := conditionJSON{
		ID:       c.ID,
		Type:     c.Type,
		Target:   c.Target,
		Operator: c.Operator,
		Weight:   c.Weight,
	}
	if c.Value != nil {
		data, err := MarshalValue(c.Value)
		if err != nil {
			return nil, fmt.Errorf("condition %s: %w", c.ID, err)
		}
		raw.Value = data
	}
	return json.Marshal(raw)
}

// UnmarshalJSON implements json.Unmarshaler for Condition.
func (c *Condition) UnmarshalJSON(data []byte) error {
	var raw conditionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.ID = raw.ID
	c.Type = raw.Type
	c.Target = raw.Target
	c.Operator = raw.Operator
	c.Weight = raw.Weight
	c.Value = nil

	if len(raw.Value) > 0 && string(raw.Value) != "null" {
		val, err := UnmarshalValueJSON(raw.Value)
		if err != nil {
			return fmt.Errorf("condition %s: %w", raw.ID, err)
		}
		c.Value = val
	}
	return nil
}

// ValidationRule is an admin-authored condition → action mapping.
//
// A rule with an empty Conditions slice can never fire. That is a
// documented property of the rule, not a defect: the engine treats it as
// an always-false rule, never as a structural error.
type ValidationRule struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	FandomID      string        `json:"fandom_id"`
	Conditions    []Condition   `json:"conditions"`
	Actions       []Action      `json:"actions"`
	LogicOperator LogicOperator `json:"logic_operator"`
	IsActive      bool          `json:"is_active"`
	Priority      int           `json:"priority"`
}

// PlotBlockNode is the graph view of a plot block used for cycle
// detection. ParentID is the legacy single-parent relation; Dependencies
// is the forward-compatible multi-edge relation. Both are walked when set.
type PlotBlockNode struct {
	ID           string   `json:"id"`
	ParentID     string   `json:"parent_id,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}
