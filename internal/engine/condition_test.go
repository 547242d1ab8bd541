package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tagweave/tagweave/internal/rules"
)

func testInput() rules.ValidationInput {
	return rules.NewValidationInput("harry-potter",
		[]string{"harry-hermione-tag", "angst-tag"},
		[]string{"goblin-inheritance"},
		map[string][]string{
			"ships": {"harry-hermione-tag", "harry-ginny-tag", "harry-luna-tag"},
		},
	)
}

func TestEvaluateCondition_Membership(t *testing.T) {
	input := testInput()

	tests := []struct {
		name string
		cond rules.Condition
		want bool
	}{
		{
			name: "tag present, selected",
			cond: rules.Condition{Type: rules.ConditionTagPresent, Target: "harry-hermione-tag", Operator: rules.OpEquals, Value: rules.Bool(true)},
			want: true,
		},
		{
			name: "tag present, not selected",
			cond: rules.Condition{Type: rules.ConditionTagPresent, Target: "harry-ginny-tag", Operator: rules.OpEquals, Value: rules.Bool(true)},
			want: false,
		},
		{
			name: "tag present, value false negates",
			cond: rules.Condition{Type: rules.ConditionTagPresent, Target: "harry-ginny-tag", Operator: rules.OpEquals, Value: rules.Bool(false)},
			want: true,
		},
		{
			name: "tag present, not_equals inverts",
			cond: rules.Condition{Type: rules.ConditionTagPresent, Target: "harry-hermione-tag", Operator: rules.OpNotEquals, Value: rules.Bool(true)},
			want: false,
		},
		{
			name: "tag present, missing value defaults to true",
			cond: rules.Condition{Type: rules.ConditionTagPresent, Target: "angst-tag", Operator: rules.OpEquals},
			want: true,
		},
		{
			name: "tag absent, not selected",
			cond: rules.Condition{Type: rules.ConditionTagAbsent, Target: "harry-ginny-tag", Operator: rules.OpEquals, Value: rules.Bool(true)},
			want: true,
		},
		{
			name: "tag absent, selected",
			cond: rules.Condition{Type: rules.ConditionTagAbsent, Target: "angst-tag", Operator: rules.OpEquals, Value: rules.Bool(true)},
			want: false,
		},
		{
			name: "plot block selected",
			cond: rules.Condition{Type: rules.ConditionPlotBlockSelected, Target: "goblin-inheritance", Operator: rules.OpEquals, Value: rules.Bool(true)},
			want: true,
		},
		{
			name: "plot block excluded",
			cond: rules.Condition{Type: rules.ConditionPlotBlockExcluded, Target: "soul-bond", Operator: rules.OpEquals, Value: rules.Bool(true)},
			want: true,
		},
		{
			name: "membership with numeric operator is invalid",
			cond: rules.Condition{Type: rules.ConditionTagPresent, Target: "angst-tag", Operator: rules.OpGreaterThan, Value: rules.Bool(true)},
			want: false,
		},
		{
			name: "membership with in operator is invalid",
			cond: rules.Condition{Type: rules.ConditionTagPresent, Target: "angst-tag", Operator: rules.OpIn, Value: rules.StringList{"angst-tag"}},
			want: false,
		},
		{
			name: "membership with non-bool value is invalid",
			cond: rules.Condition{Type: rules.ConditionTagPresent, Target: "angst-tag", Operator: rules.OpEquals, Value: rules.Int(1)},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateCondition(tt.cond, input))
		})
	}
}

func TestEvaluateCondition_TagClassConstraint(t *testing.T) {
	// One of the three ships-class tags is selected.
	input := testInput()

	tests := []struct {
		name string
		op   rules.Operator
		val  rules.Value
		want bool
	}{
		{"equals match", rules.OpEquals, rules.Int(1), true},
		{"equals mismatch", rules.OpEquals, rules.Int(2), false},
		{"not_equals", rules.OpNotEquals, rules.Int(2), true},
		{"greater_than false", rules.OpGreaterThan, rules.Int(1), false},
		{"greater_than true", rules.OpGreaterThan, rules.Int(0), true},
		{"less_than", rules.OpLessThan, rules.Int(2), true},
		{"in is invalid for counts", rules.OpIn, rules.Int(1), false},
		{"non-int value is invalid", rules.OpEquals, rules.Bool(true), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond := rules.Condition{
				Type:     rules.ConditionTagClassConstraint,
				Target:   "ships",
				Operator: tt.op,
				Value:    tt.val,
			}
			assert.Equal(t, tt.want, EvaluateCondition(cond, input))
		})
	}
}

func TestEvaluateCondition_UnknownClassIsFalse(t *testing.T) {
	cond := rules.Condition{
		Type:     rules.ConditionTagClassConstraint,
		Target:   "tropes",
		Operator: rules.OpEquals,
		Value:    rules.Int(0),
	}
	assert.False(t, EvaluateCondition(cond, testInput()),
		"unknown class must be false even when the count would compare equal")
}

func TestEvaluateCondition_UnknownTypeIsFalse(t *testing.T) {
	cond := rules.Condition{
		Type:     rules.ConditionType("invalid_type"),
		Target:   "angst-tag",
		Operator: rules.OpEquals,
		Value:    rules.Bool(true),
	}
	assert.False(t, EvaluateCondition(cond, testInput()))
}

func TestEvaluateCondition_Pure(t *testing.T) {
	// Same condition, same input, repeated evaluation: identical result
	// and no mutation of the input's sets.
	input := testInput()
	cond := rules.Condition{Type: rules.ConditionTagPresent, Target: "angst-tag", Operator: rules.OpEquals, Value: rules.Bool(true)}

	before := len(input.SelectedTags)
	for i := 0; i < 100; i++ {
		assert.True(t, EvaluateCondition(cond, input))
	}
	assert.Equal(t, before, len(input.SelectedTags))
}
