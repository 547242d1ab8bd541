package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tagweave/tagweave/internal/rules"
)

func tagCondition(target string) rules.Condition {
	return rules.Condition{
		ID:       "cond-" + target,
		Type:     rules.ConditionTagPresent,
		Target:   target,
		Operator: rules.OpEquals,
		Value:    rules.Bool(true),
		Weight:   1,
	}
}

func TestShouldFire_EmptyConditionsNeverFires(t *testing.T) {
	rule := rules.ValidationRule{
		ID:            "empty",
		LogicOperator: rules.LogicAnd,
		IsActive:      true,
	}
	input := rules.NewValidationInput("f", []string{"anything"}, nil, nil)

	assert.False(t, ShouldFire(rule, input))

	rule.LogicOperator = rules.LogicOr
	assert.False(t, ShouldFire(rule, input))
}

func TestShouldFire_AndOrTruthTable(t *testing.T) {
	// Two conditions over tags a and b; flip each independently.
	// AND fires only in the all-true case, OR in any-true case.
	cases := []struct {
		selected []string
		wantAnd  bool
		wantOr   bool
	}{
		{[]string{"a", "b"}, true, true},
		{[]string{"a"}, false, true},
		{[]string{"b"}, false, true},
		{nil, false, false},
	}

	conds := []rules.Condition{tagCondition("a"), tagCondition("b")}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("selected=%v", tc.selected), func(t *testing.T) {
			input := rules.NewValidationInput("f", tc.selected, nil, nil)

			andRule := rules.ValidationRule{ID: "and", Conditions: conds, LogicOperator: rules.LogicAnd}
			orRule := rules.ValidationRule{ID: "or", Conditions: conds, LogicOperator: rules.LogicOr}

			assert.Equal(t, tc.wantAnd, ShouldFire(andRule, input), "AND")
			assert.Equal(t, tc.wantOr, ShouldFire(orRule, input), "OR")
		})
	}
}

func TestShouldFire_UnknownLogicOperatorNeverFires(t *testing.T) {
	rule := rules.ValidationRule{
		ID:            "weird",
		Conditions:    []rules.Condition{tagCondition("a")},
		LogicOperator: rules.LogicOperator("XOR"),
	}
	input := rules.NewValidationInput("f", []string{"a"}, nil, nil)

	assert.False(t, ShouldFire(rule, input), "satisfied condition must not fire under unknown operator")
}
