package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagweave/tagweave/internal/rules"
)

func activeRule(id string, priority int, conds ...rules.Condition) rules.ValidationRule {
	return rules.ValidationRule{
		ID:            id,
		FandomID:      "f",
		Conditions:    conds,
		LogicOperator: rules.LogicAnd,
		IsActive:      true,
		Priority:      priority,
	}
}

func TestOrder_FiltersInactive(t *testing.T) {
	inactive := activeRule("off", 1, tagCondition("a"))
	inactive.IsActive = false

	ordered := Order([]rules.ValidationRule{inactive, activeRule("on", 2, tagCondition("a"))})

	require.Len(t, ordered, 1)
	assert.Equal(t, "on", ordered[0].ID)
}

func TestOrder_PriorityAscending(t *testing.T) {
	ordered := Order([]rules.ValidationRule{
		activeRule("late", 30, tagCondition("a")),
		activeRule("early", 1, tagCondition("a")),
		activeRule("mid", 10, tagCondition("a")),
	})

	ids := make([]string, len(ordered))
	for i, r := range ordered {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"early", "mid", "late"}, ids)
}

func TestOrder_CostBreaksPriorityTies(t *testing.T) {
	classCond := rules.Condition{
		Type:     rules.ConditionTagClassConstraint,
		Target:   "ships",
		Operator: rules.OpGreaterThan,
		Value:    rules.Int(1),
	}

	// Same priority: the single membership test is cheaper than the
	// class constraint, which is cheaper than two conditions.
	cheap := activeRule("cheap", 5, tagCondition("a"))
	classy := activeRule("classy", 5, classCond)
	wide := activeRule("wide", 5, tagCondition("a"), tagCondition("b"))

	ordered := Order([]rules.ValidationRule{wide, classy, cheap})

	ids := make([]string, len(ordered))
	for i, r := range ordered {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"cheap", "classy", "wide"}, ids)
}

func TestOrder_DuplicateRuleIDsKeepOwnCost(t *testing.T) {
	// Two same-priority rules sharing an id must each sort on their own
	// estimated cost, not on whichever cost was computed last.
	heavy := activeRule("dup", 5,
		tagCondition("a"), tagCondition("b"), tagCondition("c"),
		tagCondition("d"), tagCondition("e"))
	light := activeRule("dup", 5, tagCondition("a"))
	mid := activeRule("mid", 5, tagCondition("a"), tagCondition("b"))

	ordered := Order([]rules.ValidationRule{heavy, light, mid})

	require.Len(t, ordered, 3)
	counts := make([]int, len(ordered))
	for i, r := range ordered {
		counts[i] = len(r.Conditions)
	}
	assert.Equal(t, []int{1, 2, 5}, counts)
}

func TestOrder_StableForEqualKeys(t *testing.T) {
	// Identical priority and cost: supplied order must be preserved.
	first := activeRule("first", 5, tagCondition("a"))
	second := activeRule("second", 5, tagCondition("b"))
	third := activeRule("third", 5, tagCondition("c"))

	ordered := Order([]rules.ValidationRule{first, second, third})

	ids := make([]string, len(ordered))
	for i, r := range ordered {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"first", "second", "third"}, ids)

	// And again with a different supplied order.
	ordered = Order([]rules.ValidationRule{third, first, second})
	ids = ids[:0]
	for _, r := range ordered {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"third", "first", "second"}, ids)
}

func TestOrder_DoesNotMutateInput(t *testing.T) {
	in := []rules.ValidationRule{
		activeRule("b", 2, tagCondition("x")),
		activeRule("a", 1, tagCondition("x")),
	}

	_ = Order(in)

	assert.Equal(t, "b", in[0].ID, "input slice order must be untouched")
	assert.Equal(t, "a", in[1].ID)
}

func TestEstimateCost_RelativeOrdering(t *testing.T) {
	membership := activeRule("m", 0, tagCondition("a"))

	class := activeRule("c", 0, rules.Condition{
		Type: rules.ConditionTagClassConstraint, Target: "ships",
		Operator: rules.OpEquals, Value: rules.Int(1),
	})

	unknown := activeRule("u", 0, rules.Condition{
		Type: rules.ConditionType("mystery"), Target: "x",
		Operator: rules.OpEquals,
	})

	assert.Less(t, EstimateCost(membership), EstimateCost(class))
	assert.Less(t, EstimateCost(class), EstimateCost(unknown))

	// More conditions cost more.
	two := activeRule("two", 0, tagCondition("a"), tagCondition("b"))
	assert.Less(t, EstimateCost(membership), EstimateCost(two))

	// OR is priced below AND for otherwise identical rules.
	orRule := activeRule("or", 0, tagCondition("a"))
	orRule.LogicOperator = rules.LogicOr
	assert.Less(t, EstimateCost(orRule), EstimateCost(membership))

	// Explicit condition weight raises the estimate.
	weighted := activeRule("w", 0, rules.Condition{
		Type: rules.ConditionTagPresent, Target: "a",
		Operator: rules.OpEquals, Value: rules.Bool(true), Weight: 50,
	})
	assert.Less(t, EstimateCost(membership), EstimateCost(weighted))
}
