package engine

import (
	"github.com/tagweave/tagweave/internal/rules"
)

// EvaluateCondition evaluates a single condition against a validation
// input and returns whether it is satisfied.
//
// The function is referentially transparent: no side effects, no
// dependence on anything but its arguments. This is what allows repeated
// and parallel evaluation without coordination.
//
// Invalid shapes never raise. An unknown condition type, an operator
// that does not apply to the condition kind, or a value of the wrong
// type all resolve to false; surfacing a warning for unknown types is
// the orchestrator's job, not the evaluator's.
func EvaluateCondition(cond rules.Condition, input rules.ValidationInput) bool {
	switch cond.Type {
	case rules.ConditionTagPresent:
		return membershipResult(input.HasTag(cond.Target), cond)

	case rules.ConditionTagAbsent:
		return membershipResult(!input.HasTag(cond.Target), cond)

	case rules.ConditionPlotBlockSelected:
		return membershipResult(input.HasPlotBlock(cond.Target), cond)

	case rules.ConditionPlotBlockExcluded:
		return membershipResult(!input.HasPlotBlock(cond.Target), cond)

	case rules.ConditionTagClassConstraint:
		return classConstraintResult(cond, input)

	default:
		return false
	}
}

// membershipResult applies the condition operator to a raw membership
// test result.
//
// equals with value=true returns the raw result, equals with value=false
// its negation; not_equals is the exact inverse. A missing value defaults
// to true (the common "is the tag there?" authoring shape). Any other
// operator, or a non-bool value, is invalid for membership kinds and
// resolves to false.
func membershipResult(member bool, cond rules.Condition) bool {
	want := true
	switch v := cond.Value.(type) {
	case nil:
		// default
	case rules.Bool:
		want = bool(v)
	default:
		return false
	}

	switch cond.Operator {
	case rules.OpEquals:
		return member == want
	case rules.OpNotEquals:
		return member != want
	default:
		return false
	}
}

// classConstraintResult compares the count of selected tags in the target
// tag class against the condition value.
//
// An unknown class resolves to false (the constraint cannot hold over a
// class this input knows nothing about). in/not_in make no sense for a
// count comparison and resolve to false.
func classConstraintResult(cond rules.Condition, input rules.ValidationInput) bool {
	count, ok := input.ClassCount(cond.Target)
	if !ok {
		return false
	}

	threshold, ok := cond.Value.(rules.Int)
	if !ok {
		return false
	}

	switch cond.Operator {
	case rules.OpEquals:
		return count == int(threshold)
	case rules.OpNotEquals:
		return count != int(threshold)
	case rules.OpGreaterThan:
		return count > int(threshold)
	case rules.OpLessThan:
		return count < int(threshold)
	default:
		return false
	}
}
