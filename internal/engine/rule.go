package engine

import (
	"github.com/tagweave/tagweave/internal/rules"
)

// ShouldFire reports whether a rule's conditions are satisfied by the
// input, so its actions should be applied.
//
// A rule with no conditions never fires. This is a documented property
// of the rule model, not an error: admins stage rules without conditions
// while drafting, and those must stay inert.
//
// ShouldFire assumes structurally clean input - the orchestrator has
// already verified that every condition type is a known kind. That keeps
// this function total and simple: for any rule and input it returns a
// bool, never an error.
func ShouldFire(rule rules.ValidationRule, input rules.ValidationInput) bool {
	if len(rule.Conditions) == 0 {
		return false
	}

	switch rule.LogicOperator {
	case rules.LogicAnd:
		for _, cond := range rule.Conditions {
			if !EvaluateCondition(cond, input) {
				return false
			}
		}
		return true

	case rules.LogicOr:
		for _, cond := range rule.Conditions {
			if EvaluateCondition(cond, input) {
				return true
			}
		}
		return false

	default:
		// Unknown logic operator: the rule cannot express when it should
		// fire, so it doesn't.
		return false
	}
}
