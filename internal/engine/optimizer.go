package engine

import (
	"slices"

	"github.com/tagweave/tagweave/internal/rules"
)

// Cost model constants. These are tuning knobs, not correctness
// properties: only the relative ordering they induce matters, and tests
// assert ordering rather than absolute values.
const (
	// baseConditionCost is charged once per condition regardless of kind.
	baseConditionCost = 10

	// Per-kind evaluation cost estimates. Membership tests are a map
	// lookup; class constraints count tags across a class; unknown kinds
	// are priced pessimistically since they signal a malformed rule.
	costMembership = 1
	costTagClass   = 5
	costUnknown    = 10

	// Logic operator penalties. OR can short-circuit on the first true
	// condition, AND has to disprove, so AND is priced slightly higher.
	logicPenaltyAnd = 3
	logicPenaltyOr  = 1
)

// EstimateCost returns the estimated evaluation cost of a rule.
// Cost is base-per-condition plus the per-kind estimate and the
// condition's own weight, plus a logic operator penalty.
func EstimateCost(rule rules.ValidationRule) int {
	cost := baseConditionCost * len(rule.Conditions)

	for _, cond := range rule.Conditions {
		switch cond.Type {
		case rules.ConditionTagPresent, rules.ConditionTagAbsent,
			rules.ConditionPlotBlockSelected, rules.ConditionPlotBlockExcluded:
			cost += costMembership
		case rules.ConditionTagClassConstraint:
			cost += costTagClass
		default:
			cost += costUnknown
		}
		cost += cond.Weight
	}

	switch rule.LogicOperator {
	case rules.LogicOr:
		cost += logicPenaltyOr
	default:
		cost += logicPenaltyAnd
	}

	return cost
}

// Order returns the active rules as a deterministic permutation for
// evaluation: priority ascending (lower priority number evaluates
// first), ties broken by estimated cost ascending, and a stable sort so
// rules with equal keys keep their supplied order across runs.
//
// Fandom filtering happens upstream in the orchestrator; Order is
// fandom-agnostic on purpose.
//
// The input slice is never mutated.
func Order(ruleSet []rules.ValidationRule) []rules.ValidationRule {
	// Pair each rule with its own precomputed cost so the comparator
	// neither recomputes per comparison nor confuses rules that happen
	// to share an id.
	type costedRule struct {
		rule rules.ValidationRule
		cost int
	}

	costed := make([]costedRule, 0, len(ruleSet))
	for _, r := range ruleSet {
		if r.IsActive {
			costed = append(costed, costedRule{rule: r, cost: EstimateCost(r)})
		}
	}

	slices.SortStableFunc(costed, func(a, b costedRule) int {
		if a.rule.Priority != b.rule.Priority {
			if a.rule.Priority < b.rule.Priority {
				return -1
			}
			return 1
		}
		switch {
		case a.cost < b.cost:
			return -1
		case a.cost > b.cost:
			return 1
		default:
			return 0
		}
	})

	ordered := make([]rules.ValidationRule, len(costed))
	for i, c := range costed {
		ordered[i] = c.rule
	}
	return ordered
}
