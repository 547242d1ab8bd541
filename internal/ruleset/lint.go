package ruleset

import (
	"fmt"
	"strings"

	"github.com/tagweave/tagweave/internal/rules"
)

// Lint error codes (E100-E199).
const (
	// Rule-level errors (E101-E109)
	ErrRuleIDEmpty     = "E101" // rule id is required
	ErrRuleNameEmpty   = "E102" // rule name is required
	ErrFandomEmpty     = "E103" // fandom id is required
	ErrNoConditions    = "E104" // at least one condition required
	ErrNoActions       = "E105" // at least one action required
	ErrDuplicateRuleID = "E106" // duplicate rule id within a set

	// Condition errors (E110-E119)
	ErrInvalidConditionType = "E110" // unknown condition type
	ErrInvalidOperator      = "E111" // unknown operator
	ErrOperatorMismatch     = "E112" // operator not usable with condition type
	ErrInvalidValueKind     = "E113" // value kind not usable with condition type
	ErrConditionTargetEmpty = "E114" // condition target is required
	ErrDuplicateConditionID = "E115" // duplicate condition id within a rule

	// Action and logic errors (E120-E129)
	ErrInvalidActionType    = "E120" // unknown action type
	ErrInvalidSeverity      = "E121" // unknown severity grade
	ErrActionMessageEmpty   = "E122" // action message is required
	ErrDuplicateActionID    = "E123" // duplicate action id within a rule
	ErrInvalidLogicOperator = "E124" // logic operator must be AND or OR
)

// ValidationError represents an authoring defect in a rule.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// LintRule checks one rule for authoring defects. Returns all errors
// found, never failing fast: editors want the full list in one pass.
func LintRule(rule *rules.ValidationRule) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(rule.ID) == "" {
		errs = append(errs, ValidationError{
			Field:   "id",
			Message: "rule id is required and must be non-empty",
			Code:    ErrRuleIDEmpty,
		})
	}

	if strings.TrimSpace(rule.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "rule name is required and must be non-empty",
			Code:    ErrRuleNameEmpty,
		})
	}

	if strings.TrimSpace(rule.FandomID) == "" {
		errs = append(errs, ValidationError{
			Field:   "fandom",
			Message: "fandom id is required and must be non-empty",
			Code:    ErrFandomEmpty,
		})
	}

	if !rule.LogicOperator.Valid() {
		errs = append(errs, ValidationError{
			Field:   "logic",
			Message: fmt.Sprintf("invalid logic operator %q, must be \"AND\" or \"OR\"", rule.LogicOperator),
			Code:    ErrInvalidLogicOperator,
		})
	}

	if len(rule.Conditions) == 0 {
		errs = append(errs, ValidationError{
			Field:   "conditions",
			Message: "at least one condition is required; a rule with no conditions never fires",
			Code:    ErrNoConditions,
		})
	}

	condIDs := make(map[string]bool)
	for i, cond := range rule.Conditions {
		if condIDs[cond.ID] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("conditions[%d].id", i),
				Message: fmt.Sprintf("duplicate condition id: %q", cond.ID),
				Code:    ErrDuplicateConditionID,
			})
		}
		condIDs[cond.ID] = true
		errs = append(errs, lintCondition(cond, i)...)
	}

	if len(rule.Actions) == 0 {
		errs = append(errs, ValidationError{
			Field:   "actions",
			Message: "at least one action is required; a rule with no actions has no effect",
			Code:    ErrNoActions,
		})
	}

	actionIDs := make(map[string]bool)
	for i, action := range rule.Actions {
		if actionIDs[action.ID] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("actions[%d].id", i),
				Message: fmt.Sprintf("duplicate action id: %q", action.ID),
				Code:    ErrDuplicateActionID,
			})
		}
		actionIDs[action.ID] = true
		errs = append(errs, lintAction(action, i)...)
	}

	return errs
}

// LintRuleSet lints every rule plus cross-rule constraints.
func LintRuleSet(ruleSet []rules.ValidationRule) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]bool)
	for i := range ruleSet {
		rule := &ruleSet[i]
		if rule.ID != "" && seen[rule.ID] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("rules[%d].id", i),
				Message: fmt.Sprintf("duplicate rule id: %q", rule.ID),
				Code:    ErrDuplicateRuleID,
			})
		}
		seen[rule.ID] = true
		errs = append(errs, LintRule(rule)...)
	}

	return errs
}

func lintCondition(cond rules.Condition, index int) []ValidationError {
	var errs []ValidationError
	field := func(sub string) string { return fmt.Sprintf("conditions[%d].%s", index, sub) }

	if !cond.Type.Valid() {
		errs = append(errs, ValidationError{
			Field:   field("type"),
			Message: fmt.Sprintf("unknown condition type %q", cond.Type),
			Code:    ErrInvalidConditionType,
		})
		// Type drives the remaining checks; stop here for this condition.
		return errs
	}

	if strings.TrimSpace(cond.Target) == "" {
		errs = append(errs, ValidationError{
			Field:   field("target"),
			Message: "condition target is required and must be non-empty",
			Code:    ErrConditionTargetEmpty,
		})
	}

	if !cond.Operator.Valid() {
		errs = append(errs, ValidationError{
			Field:   field("operator"),
			Message: fmt.Sprintf("unknown operator %q", cond.Operator),
			Code:    ErrInvalidOperator,
		})
		return errs
	}

	switch cond.Type {
	case rules.ConditionTagClassConstraint:
		switch cond.Operator {
		case rules.OpEquals, rules.OpNotEquals, rules.OpGreaterThan, rules.OpLessThan:
		default:
			errs = append(errs, ValidationError{
				Field:   field("operator"),
				Message: fmt.Sprintf("operator %q not usable with tag_class_constraint", cond.Operator),
				Code:    ErrOperatorMismatch,
			})
		}
		if _, ok := cond.Value.(rules.Int); !ok {
			errs = append(errs, ValidationError{
				Field:   field("value"),
				Message: "tag_class_constraint requires an integer value",
				Code:    ErrInvalidValueKind,
			})
		}
	default:
		// Membership conditions compare presence against a boolean.
		switch cond.Operator {
		case rules.OpEquals, rules.OpNotEquals:
		default:
			errs = append(errs, ValidationError{
				Field:   field("operator"),
				Message: fmt.Sprintf("operator %q not usable with %s", cond.Operator, cond.Type),
				Code:    ErrOperatorMismatch,
			})
		}
		if cond.Value != nil {
			if _, ok := cond.Value.(rules.Bool); !ok {
				errs = append(errs, ValidationError{
					Field:   field("value"),
					Message: fmt.Sprintf("%s requires a boolean value or none", cond.Type),
					Code:    ErrInvalidValueKind,
				})
			}
		}
	}

	return errs
}

func lintAction(action rules.Action, index int) []ValidationError {
	var errs []ValidationError
	field := func(sub string) string { return fmt.Sprintf("actions[%d].%s", index, sub) }

	if !action.Type.Valid() {
		errs = append(errs, ValidationError{
			Field:   field("type"),
			Message: fmt.Sprintf("unknown action type %q", action.Type),
			Code:    ErrInvalidActionType,
		})
	}

	if action.Severity != "" && !action.Severity.Valid() {
		errs = append(errs, ValidationError{
			Field:   field("severity"),
			Message: fmt.Sprintf("unknown severity %q, must be low, medium, high, or critical", action.Severity),
			Code:    ErrInvalidSeverity,
		})
	}

	if strings.TrimSpace(action.Message) == "" {
		errs = append(errs, ValidationError{
			Field:   field("message"),
			Message: "action message is required and must be non-empty",
			Code:    ErrActionMessageEmpty,
		})
	}

	return errs
}
