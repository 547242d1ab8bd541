package ruleset

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/tagweave/tagweave/internal/rules"
)

// CompileRule parses a CUE value into a ValidationRule.
//
// The CUE value should be the rule struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`rule: "ship-conflict": { ... }`)
//	r, err := CompileRule(v.LookupPath(cue.ParsePath(`rule."ship-conflict"`)))
func CompileRule(v cue.Value) (*rules.ValidationRule, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	rule := &rules.ValidationRule{
		LogicOperator: rules.LogicAnd,
		IsActive:      true,
	}

	// Rule id comes from the struct label, e.g.
	// `rule: "ship-conflict": { ... }` gives id "ship-conflict".
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		rule.ID = rules.NormalizeID(strings.Trim(labels[len(labels)-1].String(), `"`))
	}

	nameVal := v.LookupPath(cue.ParsePath("name"))
	if nameVal.Exists() {
		name, err := nameVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		rule.Name = name
	}

	fandomVal := v.LookupPath(cue.ParsePath("fandom"))
	if !fandomVal.Exists() {
		return nil, &CompileError{
			Field:   "fandom",
			Message: "fandom is required",
			Pos:     v.Pos(),
		}
	}
	fandom, err := fandomVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	rule.FandomID = rules.NormalizeID(fandom)

	logicVal := v.LookupPath(cue.ParsePath("logic"))
	if logicVal.Exists() {
		logic, err := logicVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		rule.LogicOperator = rules.LogicOperator(strings.ToUpper(logic))
	}

	priorityVal := v.LookupPath(cue.ParsePath("priority"))
	if priorityVal.Exists() {
		priority, err := priorityVal.Int64()
		if err != nil {
			return nil, &CompileError{
				Field:   "priority",
				Message: "priority must be an integer",
				Pos:     priorityVal.Pos(),
			}
		}
		rule.Priority = int(priority)
	}

	activeVal := v.LookupPath(cue.ParsePath("active"))
	if activeVal.Exists() {
		active, err := activeVal.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		rule.IsActive = active
	}

	rule.Conditions, err = parseConditions(v)
	if err != nil {
		return nil, err
	}

	rule.Actions, err = parseActions(v)
	if err != nil {
		return nil, err
	}

	return rule, nil
}

// parseConditions extracts the conditions list from a rule.
func parseConditions(v cue.Value) ([]rules.Condition, error) {
	condsVal := v.LookupPath(cue.ParsePath("conditions"))
	if !condsVal.Exists() {
		return nil, &CompileError{
			Field:   "conditions",
			Message: "conditions list is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := condsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var conds []rules.Condition
	for i := 0; iter.Next(); i++ {
		cond, err := parseCondition(iter.Value(), i)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}
	return conds, nil
}

func parseCondition(v cue.Value, index int) (rules.Condition, error) {
	var cond rules.Condition

	id, err := requiredString(v, "id", fmt.Sprintf("conditions[%d].id", index))
	if err != nil {
		return cond, err
	}
	cond.ID = id

	condType, err := requiredString(v, "type", fmt.Sprintf("conditions[%d].type", index))
	if err != nil {
		return cond, err
	}
	cond.Type = rules.ConditionType(condType)

	target, err := requiredString(v, "target", fmt.Sprintf("conditions[%d].target", index))
	if err != nil {
		return cond, err
	}
	cond.Target = rules.NormalizeID(target)

	operator, err := requiredString(v, "operator", fmt.Sprintf("conditions[%d].operator", index))
	if err != nil {
		return cond, err
	}
	cond.Operator = rules.Operator(operator)

	valueVal := v.LookupPath(cue.ParsePath("value"))
	if valueVal.Exists() {
		cond.Value, err = extractValue(valueVal, fmt.Sprintf("conditions[%d].value", index))
		if err != nil {
			return cond, err
		}
	}

	weightVal := v.LookupPath(cue.ParsePath("weight"))
	if weightVal.Exists() {
		weight, err := weightVal.Int64()
		if err != nil {
			return cond, &CompileError{
				Field:   fmt.Sprintf("conditions[%d].weight", index),
				Message: "weight must be an integer",
				Pos:     weightVal.Pos(),
			}
		}
		cond.Weight = int(weight)
	}

	return cond, nil
}

// parseActions extracts the actions list from a rule.
func parseActions(v cue.Value) ([]rules.Action, error) {
	actionsVal := v.LookupPath(cue.ParsePath("actions"))
	if !actionsVal.Exists() {
		return nil, &CompileError{
			Field:   "actions",
			Message: "actions list is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := actionsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var actions []rules.Action
	for i := 0; iter.Next(); i++ {
		actionVal := iter.Value()
		var action rules.Action

		id, err := requiredString(actionVal, "id", fmt.Sprintf("actions[%d].id", i))
		if err != nil {
			return nil, err
		}
		action.ID = id

		actionType, err := requiredString(actionVal, "type", fmt.Sprintf("actions[%d].type", i))
		if err != nil {
			return nil, err
		}
		action.Type = rules.ActionType(actionType)

		severityVal := actionVal.LookupPath(cue.ParsePath("severity"))
		if severityVal.Exists() {
			severity, err := severityVal.String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			action.Severity = rules.Severity(severity)
		} else {
			action.Severity = rules.SeverityMedium
		}

		messageVal := actionVal.LookupPath(cue.ParsePath("message"))
		if messageVal.Exists() {
			message, err := messageVal.String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			action.Message = message
		}

		dataVal := actionVal.LookupPath(cue.ParsePath("data"))
		if dataVal.Exists() {
			data := make(map[string]any)
			if err := dataVal.Decode(&data); err != nil {
				return nil, &CompileError{
					Field:   fmt.Sprintf("actions[%d].data", i),
					Message: fmt.Sprintf("data must be a struct of concrete values: %v", err),
					Pos:     dataVal.Pos(),
				}
			}
			action.Data = data
		}

		actions = append(actions, action)
	}
	return actions, nil
}

// extractValue converts a concrete CUE value into a condition value.
// Floats are rejected outright rather than truncated.
func extractValue(v cue.Value, field string) (rules.Value, error) {
	switch v.Kind() {
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return rules.Bool(b), nil
	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return rules.Int(i), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return rules.String(s), nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		var list rules.StringList
		for iter.Next() {
			s, err := iter.Value().String()
			if err != nil {
				return nil, &CompileError{
					Field:   field,
					Message: "list values must contain only strings",
					Pos:     iter.Value().Pos(),
				}
			}
			list = append(list, s)
		}
		return list, nil
	case cue.FloatKind, cue.NumberKind:
		return nil, &CompileError{
			Field:   field,
			Message: "float values are not allowed, use an integer",
			Pos:     v.Pos(),
		}
	default:
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("unsupported value kind: %v", v.Kind()),
			Pos:     v.Pos(),
		}
	}
}

func requiredString(v cue.Value, path, field string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(path))
	if !fieldVal.Exists() {
		return "", &CompileError{
			Field:   field,
			Message: path + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := fieldVal.String()
	if err != nil {
		return "", &CompileError{
			Field:   field,
			Message: path + " must be a string",
			Pos:     fieldVal.Pos(),
		}
	}
	return s, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
