package engine

import (
	"errors"
	"fmt"
)

// RuleFault describes a failure confined to a single rule during
// evaluation. Faults never propagate past the orchestrator: they are
// converted into result entries and evaluation continues with the next
// rule.
type RuleFault struct {
	// Code identifies the fault category.
	Code RuleFaultCode

	// RuleID identifies the offending rule.
	RuleID string

	// Message is a human-readable description.
	Message string
}

// RuleFaultCode categorizes rule faults.
type RuleFaultCode string

const (
	// FaultCodePanic indicates the rule panicked during evaluation
	// (unexpected value shape, nil target, and the like).
	FaultCodePanic RuleFaultCode = "RULE_PANIC"

	// FaultCodeStructural indicates the rule failed structural
	// validation (unknown condition type) and was skipped.
	FaultCodeStructural RuleFaultCode = "RULE_STRUCTURAL_DEFECT"
)

// Error implements the error interface.
func (e *RuleFault) Error() string {
	return fmt.Sprintf("%s: rule %s: %s", e.Code, e.RuleID, e.Message)
}

// NewPanicFault creates a RuleFault for a recovered evaluation panic.
func NewPanicFault(ruleID string, recovered any) *RuleFault {
	return &RuleFault{
		Code:    FaultCodePanic,
		RuleID:  ruleID,
		Message: fmt.Sprintf("evaluation panicked: %v", recovered),
	}
}

// NewStructuralFault creates a RuleFault for a structural defect.
func NewStructuralFault(ruleID, detail string) *RuleFault {
	return &RuleFault{
		Code:    FaultCodeStructural,
		RuleID:  ruleID,
		Message: detail,
	}
}

// IsPanicFault returns true if the error is a recovered rule panic.
// Uses errors.As to handle wrapped errors.
func IsPanicFault(err error) bool {
	var rf *RuleFault
	if errors.As(err, &rf) {
		return rf.Code == FaultCodePanic
	}
	return false
}
