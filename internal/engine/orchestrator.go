package engine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/tagweave/tagweave/internal/rules"
)

// DefaultSlowRuleThreshold is the soft per-rule time budget. Rules that
// exceed it are logged, never failed: condition evaluation is bounded
// and non-blocking by construction, so the budget is advisory.
const DefaultSlowRuleThreshold = 50 * time.Millisecond

// suspiciousFragments are lexical markers of ids that look like test
// scaffolding leaked into a real selection. Matching ids draw an
// advisory warning only; evaluation proceeds regardless.
var suspiciousFragments = []string{"nonexistent", "invalid", "missing"}

// Validator is the top-level entry point for rule evaluation.
//
// A Validator holds configuration only - no state survives between
// Validate calls, so one Validator instance may serve concurrent
// requests without locking.
type Validator struct {
	tokens            TokenGenerator
	logger            *slog.Logger
	slowRuleThreshold time.Duration
	workers           int

	// fire is the raw rule predicate, ShouldFire in production. Tests
	// substitute it to drive the fault-isolation paths, since ShouldFire
	// itself is total over well-typed rules and never panics.
	fire func(rules.ValidationRule, rules.ValidationInput) bool
}

// Option configures a Validator.
type Option func(*Validator)

// WithSlowRuleThreshold overrides the soft per-rule time budget.
func WithSlowRuleThreshold(d time.Duration) Option {
	return func(v *Validator) {
		v.slowRuleThreshold = d
	}
}

// WithWorkers sets the number of goroutines evaluating rules within one
// Validate call. Values below 2 keep evaluation sequential. Results are
// merged in optimizer order either way, so the output is identical.
func WithWorkers(n int) Option {
	return func(v *Validator) {
		v.workers = n
	}
}

// WithTokenGenerator substitutes the evaluation token source.
// Tests use NewFixedGenerator for deterministic logs.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(v *Validator) {
		v.tokens = g
	}
}

// WithLogger substitutes the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = l
	}
}

// NewValidator creates a Validator with the given options applied over
// defaults: UUIDv7 tokens, slog default logger, 50 ms soft budget,
// sequential evaluation.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		tokens:            UUIDv7Generator{},
		logger:            slog.Default(),
		slowRuleThreshold: DefaultSlowRuleThreshold,
		workers:           1,
		fire:              ShouldFire,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate evaluates a rule set against a validation input and returns
// the aggregate result.
//
// The pipeline never returns an error and never panics: every internal
// fault is converted into a structured result entry. Empty rule sets,
// empty inputs, and rules referencing nonexistent tags all produce a
// complete ValidationResult.
//
// Cancelling the context stops dispatching further rules; everything
// already accumulated is still returned rather than discarded.
func (v *Validator) Validate(ctx context.Context, input rules.ValidationInput, ruleSet []rules.ValidationRule) rules.ValidationResult {
	token := v.tokens.Generate()
	logger := v.logger.With("evaluation", token, "fandom", input.FandomID)

	result := rules.NewValidationResult()

	// Step 1: input sanity. Advisory only - always continue.
	v.checkInput(input, ruleSet, &result, logger)

	// Step 2: fandom filter. Active filtering belongs to the optimizer,
	// which stays fandom-agnostic.
	scoped := make([]rules.ValidationRule, 0, len(ruleSet))
	for _, r := range ruleSet {
		if r.FandomID == input.FandomID {
			scoped = append(scoped, r)
		}
	}

	// Step 3: deterministic evaluation order.
	ordered := Order(scoped)

	// Step 4: evaluate with per-rule fault isolation.
	evalStart := time.Now()
	outcomes := v.evaluateAll(ctx, input, ordered, logger)

	// Step 5: aggregate in optimizer order.
	evaluated := 0
	for _, oc := range outcomes {
		if oc == nil {
			continue // not dispatched: context cancelled
		}
		if !oc.skipped {
			evaluated++
		}
		result.Merge(oc.partial)
	}
	result.RulesEvaluated = evaluated
	result.ExecutionTimeMS = float64(time.Since(evalStart).Microseconds()) / 1000.0

	logger.Debug("validation complete",
		"valid", result.IsValid,
		"rules_evaluated", result.RulesEvaluated,
		"errors", len(result.Errors),
		"warnings", len(result.Warnings),
		"suggestions", len(result.Suggestions),
		"elapsed_ms", result.ExecutionTimeMS,
	)

	return result
}

// ruleOutcome carries the per-rule contribution to the final result.
// skipped means the rule failed structural validation and must not count
// toward rules_evaluated.
type ruleOutcome struct {
	ruleID  string
	skipped bool
	partial rules.ValidationResult
}

// evaluateAll runs the ordered rules either sequentially or across a
// worker pool. Outcomes are indexed by the rule's position in the
// ordered slice so aggregation reconstructs optimizer order, not
// arrival order.
func (v *Validator) evaluateAll(ctx context.Context, input rules.ValidationInput, ordered []rules.ValidationRule, logger *slog.Logger) []*ruleOutcome {
	outcomes := make([]*ruleOutcome, len(ordered))

	if v.workers < 2 {
		for i, rule := range ordered {
			if ctx.Err() != nil {
				logger.Warn("validation cancelled", "rules_remaining", len(ordered)-i)
				break
			}
			outcomes[i] = v.evaluateRule(rule, input, logger)
		}
		return outcomes
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < v.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				outcomes[i] = v.evaluateRule(ordered[i], input, logger)
			}
		}()
	}

dispatch:
	for i := range ordered {
		select {
		case <-ctx.Done():
			logger.Warn("validation cancelled", "rules_remaining", len(ordered)-i)
			break dispatch
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()

	return outcomes
}

// evaluateRule evaluates one rule with full fault isolation.
func (v *Validator) evaluateRule(rule rules.ValidationRule, input rules.ValidationInput, logger *slog.Logger) *ruleOutcome {
	oc := &ruleOutcome{ruleID: rule.ID, partial: rules.NewValidationResult()}

	// Structural validation first. A defective rule is skipped with a
	// warning; it does not count as evaluated and never aborts the run.
	if defect := structuralDefect(rule); defect != "" {
		fault := NewStructuralFault(rule.ID, defect)
		logger.Warn("rule skipped", "rule", rule.ID, "defect", defect)
		oc.skipped = true
		oc.partial.Add(rules.Action{
			ID:       "structural:" + rule.ID,
			Type:     rules.ActionWarning,
			Severity: rules.SeverityMedium,
			Message:  fault.Error(),
			Data:     map[string]any{"rule_id": rule.ID},
		})
		return oc
	}

	start := time.Now()
	fired, err := v.shouldFireIsolated(rule, input)
	elapsed := time.Since(start)

	if elapsed > v.slowRuleThreshold {
		logger.Warn("slow rule",
			"rule", rule.ID,
			"elapsed_ms", float64(elapsed.Microseconds())/1000.0,
			"budget_ms", float64(v.slowRuleThreshold.Microseconds())/1000.0,
		)
	}

	if err != nil {
		// One broken rule never aborts validation: convert to a single
		// error entry and move on.
		logger.Error("rule evaluation failed", "rule", rule.ID, "error", err)
		oc.partial.Add(rules.Action{
			ID:       "runtime:" + rule.ID,
			Type:     rules.ActionError,
			Severity: rules.SeverityHigh,
			Message:  fmt.Sprintf("rule %s failed during evaluation: %v", rule.ID, err),
			Data:     map[string]any{"rule_id": rule.ID},
		})
		return oc
	}

	if fired {
		logger.Debug("rule fired", "rule", rule.ID, "actions", len(rule.Actions))
		for _, action := range rule.Actions {
			oc.partial.Add(action)
		}
	}

	return oc
}

// shouldFireIsolated wraps the fire predicate in a recover so a
// panicking rule surfaces as a RuleFault instead of taking down the
// evaluation.
func (v *Validator) shouldFireIsolated(rule rules.ValidationRule, input rules.ValidationInput) (fired bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			fired = false
			err = NewPanicFault(rule.ID, r)
		}
	}()
	return v.fire(rule, input), nil
}

// structuralDefect returns a description of the first structural problem
// in a rule, or "" when the rule is sound enough to evaluate. Only
// defects that make evaluation meaningless are flagged here; full
// authoring-side lint lives in the ruleset package.
func structuralDefect(rule rules.ValidationRule) string {
	for i, cond := range rule.Conditions {
		if !cond.Type.Valid() {
			return fmt.Sprintf("conditions[%d] has unknown type %q", i, cond.Type)
		}
	}
	for i, action := range rule.Actions {
		if !action.Type.Valid() {
			return fmt.Sprintf("actions[%d] has unknown type %q", i, action.Type)
		}
	}
	return ""
}

// checkInput emits advisory warnings for questionable inputs. None of
// these stop evaluation, and a run with only these warnings still
// reports is_valid = true.
func (v *Validator) checkInput(input rules.ValidationInput, ruleSet []rules.ValidationRule, result *rules.ValidationResult, logger *slog.Logger) {
	if input.FandomID == "" {
		result.Add(rules.Action{
			ID:       "input:fandom-missing",
			Type:     rules.ActionWarning,
			Severity: rules.SeverityLow,
			Message:  "validation input has no fandom id",
		})
	} else {
		known := false
		for _, r := range ruleSet {
			if r.FandomID == input.FandomID {
				known = true
				break
			}
		}
		if !known {
			result.Add(rules.Action{
				ID:       "input:fandom-unknown",
				Type:     rules.ActionWarning,
				Severity: rules.SeverityLow,
				Message:  fmt.Sprintf("no rules supplied for fandom %q", input.FandomID),
			})
		}
	}

	// Suspicious-id heuristic: ids are sorted so warning order is
	// deterministic across runs.
	ids := input.SelectionIDs()
	slices.Sort(ids)
	for _, id := range ids {
		if looksSuspicious(id) {
			logger.Warn("suspicious selection id", "id", id)
			result.Add(rules.Action{
				ID:       "input:suspicious:" + id,
				Type:     rules.ActionWarning,
				Severity: rules.SeverityLow,
				Message:  fmt.Sprintf("selection id %q looks like a placeholder", id),
			})
		}
	}
}

// looksSuspicious reports whether an id contains a lexical marker of
// test scaffolding. Cheap guard, not an existence check; see the
// ruleset package for authoring-side validation.
func looksSuspicious(id string) bool {
	lower := strings.ToLower(id)
	for _, fragment := range suspiciousFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}
