package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/tagweave/tagweave/internal/rules"
)

// SaveRule upserts a validation rule. Re-importing a rule with an
// existing id replaces it wholesale, so an import run is idempotent.
func (s *Store) SaveRule(ctx context.Context, rule rules.ValidationRule) error {
	conditionsJSON, err := json.Marshal(rule.Conditions)
	if err != nil {
		return fmt.Errorf("save rule %s: marshal conditions: %w", rule.ID, err)
	}
	actionsJSON, err := json.Marshal(rule.Actions)
	if err != nil {
		return fmt.Errorf("save rule %s: marshal actions: %w", rule.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO validation_rules
		(id, name, fandom_id, conditions, actions, logic_operator, is_active, priority)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			fandom_id = excluded.fandom_id,
			conditions = excluded.conditions,
			actions = excluded.actions,
			logic_operator = excluded.logic_operator,
			is_active = excluded.is_active,
			priority = excluded.priority
	`,
		rule.ID,
		rule.Name,
		rule.FandomID,
		string(conditionsJSON),
		string(actionsJSON),
		string(rule.LogicOperator),
		rule.IsActive,
		rule.Priority,
	)
	if err != nil {
		return fmt.Errorf("save rule %s: %w", rule.ID, err)
	}

	return nil
}

// ListRules returns all rules for a fandom with deterministic ordering:
// ORDER BY priority ASC, id ASC COLLATE BINARY. Two processes loading
// the same database hand the engine the same slice.
//
// Returns an empty slice (not nil) when the fandom has no rules.
func (s *Store) ListRules(ctx context.Context, fandomID string) ([]rules.ValidationRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, fandom_id, conditions, actions, logic_operator, is_active, priority
		FROM validation_rules
		WHERE fandom_id = ?
		ORDER BY priority ASC, id COLLATE BINARY ASC
	`, fandomID)
	if err != nil {
		return nil, fmt.Errorf("query rules: %w", err)
	}
	defer rows.Close()

	ruleSet := []rules.ValidationRule{}
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		ruleSet = append(ruleSet, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rules: %w", err)
	}

	return ruleSet, nil
}

// Fandoms returns the distinct fandom ids present in the rule table,
// sorted for stable output.
func (s *Store) Fandoms(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT fandom_id
		FROM validation_rules
		ORDER BY fandom_id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query fandoms: %w", err)
	}
	defer rows.Close()

	fandoms := []string{}
	for rows.Next() {
		var fandom string
		if err := rows.Scan(&fandom); err != nil {
			return nil, fmt.Errorf("scan fandom: %w", err)
		}
		fandoms = append(fandoms, fandom)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fandoms: %w", err)
	}

	return fandoms, nil
}

// scanRule reads one validation rule row, decoding the JSON columns.
func scanRule(rows *sql.Rows) (rules.ValidationRule, error) {
	var (
		rule           rules.ValidationRule
		conditionsJSON string
		actionsJSON    string
		logic          string
	)

	err := rows.Scan(
		&rule.ID,
		&rule.Name,
		&rule.FandomID,
		&conditionsJSON,
		&actionsJSON,
		&logic,
		&rule.IsActive,
		&rule.Priority,
	)
	if err != nil {
		return rule, fmt.Errorf("scan rule: %w", err)
	}

	if err := json.Unmarshal([]byte(conditionsJSON), &rule.Conditions); err != nil {
		return rule, fmt.Errorf("decode conditions for rule %s: %w", rule.ID, err)
	}
	if err := json.Unmarshal([]byte(actionsJSON), &rule.Actions); err != nil {
		return rule, fmt.Errorf("decode actions for rule %s: %w", rule.ID, err)
	}
	rule.LogicOperator = rules.LogicOperator(logic)

	return rule, nil
}
