package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tagweave/tagweave/internal/rules"
)

// SavePlotBlock upserts a plot block node under a fandom. The parent is
// not checked for existence: imports arrive in arbitrary order, and the
// cycle analyzer treats dangling parents as roots.
func (s *Store) SavePlotBlock(ctx context.Context, fandomID string, node rules.PlotBlockNode) error {
	deps := node.Dependencies
	if deps == nil {
		deps = []string{}
	}
	depsJSON, err := json.Marshal(deps)
	if err != nil {
		return fmt.Errorf("save plot block %s: marshal dependencies: %w", node.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO plot_blocks (id, fandom_id, parent_id, dependencies)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			fandom_id = excluded.fandom_id,
			parent_id = excluded.parent_id,
			dependencies = excluded.dependencies
	`,
		node.ID,
		fandomID,
		node.ParentID,
		string(depsJSON),
	)
	if err != nil {
		return fmt.Errorf("save plot block %s: %w", node.ID, err)
	}

	return nil
}

// ListPlotBlocks returns all plot block nodes for a fandom, ordered by
// id for deterministic analysis output.
//
// Returns an empty slice (not nil) when the fandom has no blocks.
func (s *Store) ListPlotBlocks(ctx context.Context, fandomID string) ([]rules.PlotBlockNode, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, parent_id, dependencies
		FROM plot_blocks
		WHERE fandom_id = ?
		ORDER BY id COLLATE BINARY ASC
	`, fandomID)
	if err != nil {
		return nil, fmt.Errorf("query plot blocks: %w", err)
	}
	defer rows.Close()

	nodes := []rules.PlotBlockNode{}
	for rows.Next() {
		var (
			node     rules.PlotBlockNode
			depsJSON string
		)
		if err := rows.Scan(&node.ID, &node.ParentID, &depsJSON); err != nil {
			return nil, fmt.Errorf("scan plot block: %w", err)
		}
		if err := json.Unmarshal([]byte(depsJSON), &node.Dependencies); err != nil {
			return nil, fmt.Errorf("decode dependencies for block %s: %w", node.ID, err)
		}
		nodes = append(nodes, node)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plot blocks: %w", err)
	}

	return nodes, nil
}
