package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tagweave/tagweave/internal/rules"
)

// DetectCycles walks plot-block parent/dependency relationships and
// returns one human-readable message per detected cycle. An empty slice
// means the hierarchy is a forest.
//
// Both relations are walked when present: parent_id is the legacy
// single-parent edge, dependencies the forward-compatible multi-edge
// relation. A parent_id or dependency pointing at a node that is not in
// the slice is a dangling reference; the node is treated as a root, not
// an error.
//
// The traversal is an explicit-stack iterative DFS rather than a
// recursive one: admin hierarchies can be arbitrarily deep and a
// pathological chain must not exhaust the call stack. Nodes are visited
// in sorted-id order so output is deterministic, and fully-visited
// subtrees are never re-traversed from a later root, keeping the pass
// O(V+E).
func DetectCycles(nodes []rules.PlotBlockNode) []string {
	present := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		present[n.ID] = true
	}

	adjacency := make(map[string][]string, len(nodes))
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)

		var edges []string
		if n.ParentID != "" && present[n.ParentID] {
			edges = append(edges, n.ParentID)
		}
		for _, dep := range n.Dependencies {
			if present[dep] {
				edges = append(edges, dep)
			}
		}
		adjacency[n.ID] = edges
	}
	slices.Sort(ids)

	const (
		unvisited = iota
		onPath
		done
	)
	state := make(map[string]int, len(nodes))

	// frame tracks how far into a node's edge list the traversal has
	// progressed, so the DFS can resume after exploring a child.
	type frame struct {
		id   string
		next int
	}

	var messages []string

	for _, root := range ids {
		if state[root] != unvisited {
			continue
		}

		stack := []frame{{id: root}}
		path := []string{root}
		state[root] = onPath

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			edges := adjacency[top.id]

			if top.next < len(edges) {
				neighbor := edges[top.next]
				top.next++

				switch state[neighbor] {
				case unvisited:
					state[neighbor] = onPath
					stack = append(stack, frame{id: neighbor})
					path = append(path, neighbor)

				case onPath:
					// Back-edge to a node on the current path: a cycle.
					// Report the path from the first occurrence of the
					// repeated node through the current node.
					start := slices.Index(path, neighbor)
					cycle := append(slices.Clone(path[start:]), neighbor)
					messages = append(messages, fmt.Sprintf(
						"Circular dependency detected: %s",
						strings.Join(cycle, " -> "),
					))
				}
			} else {
				state[top.id] = done
				stack = stack[:len(stack)-1]
				path = path[:len(path)-1]
			}
		}
	}

	return messages
}
