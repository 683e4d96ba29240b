package dag

import (
	"context"
	"fmt"
	"sort"

	"github.com/specialistvlad/stagegrid/internal/ctxlog"
	"github.com/specialistvlad/stagegrid/internal/model"
	"github.com/specialistvlad/stagegrid/internal/nodeid"
)

// Build constructs a complete, validated dependency graph from a resolved
// stage map.
func Build(ctx context.Context, stages map[string]model.ResolvedStage) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.")
	graph := New()

	ids := make([]string, 0, len(stages))
	for id := range stages {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// First pass: create all nodes.
	for _, id := range ids {
		if _, err := nodeid.Parse(id); err != nil {
			return nil, fmt.Errorf("error creating dependency graph: %w", err)
		}
		graph.AddNode(id, stages[id])
	}
	logger.Debug("Build: Node creation complete.", "node_count", len(ids))

	// Second pass: link before/after declarations.
	for _, id := range ids {
		stage := stages[id]
		for _, child := range stage.Before {
			if err := graph.AddEdge(id, child); err != nil {
				return nil, fmt.Errorf("error linking dependency graph: %w", err)
			}
		}
		for _, parent := range stage.After {
			if err := graph.AddEdge(parent, id); err != nil {
				return nil, fmt.Errorf("error linking dependency graph: %w", err)
			}
		}
	}
	logger.Debug("Build: Node linking complete.")

	order, err := graph.TopologicalOrder()
	if err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}
	logger.Debug("Build: Cycle detection passed.")

	graph.assignLevels(order)
	logger.Debug("Build: Graph construction successful.", "roots", len(graph.Roots()))
	return graph, nil
}
