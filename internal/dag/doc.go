// Package dag builds the dependency graph of resolved stages.
//
// Every qualified stage becomes a node. A stage's `before` list adds edges
// from the stage to each named child; its `after` list adds edges from each
// named parent to the stage. Build rejects unknown names and cycles, and
// labels every node with its longest-path level so that level 0 is exactly
// the set of nodes without parents.
//
// Select narrows a resolved stage map to one stage, optionally with all its
// transitive ancestors, before a graph is built from it.
package dag
