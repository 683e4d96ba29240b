package dag

import (
	"fmt"
	"strings"
)

// UnknownNodeError reports a reference to a stage that is not in the graph.
type UnknownNodeError struct {
	// From is the node holding the reference, empty for a direct lookup.
	From string
	ID   string
}

func (e *UnknownNodeError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("unknown stage %q", e.ID)
	}
	return fmt.Sprintf("stage %q references unknown stage %q", e.From, e.ID)
}

// CycleError lists every node that sits on a cycle or lies on a path between
// two cycles. No ordering of these nodes can satisfy their edges.
type CycleError struct {
	Nodes []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected involving [%s]", strings.Join(e.Nodes, ", "))
}
