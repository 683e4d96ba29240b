package dag

import (
	"sort"
	"sync"

	"github.com/specialistvlad/stagegrid/internal/model"
	"github.com/specialistvlad/stagegrid/internal/nodeid"
)

// Graph is a collection of stage nodes and their ordering edges.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by qualified name.
	nodes map[string]*Node
}

// Node is a single stage in the graph. Its edges are reachable only through
// methods so that the graph stays the single owner of the structure.
type Node struct {
	// ID is the qualified stage name.
	ID string
	// Addr is ID split into target and stage.
	Addr nodeid.Address
	// Command and Post are the resolved actions run for the stage.
	Command model.Action
	Post    model.Action
	// Level is the length of the longest path from a root to this node.
	Level int

	// parents holds the nodes that must finish before this one.
	parents map[string]*Node
	// children holds the nodes waiting for this one.
	children map[string]*Node
}

// Parents returns the sorted IDs of the node's parents.
func (n *Node) Parents() []string {
	return sortedIDs(n.parents)
}

// Children returns the sorted IDs of the node's children.
func (n *Node) Children() []string {
	return sortedIDs(n.children)
}

func sortedIDs(m map[string]*Node) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
