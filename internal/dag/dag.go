package dag

import (
	"sort"

	"github.com/specialistvlad/stagegrid/internal/model"
	"github.com/specialistvlad/stagegrid/internal/nodeid"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
	}
}

// AddNode adds a node for the given stage. If a node with the same ID already
// exists, the function does nothing. An ID without a target is addressed as a
// stage of the empty target.
func (g *Graph) AddNode(id string, stage model.ResolvedStage) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}

	addr, err := nodeid.Parse(id)
	if err != nil {
		addr = nodeid.New("", id)
	}
	g.nodes[id] = &Node{
		ID:       id,
		Addr:     addr,
		Command:  stage.Command.Clone(),
		Post:     stage.Post.Clone(),
		parents:  make(map[string]*Node),
		children: make(map[string]*Node),
	}
}

// AddEdge records that childID waits for parentID. Adding an existing edge
// is a no-op. A self edge is reported as a cycle.
func (g *Graph) AddEdge(parentID, childID string) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	parent, ok := g.nodes[parentID]
	if !ok {
		return &UnknownNodeError{From: childID, ID: parentID}
	}
	child, ok := g.nodes[childID]
	if !ok {
		return &UnknownNodeError{From: parentID, ID: childID}
	}
	if parentID == childID {
		return &CycleError{Nodes: []string{parentID}}
	}

	child.parents[parentID] = parent
	parent.children[childID] = child
	return nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	return len(g.nodes)
}

// IDs returns every node ID in sorted order.
func (g *Graph) IDs() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	return sortedIDs(g.nodes)
}

// Roots returns the sorted IDs of nodes without parents.
func (g *Graph) Roots() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	var roots []string
	for id, n := range g.nodes {
		if len(n.parents) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)
	return roots
}

// TopologicalOrder returns the node IDs so that every parent precedes its
// children. Ties are broken by name. A graph with cycles yields a
// *CycleError.
func (g *Graph) TopologicalOrder() ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	return g.topologicalOrder()
}

func (g *Graph) topologicalOrder() ([]string, error) {
	inDegree := make(map[string]int, len(g.nodes))
	var queue []string
	for id, n := range g.nodes {
		inDegree[id] = len(n.parents)
		if len(n.parents) == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	order := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		for _, child := range g.nodes[id].Children() {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if len(order) < len(g.nodes) {
		return nil, &CycleError{Nodes: g.cyclicCore(order)}
	}
	return order, nil
}

// cyclicCore returns the nodes that are reachable from a cycle and can reach
// one. sorted holds the nodes the forward peel already removed.
func (g *Graph) cyclicCore(sorted []string) []string {
	remaining := make(map[string]bool, len(g.nodes))
	for id := range g.nodes {
		remaining[id] = true
	}
	for _, id := range sorted {
		delete(remaining, id)
	}

	outDegree := make(map[string]int, len(remaining))
	var queue []string
	for id := range remaining {
		for child := range g.nodes[id].children {
			if remaining[child] {
				outDegree[id]++
			}
		}
		if outDegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		delete(remaining, id)
		for parent := range g.nodes[id].parents {
			if !remaining[parent] {
				continue
			}
			outDegree[parent]--
			if outDegree[parent] == 0 {
				queue = append(queue, parent)
			}
		}
	}

	core := make([]string, 0, len(remaining))
	for id := range remaining {
		core = append(core, id)
	}
	sort.Strings(core)
	return core
}

// assignLevels labels each node with its longest distance from a root,
// walking order so parents are final before their children are visited.
func (g *Graph) assignLevels(order []string) {
	for _, id := range order {
		n := g.nodes[id]
		n.Level = 0
		for _, parent := range n.parents {
			if parent.Level+1 > n.Level {
				n.Level = parent.Level + 1
			}
		}
	}
}
