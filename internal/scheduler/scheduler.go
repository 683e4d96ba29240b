package scheduler

import (
	"sort"

	"github.com/specialistvlad/stagegrid/internal/dag"
	"github.com/specialistvlad/stagegrid/internal/nodestore"
)

// Scheduler tracks per-node state and the ready set of one launch.
type Scheduler struct {
	graph *dag.Graph
	state map[string]nodestore.Status
	// waiting counts the parents of each node that are not yet terminal.
	waiting  map[string]int
	ready    []string
	terminal int
	inFlight int
}

// New creates a scheduler whose initial ready set is every node at level 0.
func New(g *dag.Graph) *Scheduler {
	s := &Scheduler{
		graph:   g,
		state:   make(map[string]nodestore.Status, g.Len()),
		waiting: make(map[string]int, g.Len()),
	}
	for _, id := range g.IDs() {
		n, _ := g.Node(id)
		s.state[id] = nodestore.StatusPending
		s.waiting[id] = len(n.Parents())
		if n.Level == 0 {
			s.ready = append(s.ready, id)
		}
	}
	return s
}

// Next drains the ready set, marking every returned node as running.
// Nodes are returned in name order.
func (s *Scheduler) Next() []string {
	if len(s.ready) == 0 {
		return nil
	}
	batch := s.ready
	s.ready = nil
	sort.Strings(batch)
	for _, id := range batch {
		s.state[id] = nodestore.StatusRunning
	}
	s.inFlight += len(batch)
	return batch
}

// Complete records the outcome of a running node and moves every child whose
// parents are now all terminal into the ready set.
func (s *Scheduler) Complete(id string, outcome nodestore.Status) {
	if s.state[id] != nodestore.StatusRunning {
		return
	}
	s.inFlight--
	s.finish(id, outcome)
}

func (s *Scheduler) finish(id string, outcome nodestore.Status) {
	s.state[id] = outcome
	s.terminal++

	n, _ := s.graph.Node(id)
	for _, child := range n.Children() {
		s.waiting[child]--
		if s.waiting[child] == 0 && s.state[child] == nodestore.StatusPending {
			s.ready = append(s.ready, child)
		}
	}
}

// SkipDescendants marks every pending descendant of id as skipped and
// returns them in name order.
func (s *Scheduler) SkipDescendants(id string) []string {
	var skipped []string
	n, _ := s.graph.Node(id)
	stack := n.Children()
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.state[cur] != nodestore.StatusPending {
			continue
		}
		s.finish(cur, nodestore.StatusSkipped)
		skipped = append(skipped, cur)

		child, _ := s.graph.Node(cur)
		stack = append(stack, child.Children()...)
	}
	s.ready = s.withoutSkipped(s.ready)
	sort.Strings(skipped)
	return skipped
}

// SkipPending marks every node that was never handed out as skipped and
// returns them in name order. Running nodes are left to complete.
func (s *Scheduler) SkipPending() []string {
	var skipped []string
	for _, id := range s.graph.IDs() {
		if s.state[id] == nodestore.StatusPending {
			skipped = append(skipped, id)
		}
	}
	for _, id := range skipped {
		s.state[id] = nodestore.StatusSkipped
		s.terminal++
	}
	s.ready = nil
	return skipped
}

// Status returns the current state of a node.
func (s *Scheduler) Status(id string) nodestore.Status {
	return s.state[id]
}

// InFlight returns the number of nodes handed out and not yet completed.
func (s *Scheduler) InFlight() int {
	return s.inFlight
}

// Done reports whether every node reached a terminal state.
func (s *Scheduler) Done() bool {
	return s.terminal == len(s.state)
}

// Stalled reports whether nodes remain but none is ready or running. It
// cannot happen on a graph built by dag.Build.
func (s *Scheduler) Stalled() bool {
	return !s.Done() && len(s.ready) == 0 && s.inFlight == 0
}

func (s *Scheduler) withoutSkipped(ids []string) []string {
	out := ids[:0]
	for _, id := range ids {
		if s.state[id] == nodestore.StatusPending {
			out = append(out, id)
		}
	}
	return out
}
