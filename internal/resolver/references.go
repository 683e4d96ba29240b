package resolver

import (
	"context"
	"regexp"
	"sort"

	"github.com/specialistvlad/stagegrid/internal/ctxlog"
	"github.com/specialistvlad/stagegrid/internal/nodeid"
)

var crossRefPattern = regexp.MustCompile(`^@\{(.+?)\.(.+?)\}$`)

// slot identifies one variable of one qualified stage.
type slot struct {
	stage    string
	variable string
}

func (s slot) String() string {
	return s.stage + "." + s.variable
}

// linkReferences replaces every @{Stage.Var} variable with the referenced
// sibling value. References form a graph over (stage, variable) slots which is
// walked in topological order, so chains resolve regardless of map order.
func linkReferences(ctx context.Context, stages map[string]*stage, order []string) error {
	logger := ctxlog.FromContext(ctx)

	// refs maps a referencing slot to the slot it reads from.
	refs := make(map[slot]slot)
	for _, qualified := range order {
		s := stages[qualified]
		for _, key := range sortedKeys(s.variables) {
			m := crossRefPattern.FindStringSubmatch(s.variables[key])
			if m == nil {
				continue
			}
			refStage := nodeid.Qualify(s.target, m[1])
			sibling, ok := stages[refStage]
			if !ok {
				return &ReferenceError{
					Kind:      NoSuchStage,
					Stage:     qualified,
					Ref:       refStage,
					Available: sortedKeys(stages),
				}
			}
			if _, ok := sibling.variables[m[2]]; !ok {
				return &ReferenceError{Kind: MissingVariable, Stage: refStage, Ref: m[2]}
			}
			refs[slot{qualified, key}] = slot{refStage, m[2]}
		}
	}
	if len(refs) == 0 {
		return nil
	}

	// A slot whose source is itself a reference waits for that source.
	waiters := make(map[slot][]slot)
	var ready []slot
	for from, to := range refs {
		if _, chained := refs[to]; chained {
			waiters[to] = append(waiters[to], from)
			continue
		}
		ready = append(ready, from)
	}
	sortSlots(ready)

	done := make(map[slot]bool, len(refs))
	for len(ready) > 0 {
		from := ready[0]
		ready = ready[1:]
		to := refs[from]

		value := stages[to.stage].variables[to.variable]
		stages[from.stage].variables[from.variable] = value
		done[from] = true
		logger.Debug("Resolved cross reference.", "stage", from.stage, "variable", from.variable, "source", to.String(), "value", value)

		next := waiters[from]
		sortSlots(next)
		ready = append(ready, next...)
	}

	if len(done) < len(refs) {
		var cycle []string
		for from := range refs {
			if !done[from] {
				cycle = append(cycle, from.String())
			}
		}
		sort.Strings(cycle)
		return &ReferenceError{Kind: ReferenceCycle, Cycle: cycle}
	}
	return nil
}

func sortSlots(slots []slot) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].stage != slots[j].stage {
			return slots[i].stage < slots[j].stage
		}
		return slots[i].variable < slots[j].variable
	})
}
