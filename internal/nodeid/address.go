package nodeid

import (
	"fmt"
	"strings"
)

// Separator joins the target and the stage name in a qualified name.
const Separator = ":"

// Address is the structured representation of a qualified stage name.
type Address struct {
	Target string
	Stage  string
}

// New creates an address for the given target and stage.
func New(target, stage string) Address {
	return Address{Target: target, Stage: stage}
}

// String serializes the Address into its canonical `<target>:<stage>` form.
func (a Address) String() string {
	return a.Target + Separator + a.Stage
}

// Sibling returns the address of another stage instantiated for the same target.
func (a Address) Sibling(stage string) Address {
	return Address{Target: a.Target, Stage: stage}
}

// Qualify returns the qualified name of stage within target.
func Qualify(target, stage string) string {
	return New(target, stage).String()
}

// QualifyAll qualifies every stage name in names with target. It always
// returns a non-nil slice so that serialized lists are `[]` rather than null.
func QualifyAll(target string, names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, Qualify(target, name))
	}
	return out
}

// Parse splits a qualified name into its target and stage parts at the first
// separator. Target names never contain the separator; the resolver rejects
// them.
func Parse(raw string) (Address, error) {
	target, stage, ok := strings.Cut(raw, Separator)
	if !ok {
		return Address{}, fmt.Errorf("qualified name %q is missing the %q separator", raw, Separator)
	}
	if stage == "" {
		return Address{}, fmt.Errorf("qualified name %q has an empty stage name", raw)
	}
	return Address{Target: target, Stage: stage}, nil
}
