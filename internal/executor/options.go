package executor

import (
	"fmt"
	"runtime"

	"github.com/specialistvlad/stagegrid/internal/inmemorystore"
	"github.com/specialistvlad/stagegrid/internal/metrics"
	"github.com/specialistvlad/stagegrid/internal/nodestore"
	"github.com/specialistvlad/stagegrid/internal/process"
)

// Mode selects which half of a stage's work runs.
type Mode string

const (
	// ModeAll runs the command and then, in the same work unit, the post action.
	ModeAll Mode = "all"
	// ModeCommand runs only the command.
	ModeCommand Mode = "command"
	// ModePost runs only the post action.
	ModePost Mode = "post"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeAll, ModeCommand, ModePost:
		return m, nil
	}
	return "", fmt.Errorf("invalid mode %q (want all, command or post)", s)
}

// Policy decides how a failed stage affects the rest of the graph.
type Policy string

const (
	// PolicyContinue treats a failed stage as finished; its children still run.
	PolicyContinue Policy = "continue"
	// PolicySkipDependents skips every descendant of a failed stage while
	// independent branches continue.
	PolicySkipDependents Policy = "skip-dependents"
	// PolicyFailFast cancels running stages and skips everything not yet started.
	PolicyFailFast Policy = "fail-fast"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyContinue, PolicySkipDependents, PolicyFailFast:
		return p, nil
	}
	return "", fmt.Errorf("invalid failure policy %q (want continue, skip-dependents or fail-fast)", s)
}

// Options configures Launch. Zero values select the defaults.
type Options struct {
	// Workers bounds the number of stages running at once. Defaults to half
	// the CPUs, at least one.
	Workers int
	Mode    Mode
	Policy  Policy
	// Runner runs command lines. Defaults to a shell rooted at BaseDir.
	Runner  process.Runner
	BaseDir string
	// Recorder receives metrics events. Defaults to metrics.Nop.
	Recorder metrics.Recorder
	// Store receives status transitions. Defaults to a fresh in-memory store.
	Store nodestore.Store
}

// DefaultWorkers returns half the available CPUs, at least one.
func DefaultWorkers() int {
	return max(1, runtime.NumCPU()/2)
}

func (o Options) withDefaults() (Options, error) {
	if o.Workers < 0 {
		return o, fmt.Errorf("workers must not be negative, got %d", o.Workers)
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers()
	}
	if o.Mode == "" {
		o.Mode = ModeAll
	}
	if _, err := ParseMode(string(o.Mode)); err != nil {
		return o, err
	}
	if o.Policy == "" {
		o.Policy = PolicyContinue
	}
	if _, err := ParsePolicy(string(o.Policy)); err != nil {
		return o, err
	}
	if o.Runner == nil {
		o.Runner = process.NewShell(o.BaseDir)
	}
	if o.Recorder == nil {
		o.Recorder = metrics.Nop{}
	}
	if o.Store == nil {
		o.Store = inmemorystore.New()
	}
	return o, nil
}
