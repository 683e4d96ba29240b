package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/specialistvlad/stagegrid/internal/process"
)

// ExecutionRecord holds the start and end times of one command line.
type ExecutionRecord struct {
	Node  string
	Line  string
	Start time.Time
	End   time.Time
}

// FakeRunner is a process.Runner that runs nothing. It records every command,
// tracks the peak number of concurrent calls and fails the lines listed in
// Fail.
type FakeRunner struct {
	// Delay is how long each call pretends to run. A cancelled context ends
	// the call early with the context error.
	Delay time.Duration
	// Fail maps command lines to the error returned for them.
	Fail map[string]error

	mu      sync.Mutex
	records []ExecutionRecord
	running int
	peak    int
}

var _ process.Runner = (*FakeRunner)(nil)

// NewFakeRunner returns a runner that sleeps delay per call and fails every
// line in failing with a generic error.
func NewFakeRunner(delay time.Duration, failing ...string) *FakeRunner {
	f := &FakeRunner{Delay: delay, Fail: make(map[string]error)}
	for _, line := range failing {
		f.Fail[line] = fmt.Errorf("exit status 1")
	}
	return f
}

// Run implements process.Runner.
func (f *FakeRunner) Run(ctx context.Context, cmd process.Command) error {
	f.mu.Lock()
	f.running++
	f.peak = max(f.peak, f.running)
	rec := ExecutionRecord{Node: cmd.Node, Line: cmd.Line, Start: time.Now()}
	f.mu.Unlock()

	var err error
	if f.Delay > 0 {
		timer := time.NewTimer(f.Delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			err = ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.running--
	rec.End = time.Now()
	f.records = append(f.records, rec)
	if err != nil {
		return err
	}
	return f.Fail[cmd.Line]
}

// Records returns every finished call ordered by start time.
func (f *FakeRunner) Records() []ExecutionRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ExecutionRecord, len(f.records))
	copy(out, f.records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// Lines returns the command lines of every finished call ordered by start.
func (f *FakeRunner) Lines() []string {
	records := f.Records()
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = r.Line
	}
	return lines
}

// Peak returns the highest number of calls that were running at once.
func (f *FakeRunner) Peak() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.peak
}
