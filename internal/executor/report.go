package executor

import (
	"sort"
	"time"

	"github.com/specialistvlad/stagegrid/internal/nodestore"
)

// Result is the outcome of one stage.
type Result struct {
	ID       string
	Status   nodestore.Status
	Err      error
	Duration time.Duration
}

// Report summarizes a launch.
type Report struct {
	Mode    Mode
	Results map[string]Result
	// Order lists stages in the order they were handed to workers.
	Order    []string
	Duration time.Duration
}

// WithStatus returns the sorted IDs of stages that ended in status.
func (r *Report) WithStatus(status nodestore.Status) []string {
	var ids []string
	for id, res := range r.Results {
		if res.Status == status {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Failed returns the sorted IDs of failed stages.
func (r *Report) Failed() []string { return r.WithStatus(nodestore.StatusFailed) }

// Skipped returns the sorted IDs of skipped stages.
func (r *Report) Skipped() []string { return r.WithStatus(nodestore.StatusSkipped) }

// OK reports whether every stage succeeded.
func (r *Report) OK() bool {
	for _, res := range r.Results {
		if res.Status != nodestore.StatusSucceeded {
			return false
		}
	}
	return true
}
