// Package nodestore defines the interface for recording the mutable run state
// of stages while a graph executes.
//
// # Why Node Store Exists
//
// The dependency graph is immutable once built. Everything that changes during
// a launch (status, failure, timing) lives here instead, so the executor can
// write from many workers while reporting code reads a consistent view.
//
// # State Transitions
//
// Nodes follow this lifecycle:
//
//	Pending → Running → Succeeded OR Failed
//	Pending → Skipped
package nodestore

import (
	"context"
	"time"

	"github.com/specialistvlad/stagegrid/internal/nodeid"
)

// Status is the run state of one stage.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Terminal reports whether no further transition follows s.
func (s Status) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusSkipped:
		return true
	}
	return false
}

// Store is the interface for managing the run state of stages.
//
// Implementations MUST be safe for concurrent use: workers record results for
// different stages in parallel.
type Store interface {
	// SetStatus updates the status of a stage.
	SetStatus(ctx context.Context, id nodeid.Address, status Status) error

	// GetStatus returns the status of a stage, StatusPending if none was set.
	GetStatus(ctx context.Context, id nodeid.Address) (Status, error)

	// SetError records why a stage failed or was skipped.
	SetError(ctx context.Context, id nodeid.Address, nodeErr error) error

	// GetError returns the recorded error, nil if none.
	GetError(ctx context.Context, id nodeid.Address) (error, error)

	// SetDuration records how long the stage's work unit ran.
	SetDuration(ctx context.Context, id nodeid.Address, d time.Duration) error

	// GetDuration returns the recorded duration, zero if none.
	GetDuration(ctx context.Context, id nodeid.Address) (time.Duration, error)
}
