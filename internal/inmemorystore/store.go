package inmemorystore

import (
	"context"
	"sync"
	"time"

	"github.com/specialistvlad/stagegrid/internal/nodeid"
	"github.com/specialistvlad/stagegrid/internal/nodestore"
)

// Store is an in-memory implementation of nodestore.Store. Each kind of state
// lives in its own sync.Map keyed by the qualified stage name, since the key
// set is fixed for a launch while values are written from many workers.
type Store struct {
	states    sync.Map // Key: qualified name, Value: nodestore.Status
	errors    sync.Map // Key: qualified name, Value: error
	durations sync.Map // Key: qualified name, Value: time.Duration
}

// New creates a new, empty in-memory node state store.
func New() nodestore.Store {
	return &Store{}
}

// SetStatus updates the status of a specific stage.
func (s *Store) SetStatus(ctx context.Context, id nodeid.Address, status nodestore.Status) error {
	s.states.Store(id.String(), status)
	return nil
}

// GetStatus retrieves the status of a specific stage.
// If a status has not been set, it returns StatusPending.
func (s *Store) GetStatus(ctx context.Context, id nodeid.Address) (nodestore.Status, error) {
	status, ok := s.states.Load(id.String())
	if !ok {
		return nodestore.StatusPending, nil
	}
	return status.(nodestore.Status), nil
}

// SetError records the failure error of a stage.
func (s *Store) SetError(ctx context.Context, id nodeid.Address, nodeErr error) error {
	s.errors.Store(id.String(), nodeErr)
	return nil
}

// GetError retrieves the recorded error of a stage.
func (s *Store) GetError(ctx context.Context, id nodeid.Address) (error, error) {
	err, ok := s.errors.Load(id.String())
	if !ok {
		return nil, nil
	}
	return err.(error), nil
}

// SetDuration records the run time of a stage.
func (s *Store) SetDuration(ctx context.Context, id nodeid.Address, d time.Duration) error {
	s.durations.Store(id.String(), d)
	return nil
}

// GetDuration retrieves the recorded run time of a stage.
func (s *Store) GetDuration(ctx context.Context, id nodeid.Address) (time.Duration, error) {
	d, ok := s.durations.Load(id.String())
	if !ok {
		return 0, nil
	}
	return d.(time.Duration), nil
}
