package executor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/specialistvlad/stagegrid/internal/ctxlog"
	"github.com/specialistvlad/stagegrid/internal/nodeid"
	"github.com/specialistvlad/stagegrid/internal/nodestore"
	"github.com/specialistvlad/stagegrid/internal/process"
	"github.com/specialistvlad/stagegrid/internal/testutil"
)

type runnerFunc func(ctx context.Context, line string) error

func (f runnerFunc) Run(ctx context.Context, c process.Command) error {
	return f(ctx, c.Line)
}

func cmd(line string) process.Command {
	return process.Command{Line: line}
}

var errStoreDown = errors.New("store unavailable")

// faultyStore wraps a real store and fails duration writes or status reads
// for the listed stages.
type faultyStore struct {
	nodestore.Store
	failDurations bool
	failReads     map[string]bool
}

func (s *faultyStore) SetDuration(ctx context.Context, id nodeid.Address, d time.Duration) error {
	if s.failDurations {
		return errStoreDown
	}
	return s.Store.SetDuration(ctx, id, d)
}

func (s *faultyStore) GetStatus(ctx context.Context, id nodeid.Address) (nodestore.Status, error) {
	if s.failReads[id.String()] {
		return "", errStoreDown
	}
	return s.Store.GetStatus(ctx, id)
}

// loggingContext returns a context whose logger writes text records to buf.
func loggingContext(buf *testutil.SafeBuffer) context.Context {
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger)
}
