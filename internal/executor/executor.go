package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/stagegrid/internal/ctxlog"
	"github.com/specialistvlad/stagegrid/internal/dag"
	"github.com/specialistvlad/stagegrid/internal/nodestore"
	"github.com/specialistvlad/stagegrid/internal/scheduler"
	"golang.org/x/sync/errgroup"
)

// SkippedError is recorded for a stage that never ran.
type SkippedError struct {
	// Cause names the failed ancestor, or describes the cancellation.
	Cause string
}

func (e *SkippedError) Error() string {
	return "skipped: " + e.Cause
}

// completion is what a worker reports for one node.
type completion struct {
	id       string
	status   nodestore.Status
	err      error
	duration time.Duration
}

// launch holds the state of one Launch call. Everything except the job and
// completion channels is touched only by the control loop. Stage outcomes are
// written to opts.Store and read back from it when the report is assembled.
type launch struct {
	graph    *dag.Graph
	opts     Options
	sched    *scheduler.Scheduler
	report   *Report
	jobs     chan *dag.Node
	done     chan completion
	finished int
}

// Launch executes every stage of g and returns a report once all of them are
// terminal. Stage failures are recorded in the report; the returned error is
// non-nil only for invalid options or when ctx is cancelled, in which case the
// partial report is returned as well.
func Launch(ctx context.Context, g *dag.Graph, opts Options) (*Report, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx)
	logger.Info("Launching DAG.", "mode", opts.Mode, "workers", opts.Workers, "policy", opts.Policy, "stages", g.Len())
	start := time.Now()

	l := &launch{
		graph: g,
		opts:  opts,
		sched: scheduler.New(g),
		report: &Report{Mode: opts.Mode},
		jobs: make(chan *dag.Node, g.Len()),
		done: make(chan completion, g.Len()),
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var eg errgroup.Group
	for i := 0; i < opts.Workers; i++ {
		workerID := i
		eg.Go(func() error {
			l.worker(runCtx, workerID)
			return nil
		})
	}

	l.submit(ctx)
	ctxDone := ctx.Done()
	for !l.sched.Done() {
		if l.sched.Stalled() {
			// Unreachable for graphs from dag.Build, which rejects cycles.
			cancel()
			close(l.jobs)
			eg.Wait()
			l.report.Results = l.results(ctx)
			return l.report, fmt.Errorf("scheduler stalled with %d stages outstanding", g.Len()-l.finished)
		}

		select {
		case <-ctxDone:
			ctxDone = nil
			logger.Warn("Launch cancelled, skipping stages not yet started.", "error", ctx.Err())
			l.skip(ctx, l.sched.SkipPending(), ctx.Err().Error())
			cancel()
		case c := <-l.done:
			l.complete(ctx, c)
			if c.status == nodestore.StatusFailed {
				l.applyPolicy(ctx, c.id, cancel)
			}
			l.submit(ctx)
		}
	}

	close(l.jobs)
	eg.Wait()

	l.report.Results = l.results(ctx)
	l.report.Duration = time.Since(start)
	opts.Recorder.LaunchFinished(string(opts.Mode), l.report.Duration)
	logger.Info("All DAG stages executed.",
		"succeeded", len(l.report.WithStatus(nodestore.StatusSucceeded)),
		"failed", len(l.report.Failed()),
		"skipped", len(l.report.Skipped()),
		"duration", l.report.Duration,
	)

	if err := ctx.Err(); err != nil {
		return l.report, err
	}
	return l.report, nil
}

// submit hands every ready node to the workers. The job channel holds the
// whole graph, so this never blocks.
func (l *launch) submit(ctx context.Context) {
	for _, id := range l.sched.Next() {
		n, _ := l.graph.Node(id)
		logger := ctxlog.FromContext(ctx).With("node", id)
		if err := l.opts.Store.SetStatus(ctx, n.Addr, nodestore.StatusRunning); err != nil {
			logger.Error("Failed to record stage status.", "status", nodestore.StatusRunning, "error", err)
		}
		l.report.Order = append(l.report.Order, id)
		logger.Info("Submitted.")
		l.jobs <- n
	}
}

func (l *launch) complete(ctx context.Context, c completion) {
	logger := ctxlog.FromContext(ctx).With("node", c.id)
	l.sched.Complete(c.id, c.status)
	l.record(ctx, c)

	switch c.status {
	case nodestore.StatusFailed:
		logger.Error("Stage failed.", "error", c.err, "duration", c.duration)
	case nodestore.StatusSkipped:
		logger.Warn("Stage skipped.", "reason", c.err)
	default:
		logger.Info("Completed.", "duration", c.duration)
	}
}

func (l *launch) applyPolicy(ctx context.Context, failed string, cancel context.CancelFunc) {
	switch l.opts.Policy {
	case PolicySkipDependents:
		l.skip(ctx, l.sched.SkipDescendants(failed), fmt.Sprintf("ancestor %s failed", failed))
	case PolicyFailFast:
		skipped := l.sched.SkipPending()
		if len(skipped) > 0 || l.sched.InFlight() > 0 {
			ctxlog.FromContext(ctx).Warn("Failing fast.", "failed", failed, "skipped", len(skipped), "cancelled", l.sched.InFlight())
		}
		l.skip(ctx, skipped, fmt.Sprintf("%s failed", failed))
		cancel()
	}
}

func (l *launch) skip(ctx context.Context, ids []string, cause string) {
	for _, id := range ids {
		l.record(ctx, completion{id: id, status: nodestore.StatusSkipped, err: &SkippedError{Cause: cause}})
	}
}

func (l *launch) record(ctx context.Context, c completion) {
	n, _ := l.graph.Node(c.id)
	logger := ctxlog.FromContext(ctx).With("node", c.id)
	l.finished++
	l.opts.Recorder.StageFinished(string(l.opts.Mode), string(c.status), c.duration)

	if err := l.opts.Store.SetStatus(ctx, n.Addr, c.status); err != nil {
		logger.Error("Failed to record stage status.", "status", c.status, "error", err)
	}
	if c.err != nil {
		if err := l.opts.Store.SetError(ctx, n.Addr, c.err); err != nil {
			logger.Error("Failed to record stage error.", "error", err)
		}
	}
	if err := l.opts.Store.SetDuration(ctx, n.Addr, c.duration); err != nil {
		logger.Error("Failed to record stage duration.", "error", err)
	}
}

// results reads back every stage that left the pending state. A stage whose
// status cannot be read is reported failed.
func (l *launch) results(ctx context.Context) map[string]Result {
	logger := ctxlog.FromContext(ctx)
	out := make(map[string]Result, l.graph.Len())

	for _, id := range l.graph.IDs() {
		n, _ := l.graph.Node(id)
		status, err := l.opts.Store.GetStatus(ctx, n.Addr)
		if err != nil {
			logger.Error("Failed to read stage status.", "node", id, "error", err)
			out[id] = Result{ID: id, Status: nodestore.StatusFailed, Err: fmt.Errorf("reading stage state: %w", err)}
			continue
		}
		if status == nodestore.StatusPending {
			continue
		}

		res := Result{ID: id, Status: status}
		if res.Err, err = l.opts.Store.GetError(ctx, n.Addr); err != nil {
			logger.Error("Failed to read stage error.", "node", id, "error", err)
		}
		if res.Duration, err = l.opts.Store.GetDuration(ctx, n.Addr); err != nil {
			logger.Error("Failed to read stage duration.", "node", id, "error", err)
		}
		out[id] = res
	}
	return out
}
