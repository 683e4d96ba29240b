package executor

import (
	"context"
	"time"

	"github.com/specialistvlad/stagegrid/internal/ctxlog"
	"github.com/specialistvlad/stagegrid/internal/dag"
	"github.com/specialistvlad/stagegrid/internal/model"
	"github.com/specialistvlad/stagegrid/internal/nodestore"
	"github.com/specialistvlad/stagegrid/internal/process"
)

// worker is the processing loop for a single concurrent worker.
func (l *launch) worker(ctx context.Context, workerID int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for n := range l.jobs {
		if ctx.Err() != nil {
			l.done <- completion{id: n.ID, status: nodestore.StatusSkipped, err: &SkippedError{Cause: ctx.Err().Error()}}
			continue
		}

		nodeCtx := ctxlog.With(ctx, "node", n.ID, "workerID", workerID)
		ctxlog.FromContext(nodeCtx).Debug("Worker picked up node for execution.")
		l.opts.Recorder.StageStarted(string(l.opts.Mode))

		start := time.Now()
		err := l.execute(nodeCtx, n)
		c := completion{id: n.ID, status: nodestore.StatusSucceeded, duration: time.Since(start)}
		if err != nil {
			c.status = nodestore.StatusFailed
			c.err = err
		}
		l.done <- c
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}

// execute runs the halves of the node selected by the mode. A failing
// command aborts the post action of the same node.
func (l *launch) execute(ctx context.Context, n *dag.Node) error {
	if l.opts.Mode != ModePost {
		if err := l.run(ctx, n.ID, n.Command); err != nil {
			return err
		}
	}
	if l.opts.Mode != ModeCommand {
		if err := l.run(ctx, n.ID, n.Post); err != nil {
			return err
		}
	}
	return nil
}

func (l *launch) run(ctx context.Context, id string, action model.Action) error {
	if action.Empty() {
		return nil
	}
	return l.opts.Runner.Run(ctx, process.Command{Node: id, Dir: action.Directory(), Line: action.Line()})
}
