package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/specialistvlad/stagegrid/internal/ctxlog"
	"github.com/specialistvlad/stagegrid/internal/dag"
	"github.com/specialistvlad/stagegrid/internal/executor"
	"github.com/specialistvlad/stagegrid/internal/inmemorystore"
	"github.com/specialistvlad/stagegrid/internal/loader"
)

// Run executes the stages of a merged document and returns the per-stage
// report. Stage failures are part of the report, not the error.
func (a *App) Run(ctx context.Context, opts RunOptions) (*executor.Report, error) {
	mode, err := executor.ParseMode(defaultString(opts.Mode, string(executor.ModeAll)))
	if err != nil {
		return nil, err
	}
	policy, err := executor.ParsePolicy(defaultString(opts.Policy, string(executor.PolicyContinue)))
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	ctx = ctxlog.With(a.context(ctx), "run_id", runID)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Run method started.", "merged", opts.MergedPath, "mode", mode)

	stages, err := loader.LoadMerged(a.path(opts.MergedPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load merged stages: %w", err)
	}

	if opts.Only != "" {
		stages, err = dag.Select(stages, opts.Only, opts.WithDeps)
		if err != nil {
			return nil, fmt.Errorf("stage %q not found in merged file: %w", opts.Only, err)
		}
		logger.Info("Restricted run to selected stages.", "only", opts.Only, "with_deps", opts.WithDeps, "stages", len(stages))
	} else if opts.WithDeps {
		logger.Warn("--with-deps has no effect without --only")
	}

	graph, err := dag.Build(ctx, stages)
	if err != nil {
		return nil, fmt.Errorf("failed to build dependency graph: %w", err)
	}
	if graph.Len() == 0 {
		logger.Warn("No stages found in graph, execution not required.")
	}

	report, err := executor.Launch(ctx, graph, executor.Options{
		Workers:  opts.Workers,
		Mode:     mode,
		Policy:   policy,
		Runner:   a.runner,
		BaseDir:  a.config.BaseDir,
		Recorder: a.metrics,
		Store:    inmemorystore.New(),
	})
	if err != nil {
		return report, fmt.Errorf("execution interrupted: %w", err)
	}

	logger.Debug("App.Run method finished.", "failed", len(report.Failed()), "skipped", len(report.Skipped()))
	return report, nil
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
