package app

import (
	"context"
	"fmt"
	"io"

	"github.com/specialistvlad/stagegrid/internal/collect"
	"github.com/specialistvlad/stagegrid/internal/ctxlog"
	"github.com/specialistvlad/stagegrid/internal/loader"
	"github.com/specialistvlad/stagegrid/internal/model"
)

// Collect gathers the post-output files of a merged document into the
// analyzed document.
func (a *App) Collect(ctx context.Context, opts CollectOptions) (map[string]model.Analysis, error) {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)

	stages, err := loader.LoadMerged(a.path(opts.MergedPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load merged stages: %w", err)
	}

	analyzed := collect.Collect(ctx, a.config.BaseDir, stages)
	if err := loader.WriteAnalyzed(a.path(opts.OutputPath), analyzed); err != nil {
		return nil, err
	}
	logger.Info("Analyzed outputs written.", "path", opts.OutputPath, "stages", len(analyzed))
	return analyzed, nil
}

// Report prints a summary of an analyzed document to w.
func (a *App) Report(ctx context.Context, analyzedPath string, w io.Writer) (collect.Summary, error) {
	analyzed, err := loader.LoadAnalyzed(a.path(analyzedPath))
	if err != nil {
		return collect.Summary{}, fmt.Errorf("failed to load analyzed outputs: %w", err)
	}
	summary := collect.Summarize(analyzed)
	if err := summary.Write(w); err != nil {
		return summary, err
	}
	ctxlog.FromContext(a.context(ctx)).Debug("Report printed.", "stages", summary.Total)
	return summary, nil
}
