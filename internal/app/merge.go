package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/stagegrid/internal/ctxlog"
	"github.com/specialistvlad/stagegrid/internal/loader"
	"github.com/specialistvlad/stagegrid/internal/model"
	"github.com/specialistvlad/stagegrid/internal/resolver"
)

// Merge resolves the stage templates against the targets and writes the
// merged document. Nothing is written when resolution fails.
func (a *App) Merge(ctx context.Context, opts MergeOptions) (map[string]model.ResolvedStage, error) {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)

	templates, err := loader.LoadTemplates(ctx, a.path(opts.StagesPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load stage templates: %w", err)
	}
	targets, err := loader.LoadTargets(ctx, a.path(opts.TargetsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load targets: %w", err)
	}

	resolved, err := resolver.Resolve(ctx, templates, targets)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve stages: %w", err)
	}

	if err := loader.WriteMerged(a.path(opts.OutputPath), resolved); err != nil {
		return nil, err
	}
	logger.Info("Merged stages written.", "path", opts.OutputPath, "stages", len(resolved), "targets", len(targets))
	return resolved, nil
}
