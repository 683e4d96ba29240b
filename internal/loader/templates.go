package loader

import (
	"context"

	"github.com/specialistvlad/stagegrid/internal/ctxlog"
	"github.com/specialistvlad/stagegrid/internal/model"
)

// LoadTemplates reads a stage template document keyed by stage name.
func LoadTemplates(ctx context.Context, path string) (map[string]model.Template, error) {
	logger := ctxlog.FromContext(ctx)
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	var templates map[string]model.Template
	if format == HCL {
		templates, err = decodeHCLTemplates(path)
	} else {
		err = readValidated(path, format, stagesSchema, &templates)
	}
	if err != nil {
		return nil, err
	}
	if templates == nil {
		templates = map[string]model.Template{}
	}

	logger.Debug("Loaded stage templates.", "path", path, "format", format, "count", len(templates))
	return templates, nil
}

// LoadTargets reads a target document. Target order is preserved.
func LoadTargets(ctx context.Context, path string) ([]model.Target, error) {
	logger := ctxlog.FromContext(ctx)
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	var targets []model.Target
	if format == HCL {
		targets, err = decodeHCLTargets(path)
	} else {
		err = readValidated(path, format, targetsSchema, &targets)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("Loaded targets.", "path", path, "format", format, "count", len(targets))
	return targets, nil
}
