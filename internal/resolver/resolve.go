package resolver

import (
	"context"
	"sort"
	"strings"

	"github.com/specialistvlad/stagegrid/internal/ctxlog"
	"github.com/specialistvlad/stagegrid/internal/model"
	"github.com/specialistvlad/stagegrid/internal/nodeid"
)

// Resolve instantiates every template for every target and returns the
// resolved stage map keyed by qualified name. Targets are processed in order
// and templates by sorted name, so equal inputs yield equal outputs.
func Resolve(ctx context.Context, templates map[string]model.Template, targets []model.Target) (map[string]model.ResolvedStage, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolve: Starting.", "templates", len(templates), "targets", len(targets))

	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, target := range targets {
		if strings.Contains(target.Name, nodeid.Separator) {
			return nil, &TargetNameError{Target: target.Name}
		}
	}

	stages := make(map[string]*stage, len(names)*len(targets))
	order := make([]string, 0, len(names)*len(targets))
	for _, target := range targets {
		for _, name := range names {
			s, err := instantiate(name, templates[name], target)
			if err != nil {
				return nil, err
			}
			qualified := s.qualifiedName()
			if _, dup := stages[qualified]; !dup {
				order = append(order, qualified)
			}
			stages[qualified] = s
		}
	}
	logger.Debug("Resolve: Instantiation complete.", "stages", len(stages))

	if err := checkDependencies(stages, order); err != nil {
		return nil, err
	}
	if err := linkReferences(ctx, stages, order); err != nil {
		return nil, err
	}

	out := make(map[string]model.ResolvedStage, len(stages))
	for _, qualified := range order {
		s := stages[qualified]
		resolved, err := s.substitute()
		if err != nil {
			return nil, err
		}
		out[qualified] = resolved
	}
	logger.Debug("Resolve: Complete.", "stages", len(out))
	return out, nil
}

// checkDependencies verifies every qualified before/after entry names an
// instantiated stage.
func checkDependencies(stages map[string]*stage, order []string) error {
	for _, qualified := range order {
		s := stages[qualified]
		for _, list := range [][]string{s.before, s.after} {
			for _, dep := range list {
				if _, ok := stages[dep]; !ok {
					return &ReferenceError{
						Kind:      UnknownDependency,
						Stage:     qualified,
						Ref:       dep,
						Available: sortedKeys(stages),
					}
				}
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
