package loader

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/stagegrid/internal/model"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// stagesFile is the root of an HCL stage template document:
//
//	stage "build" {
//	  run {
//	    directory = "src"
//	    command   = "make $${out}"
//	  }
//	  variables = { out = "bin/@{target}" }
//	  before    = ["test"]
//	}
type stagesFile struct {
	Stages []*stageBlock `hcl:"stage,block"`
	Remain hcl.Body      `hcl:",remain"`
}

type stageBlock struct {
	Name      string            `hcl:"name,label"`
	Run       *actionBlock      `hcl:"run,block"`
	Post      *actionBlock      `hcl:"post,block"`
	Variables map[string]string `hcl:"variables,optional"`
	Before    []string          `hcl:"before,optional"`
	After     []string          `hcl:"after,optional"`
}

// actionBlock keeps its body open so any string attribute is accepted.
type actionBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// targetsFile is the root of an HCL target document:
//
//	target "arm" {
//	  override "build" {
//	    variables = { out = "bin/arm" }
//	    command   = { directory = "src/arm" }
//	  }
//	}
type targetsFile struct {
	Targets []*targetBlock `hcl:"target,block"`
	Remain  hcl.Body       `hcl:",remain"`
}

type targetBlock struct {
	Name      string           `hcl:"name,label"`
	Overrides []*overrideBlock `hcl:"override,block"`
}

type overrideBlock struct {
	Stage string   `hcl:"stage,label"`
	Body  hcl.Body `hcl:",remain"`
}

func parseHCL(path string, into any) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	if diags := gohcl.DecodeBody(file.Body, nil, into); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}
	return nil
}

func decodeHCLTemplates(path string) (map[string]model.Template, error) {
	var root stagesFile
	if err := parseHCL(path, &root); err != nil {
		return nil, err
	}

	templates := make(map[string]model.Template, len(root.Stages))
	for _, s := range root.Stages {
		if _, dup := templates[s.Name]; dup {
			return nil, fmt.Errorf("%s: stage %q is declared more than once", path, s.Name)
		}
		run, err := actionAttributes(s.Run)
		if err != nil {
			return nil, fmt.Errorf("%s: stage %q run: %w", path, s.Name, err)
		}
		post, err := actionAttributes(s.Post)
		if err != nil {
			return nil, fmt.Errorf("%s: stage %q post: %w", path, s.Name, err)
		}
		templates[s.Name] = model.Template{
			Run:       run,
			Post:      post,
			Variables: s.Variables,
			Before:    s.Before,
			After:     s.After,
		}
	}
	return templates, nil
}

func decodeHCLTargets(path string) ([]model.Target, error) {
	var root targetsFile
	if err := parseHCL(path, &root); err != nil {
		return nil, err
	}

	targets := make([]model.Target, 0, len(root.Targets))
	for _, t := range root.Targets {
		target := model.Target{Name: t.Name}
		if len(t.Overrides) > 0 {
			target.Overrides = make(map[string]model.StageOverride, len(t.Overrides))
		}
		for _, o := range t.Overrides {
			override, err := overrideAttributes(o.Body)
			if err != nil {
				return nil, fmt.Errorf("%s: target %q override %q: %w", path, t.Name, o.Stage, err)
			}
			target.Overrides[o.Stage] = override
		}
		targets = append(targets, target)
	}
	return targets, nil
}

func actionAttributes(block *actionBlock) (model.Action, error) {
	if block == nil {
		return nil, nil
	}
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	action := make(model.Action, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		str, err := convert.Convert(val, cty.String)
		if err != nil || str.IsNull() {
			return nil, fmt.Errorf("attribute %q must be a string", name)
		}
		action[name] = str.AsString()
	}
	return action, nil
}

// overrideAttributes decodes every attribute of an override block as a map
// of strings. Unknown attribute names are kept for the resolver to reject.
func overrideAttributes(body hcl.Body) (model.StageOverride, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	override := make(model.StageOverride, len(attrs))
	for _, name := range names {
		val, diags := attrs[name].Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		values, err := stringMap(val)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		override[name] = values
	}
	return override, nil
}

func stringMap(val cty.Value) (map[string]string, error) {
	converted, err := convert.Convert(val, cty.Map(cty.String))
	if err != nil {
		return nil, fmt.Errorf("must be an object of strings: %w", err)
	}
	out := make(map[string]string)
	if converted.IsNull() {
		return out, nil
	}
	for it := converted.ElementIterator(); it.Next(); {
		k, v := it.Element()
		if v.IsNull() {
			return nil, fmt.Errorf("key %q is null", k.AsString())
		}
		out[k.AsString()] = v.AsString()
	}
	return out, nil
}
