package resolver

import (
	"regexp"
	"sort"
	"strings"

	"github.com/specialistvlad/stagegrid/internal/model"
	"github.com/specialistvlad/stagegrid/internal/nodeid"
)

// TargetToken is replaced by the target name inside variable values.
const TargetToken = "@{target}"

var placeholderPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// stage is a template being resolved for one target.
type stage struct {
	name      string
	target    string
	command   model.Action
	post      model.Action
	variables map[string]string
	before    []string
	after     []string
}

func (s *stage) qualifiedName() string {
	return nodeid.Qualify(s.target, s.name)
}

// instantiate runs the first pass for a single template and target.
func instantiate(name string, tmpl model.Template, target model.Target) (*stage, error) {
	copied := tmpl.Clone()
	s := &stage{
		name:      name,
		target:    target.Name,
		command:   copied.Run,
		post:      copied.Post,
		variables: copied.Variables,
	}

	if err := s.applyOverride(target.Override(name)); err != nil {
		return nil, err
	}

	for k, v := range s.variables {
		s.variables[k] = strings.ReplaceAll(v, TargetToken, s.target)
	}

	s.before = nodeid.QualifyAll(s.target, copied.Before)
	s.after = nodeid.QualifyAll(s.target, copied.After)
	return s, nil
}

func (s *stage) applyOverride(override model.StageOverride) error {
	var unknown []string
	for key, values := range override {
		switch key {
		case model.OverrideVariables:
			for k, v := range values {
				s.variables[k] = v
			}
		case model.OverridePost:
			s.post.Merge(values)
		case model.OverrideCommand:
			s.command.Merge(values)
		default:
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &SchemaError{Stage: s.qualifiedName(), Keys: unknown}
	}
	return nil
}

// substitute replaces ${Var} placeholders in command and post with the
// stage's resolved variables and returns the final record.
func (s *stage) substitute() (model.ResolvedStage, error) {
	command, err := s.substituteAction(s.command)
	if err != nil {
		return model.ResolvedStage{}, err
	}
	post, err := s.substituteAction(s.post)
	if err != nil {
		return model.ResolvedStage{}, err
	}
	resolved := model.ResolvedStage{
		Command:   command,
		Post:      post,
		Before:    s.before,
		After:     s.after,
		Variables: s.variables,
	}
	resolved.Normalize()
	return resolved, nil
}

func (s *stage) substituteAction(action model.Action) (model.Action, error) {
	out := make(model.Action, len(action))
	for _, key := range sortedKeys(map[string]string(action)) {
		value := action[key]
		var missing string
		out[key] = placeholderPattern.ReplaceAllStringFunc(value, func(m string) string {
			name := placeholderPattern.FindStringSubmatch(m)[1]
			v, ok := s.variables[name]
			if !ok {
				if missing == "" {
					missing = name
				}
				return m
			}
			return v
		})
		if missing != "" {
			return nil, &ReferenceError{Kind: MissingVariable, Stage: s.qualifiedName(), Ref: missing}
		}
	}
	return out, nil
}
