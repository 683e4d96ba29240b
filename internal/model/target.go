// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Target and StageOverride, the per-target variations
// applied while instantiating templates.
package model

const (
	// OverrideVariables replaces or adds template variables.
	OverrideVariables = "variables"
	// OverrideCommand replaces or adds keys of the template's run action.
	OverrideCommand = "command"
	// OverridePost replaces or adds keys of the template's post action.
	OverridePost = "post"
)

// StageOverride is a partial override of one stage. Only the keys
// OverrideVariables, OverrideCommand and OverridePost are meaningful; the
// resolver rejects any other key.
type StageOverride map[string]map[string]string

// Target is a named variant that instantiates every template. The name may be
// empty, in which case qualified names start with the separator.
type Target struct {
	Name      string                   `json:"target" yaml:"target"`
	Overrides map[string]StageOverride `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// Override returns the override declared for stage, or nil.
func (t Target) Override(stage string) StageOverride {
	return t.Overrides[stage]
}
