// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Template, the reusable stage definition loaded from a
// stage template file.
package model

// Template is the target-agnostic definition of one stage. Templates are never
// mutated once loaded; the resolver works on a Clone per target.
type Template struct {
	Run       Action            `json:"run,omitempty" yaml:"run,omitempty"`
	Post      Action            `json:"post,omitempty" yaml:"post,omitempty"`
	Variables map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
	// Before lists sibling stages that must wait for this one.
	Before []string `json:"before,omitempty" yaml:"before,omitempty"`
	// After lists sibling stages this one waits for.
	After []string `json:"after,omitempty" yaml:"after,omitempty"`
}

// Clone returns a deep copy of the template with every map and slice
// allocated, so callers can mutate the copy freely.
func (t Template) Clone() Template {
	return Template{
		Run:       t.Run.Clone(),
		Post:      t.Post.Clone(),
		Variables: cloneStrings(t.Variables),
		Before:    cloneSlice(t.Before),
		After:     cloneSlice(t.After),
	}
}
