// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines ResolvedStage, the fully substituted stage stored in the
// merged file.
//
// Why is every field always serialized?
//
// The merged file is an interchange format read back by later invocations
// (run, post, collect). Emitting empty maps and lists instead of omitting
// them keeps the shape stable for every consumer.
package model

// ResolvedStage is a stage instantiated for one target with overrides merged,
// placeholders substituted and cross-stage references resolved. Before and
// After hold qualified names.
type ResolvedStage struct {
	Command   Action            `json:"command" yaml:"command"`
	Post      Action            `json:"post" yaml:"post"`
	Before    []string          `json:"before" yaml:"before"`
	After     []string          `json:"after" yaml:"after"`
	Variables map[string]string `json:"variables" yaml:"variables"`
}

// Clone returns a deep copy of the stage.
func (s ResolvedStage) Clone() ResolvedStage {
	return ResolvedStage{
		Command:   s.Command.Clone(),
		Post:      s.Post.Clone(),
		Before:    cloneSlice(s.Before),
		After:     cloneSlice(s.After),
		Variables: cloneStrings(s.Variables),
	}
}

// Normalize replaces nil maps and slices with empty ones.
func (s *ResolvedStage) Normalize() {
	if s.Command == nil {
		s.Command = Action{}
	}
	if s.Post == nil {
		s.Post = Action{}
	}
	if s.Before == nil {
		s.Before = []string{}
	}
	if s.After == nil {
		s.After = []string{}
	}
	if s.Variables == nil {
		s.Variables = map[string]string{}
	}
}
