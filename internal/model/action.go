// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Action, the command-line half of a stage.
//
// Why a map and not a struct?
//
// Overrides are flat key replacements, and the post action of a stage may
// carry keys that only some tooling cares about (for example `output`, the
// file collected after a run). A string map merges naturally and round-trips
// every key a user wrote.
package model

const (
	// KeyDirectory is the working directory of an action.
	KeyDirectory = "directory"
	// KeyCommand is the command line of an action.
	KeyCommand = "command"
	// KeyOutput names the file a post action produces.
	KeyOutput = "output"
)

// Action is a command line together with the directory it runs in.
type Action map[string]string

// Directory returns the working directory, or "" when unspecified.
func (a Action) Directory() string {
	return a[KeyDirectory]
}

// Line returns the command line, or "" when there is nothing to run.
func (a Action) Line() string {
	return a[KeyCommand]
}

// Output returns the name of the file produced by the action, if declared.
func (a Action) Output() string {
	return a[KeyOutput]
}

// Empty reports whether the action has no command line.
func (a Action) Empty() bool {
	return a.Line() == ""
}

// Clone returns a copy of the action. The copy is never nil.
func (a Action) Clone() Action {
	return Action(cloneStrings(a))
}

// Merge copies every key of override into a, replacing existing keys.
func (a Action) Merge(override map[string]string) {
	for k, v := range override {
		a[k] = v
	}
}

func cloneStrings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneSlice(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
