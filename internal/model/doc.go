// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the Go representation of the documents exchanged by
// stagegrid: reusable stage templates, target overrides, the resolved stage map
// and the analyzed report.
//
// # Core Concepts
//
//   - Template: the target-agnostic definition of one unit of work. It holds a
//     command, a post-command, variables that may contain placeholders, and
//     ordering hints towards sibling stages.
//
//   - Target: a named variant that instantiates every template, optionally
//     overriding variables, the command or the post-command of some stages.
//
//   - ResolvedStage: a template after override merging, placeholder
//     substitution and cross-reference resolution. The map of resolved stages
//     keyed by qualified name is the contract between resolution and execution
//     and the on-disk "merged" format.
//
// Why a separate model package?
//
// The resolver, the loaders, the graph builder and the collector all speak in
// these types. Keeping them free of behaviour beyond copying and accessors lets
// every format (JSON, YAML, HCL) decode into the same shapes.
package model
