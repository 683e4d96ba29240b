// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Analysis, one entry of the analyzed file produced by the
// collect command.
package model

// AnalysisStatus classifies a collected post-output file.
type AnalysisStatus string

const (
	// AnalysisFailed means the declared output file could not be read.
	AnalysisFailed AnalysisStatus = "failed"
	// AnalysisUnverified means the file was read; nothing has judged its content yet.
	AnalysisUnverified AnalysisStatus = "unverified"
)

// Analysis records the post-output file of one executed stage.
type Analysis struct {
	Status   AnalysisStatus `json:"status" yaml:"status"`
	Content  string         `json:"content" yaml:"content"`
	Filename string         `json:"filename" yaml:"filename"`
}
