// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the bookrec pipeline.
// Implements: prd001-analysis (TopicAnalysis);
//
//	prd002-search (BookCandidate);
//	prd003-verification (ScoredCandidate, ScoreBreakdown);
//	prd004-batch (TopicResult, BatchResult).
package types

// Difficulty labels a topic's difficulty at high-school level.
type Difficulty string

const (
	DifficultyHigh   Difficulty = "high"
	DifficultyMedium Difficulty = "medium"
	DifficultyLow    Difficulty = "low"
)

// FieldUnclassified is the academic field assigned when analysis cannot
// determine one (including the sentinel analysis returned on failure).
const FieldUnclassified = "unclassified"

// TopicAnalysis is the structured breakdown of one inquiry topic produced
// by the analyzer. A TopicAnalysis is always present for a processed
// topic: on analyzer failure the collections are empty, the field is
// FieldUnclassified, and Cautions names the failure.
type TopicAnalysis struct {
	// Keywords are search terms derived from the topic, in model order
	// (target 5-7; consumers must tolerate fewer).
	Keywords []string `json:"keywords" yaml:"keywords"`

	// AcademicField is the primary academic field label (e.g. "physics").
	AcademicField string `json:"academic_field" yaml:"academic_field"`

	// DifficultyLevel rates the topic for high-school students.
	DifficultyLevel Difficulty `json:"difficulty_level" yaml:"difficulty_level"`

	// AdditionalKeywords are 1-2 supplementary search terms.
	AdditionalKeywords []string `json:"additional_keywords" yaml:"additional_keywords"`

	// BookTypes lists suitable book-type labels (e.g. "introductory").
	BookTypes []string `json:"book_types" yaml:"book_types"`

	// Cautions is a free-text note on books to avoid. On analyzer failure
	// it identifies the failure instead.
	Cautions string `json:"cautions" yaml:"cautions"`
}

// SentinelAnalysis returns the structurally complete analysis used when
// the analyzer cannot produce a real one. The caution note carries the
// failure description.
func SentinelAnalysis(caution string) TopicAnalysis {
	return TopicAnalysis{
		Keywords:           []string{},
		AcademicField:      FieldUnclassified,
		DifficultyLevel:    DifficultyMedium,
		AdditionalKeywords: []string{},
		BookTypes:          []string{},
		Cautions:           caution,
	}
}
