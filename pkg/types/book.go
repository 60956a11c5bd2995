// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// BookCandidate is one normalized hit from the book-search service.
// Markup has been stripped from text fields and ISBN reduced to its
// canonical form. Candidates without an ISBN are discarded before they
// reach this type.
type BookCandidate struct {
	// Title is the book title with inline markup removed.
	Title string `json:"title" yaml:"title"`

	// Author is the author field with inline markup removed.
	Author string `json:"author" yaml:"author"`

	// Publisher is the publisher name as returned by the service.
	Publisher string `json:"publisher" yaml:"publisher"`

	// PubDate is the publication date string as returned by the service
	// (typically YYYYMMDD; kept verbatim).
	PubDate string `json:"publication_date" yaml:"publication_date"`

	// ISBN is the canonical identifier: the last whitespace-delimited
	// token of the service's identifier field (the 13-digit code when the
	// service returns both 10- and 13-digit variants).
	ISBN string `json:"isbn" yaml:"isbn"`

	// Description is the blurb text with inline markup removed.
	Description string `json:"description" yaml:"description"`

	// SearchKeyword is the keyword whose query produced this hit.
	SearchKeyword string `json:"search_keyword" yaml:"search_keyword"`
}

// Sub-score band limits. Each sub-score is clamped into [0, max].
const (
	MaxRelevance       = 30
	MaxAppropriateness = 25
	MaxReliability     = 20
	MaxRecency         = 15
	MaxAccessibility   = 10
)

// ScoreBreakdown holds the five verification sub-scores.
type ScoreBreakdown struct {
	// Relevance rates direct relation to the topic (0-30).
	Relevance int `json:"relevance" yaml:"relevance"`

	// Appropriateness rates fit for high-school readers (0-25).
	Appropriateness int `json:"appropriateness" yaml:"appropriateness"`

	// Reliability rates author/publisher authority (0-20).
	Reliability int `json:"reliability" yaml:"reliability"`

	// Recency rates publication date freshness (0-15).
	Recency int `json:"recency" yaml:"recency"`

	// Accessibility rates availability and reading difficulty (0-10).
	Accessibility int `json:"accessibility" yaml:"accessibility"`
}

// Sum returns the arithmetic sum of the sub-scores. This sum is the
// authoritative total for ranking; the model's self-reported total is
// ignored when it disagrees.
func (s ScoreBreakdown) Sum() int {
	return s.Relevance + s.Appropriateness + s.Reliability + s.Recency + s.Accessibility
}

// ScoredCandidate is a BookCandidate enriched with verification output.
// Created once by the verifier and not mutated afterward.
type ScoredCandidate struct {
	BookCandidate `yaml:",inline"`

	// Scores holds the five sub-scores after clamping.
	Scores ScoreBreakdown `json:"score_breakdown" yaml:"score_breakdown"`

	// Total is always Scores.Sum(), in [0, 100].
	Total int `json:"total_score" yaml:"total_score"`

	// Recommendation is the model's narrative justification. Target
	// length is 250-300 characters but any length is accepted.
	Recommendation string `json:"recommendation_reason" yaml:"recommendation_reason"`
}

// TopicResult is the per-topic unit of output.
type TopicResult struct {
	// Topic is the input text, verbatim.
	Topic string `json:"topic" yaml:"topic"`

	// Analysis is the topic analysis (sentinel on failure, never absent).
	Analysis TopicAnalysis `json:"topic_analysis" yaml:"topic_analysis"`

	// BooksFound counts unique candidates after search dedup.
	BooksFound int `json:"total_books_found" yaml:"total_books_found"`

	// BooksVerified counts candidates the verifier scored.
	BooksVerified int `json:"verified_books_count" yaml:"verified_books_count"`

	// Recommended is the top-N scored candidates, sorted by total score
	// descending with ties in original candidate order.
	Recommended []ScoredCandidate `json:"recommended_books" yaml:"recommended_books"`
}

// BatchStats holds aggregate statistics for one batch run.
type BatchStats struct {
	// AcademicFields counts topics per academic-field label.
	AcademicFields map[string]int `json:"academic_fields" yaml:"academic_fields"`

	// AverageBooksFound is the mean of BooksFound across topics.
	AverageBooksFound float64 `json:"average_books_per_topic" yaml:"average_books_per_topic"`

	// ElapsedSeconds is the wall-clock duration of the run.
	ElapsedSeconds float64 `json:"total_processing_seconds" yaml:"total_processing_seconds"`
}

// BatchResult is the output of one batch run. Created once by the batch
// runner and never mutated after the run completes.
type BatchResult struct {
	TotalTopics int           `json:"total_topics" yaml:"total_topics"`
	Results     []TopicResult `json:"results" yaml:"results"`
	Stats       BatchStats    `json:"statistics" yaml:"statistics"`
}
