// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates one topic through analysis, search, and
// verification, and runs topic batches.
// Implements: prd004-batch.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/bookrec/pkg/types"
)

// Analyzer produces a topic analysis. Implementations never fail
// outward; failure is expressed as a sentinel analysis.
type Analyzer interface {
	Analyze(ctx context.Context, topic string) types.TopicAnalysis
}

// Searcher returns deduplicated book candidates for the given keywords.
type Searcher interface {
	Search(ctx context.Context, keywords []string) ([]types.BookCandidate, error)
}

// Verifier scores candidates against a topic and returns them ranked.
type Verifier interface {
	Verify(ctx context.Context, candidates []types.BookCandidate, topic string, analysis types.TopicAnalysis) ([]types.ScoredCandidate, error)
}

// Pipeline processes one topic at a time through the three stages. The
// stages are injected capability interfaces, not concrete clients, so
// the orchestrator is testable with deterministic substitutes.
type Pipeline struct {
	Analyzer Analyzer
	Searcher Searcher
	Verifier Verifier
	Config   types.BatchConfig

	// Log receives per-topic warnings. io.Discard silences them.
	Log io.Writer
}

// New builds a Pipeline. A nil log writer discards warnings.
func New(a Analyzer, s Searcher, v Verifier, cfg types.BatchConfig, log io.Writer) *Pipeline {
	if log == nil {
		log = io.Discard
	}
	return &Pipeline{Analyzer: a, Searcher: s, Verifier: v, Config: cfg, Log: log}
}

// Run processes one topic: analyze, search with the analysis keywords,
// verify the candidates, keep the top N. Each stage already absorbs its
// own failures, so this boundary is a last-resort safety net: any error
// or panic escaping an injected stage becomes a well-formed TopicResult
// with zero candidates and an error note — a single topic's failure
// never aborts the batch.
func (p *Pipeline) Run(ctx context.Context, topic string) (result types.TopicResult) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(p.Log, "warning: topic %q: stage panic: %v\n", topic, r)
			result = failedResult(topic, fmt.Sprintf("processing failed: %v", r))
		}
	}()

	analysis := p.Analyzer.Analyze(ctx, topic)

	candidates, err := p.Searcher.Search(ctx, analysis.Keywords)
	if err != nil {
		fmt.Fprintf(p.Log, "warning: topic %q: search failed: %v\n", topic, err)
		candidates = nil
	}

	scored, err := p.Verifier.Verify(ctx, candidates, topic, analysis)
	if err != nil {
		fmt.Fprintf(p.Log, "warning: topic %q: verification failed: %v\n", topic, err)
		scored = nil
	}

	topN := p.Config.TopN
	if topN <= 0 {
		topN = 2
	}
	recommended := scored
	if len(recommended) > topN {
		recommended = recommended[:topN]
	}
	if recommended == nil {
		recommended = []types.ScoredCandidate{}
	}

	return types.TopicResult{
		Topic:         topic,
		Analysis:      analysis,
		BooksFound:    len(candidates),
		BooksVerified: len(scored),
		Recommended:   recommended,
	}
}

// failedResult is the well-formed result for a topic whose processing
// escaped every stage-level safety net.
func failedResult(topic, note string) types.TopicResult {
	return types.TopicResult{
		Topic:       topic,
		Analysis:    types.SentinelAnalysis(note),
		Recommended: []types.ScoredCandidate{},
	}
}
