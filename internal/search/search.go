// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries the book-search service per keyword and returns
// normalized, deduplicated candidates.
// Implements: prd002-search.
package search

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/bookrec/pkg/types"
)

// maxSearchKeywords bounds how many keywords are consulted per topic.
// The analysis yields 5-7 keywords but the first three carry nearly all
// of the signal, and each extra keyword is another rate-limited call.
const maxSearchKeywords = 3

// Backend searches the book service for a single keyword. Per the
// Strategy pattern so tests can supply deterministic hits.
type Backend interface {
	Name() string
	SearchKeyword(ctx context.Context, keyword string, limit int) ([]types.BookCandidate, error)
}

// Client runs per-keyword queries against one backend and merges the
// hits into a deduplicated candidate set.
type Client struct {
	Backend Backend
	Config  types.SearchConfig

	// Log receives per-keyword warnings. io.Discard silences them.
	Log io.Writer
}

// NewClient builds a search client. A nil log writer discards warnings.
func NewClient(b Backend, cfg types.SearchConfig, log io.Writer) *Client {
	if log == nil {
		log = io.Discard
	}
	return &Client{Backend: b, Config: cfg, Log: log}
}

// Search queries the first three keywords independently and returns the
// deduplicated union. A failing keyword contributes zero candidates and
// search continues; the returned error is reserved for callers that
// wrap this client, not produced here. The configured pacing delay is
// applied between per-keyword requests — the book service enforces a
// call-rate ceiling, so the delay is part of the contract.
func (c *Client) Search(ctx context.Context, keywords []string) ([]types.BookCandidate, error) {
	if len(keywords) > maxSearchKeywords {
		keywords = keywords[:maxSearchKeywords]
	}

	limit := c.Config.MaxPerKeyword
	if limit <= 0 {
		limit = 10
	}

	var all []types.BookCandidate
	for i, keyword := range keywords {
		if i > 0 && c.Config.RequestDelay > 0 {
			select {
			case <-ctx.Done():
				return dedupe(all), nil
			case <-time.After(c.Config.RequestDelay):
			}
		}

		hits, err := c.Backend.SearchKeyword(ctx, keyword, limit)
		if err != nil {
			fmt.Fprintf(c.Log, "warning: %s search failed for %q: %v\n", c.Backend.Name(), keyword, err)
			continue
		}
		all = append(all, hits...)
	}

	return dedupe(all), nil
}

// dedupe merges candidates by ISBN. The first occurrence wins — keyword
// order, then service order within a keyword — and later duplicates are
// dropped silently. Result order is insertion order of first occurrence.
func dedupe(candidates []types.BookCandidate) []types.BookCandidate {
	seen := make(map[string]bool, len(candidates))
	deduped := make([]types.BookCandidate, 0, len(candidates))

	for _, c := range candidates {
		if c.ISBN == "" || seen[c.ISBN] {
			continue
		}
		seen[c.ISBN] = true
		deduped = append(deduped, c)
	}
	return deduped
}
