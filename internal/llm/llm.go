// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm abstracts the language-model API behind a small client
// interface so the analysis and verification stages can be tested with
// deterministic substitutes. Two backends are provided: Gemini (the
// default) and any OpenAI-compatible endpoint.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/bookrec/pkg/types"
)

// Client completes a single text prompt. Responses are free text that
// may wrap a JSON document in a fenced code block; callers strip the
// fence with StripFence before structural parsing.
type Client interface {
	// Complete sends one prompt and returns the raw response text.
	Complete(ctx context.Context, prompt string) (string, error)

	// Model returns the model identifier, for usage logging.
	Model() string
}

// New builds a Client for the configured provider.
func New(cfg types.AIConfig) (Client, error) {
	switch cfg.Provider {
	case types.ProviderGemini, "":
		return NewGeminiClient(cfg), nil
	case types.ProviderOpenAI:
		return NewOpenAIClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

// StripFence removes an optional Markdown code fence (``` or ```json)
// wrapping a model response. Text without a fence is returned trimmed.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the language tag line (e.g. "json").
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
