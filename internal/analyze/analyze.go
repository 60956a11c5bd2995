// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze derives search keywords and a structured breakdown
// from one inquiry topic via the language model.
// Implements: prd001-analysis.
package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/pdiddy/bookrec/internal/llm"
	"github.com/pdiddy/bookrec/internal/usage"
	"github.com/pdiddy/bookrec/pkg/types"
)

// analysisPromptTmpl asks the model for a fixed-shape JSON breakdown of
// one high-school inquiry topic. Keywords are requested in Korean
// because the downstream book-search service indexes Korean titles.
var analysisPromptTmpl = template.Must(template.New("analysis").Parse(`High-school inquiry topic: "{{.Topic}}"

Analyze this topic and respond with a JSON object of this exact shape:

{
    "keywords": ["keyword1", "keyword2", "keyword3", "keyword4", "keyword5"],
    "academic_field": "primary academic field",
    "difficulty_level": "difficulty at high-school level: high, medium, or low",
    "additional_keywords": ["supplementary keyword1", "supplementary keyword2"],
    "book_types": ["suitable book type1", "suitable book type2"],
    "cautions": "what to watch out for when selecting books"
}

Requirements:
1. keywords: 5-7 effective book-search terms, in Korean, concrete and searchable
2. academic_field: e.g. physics, chemistry, biology, mathematics, social science, humanities
3. difficulty_level: whether a high-school student can work at this level
4. additional_keywords: 1-2 complementary search terms
5. book_types: e.g. introductory, general-audience, experiment guide, theory
6. cautions: how to avoid books that are too advanced or off-topic

Respond with the JSON object only.
`))

// categoryAnalysis tags analyzer calls in the usage log.
const categoryAnalysis = "topic_analysis"

// Analyzer turns a topic string into a TopicAnalysis. The model client
// and usage logger are injected so the orchestrator can be tested with
// deterministic substitutes.
type Analyzer struct {
	LLM   llm.Client
	Usage usage.Logger
}

// NewAnalyzer builds an Analyzer. A nil logger disables usage tracking.
func NewAnalyzer(client llm.Client, logger usage.Logger) *Analyzer {
	return &Analyzer{LLM: client, Usage: logger}
}

// Analyze sends the topic to the model and parses the structured
// analysis out of the response. It never fails outward: transport
// errors, malformed responses, and parse failures all yield the
// sentinel analysis with a caution note naming the failure.
func (a *Analyzer) Analyze(ctx context.Context, topic string) types.TopicAnalysis {
	prompt, err := renderAnalysisPrompt(topic)
	if err != nil {
		return types.SentinelAnalysis(fmt.Sprintf("analysis unavailable: rendering prompt: %v", err))
	}

	raw, err := a.LLM.Complete(ctx, prompt)
	if err != nil {
		return types.SentinelAnalysis(fmt.Sprintf("analysis unavailable: %v", err))
	}

	usage.SafeLog(a.Usage, a.LLM.Model(), prompt, raw, categoryAnalysis)

	analysis, err := parseAnalysis(raw)
	if err != nil {
		return types.SentinelAnalysis(fmt.Sprintf("analysis unavailable: %v", err))
	}
	return analysis
}

// analysisResponse mirrors the JSON shape requested from the model.
type analysisResponse struct {
	Keywords           []string `json:"keywords"`
	AcademicField      string   `json:"academic_field"`
	DifficultyLevel    string   `json:"difficulty_level"`
	AdditionalKeywords []string `json:"additional_keywords"`
	BookTypes          []string `json:"book_types"`
	Cautions           string   `json:"cautions"`
}

// parseAnalysis strips an optional code fence and extracts the analysis
// defensively: missing fields default to empty collections or neutral
// labels rather than failing.
func parseAnalysis(raw string) (types.TopicAnalysis, error) {
	var resp analysisResponse
	if err := json.Unmarshal([]byte(llm.StripFence(raw)), &resp); err != nil {
		return types.TopicAnalysis{}, fmt.Errorf("parsing analysis JSON: %w", err)
	}

	analysis := types.TopicAnalysis{
		Keywords:           emptyIfNil(resp.Keywords),
		AcademicField:      resp.AcademicField,
		DifficultyLevel:    normalizeDifficulty(resp.DifficultyLevel),
		AdditionalKeywords: emptyIfNil(resp.AdditionalKeywords),
		BookTypes:          emptyIfNil(resp.BookTypes),
		Cautions:           resp.Cautions,
	}
	if analysis.AcademicField == "" {
		analysis.AcademicField = types.FieldUnclassified
	}
	return analysis, nil
}

// normalizeDifficulty maps model output into the closed difficulty set.
// Korean grade labels (상/중/하) are accepted alongside the English
// ones; anything unrecognized lands on medium.
func normalizeDifficulty(s string) types.Difficulty {
	switch s {
	case string(types.DifficultyHigh), "상":
		return types.DifficultyHigh
	case string(types.DifficultyLow), "하":
		return types.DifficultyLow
	default:
		return types.DifficultyMedium
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// renderAnalysisPrompt executes the analysis prompt template.
func renderAnalysisPrompt(topic string) (string, error) {
	var buf bytes.Buffer
	if err := analysisPromptTmpl.Execute(&buf, struct{ Topic string }{Topic: topic}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
