// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify scores candidate books against a topic via the
// language model and ranks them.
// Implements: prd003-verification.
package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"

	"github.com/pdiddy/bookrec/internal/llm"
	"github.com/pdiddy/bookrec/internal/usage"
	"github.com/pdiddy/bookrec/pkg/types"
)

// verificationPromptTmpl sends the topic, its analysis, and the
// numbered candidate list in one combined request. The model scores
// each candidate on five fixed bands and writes a narrative
// recommendation; the 250-300 character target is advisory only.
var verificationPromptTmpl = template.Must(template.New("verification").Parse(`High-school inquiry topic: "{{.Topic}}"

Topic analysis:
- academic field: {{.Field}}
- difficulty: {{.Difficulty}}
- suitable book types: {{.BookTypes}}
- cautions: {{.Cautions}}

Candidate books:
{{.BookList}}

Score every candidate and respond with a JSON object of this exact shape:

{
    "book_scores": [
        {
            "book_number": 1,
            "relevance_score": 30,
            "appropriateness_score": 25,
            "reliability_score": 20,
            "recency_score": 15,
            "accessibility_score": 10,
            "total_score": 100,
            "recommendation_reason": "a detailed 250-300 character justification"
        }
    ]
}

Scoring bands:
1. relevance_score (0-30): direct relation to the inquiry topic
2. appropriateness_score (0-25): fit for high-school readers
3. reliability_score (0-20): author/publisher authority, accuracy
4. recency_score (0-15): publication freshness (full marks for 2020 or later)
5. accessibility_score (0-10): availability and reading difficulty

book_number is the candidate's position in the list above, starting at 1.
recommendation_reason should run 250-300 characters and cover: the concrete
link to the topic, why it suits a high-school student, what knowledge the
book provides, and how it helps the inquiry work.

Respond with the JSON object only.
`))

// categoryVerification tags verifier calls in the usage log.
const categoryVerification = "book_verification"

// Verifier scores a bounded candidate list for one topic.
type Verifier struct {
	LLM    llm.Client
	Usage  usage.Logger
	Config types.VerifyConfig

	// Log receives warnings about dropped entries and failed batches.
	Log io.Writer
}

// NewVerifier builds a Verifier. A nil log writer discards warnings.
func NewVerifier(client llm.Client, logger usage.Logger, cfg types.VerifyConfig, log io.Writer) *Verifier {
	if log == nil {
		log = io.Discard
	}
	return &Verifier{LLM: client, Usage: logger, Config: cfg, Log: log}
}

// Verify submits the candidates (truncated to the configured cap) in
// one combined request and merges the returned scores back onto them.
// On any whole-batch transport or parse failure it returns an empty
// slice — conservative: no partial or guessed scores — and the caller
// treats that as zero candidates verified, not as an error to retry.
// The result is sorted by total score descending, ties in original
// candidate order.
func (v *Verifier) Verify(ctx context.Context, candidates []types.BookCandidate, topic string, analysis types.TopicAnalysis) ([]types.ScoredCandidate, error) {
	if len(candidates) == 0 {
		return []types.ScoredCandidate{}, nil
	}

	maxCandidates := v.Config.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = 15
	}
	submitted := candidates
	if len(submitted) > maxCandidates {
		submitted = submitted[:maxCandidates]
	}

	prompt, err := v.renderPrompt(submitted, topic, analysis)
	if err != nil {
		fmt.Fprintf(v.Log, "warning: verification skipped: rendering prompt: %v\n", err)
		return []types.ScoredCandidate{}, nil
	}

	raw, err := v.LLM.Complete(ctx, prompt)
	if err != nil {
		fmt.Fprintf(v.Log, "warning: verification failed: %v\n", err)
		return []types.ScoredCandidate{}, nil
	}

	usage.SafeLog(v.Usage, v.LLM.Model(), prompt, raw, categoryVerification)

	var resp verifyResponse
	if err := json.Unmarshal([]byte(llm.StripFence(raw)), &resp); err != nil {
		fmt.Fprintf(v.Log, "warning: verification response unparsable: %v\n", err)
		return []types.ScoredCandidate{}, nil
	}

	return v.mergeScores(submitted, resp.BookScores), nil
}

// verifyResponse mirrors the JSON shape requested from the model.
type verifyResponse struct {
	BookScores []bookScore `json:"book_scores"`
}

type bookScore struct {
	BookNumber           int    `json:"book_number"`
	RelevanceScore       int    `json:"relevance_score"`
	AppropriatenessScore int    `json:"appropriateness_score"`
	ReliabilityScore     int    `json:"reliability_score"`
	RecencyScore         int    `json:"recency_score"`
	AccessibilityScore   int    `json:"accessibility_score"`
	TotalScore           int    `json:"total_score"`
	RecommendationReason string `json:"recommendation_reason"`
}

// mergeScores matches model output back to candidates by 1-based
// ordinal. Ordinals outside [1, len(submitted)] are dropped as
// malformed; the first entry wins when the model repeats an ordinal.
// Sub-scores are clamped into their bands and the total is recomputed
// as their sum — the model's own total_score is not trusted.
func (v *Verifier) mergeScores(submitted []types.BookCandidate, scores []bookScore) []types.ScoredCandidate {
	byOrdinal := make(map[int]bookScore, len(scores))
	for _, s := range scores {
		if s.BookNumber < 1 || s.BookNumber > len(submitted) {
			fmt.Fprintf(v.Log, "warning: dropping score for nonexistent candidate %d (have %d)\n", s.BookNumber, len(submitted))
			continue
		}
		if _, dup := byOrdinal[s.BookNumber]; dup {
			continue
		}
		byOrdinal[s.BookNumber] = s
	}

	// Walk candidates in original order so the later stable sort breaks
	// ties by that order.
	scored := make([]types.ScoredCandidate, 0, len(byOrdinal))
	for i, candidate := range submitted {
		s, ok := byOrdinal[i+1]
		if !ok {
			continue
		}
		breakdown := types.ScoreBreakdown{
			Relevance:       clamp(s.RelevanceScore, types.MaxRelevance),
			Appropriateness: clamp(s.AppropriatenessScore, types.MaxAppropriateness),
			Reliability:     clamp(s.ReliabilityScore, types.MaxReliability),
			Recency:         clamp(s.RecencyScore, types.MaxRecency),
			Accessibility:   clamp(s.AccessibilityScore, types.MaxAccessibility),
		}
		scored = append(scored, types.ScoredCandidate{
			BookCandidate:  candidate,
			Scores:         breakdown,
			Total:          breakdown.Sum(),
			Recommendation: s.RecommendationReason,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Total > scored[j].Total
	})
	return scored
}

// clamp bounds a sub-score to [0, max]. Out-of-range values are clamped
// rather than rejected so one overenthusiastic score does not discard an
// otherwise valid entry.
func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// renderPrompt formats the combined verification request.
func (v *Verifier) renderPrompt(submitted []types.BookCandidate, topic string, analysis types.TopicAnalysis) (string, error) {
	limit := v.Config.DescriptionLimit
	if limit <= 0 {
		limit = 200
	}

	var list strings.Builder
	for i, c := range submitted {
		fmt.Fprintf(&list, "%d. title: %s\n", i+1, c.Title)
		fmt.Fprintf(&list, "   author: %s\n", c.Author)
		fmt.Fprintf(&list, "   publisher: %s\n", c.Publisher)
		fmt.Fprintf(&list, "   published: %s\n", c.PubDate)
		fmt.Fprintf(&list, "   description: %s\n", truncateRunes(c.Description, limit))
	}

	bookTypes := "general-audience"
	if len(analysis.BookTypes) > 0 {
		bookTypes = strings.Join(analysis.BookTypes, ", ")
	}
	cautions := analysis.Cautions
	if cautions == "" {
		cautions = "none"
	}

	var buf bytes.Buffer
	err := verificationPromptTmpl.Execute(&buf, struct {
		Topic      string
		Field      string
		Difficulty types.Difficulty
		BookTypes  string
		Cautions   string
		BookList   string
	}{
		Topic:      topic,
		Field:      analysis.AcademicField,
		Difficulty: analysis.DifficultyLevel,
		BookTypes:  bookTypes,
		Cautions:   cautions,
		BookList:   list.String(),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// truncateRunes shortens s to at most n runes. Descriptions are Korean
// text, so byte truncation would split characters.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
