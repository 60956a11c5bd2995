// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package usage tracks language-model calls and estimates their cost.
// The pipeline reports calls through the Logger interface; a Tracker
// accumulates entries for the cost report. The pipeline never depends
// on a concrete tracker, so batch runs are independent and testable.
package usage

import (
	"fmt"
	"io"
	"time"
	"unicode"
)

// Logger receives one record per external model call. Implementations
// must not panic; callers additionally guard against panics so a
// misbehaving logger can never break the pipeline.
type Logger interface {
	Log(model, input, output, category string)
}

// Nop is a Logger that discards everything.
type Nop struct{}

func (Nop) Log(model, input, output, category string) {}

// SafeLog reports one call to l, tolerating a nil logger and swallowing
// panics. Usage logging is observability only; it must never reach the
// pipeline as a failure.
func SafeLog(l Logger, model, input, output, category string) {
	if l == nil {
		return
	}
	defer func() { _ = recover() }()
	l.Log(model, input, output, category)
}

// Pricing is USD per one million tokens for one model.
type Pricing struct {
	Input  float64
	Output float64
}

// defaultPricing covers the models the pipeline uses. Unknown models
// are tracked with zero cost rather than rejected.
var defaultPricing = map[string]Pricing{
	"gemini-1.5-flash": {Input: 0.075, Output: 0.30},
	"gemini-1.5-pro":   {Input: 1.25, Output: 5.00},
	"gpt-4o-mini":      {Input: 0.15, Output: 0.60},
}

// Entry records one model call.
type Entry struct {
	Timestamp    time.Time
	Model        string
	Category     string
	InputTokens  int
	OutputTokens int
	CostUSD      float64
}

// Tracker accumulates call entries and their estimated cost. It is not
// safe for concurrent use; the batch runner is single-threaded.
type Tracker struct {
	pricing map[string]Pricing
	entries []Entry
	total   float64
}

// NewTracker returns a tracker with the default pricing table.
func NewTracker() *Tracker {
	return &Tracker{pricing: defaultPricing}
}

// Log implements Logger.
func (t *Tracker) Log(model, input, output, category string) {
	in := EstimateTokens(input)
	out := EstimateTokens(output)

	p := t.pricing[model]
	cost := float64(in)/1e6*p.Input + float64(out)/1e6*p.Output
	t.total += cost

	t.entries = append(t.entries, Entry{
		Timestamp:    time.Now(),
		Model:        model,
		Category:     category,
		InputTokens:  in,
		OutputTokens: out,
		CostUSD:      cost,
	})
}

// Entries returns the recorded calls in order.
func (t *Tracker) Entries() []Entry { return t.entries }

// TotalCostUSD returns the accumulated estimated cost.
func (t *Tracker) TotalCostUSD() float64 { return t.total }

// Calls returns the number of recorded model calls.
func (t *Tracker) Calls() int { return len(t.entries) }

// EstimateTokens approximates the token count of mixed Korean/Latin
// text: roughly one token per two hangul syllables and one per four
// other characters. Never returns less than 1.
func EstimateTokens(text string) int {
	hangul := 0
	other := 0
	for _, r := range text {
		if unicode.Is(unicode.Hangul, r) {
			hangul++
		} else {
			other++
		}
	}
	n := hangul/2 + other/4
	if n < 1 {
		return 1
	}
	return n
}

// WriteReport writes a human-readable usage and cost report to w:
// grand totals, per-model statistics, and per-category statistics.
func (t *Tracker) WriteReport(w io.Writer) {
	fmt.Fprintf(w, "Model usage report\n")
	fmt.Fprintf(w, "  calls: %d\n", len(t.entries))
	fmt.Fprintf(w, "  estimated cost: $%.4f USD\n\n", t.total)

	type agg struct {
		calls        int
		inputTokens  int
		outputTokens int
		cost         float64
	}
	byModel := make(map[string]*agg)
	byCategory := make(map[string]*agg)
	var modelOrder, categoryOrder []string

	for _, e := range t.entries {
		m, ok := byModel[e.Model]
		if !ok {
			m = &agg{}
			byModel[e.Model] = m
			modelOrder = append(modelOrder, e.Model)
		}
		m.calls++
		m.inputTokens += e.InputTokens
		m.outputTokens += e.OutputTokens
		m.cost += e.CostUSD

		c, ok := byCategory[e.Category]
		if !ok {
			c = &agg{}
			byCategory[e.Category] = c
			categoryOrder = append(categoryOrder, e.Category)
		}
		c.calls++
		c.cost += e.CostUSD
	}

	fmt.Fprintln(w, "Per model:")
	for _, name := range modelOrder {
		m := byModel[name]
		fmt.Fprintf(w, "  %s: %d calls, %d in / %d out tokens, $%.4f\n",
			name, m.calls, m.inputTokens, m.outputTokens, m.cost)
	}

	fmt.Fprintln(w, "Per category:")
	for _, name := range categoryOrder {
		c := byCategory[name]
		fmt.Fprintf(w, "  %s: %d calls, $%.4f\n", name, c.calls, c.cost)
	}
}
