// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders a BatchResult for its downstream consumers:
// an indented JSON export, a human-readable console summary, and a
// simplified public view with the internal scores removed.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/bookrec/pkg/types"
)

// WriteJSON writes the full batch result as indented JSON to w.
func WriteJSON(result types.BatchResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// WriteSummary writes a human-readable run summary to w: per-topic
// recommendation lines, then aggregate statistics.
func WriteSummary(result types.BatchResult, w io.Writer) {
	if result.TotalTopics == 0 {
		fmt.Fprintln(w, "No topics processed.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-50s  %-6s  %-8s  %s\n",
		"No.", "Topic", "Found", "Verified", "Top recommendation")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, r := range result.Results {
		topic := r.Topic
		if len(topic) > 50 {
			topic = topic[:47] + "..."
		}
		top := "-"
		if len(r.Recommended) > 0 {
			top = fmt.Sprintf("%s (%d)", r.Recommended[0].Title, r.Recommended[0].Total)
		}
		fmt.Fprintf(w, "%-4d  %-50s  %-6d  %-8d  %s\n",
			i+1, topic, r.BooksFound, r.BooksVerified, top)
	}

	fmt.Fprintf(w, "\n%d topics, %.1f candidates/topic, %.1fs\n",
		result.TotalTopics, result.Stats.AverageBooksFound, result.Stats.ElapsedSeconds)

	if len(result.Stats.AcademicFields) > 0 {
		fields := make([]string, 0, len(result.Stats.AcademicFields))
		for f := range result.Stats.AcademicFields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		fmt.Fprintln(w, "Field distribution:")
		for _, f := range fields {
			fmt.Fprintf(w, "  %s: %d\n", f, result.Stats.AcademicFields[f])
		}
	}
}

// SimpleBook is one recommendation in the public view. Scores are kept
// for internal bookkeeping only and do not appear here.
type SimpleBook struct {
	Rank           int    `json:"rank"`
	Title          string `json:"title"`
	Author         string `json:"author"`
	Publisher      string `json:"publisher"`
	PubDate        string `json:"publication_date"`
	ISBN           string `json:"isbn"`
	Recommendation string `json:"recommendation_reason"`
}

// SimpleTopic is one topic in the public view.
type SimpleTopic struct {
	Number   int          `json:"number"`
	Topic    string       `json:"topic"`
	Keywords []string     `json:"keywords"`
	Books    []SimpleBook `json:"recommended_books"`
}

// Simplify converts a batch result into the public view: numbered
// topics with their keywords and score-free recommendations.
func Simplify(result types.BatchResult) []SimpleTopic {
	out := make([]SimpleTopic, 0, len(result.Results))
	for i, r := range result.Results {
		st := SimpleTopic{
			Number:   i + 1,
			Topic:    r.Topic,
			Keywords: r.Analysis.Keywords,
			Books:    make([]SimpleBook, 0, len(r.Recommended)),
		}
		for rank, b := range r.Recommended {
			st.Books = append(st.Books, SimpleBook{
				Rank:           rank + 1,
				Title:          b.Title,
				Author:         b.Author,
				Publisher:      b.Publisher,
				PubDate:        b.PubDate,
				ISBN:           b.ISBN,
				Recommendation: b.Recommendation,
			})
		}
		out = append(out, st)
	}
	return out
}

// WriteSimpleJSON writes the public view as indented JSON to w.
func WriteSimpleJSON(result types.BatchResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Simplify(result))
}
