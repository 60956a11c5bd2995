// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/bookrec/pkg/types"
)

// RunBatch processes topics in input order, one fully at a time, with
// the configured pacing delay between topics. Execution is strictly
// sequential: both external services impose call-rate ceilings, so the
// pacing delays are the concurrency control. Progress lines go to w.
// There is no checkpointing; an interrupted batch loses its progress.
func RunBatch(ctx context.Context, p *Pipeline, topics []string, w io.Writer) types.BatchResult {
	if w == nil {
		w = io.Discard
	}

	start := time.Now()
	results := make([]types.TopicResult, 0, len(topics))
	fields := make(map[string]int)
	totalFound := 0

	for i, topic := range topics {
		if i > 0 && p.Config.TopicDelay > 0 {
			select {
			case <-ctx.Done():
				fmt.Fprintf(w, "batch cancelled after %d/%d topics\n", i, len(topics))
				return assemble(topics, results, fields, totalFound, start)
			case <-time.After(p.Config.TopicDelay):
			}
		}

		fmt.Fprintf(w, "[%d/%d] %s\n", i+1, len(topics), topic)

		r := p.Run(ctx, topic)
		results = append(results, r)
		fields[r.Analysis.AcademicField]++
		totalFound += r.BooksFound

		fmt.Fprintf(w, "  found %d, verified %d, recommended %d\n",
			r.BooksFound, r.BooksVerified, len(r.Recommended))
	}

	return assemble(topics, results, fields, totalFound, start)
}

func assemble(topics []string, results []types.TopicResult, fields map[string]int, totalFound int, start time.Time) types.BatchResult {
	avg := 0.0
	if len(results) > 0 {
		avg = float64(totalFound) / float64(len(results))
	}
	return types.BatchResult{
		TotalTopics: len(topics),
		Results:     results,
		Stats: types.BatchStats{
			AcademicFields:    fields,
			AverageBooksFound: avg,
			ElapsedSeconds:    time.Since(start).Seconds(),
		},
	}
}
