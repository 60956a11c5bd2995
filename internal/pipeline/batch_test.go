package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/bookrec/pkg/types"
)

// recordingAnalyzer returns a per-topic canned analysis and records order.
type recordingAnalyzer struct {
	fields map[string]string // topic → academic field
	order  []string
}

func (r *recordingAnalyzer) Analyze(_ context.Context, topic string) types.TopicAnalysis {
	r.order = append(r.order, topic)
	a := types.SentinelAnalysis("")
	a.Keywords = []string{"kw"}
	if f, ok := r.fields[topic]; ok {
		a.AcademicField = f
	}
	return a
}

// countSearcher returns a fixed number of candidates per call.
type countSearcher struct {
	counts []int
	call   int
}

func (c *countSearcher) Search(_ context.Context, _ []string) ([]types.BookCandidate, error) {
	n := 0
	if c.call < len(c.counts) {
		n = c.counts[c.call]
	}
	c.call++
	return candidateSet(n), nil
}

func TestRunBatchOrderAndStats(t *testing.T) {
	topics := []string{"topic A", "topic B", "topic C"}
	a := &recordingAnalyzer{fields: map[string]string{
		"topic A": "physics",
		"topic B": "biology",
		"topic C": "physics",
	}}
	p := New(a, &countSearcher{counts: []int{4, 6, 2}}, &stubVerifier{}, types.BatchConfig{TopicDelay: 0}, nil)

	var progress bytes.Buffer
	got := RunBatch(context.Background(), p, topics, &progress)

	if got.TotalTopics != 3 {
		t.Errorf("TotalTopics = %d, want 3", got.TotalTopics)
	}
	if len(got.Results) != 3 {
		t.Fatalf("len(Results) = %d, want 3", len(got.Results))
	}

	// Input order preserved.
	for i, topic := range topics {
		if got.Results[i].Topic != topic {
			t.Errorf("Results[%d].Topic = %q, want %q", i, got.Results[i].Topic, topic)
		}
	}
	if len(a.order) != 3 || a.order[0] != "topic A" {
		t.Errorf("processing order = %v", a.order)
	}

	// Field distribution and averages.
	if got.Stats.AcademicFields["physics"] != 2 || got.Stats.AcademicFields["biology"] != 1 {
		t.Errorf("AcademicFields = %v", got.Stats.AcademicFields)
	}
	if got.Stats.AverageBooksFound != 4.0 {
		t.Errorf("AverageBooksFound = %f, want 4.0", got.Stats.AverageBooksFound)
	}

	if !strings.Contains(progress.String(), "[2/3] topic B") {
		t.Errorf("progress output missing topic line:\n%s", progress.String())
	}
}

func TestRunBatchEmptyTopics(t *testing.T) {
	p := New(&recordingAnalyzer{}, &countSearcher{}, &stubVerifier{}, types.BatchConfig{}, nil)

	got := RunBatch(context.Background(), p, nil, nil)

	if got.TotalTopics != 0 {
		t.Errorf("TotalTopics = %d, want 0", got.TotalTopics)
	}
	if got.Stats.AverageBooksFound != 0 {
		t.Errorf("AverageBooksFound = %f, want 0", got.Stats.AverageBooksFound)
	}
}

func TestRunBatchCancelledBetweenTopics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	a := &recordingAnalyzer{}
	p := New(a, &countSearcher{}, &stubVerifier{}, types.BatchConfig{TopicDelay: time.Minute}, nil)

	cancel()
	got := RunBatch(ctx, p, []string{"first", "second"}, nil)

	// The first topic runs before any delay; cancellation stops the rest.
	if len(got.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1", len(got.Results))
	}
	if got.Results[0].Topic != "first" {
		t.Errorf("Results[0].Topic = %q", got.Results[0].Topic)
	}
}
