package pipeline

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/pdiddy/bookrec/pkg/types"
)

// --- stub stages ---

type stubAnalyzer struct {
	analysis types.TopicAnalysis
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ string) types.TopicAnalysis {
	return s.analysis
}

type stubSearcher struct {
	candidates  []types.BookCandidate
	err         error
	gotKeywords []string
	panics      bool
}

func (s *stubSearcher) Search(_ context.Context, keywords []string) ([]types.BookCandidate, error) {
	if s.panics {
		panic("searcher blew up")
	}
	s.gotKeywords = keywords
	return s.candidates, s.err
}

type stubVerifier struct {
	scored []types.ScoredCandidate
	err    error
	gotLen int
}

func (s *stubVerifier) Verify(_ context.Context, candidates []types.BookCandidate, _ string, _ types.TopicAnalysis) ([]types.ScoredCandidate, error) {
	s.gotLen = len(candidates)
	return s.scored, s.err
}

func analysisWith(keywords ...string) types.TopicAnalysis {
	a := types.SentinelAnalysis("")
	a.Keywords = keywords
	a.AcademicField = "biology"
	return a
}

func scoredSet(totals ...int) []types.ScoredCandidate {
	out := make([]types.ScoredCandidate, len(totals))
	for i, total := range totals {
		out[i] = types.ScoredCandidate{
			BookCandidate: types.BookCandidate{
				Title: fmt.Sprintf("Book %d", i+1),
				ISBN:  fmt.Sprintf("978%010d", i+1),
			},
			Total: total,
		}
	}
	return out
}

func candidateSet(n int) []types.BookCandidate {
	out := make([]types.BookCandidate, n)
	for i := range out {
		out[i] = types.BookCandidate{ISBN: fmt.Sprintf("978%010d", i+1)}
	}
	return out
}

func TestRunKeepsTopN(t *testing.T) {
	p := New(
		&stubAnalyzer{analysis: analysisWith("kw1", "kw2")},
		&stubSearcher{candidates: candidateSet(10)},
		&stubVerifier{scored: scoredSet(90, 80, 70, 60)},
		types.BatchConfig{TopN: 2},
		io.Discard,
	)

	got := p.Run(context.Background(), "topic")

	if got.BooksFound != 10 {
		t.Errorf("BooksFound = %d, want 10", got.BooksFound)
	}
	if got.BooksVerified != 4 {
		t.Errorf("BooksVerified = %d, want 4", got.BooksVerified)
	}
	if len(got.Recommended) != 2 {
		t.Fatalf("len(Recommended) = %d, want 2", len(got.Recommended))
	}
	if got.Recommended[0].Total < got.Recommended[1].Total {
		t.Error("Recommended not sorted descending")
	}
}

func TestRunPassesAnalysisKeywordsToSearch(t *testing.T) {
	s := &stubSearcher{}
	p := New(
		&stubAnalyzer{analysis: analysisWith("스마트폰", "청소년", "수면")},
		s,
		&stubVerifier{},
		types.BatchConfig{},
		io.Discard,
	)

	p.Run(context.Background(), "topic")

	if len(s.gotKeywords) != 3 || s.gotKeywords[0] != "스마트폰" {
		t.Errorf("search keywords = %v", s.gotKeywords)
	}
}

func TestRunAnalyzerFailureStillWellFormed(t *testing.T) {
	// Sentinel analysis with no keywords: search yields nothing, verify
	// yields nothing, and the result is still complete.
	s := &stubSearcher{}
	p := New(
		&stubAnalyzer{analysis: types.SentinelAnalysis("analysis unavailable: connection refused")},
		s,
		&stubVerifier{},
		types.BatchConfig{},
		io.Discard,
	)

	got := p.Run(context.Background(), "topic")

	if got.Topic != "topic" {
		t.Errorf("Topic = %q", got.Topic)
	}
	if len(s.gotKeywords) != 0 {
		t.Errorf("search received keywords %v, want none", s.gotKeywords)
	}
	if got.BooksFound != 0 || got.BooksVerified != 0 {
		t.Errorf("counts = %d/%d, want 0/0", got.BooksFound, got.BooksVerified)
	}
	if got.Recommended == nil || len(got.Recommended) != 0 {
		t.Errorf("Recommended = %v, want empty non-nil", got.Recommended)
	}
	if got.Analysis.Cautions == "" {
		t.Error("analysis caution note lost")
	}
}

func TestRunSearcherErrorAbsorbed(t *testing.T) {
	p := New(
		&stubAnalyzer{analysis: analysisWith("kw")},
		&stubSearcher{err: fmt.Errorf("service down")},
		&stubVerifier{},
		types.BatchConfig{},
		io.Discard,
	)

	got := p.Run(context.Background(), "topic")

	if got.BooksFound != 0 {
		t.Errorf("BooksFound = %d, want 0", got.BooksFound)
	}
	if len(got.Recommended) != 0 {
		t.Errorf("len(Recommended) = %d, want 0", len(got.Recommended))
	}
}

func TestRunVerifierErrorAbsorbed(t *testing.T) {
	p := New(
		&stubAnalyzer{analysis: analysisWith("kw")},
		&stubSearcher{candidates: candidateSet(3)},
		&stubVerifier{err: fmt.Errorf("model refused")},
		types.BatchConfig{},
		io.Discard,
	)

	got := p.Run(context.Background(), "topic")

	if got.BooksFound != 3 {
		t.Errorf("BooksFound = %d, want 3", got.BooksFound)
	}
	if got.BooksVerified != 0 {
		t.Errorf("BooksVerified = %d, want 0", got.BooksVerified)
	}
	if len(got.Recommended) != 0 {
		t.Errorf("len(Recommended) = %d, want 0", len(got.Recommended))
	}
}

func TestRunStagePanicAbsorbed(t *testing.T) {
	p := New(
		&stubAnalyzer{analysis: analysisWith("kw")},
		&stubSearcher{panics: true},
		&stubVerifier{},
		types.BatchConfig{},
		io.Discard,
	)

	got := p.Run(context.Background(), "topic")

	if got.Topic != "topic" {
		t.Errorf("Topic = %q", got.Topic)
	}
	if got.Recommended == nil || len(got.Recommended) != 0 {
		t.Errorf("Recommended = %v, want empty non-nil", got.Recommended)
	}
	if got.Analysis.Cautions == "" {
		t.Error("panic result must carry an error note")
	}
}

func TestRunEndToEndExample(t *testing.T) {
	// Topic with 5 keywords; 12 raw hits where 2 share an ISBN → the
	// searcher stub hands back the 10 unique candidates; all 10 scored;
	// top 2 kept.
	verified := scoredSet(10, 9, 8, 7, 6, 5, 4, 3, 2, 1)
	for i := range verified {
		verified[i].Total = 100 - i*7
	}
	v := &stubVerifier{scored: verified}
	p := New(
		&stubAnalyzer{analysis: analysisWith("스마트폰", "청소년", "수면", "전자기기", "뇌과학")},
		&stubSearcher{candidates: candidateSet(10)},
		v,
		types.BatchConfig{TopN: 2},
		io.Discard,
	)

	got := p.Run(context.Background(), "Effect of smartphone use on teen sleep patterns")

	if v.gotLen != 10 {
		t.Errorf("verifier received %d candidates, want 10", v.gotLen)
	}
	if len(got.Recommended) != 2 {
		t.Fatalf("len(Recommended) = %d, want 2", len(got.Recommended))
	}
	for _, r := range got.Recommended {
		if r.Total < 0 || r.Total > 100 {
			t.Errorf("Total = %d, want within [0,100]", r.Total)
		}
	}
}
