package analyze

import (
	"context"
	"fmt"
	"testing"

	"github.com/pdiddy/bookrec/internal/usage"
	"github.com/pdiddy/bookrec/pkg/types"
)

// --- mock client ---

type mockClient struct {
	response string
	err      error
	calls    int
}

func (m *mockClient) Complete(_ context.Context, _ string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockClient) Model() string { return "test-model" }

const fullResponse = `{
	"keywords": ["스마트폰", "청소년", "수면", "전자기기", "뇌과학"],
	"academic_field": "biology",
	"difficulty_level": "medium",
	"additional_keywords": ["멜라토닌"],
	"book_types": ["introductory", "general-audience"],
	"cautions": "avoid clinical sleep-medicine texts"
}`

func TestAnalyzeParsesFullResponse(t *testing.T) {
	a := NewAnalyzer(&mockClient{response: fullResponse}, usage.Nop{})
	got := a.Analyze(context.Background(), "Effect of smartphone use on teen sleep patterns")

	if len(got.Keywords) != 5 {
		t.Fatalf("len(Keywords) = %d, want 5", len(got.Keywords))
	}
	if got.Keywords[0] != "스마트폰" {
		t.Errorf("Keywords[0] = %q", got.Keywords[0])
	}
	if got.AcademicField != "biology" {
		t.Errorf("AcademicField = %q", got.AcademicField)
	}
	if got.DifficultyLevel != types.DifficultyMedium {
		t.Errorf("DifficultyLevel = %q", got.DifficultyLevel)
	}
	if got.Cautions == "" {
		t.Error("Cautions is empty")
	}
}

func TestAnalyzeStripsCodeFence(t *testing.T) {
	a := NewAnalyzer(&mockClient{response: "```json\n" + fullResponse + "\n```"}, usage.Nop{})
	got := a.Analyze(context.Background(), "topic")

	if len(got.Keywords) != 5 {
		t.Errorf("len(Keywords) = %d, want 5 after fence stripping", len(got.Keywords))
	}
}

func TestAnalyzeTransportFailureYieldsSentinel(t *testing.T) {
	a := NewAnalyzer(&mockClient{err: fmt.Errorf("connection refused")}, usage.Nop{})
	got := a.Analyze(context.Background(), "topic")

	if got.Keywords == nil || len(got.Keywords) != 0 {
		t.Errorf("Keywords = %v, want empty non-nil", got.Keywords)
	}
	if got.AcademicField != types.FieldUnclassified {
		t.Errorf("AcademicField = %q, want %q", got.AcademicField, types.FieldUnclassified)
	}
	if got.Cautions == "" {
		t.Error("sentinel Cautions must name the failure")
	}
}

func TestAnalyzeMalformedJSONYieldsSentinel(t *testing.T) {
	a := NewAnalyzer(&mockClient{response: "I cannot answer in JSON, sorry."}, usage.Nop{})
	got := a.Analyze(context.Background(), "topic")

	if len(got.Keywords) != 0 {
		t.Errorf("Keywords = %v, want empty", got.Keywords)
	}
	if got.DifficultyLevel != types.DifficultyMedium {
		t.Errorf("DifficultyLevel = %q, want medium sentinel", got.DifficultyLevel)
	}
}

func TestAnalyzeMissingFieldsDefault(t *testing.T) {
	a := NewAnalyzer(&mockClient{response: `{"keywords": ["재생에너지"]}`}, usage.Nop{})
	got := a.Analyze(context.Background(), "topic")

	if len(got.Keywords) != 1 {
		t.Fatalf("len(Keywords) = %d, want 1", len(got.Keywords))
	}
	if got.AcademicField != types.FieldUnclassified {
		t.Errorf("AcademicField = %q, want %q", got.AcademicField, types.FieldUnclassified)
	}
	if got.AdditionalKeywords == nil || got.BookTypes == nil {
		t.Error("missing collections must default to empty, not nil")
	}
}

func TestNormalizeDifficulty(t *testing.T) {
	tests := []struct {
		in   string
		want types.Difficulty
	}{
		{"high", types.DifficultyHigh},
		{"상", types.DifficultyHigh},
		{"medium", types.DifficultyMedium},
		{"중", types.DifficultyMedium},
		{"low", types.DifficultyLow},
		{"하", types.DifficultyLow},
		{"", types.DifficultyMedium},
		{"impossible", types.DifficultyMedium},
	}
	for _, tt := range tests {
		if got := normalizeDifficulty(tt.in); got != tt.want {
			t.Errorf("normalizeDifficulty(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type panickyLogger struct{}

func (panickyLogger) Log(model, input, output, category string) { panic("boom") }

func TestAnalyzeSurvivesPanickingLogger(t *testing.T) {
	a := NewAnalyzer(&mockClient{response: fullResponse}, panickyLogger{})
	got := a.Analyze(context.Background(), "topic")

	if len(got.Keywords) != 5 {
		t.Errorf("len(Keywords) = %d, want 5 despite logger panic", len(got.Keywords))
	}
}
