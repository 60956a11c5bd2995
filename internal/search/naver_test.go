package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/bookrec/pkg/types"
)

func naverTestServer(t *testing.T, handler http.HandlerFunc) func() {
	t.Helper()
	ts := httptest.NewServer(handler)
	old := naverSearchBase
	naverSearchBase = ts.URL
	return func() {
		naverSearchBase = old
		ts.Close()
	}
}

func TestNaverSearchKeyword(t *testing.T) {
	var gotID, gotSecret, gotQuery, gotSort string
	cleanup := naverTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Naver-Client-Id")
		gotSecret = r.Header.Get("X-Naver-Client-Secret")
		gotQuery = r.URL.Query().Get("query")
		gotSort = r.URL.Query().Get("sort")

		json.NewEncoder(w).Encode(naverResponse{
			Total: 2,
			Items: []naverItem{
				{
					Title:       "<b>수면</b>의 과학",
					Author:      "김<b>과학</b>",
					Publisher:   "출판사A",
					Pubdate:     "20230115",
					ISBN:        "8912345678 9788912345678",
					Description: "청소년 <b>수면</b> 입문서",
				},
				{
					Title: "식별자 없는 책",
					ISBN:  "",
				},
			},
		})
	})
	defer cleanup()

	b := NewNaverBackend("id-1", "secret-1", types.HTTPConfig{UserAgent: "bookrec/0.1"})
	got, err := b.SearchKeyword(context.Background(), "수면", 10)
	if err != nil {
		t.Fatalf("SearchKeyword() error: %v", err)
	}

	if gotID != "id-1" || gotSecret != "secret-1" {
		t.Errorf("credential headers = %q / %q", gotID, gotSecret)
	}
	if gotQuery != "수면" || gotSort != "sim" {
		t.Errorf("query params = %q / %q", gotQuery, gotSort)
	}

	// The hit without an identifier is discarded.
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}

	c := got[0]
	if c.Title != "수면의 과학" {
		t.Errorf("Title = %q, markup not stripped", c.Title)
	}
	if c.Author != "김과학" {
		t.Errorf("Author = %q, markup not stripped", c.Author)
	}
	if c.Description != "청소년 수면 입문서" {
		t.Errorf("Description = %q, markup not stripped", c.Description)
	}
	if c.ISBN != "9788912345678" {
		t.Errorf("ISBN = %q, want the last token (13-digit form)", c.ISBN)
	}
	if c.SearchKeyword != "수면" {
		t.Errorf("SearchKeyword = %q", c.SearchKeyword)
	}
}

func TestNaverSearchKeywordHTTPError(t *testing.T) {
	cleanup := naverTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	})
	defer cleanup()

	b := NewNaverBackend("id", "secret", types.HTTPConfig{})
	if _, err := b.SearchKeyword(context.Background(), "kw", 10); err == nil {
		t.Error("SearchKeyword() error = nil, want error on HTTP 401")
	}
}

func TestNaverSearchKeywordMalformedBody(t *testing.T) {
	cleanup := naverTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})
	defer cleanup()

	b := NewNaverBackend("id", "secret", types.HTTPConfig{})
	if _, err := b.SearchKeyword(context.Background(), "kw", 10); err == nil {
		t.Error("SearchKeyword() error = nil, want parse error")
	}
}

func TestCanonicalISBN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"8912345678 9788912345678", "9788912345678"},
		{"9788912345678", "9788912345678"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := canonicalISBN(tt.in); got != tt.want {
			t.Errorf("canonicalISBN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
