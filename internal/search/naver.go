// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/bookrec/internal/httputil"
	"github.com/pdiddy/bookrec/pkg/types"
)

// naverSearchBase is the Naver Book Search endpoint. Declared as a var
// so tests can substitute an httptest server.
var naverSearchBase = "https://openapi.naver.com/v1/search/book.json"

// tagPattern matches inline markup the service embeds in text fields
// (e.g. <b>...</b> around matched terms).
var tagPattern = regexp.MustCompile(`<[^>]+>`)

// NaverBackend queries the Naver Book Search API.
type NaverBackend struct {
	ClientID     string
	ClientSecret string
	Client       *http.Client
	UserAgent    string
}

// NewNaverBackend builds a backend with the configured HTTP settings.
func NewNaverBackend(clientID, clientSecret string, cfg types.HTTPConfig) *NaverBackend {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NaverBackend{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Client:       &http.Client{Timeout: timeout},
		UserAgent:    cfg.UserAgent,
	}
}

// Name returns the backend identifier.
func (b *NaverBackend) Name() string { return "naver" }

// naverResponse mirrors the service's JSON envelope.
type naverResponse struct {
	Total   int         `json:"total"`
	Display int         `json:"display"`
	Items   []naverItem `json:"items"`
}

type naverItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Author      string `json:"author"`
	Publisher   string `json:"publisher"`
	Pubdate     string `json:"pubdate"`
	ISBN        string `json:"isbn"`
	Description string `json:"description"`
}

// SearchKeyword queries one keyword sorted by relevance and normalizes
// the hits. Hits without an identifier are discarded: they cannot be
// deduplicated or cited reliably.
func (b *NaverBackend) SearchKeyword(ctx context.Context, keyword string, limit int) ([]types.BookCandidate, error) {
	params := url.Values{
		"query":   {keyword},
		"display": {fmt.Sprintf("%d", limit)},
		"sort":    {"sim"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, naverSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Naver-Client-Id", b.ClientID)
	req.Header.Set("X-Naver-Client-Secret", b.ClientSecret)
	if b.UserAgent != "" {
		req.Header.Set("User-Agent", b.UserAgent)
	}

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("book API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("book API returned HTTP %d", resp.StatusCode)
	}

	var nr naverResponse
	if err := json.NewDecoder(resp.Body).Decode(&nr); err != nil {
		return nil, fmt.Errorf("parsing book API response: %w", err)
	}

	var candidates []types.BookCandidate
	for _, item := range nr.Items {
		isbn := canonicalISBN(item.ISBN)
		if isbn == "" {
			continue
		}
		candidates = append(candidates, types.BookCandidate{
			Title:         stripTags(item.Title),
			Author:        stripTags(item.Author),
			Publisher:     item.Publisher,
			PubDate:       item.Pubdate,
			ISBN:          isbn,
			Description:   stripTags(item.Description),
			SearchKeyword: keyword,
		})
	}
	return candidates, nil
}

// stripTags removes inline markup from a text field.
func stripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// canonicalISBN returns the last whitespace-delimited token of the
// identifier field. The service returns both code variants in one field
// ("8912345678 9788912345678"); the last token is the 13-digit form.
func canonicalISBN(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
