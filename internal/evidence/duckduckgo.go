// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evidence

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/research-writer/internal/httputil"
	"github.com/pdiddy/research-writer/pkg/types"
)

// duckDuckGoAPIBase is the Instant Answer endpoint. Declared as a var so
// tests can substitute an httptest server.
var duckDuckGoAPIBase = "https://api.duckduckgo.com/"

// fallbackSentences bounds the Wikipedia summaries used when DuckDuckGo
// returns nothing.
const fallbackSentences = 2

// WebSearch queries the DuckDuckGo Instant Answer API. When DuckDuckGo has
// nothing for the query and Fallback is set, Wikipedia titles with short
// summaries are returned instead.
type WebSearch struct {
	Client    *http.Client
	UserAgent string
	Fallback  *Wikipedia
}

type ddgTopic struct {
	Text     string     `json:"Text"`
	FirstURL string     `json:"FirstURL"`
	Result   string     `json:"Result"`
	Name     string     `json:"Name"`
	Topics   []ddgTopic `json:"Topics"`
}

type ddgResponse struct {
	Heading       string     `json:"Heading"`
	AbstractText  string     `json:"AbstractText"`
	AbstractURL   string     `json:"AbstractURL"`
	RelatedTopics []ddgTopic `json:"RelatedTopics"`
}

// Name returns the bundle key.
func (s *WebSearch) Name() string { return types.SourceWebSearch }

// Lookup returns up to limit result lines for query.
func (s *WebSearch) Lookup(ctx context.Context, query string, limit int) (string, error) {
	if limit <= 0 {
		limit = 5
	}

	lines, err := s.duckDuckGo(ctx, query, limit)
	if err != nil {
		return "", err
	}
	if len(lines) > 0 {
		return strings.Join(lines, "\n\n"), nil
	}

	if s.Fallback != nil {
		hits, err := s.Fallback.Search(ctx, query, limit)
		if err != nil {
			return "", fmt.Errorf("duckduckgo returned nothing; %w", err)
		}
		if len(hits) > 0 {
			return s.Fallback.titleSummaries(ctx, hits, fallbackSentences), nil
		}
	}
	return "No web search results found.", nil
}

func (s *WebSearch) duckDuckGo(ctx context.Context, query string, limit int) ([]string, error) {
	params := url.Values{
		"q":             {query},
		"format":        {"json"},
		"no_redirect":   {"1"},
		"no_html":       {"1"},
		"skip_disambig": {"1"},
	}

	var resp ddgResponse
	if err := httputil.GetJSON(ctx, s.Client, duckDuckGoAPIBase, params, s.UserAgent, &resp); err != nil {
		return nil, fmt.Errorf("duckduckgo: %w", err)
	}

	var lines []string
	switch {
	case resp.AbstractText != "" && resp.AbstractURL != "":
		lines = append(lines, resp.AbstractText+" — "+resp.AbstractURL)
	case resp.AbstractText != "":
		lines = append(lines, resp.AbstractText)
	case resp.Heading != "":
		lines = append(lines, resp.Heading)
	}

	for _, t := range flattenTopics(resp.RelatedTopics) {
		if len(lines) >= limit {
			break
		}
		text := t.Text
		if text == "" {
			text = plainText(t.Result)
		}
		if text == "" {
			continue
		}
		if t.FirstURL != "" {
			text += " — " + t.FirstURL
		}
		lines = append(lines, text)
	}
	return lines, nil
}

// flattenTopics expands topic groups into their member topics, keeping order.
func flattenTopics(topics []ddgTopic) []ddgTopic {
	var out []ddgTopic
	for _, t := range topics {
		if len(t.Topics) > 0 {
			out = append(out, flattenTopics(t.Topics)...)
			continue
		}
		out = append(out, t)
	}
	return out
}
