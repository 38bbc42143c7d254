// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package evidence

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/research-writer/internal/httputil"
	"github.com/pdiddy/research-writer/pkg/types"
)

// wikipediaBase returns the site root for a Wikipedia edition. Declared as
// a var so tests can substitute an httptest server.
var wikipediaBase = func(lang string) string {
	return "https://" + lang + ".wikipedia.org"
}

// ErrDisambiguation is returned when a title resolves to a disambiguation page.
var ErrDisambiguation = errors.New("title is ambiguous (disambiguation page)")

// Wikipedia is a minimal client for the MediaWiki search API and the REST
// page summary endpoint.
type Wikipedia struct {
	Client    *http.Client
	Language  string
	UserAgent string
}

// WikiHit is one search result.
type WikiHit struct {
	Title   string
	Snippet string
}

type wikiSearchResponse struct {
	Query struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"search"`
	} `json:"query"`
}

type wikiSummaryResponse struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

func (w *Wikipedia) base() string {
	lang := w.Language
	if lang == "" {
		lang = "en"
	}
	return wikipediaBase(lang)
}

// Search returns up to limit page titles matching query. Snippets are
// converted from HTML to plain text.
func (w *Wikipedia) Search(ctx context.Context, query string, limit int) ([]WikiHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query")
	}
	if limit <= 0 {
		limit = 5
	}

	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {strconv.Itoa(limit)},
		"format":   {"json"},
		"utf8":     {"1"},
	}

	var resp wikiSearchResponse
	if err := httputil.GetJSON(ctx, w.Client, w.base()+"/w/api.php", params, w.UserAgent, &resp); err != nil {
		return nil, fmt.Errorf("wikipedia search: %w", err)
	}

	hits := make([]WikiHit, 0, len(resp.Query.Search))
	for _, s := range resp.Query.Search {
		hits = append(hits, WikiHit{Title: s.Title, Snippet: plainText(s.Snippet)})
	}
	return hits, nil
}

// Summary returns the first sentences of the lead section of the page
// titled title, following redirects.
func (w *Wikipedia) Summary(ctx context.Context, title string, sentences int) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("empty title")
	}

	endpoint := w.base() + "/api/rest_v1/page/summary/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))

	var resp wikiSummaryResponse
	if err := httputil.GetJSON(ctx, w.Client, endpoint, url.Values{"redirect": {"true"}}, w.UserAgent, &resp); err != nil {
		return "", fmt.Errorf("wikipedia summary for %q: %w", title, err)
	}
	if resp.Type == "disambiguation" {
		return "", fmt.Errorf("%q: %w", title, ErrDisambiguation)
	}
	if strings.TrimSpace(resp.Extract) == "" {
		return "", fmt.Errorf("wikipedia summary for %q is empty", title)
	}
	return firstSentences(resp.Extract, sentences), nil
}

// titleSummaries returns "title: summary" blocks for each hit. A hit whose
// summary fails falls back to its search snippet, then to an inline error.
func (w *Wikipedia) titleSummaries(ctx context.Context, hits []WikiHit, sentences int) string {
	blocks := make([]string, 0, len(hits))
	for _, h := range hits {
		s, err := w.Summary(ctx, h.Title, sentences)
		switch {
		case err == nil:
			blocks = append(blocks, fmt.Sprintf("%s: %s", h.Title, s))
		case h.Snippet != "":
			blocks = append(blocks, fmt.Sprintf("%s: %s", h.Title, h.Snippet))
		default:
			blocks = append(blocks, fmt.Sprintf("%s: (summary error: %v)", h.Title, err))
		}
	}
	return strings.Join(blocks, "\n\n")
}

// WikipediaSearch searches Wikipedia and summarizes every hit.
type WikipediaSearch struct {
	Wiki      *Wikipedia
	Sentences int
}

// Name returns the bundle key.
func (l *WikipediaSearch) Name() string { return types.SourceWikipediaSearch }

// Lookup returns "title: summary" for each of the top hits.
func (l *WikipediaSearch) Lookup(ctx context.Context, query string, limit int) (string, error) {
	hits, err := l.Wiki.Search(ctx, query, limit)
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return "No search results found.", nil
	}
	return l.Wiki.titleSummaries(ctx, hits, l.Sentences), nil
}

// WikipediaSummary fetches the summary of the page named by the query itself.
type WikipediaSummary struct {
	Wiki      *Wikipedia
	Sentences int
}

// Name returns the bundle key.
func (l *WikipediaSummary) Name() string { return types.SourceWikipediaSummary }

// Lookup returns the page summary. The result-count bound does not apply.
func (l *WikipediaSummary) Lookup(ctx context.Context, query string, _ int) (string, error) {
	return l.Wiki.Summary(ctx, query, l.Sentences)
}
