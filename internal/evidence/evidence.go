// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package evidence gathers supporting text for a research query from a web
// search API and Wikipedia and merges it into one EvidenceBundle.
//
// Lookups run one after another. A failed lookup never aborts collection:
// its slot in the bundle carries an error marker instead of data.
package evidence

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/phuslu/log"

	"github.com/pdiddy/research-writer/internal/logging"
	"github.com/pdiddy/research-writer/pkg/types"
)

// Lookup fetches evidence text for a query from a single source. Each
// source (web search, Wikipedia search, Wikipedia summary) implements
// this interface per the Strategy pattern.
type Lookup interface {
	// Name is the bundle key and the tool name used in error markers.
	Name() string
	Lookup(ctx context.Context, query string, limit int) (string, error)
}

// LookupResult is the outcome of one lookup: either Text or Err is meaningful.
type LookupResult struct {
	Source string
	Text   string
	Err    error
}

// OK reports whether the lookup succeeded.
func (r LookupResult) OK() bool { return r.Err == nil }

// Value returns the text stored in the bundle: the lookup text on success,
// or "<tool name> error: <message>" on failure.
func (r LookupResult) Value() string {
	if r.Err != nil {
		return fmt.Sprintf("%s error: %v", r.Source, r.Err)
	}
	return r.Text
}

// Collector runs a fixed list of lookups and merges their results.
type Collector struct {
	Lookups []Lookup
	Logger  *log.Logger
}

// NewCollector returns a Collector with the default lookups: DuckDuckGo web
// search (falling back to Wikipedia), Wikipedia search and Wikipedia summary.
func NewCollector(cfg types.EvidenceConfig, client *http.Client, logger *log.Logger) *Collector {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	wiki := &Wikipedia{Client: client, Language: cfg.Language, UserAgent: cfg.UserAgent}

	return &Collector{
		Lookups: []Lookup{
			&WebSearch{Client: client, UserAgent: cfg.UserAgent, Fallback: wiki},
			&WikipediaSearch{Wiki: wiki, Sentences: cfg.SearchSentences},
			&WikipediaSummary{Wiki: wiki, Sentences: cfg.SummarySentences},
		},
		Logger: logger,
	}
}

// Run invokes every lookup in order and returns one result per lookup.
func (c *Collector) Run(ctx context.Context, query string, limit int) []LookupResult {
	logger := logging.OrDiscard(c.Logger)

	results := make([]LookupResult, 0, len(c.Lookups))
	for _, l := range c.Lookups {
		start := time.Now()
		text, err := l.Lookup(ctx, query, limit)
		r := LookupResult{Source: l.Name(), Text: text, Err: err}

		if err != nil {
			logger.Warn().Str("source", r.Source).Err(err).Msg("evidence lookup failed")
		} else {
			logger.Debug().Str("source", r.Source).Int("chars", len(text)).
				Dur("elapsed", time.Since(start)).Msg("evidence lookup done")
		}
		results = append(results, r)
	}
	return results
}

// Collect runs every lookup and merges the results into a bundle. When any
// lookup fails, the bundle also carries a tool_error entry listing every
// failure. Collect never fails; with no usable evidence the prompt is
// simply built without it.
func (c *Collector) Collect(ctx context.Context, query string, limit int) types.EvidenceBundle {
	return Merge(c.Run(ctx, query, limit))
}

// Merge builds a bundle from lookup results.
func Merge(results []LookupResult) types.EvidenceBundle {
	bundle := make(types.EvidenceBundle, len(results)+1)
	var failures []string
	for _, r := range results {
		bundle[r.Source] = r.Value()
		if !r.OK() {
			failures = append(failures, r.Value())
		}
	}
	if len(failures) > 0 {
		bundle[types.SourceToolError] = strings.Join(failures, "\n")
	}
	return bundle
}

// SnapshotText renders a bundle as plain text for the evidence snapshot.
func SnapshotText(query string, bundle types.EvidenceBundle) string {
	return fmt.Sprintf("Query: %s\n\nWEB SEARCH:\n%s\n\nWIKIPEDIA SEARCH:\n%s\n\nWIKIPEDIA SUMMARY:\n%s\n",
		query,
		bundle[types.SourceWebSearch],
		bundle[types.SourceWikipediaSearch],
		bundle[types.SourceWikipediaSummary],
	)
}
