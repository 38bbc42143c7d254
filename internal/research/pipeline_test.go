// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-writer/internal/sink"
	"github.com/pdiddy/research-writer/pkg/types"
)

// mockBackend returns a fixed reply and records the prompt.
type mockBackend struct {
	reply  string
	err    error
	prompt string
}

func (m *mockBackend) Generate(_ context.Context, prompt string) (string, error) {
	m.prompt = prompt
	return m.reply, m.err
}

type fixedCollector struct {
	bundle types.EvidenceBundle
	limit  int
}

func (c *fixedCollector) Collect(_ context.Context, _ string, limit int) types.EvidenceBundle {
	c.limit = limit
	out := types.EvidenceBundle{}
	for k, v := range c.bundle {
		out[k] = v
	}
	return out
}

type saved struct {
	content, path string
}

type recordingSaver struct {
	saves []saved
}

func (s *recordingSaver) Save(content, path string) sink.SaveResult {
	s.saves = append(s.saves, saved{content, path})
	return sink.SaveResult{Path: path, Message: "Saved to " + path}
}

type memoryHistory struct {
	runs []types.RunRecord
	err  error
}

func (h *memoryHistory) Record(_ context.Context, r *types.RunRecord) error {
	h.runs = append(h.runs, *r)
	return h.err
}

const strictReply = "```json\n" + `{"topic": "Entropy", "abstract": "A.", "introduction": "I.",
"literature_review": "L.", "methodology": "M.", "analysis_and_findings": "F.",
"discussion": "D.", "future_research": "R.", "conclusion": "C.",
"sources": ["Clausius 1865"], "tools_used": ["wikipedia_summary"]}` + "\n```"

func newPipeline(reply string, genErr error) (*Pipeline, *mockBackend, *recordingSaver, *memoryHistory) {
	backend := &mockBackend{reply: reply, err: genErr}
	saver := &recordingSaver{}
	hist := &memoryHistory{}
	cfg := types.DefaultConfig()
	cfg.Output.Dir = "out"
	p := &Pipeline{
		Collector: &fixedCollector{bundle: types.EvidenceBundle{
			types.SourceWebSearch:        "web text",
			types.SourceWikipediaSearch:  "wikipedia_search error: timeout",
			types.SourceWikipediaSummary: "summary text",
			types.SourceToolError:        "wikipedia_search error: timeout",
		}},
		Backend: backend,
		Sink:    saver,
		History: hist,
		Config:  cfg,
		Now:     func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
	}
	return p, backend, saver, hist
}

func TestRun_StrictReply(t *testing.T) {
	p, backend, saver, hist := newPipeline(strictReply, nil)

	out, err := p.Run(context.Background(), "entropy", "out/paper.pdf")
	require.NoError(t, err)

	assert.Equal(t, types.ParseStrict, out.Mode)
	assert.Equal(t, "Entropy", out.Paper.Topic)
	assert.Equal(t, 5, p.Collector.(*fixedCollector).limit)

	assert.Contains(t, backend.prompt, "User query: entropy")
	assert.Contains(t, backend.prompt, `"tool_error": "wikipedia_search error: timeout"`)

	require.Len(t, saver.saves, 1)
	assert.Equal(t, "out/paper.pdf", saver.saves[0].path)
	assert.True(t, strings.HasPrefix(saver.saves[0].content, "ENTROPY\n\nABSTRACT\n\nA."))
	assert.Contains(t, saver.saves[0].content, "[1] Clausius 1865")

	require.Len(t, hist.runs, 1)
	run := hist.runs[0]
	assert.Equal(t, out.RunID, run.ID)
	assert.Equal(t, "entropy", run.Query)
	assert.Equal(t, "gemini-2.5-flash", run.Model)
	assert.Equal(t, "Entropy", run.Topic)
	assert.Equal(t, "Saved to out/paper.pdf", run.Status)
	assert.False(t, run.FinishedAt.IsZero())
}

func TestRun_RecoveredReply(t *testing.T) {
	p, _, saver, _ := newPipeline(`{"topic": "Quantum Computing", "abstract": "cut off`, nil)

	out, err := p.Run(context.Background(), "quantum", "paper.pdf")
	require.NoError(t, err)
	assert.Equal(t, types.ParseRecovered, out.Mode)
	assert.Equal(t, "Quantum Computing", out.Paper.Topic)
	assert.Empty(t, out.Paper.Abstract)
	require.Len(t, saver.saves, 1)
	assert.True(t, strings.HasPrefix(saver.saves[0].content, "QUANTUM COMPUTING\n\nABSTRACT\n\nINTRODUCTION"))
}

func TestRun_GenerationErrorPropagates(t *testing.T) {
	p, _, saver, hist := newPipeline("", errors.New("quota exceeded"))

	_, err := p.Run(context.Background(), "entropy", "paper.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Empty(t, saver.saves, "nothing is saved when generation fails")

	require.Len(t, hist.runs, 1)
	assert.True(t, strings.HasPrefix(hist.runs[0].Status, "Error: "))
}

func TestRun_HistoryFailureIsNotFatal(t *testing.T) {
	p, _, _, hist := newPipeline(strictReply, nil)
	hist.err = errors.New("database is locked")

	out, err := p.Run(context.Background(), "entropy", "paper.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Saved to paper.pdf", out.Save.Message)
}

func TestRun_NilHistory(t *testing.T) {
	p, _, _, _ := newPipeline(strictReply, nil)
	p.History = nil

	_, err := p.Run(context.Background(), "entropy", "paper.pdf")
	assert.NoError(t, err)
}

func TestRun_Snapshot(t *testing.T) {
	p, backend, saver, _ := newPipeline(strictReply, nil)
	p.Config.Output.Snapshot = true

	out, err := p.Run(context.Background(), "entropy", "paper.pdf")
	require.NoError(t, err)

	require.Len(t, saver.saves, 2)
	snapPath := filepath.Join("out", "research_snapshot_20260102_030405.pdf")
	assert.Equal(t, snapPath, saver.saves[0].path)
	assert.True(t, strings.HasPrefix(saver.saves[0].content, "Query: entropy\n\nWEB SEARCH:\nweb text"))

	assert.Equal(t, "Saved to "+snapPath, out.Evidence[types.SourceSnapshot])
	assert.Contains(t, backend.prompt, `"tool_snapshot_saved": "Saved to `+snapPath+`"`)
}
