// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research runs one query end to end: collect evidence, build the
// prompt, generate, normalize the reply, render it and save the document.
package research

import (
	"context"
	"fmt"
	"time"

	"github.com/phuslu/log"

	"github.com/pdiddy/research-writer/internal/evidence"
	"github.com/pdiddy/research-writer/internal/generate"
	"github.com/pdiddy/research-writer/internal/history"
	"github.com/pdiddy/research-writer/internal/logging"
	"github.com/pdiddy/research-writer/internal/normalize"
	"github.com/pdiddy/research-writer/internal/prompt"
	"github.com/pdiddy/research-writer/internal/render"
	"github.com/pdiddy/research-writer/internal/sink"
	"github.com/pdiddy/research-writer/pkg/types"
)

// Collector gathers evidence for a query. *evidence.Collector implements it.
type Collector interface {
	Collect(ctx context.Context, query string, limit int) types.EvidenceBundle
}

// Saver persists rendered text. *sink.Sink implements it.
type Saver interface {
	Save(content, path string) sink.SaveResult
}

// Recorder stores completed runs. *history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, r *types.RunRecord) error
}

// Pipeline holds the collaborators for a run. History may be nil.
type Pipeline struct {
	Collector Collector
	Backend   generate.Backend
	Sink      Saver
	History   Recorder
	Config    types.Config
	Logger    *log.Logger

	// Now returns the current time; tests pin it.
	Now func() time.Time
}

// Outcome describes a finished run.
type Outcome struct {
	RunID    string
	Paper    types.ResearchPaper
	Mode     types.ParseMode
	Evidence types.EvidenceBundle
	Save     sink.SaveResult
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Run produces a research paper for query and saves it to outPath. Only a
// failure of the generative call (or of prompt construction) is returned as
// an error; every other failure degrades and is reported in the outcome.
func (p *Pipeline) Run(ctx context.Context, query, outPath string) (Outcome, error) {
	logger := logging.OrDiscard(p.Logger)
	rec := &types.RunRecord{
		ID:        history.NewID(),
		Query:     query,
		Model:     p.Config.AI.Model,
		StartedAt: p.now(),
	}
	out := Outcome{RunID: rec.ID}

	bundle := p.Collector.Collect(ctx, query, p.Config.Evidence.MaxResults)
	if bundle == nil {
		bundle = types.EvidenceBundle{}
	}
	if p.Config.Output.Snapshot {
		snap := p.Sink.Save(evidence.SnapshotText(query, bundle), sink.SnapshotName(p.Config.Output.Dir, rec.StartedAt))
		bundle[types.SourceSnapshot] = snap.Message
	}
	out.Evidence = bundle
	logger.Debug().Str("run", rec.ID).Int("sources", len(bundle)).Bool("partial", bundle.Failed()).Msg("evidence collected")

	text, err := prompt.Build(prompt.Instructions, query, bundle)
	if err != nil {
		return out, p.fail(ctx, rec, err)
	}

	start := time.Now()
	reply, err := p.Backend.Generate(ctx, text)
	if err != nil {
		return out, p.fail(ctx, rec, fmt.Errorf("generating paper: %w", err))
	}
	logger.Info().Str("run", rec.ID).Int("reply_chars", len(reply)).Dur("elapsed", time.Since(start)).Msg("reply received")

	result := normalize.Parse(reply)
	out.Paper = result.Paper()
	out.Mode = result.Mode()
	if out.Mode != types.ParseStrict {
		logger.Warn().Str("run", rec.ID).Str("mode", string(out.Mode)).Msg("reply was not strict JSON")
	}

	out.Save = p.Sink.Save(render.Text(out.Paper), outPath)

	rec.Topic = out.Paper.Topic
	rec.ParseMode = out.Mode
	rec.OutputPath = out.Save.Path
	rec.Fallback = out.Save.Fallback
	rec.Status = out.Save.Message
	p.record(ctx, rec)

	return out, nil
}

func (p *Pipeline) fail(ctx context.Context, rec *types.RunRecord, err error) error {
	rec.Status = "Error: " + err.Error()
	p.record(ctx, rec)
	return err
}

// record stores rec when history is enabled. Failures are logged only.
func (p *Pipeline) record(ctx context.Context, rec *types.RunRecord) {
	if p.History == nil {
		return
	}
	rec.FinishedAt = p.now()
	if err := p.History.Record(ctx, rec); err != nil {
		logging.OrDiscard(p.Logger).Warn().Str("run", rec.ID).Err(err).Msg("recording run history failed")
	}
}
