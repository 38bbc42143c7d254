// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ParseMode records which normalization path produced a ResearchPaper.
type ParseMode string

const (
	ParseStrict    ParseMode = "strict"
	ParseRepaired  ParseMode = "repaired"
	ParseRecovered ParseMode = "recovered"
)

// RunRecord describes one completed invocation for the run history.
type RunRecord struct {
	// ID is a random UUID assigned when the run starts.
	ID string `json:"id" yaml:"id"`

	Query string `json:"query" yaml:"query"`
	Model string `json:"model" yaml:"model"`

	// Topic is the topic of the generated paper (may be empty after recovery).
	Topic string `json:"topic" yaml:"topic"`

	ParseMode ParseMode `json:"parse_mode" yaml:"parse_mode"`

	// OutputPath is where the document ended up, the text fallback included.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// Fallback is true when the PDF could not be written and a text file was saved.
	Fallback bool `json:"fallback" yaml:"fallback"`

	// Status is the human-readable message returned by the sink.
	Status string `json:"status" yaml:"status"`

	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
}
