// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// HTTPConfig holds shared HTTP settings used by evidence lookups.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "research-writer/0.1"). Wikipedia rejects anonymous agents.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent" validate:"required"`
}

// EvidenceConfig holds settings for the evidence collection stage.
type EvidenceConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxResults bounds the number of web and Wikipedia search hits (default 5).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results" validate:"min=1,max=50"`

	// SearchSentences is the summary length for each Wikipedia search hit (default 3).
	SearchSentences int `json:"search_sentences" yaml:"search_sentences" mapstructure:"search_sentences" validate:"min=1"`

	// SummarySentences is the summary length for the query's own page (default 5).
	SummarySentences int `json:"summary_sentences" yaml:"summary_sentences" mapstructure:"summary_sentences" validate:"min=1"`

	// Language selects the Wikipedia edition (default "en").
	Language string `json:"language" yaml:"language" mapstructure:"language" validate:"required,alpha"`
}

// AIConfig holds settings for the generative service call. It is passed
// to the backend constructor; backends never read the environment.
type AIConfig struct {
	// Model is the model identifier (e.g. "gemini-2.5-flash", "claude-sonnet-4-5").
	Model string `json:"model" yaml:"model" mapstructure:"model" validate:"required"`

	// GoogleAPIKey authenticates Gemini models.
	GoogleAPIKey string `json:"-" yaml:"-" mapstructure:"google_api_key"`

	// AnthropicAPIKey authenticates Claude models.
	AnthropicAPIKey string `json:"-" yaml:"-" mapstructure:"anthropic_api_key"`

	// MaxTokens caps the reply length for providers that require it (default 16384).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens" validate:"min=1"`
}

// OutputConfig holds settings for the paginated document and the text fallback.
type OutputConfig struct {
	// Dir is prepended to relative output names (default ".").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// WrapWidth is the column at which each line is word-wrapped (default 95).
	WrapWidth int `json:"wrap_width" yaml:"wrap_width" mapstructure:"wrap_width" validate:"min=20"`

	// FontFamily is a PDF core font name (default "Arial").
	FontFamily string `json:"font_family" yaml:"font_family" mapstructure:"font_family" validate:"required"`

	// FontSize is the body font size in points (default 12).
	FontSize float64 `json:"font_size" yaml:"font_size" mapstructure:"font_size" validate:"gt=0"`

	// BottomMargin is the automatic page-break margin in mm (default 15).
	BottomMargin float64 `json:"bottom_margin" yaml:"bottom_margin" mapstructure:"bottom_margin" validate:"gte=0"`

	// Snapshot saves the collected evidence as its own document before generation.
	Snapshot bool `json:"snapshot" yaml:"snapshot" mapstructure:"snapshot"`
}

// HistoryConfig holds settings for the run history database.
type HistoryConfig struct {
	// Enabled turns run recording on (default false). When off, a run
	// writes nothing besides its output document.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Dir contains history.db and export files (default ".research-writer").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir" validate:"required_if=Enabled true"`

	// MaxResults is the default number of runs listed (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results" validate:"gte=0"`
}

// Config groups every stage configuration for one invocation.
type Config struct {
	Evidence EvidenceConfig `json:"evidence" yaml:"evidence" mapstructure:"evidence"`
	AI       AIConfig       `json:"ai" yaml:"ai" mapstructure:"ai"`
	Output   OutputConfig   `json:"output" yaml:"output" mapstructure:"output"`
	History  HistoryConfig  `json:"history" yaml:"history" mapstructure:"history"`

	// LogLevel is the diagnostic log level: trace, debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=trace debug info warn error"`
}

// DefaultConfig returns the configuration used when no file or environment
// overrides are present.
func DefaultConfig() Config {
	return Config{
		Evidence: EvidenceConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   10 * time.Second,
				UserAgent: "research-writer/0.1",
			},
			MaxResults:       5,
			SearchSentences:  3,
			SummarySentences: 5,
			Language:         "en",
		},
		AI: AIConfig{
			Model:     "gemini-2.5-flash",
			MaxTokens: 16384,
		},
		Output: OutputConfig{
			Dir:          ".",
			WrapWidth:    95,
			FontFamily:   "Arial",
			FontSize:     12,
			BottomMargin: 15,
		},
		History: HistoryConfig{
			Enabled:    false,
			Dir:        ".research-writer",
			MaxResults: 20,
		},
		LogLevel: "warn",
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration against its struct constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
