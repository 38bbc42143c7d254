// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate sends a prompt to a hosted generative model and returns
// its text reply. Gemini and Claude models are supported; the provider is
// chosen from the model identifier.
package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/research-writer/pkg/types"
)

// Backend abstracts the generative service so tests can supply a mock.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Provider names a generative service.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderClaude Provider = "claude"
)

var (
	// ErrMissingAPIKey is returned when the chosen provider has no credential.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrEmptyResponse is returned when the reply carries no text.
	ErrEmptyResponse = errors.New("model returned no text")
)

var providerPrefixes = []string{"claude/", "anthropic/", "gemini/", "google/"}

// DetectProvider maps a model identifier to its provider:
//
//	claude-sonnet-4-5          -> claude
//	anthropic/claude-opus-4-1  -> claude
//	gemini-2.5-flash           -> gemini
//	google/gemini-2.5-pro      -> gemini
//
// Anything unrecognised goes to Gemini, the default provider.
func DetectProvider(model string) Provider {
	m := strings.ToLower(strings.TrimSpace(model))
	if strings.HasPrefix(m, "claude/") || strings.HasPrefix(m, "anthropic/") || strings.HasPrefix(m, "claude-") {
		return ProviderClaude
	}
	return ProviderGemini
}

// NormalizeModel strips a provider prefix such as "anthropic/" from model.
func NormalizeModel(model string) string {
	model = strings.TrimSpace(model)
	for _, p := range providerPrefixes {
		if strings.HasPrefix(strings.ToLower(model), p) {
			return model[len(p):]
		}
	}
	return model
}

// NewBackend returns the backend for cfg.Model, authenticated with the
// matching key from cfg.
func NewBackend(ctx context.Context, cfg types.AIConfig) (Backend, error) {
	model := NormalizeModel(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("no model configured")
	}

	switch DetectProvider(cfg.Model) {
	case ProviderClaude:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("model %s: set ANTHROPIC_API_KEY: %w", model, ErrMissingAPIKey)
		}
		return NewClaudeBackend(cfg.AnthropicAPIKey, model, cfg.MaxTokens), nil
	default:
		if cfg.GoogleAPIKey == "" {
			return nil, fmt.Errorf("model %s: set GOOGLE_API_KEY: %w", model, ErrMissingAPIKey)
		}
		return NewGeminiBackend(ctx, cfg.GoogleAPIKey, model)
	}
}
