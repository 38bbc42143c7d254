// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// claudeBaseURL overrides the Claude API endpoint when set. Package-level
// var for test substitution.
var claudeBaseURL = ""

const defaultClaudeMaxTokens = 16384

// ClaudeBackend calls the Claude Messages API through the Anthropic SDK.
type ClaudeBackend struct {
	client    anthropic.Client
	Model     string
	MaxTokens int
}

// NewClaudeBackend creates a Claude client for model. The SDK's automatic
// retries are disabled.
func NewClaudeBackend(apiKey, model string, maxTokens int) *ClaudeBackend {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if claudeBaseURL != "" {
		opts = append(opts, option.WithBaseURL(claudeBaseURL))
	}
	if maxTokens <= 0 {
		maxTokens = defaultClaudeMaxTokens
	}
	return &ClaudeBackend{
		client:    anthropic.NewClient(opts...),
		Model:     model,
		MaxTokens: maxTokens,
	}
}

// Generate sends prompt as a single user message and concatenates the text
// blocks of the reply.
func (c *ClaudeBackend) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.Model),
		MaxTokens: int64(c.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("claude %s: %w", c.Model, ErrEmptyResponse)
	}
	return out.String(), nil
}
