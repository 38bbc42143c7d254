// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink persists rendered text as a paginated document, falling back
// to a plain-text file when pagination fails.
package sink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phuslu/log"

	"github.com/pdiddy/research-writer/internal/logging"
	"github.com/pdiddy/research-writer/pkg/types"
)

// SaveResult describes where content ended up. Message is always set.
type SaveResult struct {
	// Path is the file that was written: the document, the text fallback,
	// or empty when nothing could be written.
	Path string

	// Fallback is true when the text fallback was written instead of the document.
	Fallback bool

	// Normalized is true when the document was written from normalized text.
	Normalized bool

	Message string
}

func (r SaveResult) String() string { return r.Message }

// Sink saves content through a Paginator.
type Sink struct {
	Paginator Paginator
	Logger    *log.Logger
}

// New returns a Sink writing PDFs laid out per cfg.
func New(cfg types.OutputConfig, logger *log.Logger) *Sink {
	return &Sink{Paginator: NewPDFWriter(cfg), Logger: logger}
}

// Save writes content to path. An encoding failure is retried once with
// normalized text; any remaining failure writes the original content to
// the text fallback path. Save never fails: the outcome, including every
// error met on the way, is reported in the result.
func (s *Sink) Save(content, path string) SaveResult {
	logger := logging.OrDiscard(s.Logger)

	err := s.Paginator.Paginate(path, content)
	if err == nil {
		logger.Debug().Str("path", path).Msg("document saved")
		return SaveResult{Path: path, Message: fmt.Sprintf("Saved to %s", path)}
	}

	var encErr *EncodingError
	if !errors.As(err, &encErr) {
		logger.Warn().Str("path", path).Err(err).Msg("document save failed")
		return s.fallback(path, content,
			fmt.Sprintf("PDF save failed: %v\n\n", err),
			fmt.Sprintf("PDF save to %s failed (%v).", path, err))
	}

	logger.Info().Str("path", path).Err(err).Msg("retrying with normalized text")
	retryErr := s.Paginator.Paginate(path, NormalizeText(content))
	if retryErr == nil {
		return SaveResult{
			Path:       path,
			Normalized: true,
			Message:    fmt.Sprintf("Saved to %s (normalized unicode characters)", path),
		}
	}

	logger.Warn().Str("path", path).Err(retryErr).Msg("normalized retry failed")
	return s.fallback(path, content,
		fmt.Sprintf("PDF save failed: %v\nRetry with normalization failed: %v\n\n", err, retryErr),
		fmt.Sprintf("PDF save to %s failed (%v). Normalization retry failed (%v).", path, err, retryErr))
}

func (s *Sink) fallback(path, content, header, reason string) SaveResult {
	fb := FallbackPath(path)
	data := header + "Original content below:\n\n" + content
	if err := os.WriteFile(fb, []byte(data), 0o644); err != nil {
		logging.OrDiscard(s.Logger).Error().Str("path", fb).Err(err).Msg("text fallback failed")
		return SaveResult{Message: fmt.Sprintf("Save error: %s Text fallback to %s failed (%v).", reason, fb, err)}
	}
	return SaveResult{
		Path:     fb,
		Fallback: true,
		Message:  fmt.Sprintf("%s Saved text fallback to %s", reason, fb),
	}
}

// FallbackPath returns path with its extension replaced by ".txt".
func FallbackPath(path string) string {
	ext := filepath.Ext(path)
	if strings.EqualFold(ext, ".txt") {
		return path + ".txt"
	}
	return strings.TrimSuffix(path, ext) + ".txt"
}
