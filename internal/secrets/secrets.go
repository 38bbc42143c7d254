// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API credentials from a directory of plain-text files.
// Each file holds one secret: the file name is the key and the trimmed
// contents are the value.
//
// Recognised keys: google-api-key, anthropic-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phuslu/log"

	"github.com/pdiddy/research-writer/internal/logging"
	"github.com/pdiddy/research-writer/pkg/types"
)

// Key file names.
const (
	GoogleAPIKey    = "google-api-key"
	AnthropicAPIKey = "anthropic-api-key"
)

// Load reads every regular file in dir. A missing directory yields an
// empty map. Unreadable files are logged and skipped.
func Load(dir string, logger *log.Logger) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logging.OrDiscard(logger).Warn().Str("secret", name).Err(err).Msg("could not read secret")
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			out[name] = value
		}
	}
	return out, nil
}

// Apply fills API keys in cfg that are still empty from loaded secrets.
// Keys already set from the environment or a config file win.
func Apply(cfg *types.AIConfig, s map[string]string) {
	if cfg.GoogleAPIKey == "" {
		cfg.GoogleAPIKey = s[GoogleAPIKey]
	}
	if cfg.AnthropicAPIKey == "" {
		cfg.AnthropicAPIKey = s[AnthropicAPIKey]
	}
}
