// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/phuslu/log"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-writer/internal/logging"
	"github.com/pdiddy/research-writer/internal/secrets"
	"github.com/pdiddy/research-writer/pkg/types"
)

const (
	configName = "research-writer"
	envPrefix  = "RESEARCH_WRITER"
	secretsDir = ".secrets/"
)

// initConfig wires viper: optional config file, environment overrides and
// defaults. A .env file in the working directory is loaded first so its
// values are visible as environment variables.
func initConfig() {
	_ = godotenv.Load()

	if cfgFile := os.Getenv(envPrefix + "_CONFIG"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("ai.google_api_key", "GOOGLE_API_KEY")
	_ = viper.BindEnv("ai.anthropic_api_key", "ANTHROPIC_API_KEY")

	setDefaults(viper.GetViper(), types.DefaultConfig())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults(v *viper.Viper, d types.Config) {
	v.SetDefault("evidence.timeout", d.Evidence.Timeout)
	v.SetDefault("evidence.user_agent", d.Evidence.UserAgent)
	v.SetDefault("evidence.max_results", d.Evidence.MaxResults)
	v.SetDefault("evidence.search_sentences", d.Evidence.SearchSentences)
	v.SetDefault("evidence.summary_sentences", d.Evidence.SummarySentences)
	v.SetDefault("evidence.language", d.Evidence.Language)

	v.SetDefault("ai.model", d.AI.Model)
	v.SetDefault("ai.max_tokens", d.AI.MaxTokens)

	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.wrap_width", d.Output.WrapWidth)
	v.SetDefault("output.font_family", d.Output.FontFamily)
	v.SetDefault("output.font_size", d.Output.FontSize)
	v.SetDefault("output.bottom_margin", d.Output.BottomMargin)
	v.SetDefault("output.snapshot", d.Output.Snapshot)

	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.dir", d.History.Dir)
	v.SetDefault("history.max_results", d.History.MaxResults)

	v.SetDefault("log_level", d.LogLevel)
}

// loadConfig decodes the merged viper settings, fills API keys from the
// secrets directory when the environment did not set them, and validates
// the result.
func loadConfig(v *viper.Viper, logger *log.Logger) (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}

	s, err := secrets.Load(secretsDir, logger)
	if err != nil {
		return types.Config{}, err
	}
	secrets.Apply(&cfg.AI, s)

	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// newLogger returns the stderr diagnostic logger at the configured level.
func newLogger(v *viper.Viper) *log.Logger {
	return logging.New(v.GetString("log_level"), os.Stderr)
}
