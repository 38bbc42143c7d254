// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/phuslu/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-writer/internal/evidence"
	"github.com/pdiddy/research-writer/internal/generate"
	"github.com/pdiddy/research-writer/internal/history"
	"github.com/pdiddy/research-writer/internal/research"
	"github.com/pdiddy/research-writer/internal/sink"
	"github.com/pdiddy/research-writer/pkg/types"
)

// rootCmd generates a paper. Subcommands cover version and run history.
var rootCmd = &cobra.Command{
	Use:   "research-writer",
	Short: "Generate a research paper PDF from a query",
	Long: `research-writer collects evidence for a query from DuckDuckGo and
Wikipedia, asks a Gemini or Claude model for a structured research paper,
and writes it as a PDF. When the PDF cannot be written a plain-text file
with the same name is saved instead.

API keys are read from GOOGLE_API_KEY / ANTHROPIC_API_KEY, a .env file,
or .secrets/google-api-key and .secrets/anthropic-api-key.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runResearch,
}

// stdinIsTerminal reports whether r is an interactive terminal.
var stdinIsTerminal = func(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// newBackend and newCollector build the run's collaborators. Tests swap
// them for stubs.
var (
	newBackend   = generate.NewBackend
	newCollector = func(cfg types.EvidenceConfig, logger *log.Logger) research.Collector {
		return evidence.NewCollector(cfg, &http.Client{Timeout: cfg.Timeout}, logger)
	}
)

func runResearch(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	query, _ := cmd.Flags().GetString("query")
	query = strings.TrimSpace(query)
	if query == "" {
		query = askQuery(cmd.InOrStdin(), out)
	}
	if query == "" {
		fmt.Fprintln(out, "No query provided. Use --query to provide a topic.")
		return nil
	}

	logger := newLogger(viper.GetViper())
	cfg, err := loadConfig(viper.GetViper(), logger)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return nil
	}

	outName, _ := cmd.Flags().GetString("out")
	outPath := sink.OutputName(cfg.Output.Dir, outName, time.Now())

	fmt.Fprintln(out, "Generating research paper (this may take a minute)...")

	ctx := context.Background()
	backend, err := newBackend(ctx, cfg.AI)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return nil
	}

	p := &research.Pipeline{
		Collector: newCollector(cfg.Evidence, logger),
		Backend:   backend,
		Sink:      sink.New(cfg.Output, logger),
		Config:    cfg,
		Logger:    logger,
	}
	if cfg.History.Enabled {
		store, err := history.NewStore(cfg.History)
		if err != nil {
			logger.Warn().Err(err).Msg("run history unavailable")
		} else {
			defer store.Close()
			p.History = store
		}
	}

	outcome, err := p.Run(ctx, query, outPath)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return nil
	}
	logRun(logger, outcome)
	fmt.Fprintln(out, outcome.Save.Message)
	return nil
}

// askQuery prompts for a topic when in is a terminal. It returns "" when
// in is not interactive or nothing was entered.
func askQuery(in io.Reader, out io.Writer) string {
	if !stdinIsTerminal(in) {
		return ""
	}
	fmt.Fprint(out, "Enter research topic or question: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

func logRun(logger *log.Logger, o research.Outcome) {
	logger.Info().
		Str("run", o.RunID).
		Str("mode", string(o.Mode)).
		Bool("fallback", o.Save.Fallback).
		Bool("normalized", o.Save.Normalized).
		Str("path", o.Save.Path).
		Msg("run finished")
}

func init() {
	rootCmd.Flags().StringP("query", "q", "", "research query or topic (prompted when omitted on a terminal)")
	rootCmd.Flags().StringP("model", "m", "gemini-2.5-flash", "model identifier (gemini-* or claude-*)")
	rootCmd.Flags().StringP("out", "o", "", "output PDF name (default research_output_<timestamp>.pdf)")

	_ = viper.BindPFlag("ai.model", rootCmd.Flags().Lookup("model"))
}
