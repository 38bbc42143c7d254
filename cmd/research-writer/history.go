// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-writer/internal/history"
	"github.com/pdiddy/research-writer/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previous runs",
	Long: `History lists recorded runs, newest first, from the SQLite database
in the history directory (default .research-writer/history.db).`,
	RunE: runHistoryList,
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to YAML or JSON",
	Long: `Export writes every recorded run to export.yaml or export.json in the
history directory.`,
	RunE: runHistoryExport,
}

func openHistory() (*history.Store, error) {
	cfg, err := loadConfig(viper.GetViper(), newLogger(viper.GetViper()))
	if err != nil {
		return nil, err
	}
	return history.NewStore(cfg.History)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	search, _ := cmd.Flags().GetString("search")

	var runs []types.RunRecord
	if search != "" {
		runs, err = store.Search(context.Background(), search, limit)
	} else {
		runs, err = store.List(context.Background(), limit)
	}
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRuns(cmd.OutOrStdout(), runs, jsonOutput)
}

func formatRuns(w io.Writer, runs []types.RunRecord, jsonOutput bool) error {
	if jsonOutput {
		if runs == nil {
			runs = []types.RunRecord{}
		}
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-19s  %-30s  %-18s  %-9s  %s\n", "Started", "Query", "Model", "Parse", "Output")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range runs {
		output := r.OutputPath
		if r.Fallback {
			output += " (text fallback)"
		}
		if output == "" {
			output = r.Status
		}
		fmt.Fprintf(w, "%-19s  %-30s  %-18s  %-9s  %s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			truncate(r.Query, 30), truncate(r.Model, 18), r.ParseMode, output)
	}
	fmt.Fprintf(w, "\n%d runs\n", len(runs))
	return nil
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(context.Background())
	case "json":
		path, err = store.ExportJSON(context.Background())
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	historyCmd.Flags().Int("limit", 0, "maximum runs to list (0 = history.max_results)")
	historyCmd.Flags().String("search", "", "only runs whose query or topic contains this text")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	historyCmd.AddCommand(historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}
