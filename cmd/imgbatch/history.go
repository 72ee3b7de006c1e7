// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/imgbatch/internal/ledger"
	"github.com/pdiddy/imgbatch/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List files recorded in the conversion ledger",
	Long: `History reads the SQLite ledger written by grayscale and bitonal runs
started with --ledger, newest first. Filter by mode, run, or status and
print a table, YAML, or JSON.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := viper.GetString("ledger")
	if path == "" {
		return fmt.Errorf("no ledger configured: pass --ledger or set IMGBATCH_LEDGER")
	}

	limit, _ := cmd.Flags().GetInt("limit")
	l, err := ledger.Open(types.LedgerConfig{Path: path, MaxResults: limit})
	if err != nil {
		return err
	}
	defer l.Close()

	mode, _ := cmd.Flags().GetString("mode")
	runID, _ := cmd.Flags().GetString("run")
	status, _ := cmd.Flags().GetString("status")
	q := ledger.Query{Mode: mode, RunID: runID, Status: types.ConversionStatus(status)}

	format, _ := cmd.Flags().GetString("format")
	out := cmd.OutOrStdout()
	switch format {
	case "table", "":
		records, err := l.List(cmd.Context(), q)
		if err != nil {
			return err
		}
		return formatHistoryTable(out, records)
	case "yaml":
		return l.ExportYAML(cmd.Context(), out, q)
	case "json":
		return l.ExportJSON(cmd.Context(), out, q)
	default:
		return fmt.Errorf("unsupported format %q: use table, yaml, or json", format)
	}
}

func formatHistoryTable(w io.Writer, records []types.ConversionRecord) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No conversions recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-12s  %-9s  %-30s  %-9s  %-9s  %s\n",
		"Run", "Mode", "File", "Size", "Status", "When")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, r := range records {
		name := r.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		size := "-"
		if r.Width > 0 {
			size = fmt.Sprintf("%dx%d", r.Width, r.Height)
		}
		fmt.Fprintf(w, "%-12s  %-9s  %-30s  %-9s  %-9s  %s\n",
			r.RunID, r.Mode, name, size, r.Status, r.ConvertedAt.Local().Format("2006-01-02 15:04:05"))
	}

	fmt.Fprintf(w, "\n%d records\n", len(records))
	return nil
}

func init() {
	historyCmd.Flags().String("mode", "", "filter by mode: grayscale or bitonal")
	historyCmd.Flags().String("run", "", "filter by run ID")
	historyCmd.Flags().String("status", "", "filter by status: converted or failed")
	historyCmd.Flags().Int("limit", 0, "maximum records (0 = default of 50)")
	historyCmd.Flags().String("format", "table", "output format: table, yaml, or json")

	rootCmd.AddCommand(historyCmd)
}
