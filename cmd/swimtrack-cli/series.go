package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/swimtrack/swimtrack/internal/views"
)

var seriesJSON bool

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Work with series descriptions",
}

var seriesSummarizeCmd = &cobra.Command{
	Use:   "summarize [file|-]",
	Short: "Total a series description without the API",
	Long: `Read a training description (a JSON series array or free text) and
print its summary, per-series subtotals and totals.

EXAMPLES:

  swimtrack series summarize plan.json
  echo '[{"count":4,"exercises":[...]}]' | swimtrack series summarize
  swimtrack series summarize plan.json --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if len(args) == 0 || args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("reading description: %w", err)
		}

		p := views.NewSeriesPreview(string(data))
		out := cmd.OutOrStdout()
		if seriesJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(p)
		}
		printPreview(out, p)
		return nil
	},
}

func init() {
	seriesSummarizeCmd.Flags().BoolVar(&seriesJSON, "json", false, "print the preview as JSON")
	seriesCmd.AddCommand(seriesSummarizeCmd)
	rootCmd.AddCommand(seriesCmd)
}

func printPreview(w io.Writer, p views.SeriesPreview) {
	if p.Text != "" || len(p.Series) == 0 {
		faint.Fprintf(w, "(%s)\n", p.Kind)
		if p.Text != "" {
			fmt.Fprintln(w, p.Text)
		}
		return
	}
	bold.Fprintln(w, p.Summary)
	for i, s := range p.Series {
		fmt.Fprintf(w, "%s %s\n", cyan.Sprint(views.BlockLabel(i, s.Count)), faint.Sprintf("(%dm)", p.Subtotals[i]))
	}
	green.Fprintf(w, "Total: %dm\n", p.TotalMeters)
	if p.TotalYards > 0 {
		faint.Fprintf(w, "Yardas: %.0f\n", p.TotalYards)
	}
	if p.TotalCycles > 0 {
		faint.Fprintf(w, "Ciclos: %d\n", p.TotalCycles)
	}
}
