// ABOUTME: CLI command for listing the daily entry series.
// ABOUTME: Shows one row per day, oldest first, gaps left blank.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/insight/internal/models"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List daily entries",
	Long: `List the stored daily entry series, oldest first.

Each row is one calendar day. Blank cells are sensor or sync gaps; the
engine treats them as absent, never as zero.

EXAMPLES:

  insight list           # Last 21 days
  insight list -n 90     # Last 90 days`,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := entryStore.ListEntries(listLimit)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No entries found.")
			return nil
		}

		faint := color.New(color.Faint)
		header := []string{"date", "sleep", "rhr", "hrv", "steps", "kcal", "ready", "strain"}
		fmt.Println(faint.Sprint(padRow(header)))

		for i := range entries {
			e := &entries[i]
			row := []string{
				e.Date,
				cell(e.SleepHours, "%.1f"),
				cell(e.RestingHR, "%.0f"),
				cell(e.HRV, "%.0f"),
				cell(e.Steps, "%.0f"),
				cell(e.ActiveCalories, "%.0f"),
				cell(e.Readiness, "%.0f"),
				cell(e.Strain, "%.1f"),
			}
			fmt.Println(padRow(row))
		}
		return nil
	},
}

func cell(v *float64, format string) string {
	if !models.Present(v) {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

func padRow(cells []string) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = padRight(c, 11)
	}
	return strings.TrimRight(strings.Join(out, ""), " ")
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// scoreLabel renders an optional score; an unscored analysis shows a
// dash, never a zero.
func scoreLabel(score *int) string {
	if score == nil {
		return "—"
	}
	return fmt.Sprintf("%d", *score)
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 21, "max number of days")
	rootCmd.AddCommand(listCmd)
}
