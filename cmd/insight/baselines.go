// ABOUTME: CLI command for showing trailing-window baseline statistics.
// ABOUTME: Unavailable statistics display as dashes, never as zero.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var baselinesCmd = &cobra.Command{
	Use:   "baselines",
	Short: "Show per-metric baseline statistics",
	Long: `Show the cleaned trailing-window statistics for every metric: sample
count, average, median, and inter-quartile range.

HRV and resting heart rate use a 14-day window; everything else uses 21
days. The IQR needs at least 4 valid samples; with fewer it is shown as
unavailable rather than a misleading estimate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		baselines, err := eng.Baselines()
		if err != nil {
			return err
		}

		faint := color.New(color.Faint)
		fmt.Println(faint.Sprintf("%-18s %4s %8s %8s %8s", "metric", "n", "avg", "median", "iqr"))
		for _, b := range baselines {
			fmt.Printf("%-18s %4d %8s %8s %8s\n",
				b.Metric, b.Samples, stat(b.Average), stat(b.Median), stat(b.IQR))
		}
		return nil
	},
}

func stat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

func init() {
	rootCmd.AddCommand(baselinesCmd)
}
