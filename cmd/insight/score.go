// ABOUTME: CLI command for computing the composite score and tier.
// ABOUTME: Unavailable scores print a placeholder, never a coerced zero.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var scoreJSON bool

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute the composite health score",
	Long: `Compute the composite 0-100 score from the stored daily series.

Four factors contribute through fixed curves and weights: readiness
(0.40), sleep (0.25), HRV (0.20), and strain balance (0.15). Factors
with no data in their window drop out and the remaining weights are
renormalized, so gaps never drag the score toward zero. With no data at
all the score is unavailable.

EXAMPLES:

  insight score          # Human-readable score, tier, sub-scores
  insight score --json   # Machine-readable result`,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := eng.Score()
		if err != nil {
			return err
		}

		if scoreJSON {
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal score: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		if !result.Available() {
			fmt.Println("Score: — (no contributing metric has data)")
			return nil
		}

		color.New(color.Bold).Printf("Score: %d\n", *result.Score)
		fmt.Printf("Tier:  %s (%d/4)\n", result.Tier.Label, result.Tier.Ordinal)

		faint := color.New(color.Faint)
		printSub := func(name string, v *float64) {
			if v == nil {
				fmt.Printf("  %s %s\n", padRight(name, 10), faint.Sprint("—"))
				return
			}
			fmt.Printf("  %s %.0f\n", padRight(name, 10), *v)
		}
		fmt.Println("Sub-scores:")
		printSub("readiness", result.Subs.Readiness)
		printSub("sleep", result.Subs.Sleep)
		printSub("hrv", result.Subs.HRV)
		printSub("strain", result.Subs.Strain)

		return nil
	},
}

func init() {
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "print result as JSON")
	rootCmd.AddCommand(scoreCmd)
}
