// ABOUTME: CLI command for folding a completed narrative analysis into memory.
// ABOUTME: Scores the current series, builds the summary, and persists the new Memory.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/insight/internal/models"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <narrative.json>",
	Short: "Record a narrative analysis into longitudinal memory",
	Long: `Fold one completed narrative analysis into the subject's longitudinal
memory. The narrative itself is produced elsewhere; this command only
extracts structured signals from it.

The input document carries bottleneck strings per language, a free-text
summary, stop/start/watch directives, supplement recommendations, and
training/recovery adjustment text:

  {
    "bottlenecks": {"en": ["Sleep debt is limiting recovery"]},
    "summary": {"en": "Recovery is trending upward. Keep the load steady."},
    "directives": {"start": "morning sunlight", "watch": "evening caffeine"},
    "supplements": [{"name": "magnesium", "timing": "evening"}],
    "training_adjustment": "Shift one interval session to zone 2.",
    "recovery_change": "HRV is rebounding after deload week."
  }

The update always succeeds locally; pushing the memory document to Charm
Cloud is best-effort and never blocks.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		var analysis models.NarrativeAnalysis
		if err := json.Unmarshal(data, &analysis); err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		mem, summ, err := eng.Analyze(cmd.Context(), &analysis)
		if err != nil {
			return err
		}

		color.Green("✓ Recorded analysis #%d", mem.InteractionCount)
		fmt.Printf("  score %s, %d summaries in history\n", scoreLabel(summ.Score), len(mem.Summaries))
		if mem.Profile.FitnessLevel != "" {
			fmt.Printf("  fitness level: %s\n", mem.Profile.FitnessLevel)
		}
		if len(mem.Insights.NotableEvents) > 0 {
			fmt.Printf("  latest event: %s\n", mem.Insights.NotableEvents[0])
		}
		if len(mem.Insights.PersistentWeaknesses) > 0 {
			fmt.Printf("  persistent: %s\n", mem.Insights.PersistentWeaknesses[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
