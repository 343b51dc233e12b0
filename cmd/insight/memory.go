// ABOUTME: CLI commands for inspecting and clearing longitudinal memory.
// ABOUTME: Show prefers the remote document with cache fallback; clear is idempotent.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var memoryJSON bool

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect or clear longitudinal memory",
}

var memoryShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current memory snapshot",
	Long: `Show the subject's current memory snapshot: profile baselines, the
recent analysis history, and derived longitudinal insights.

The read prefers the Charm Cloud document with a bounded timeout and
falls back to the local cache, so the snapshot may be up to one update
cycle stale.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mem := eng.Memory(cmd.Context())
		if mem == nil {
			fmt.Println("No memory yet: run 'insight analyze' first.")
			return nil
		}

		if memoryJSON {
			data, err := json.MarshalIndent(mem, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal memory: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		bold := color.New(color.Bold)
		faint := color.New(color.Faint)

		bold.Println("Profile")
		if mem.Profile.DisplayName != "" {
			fmt.Printf("  name:          %s\n", mem.Profile.DisplayName)
		}
		fmt.Printf("  source:        %s\n", mem.Profile.DataSource)
		if mem.Profile.TypicalSleepHours != nil {
			fmt.Printf("  typical sleep: %.1f h\n", *mem.Profile.TypicalSleepHours)
		}
		if mem.Profile.BaselineHRV != nil {
			fmt.Printf("  baseline hrv:  %.0f ms\n", *mem.Profile.BaselineHRV)
		}
		if mem.Profile.BaselineRHR != nil {
			fmt.Printf("  baseline rhr:  %.0f bpm\n", *mem.Profile.BaselineRHR)
		}
		if mem.Profile.VO2MaxRange != "" {
			fmt.Printf("  vo2max:        %s\n", mem.Profile.VO2MaxRange)
		}
		if mem.Profile.FitnessLevel != "" {
			fmt.Printf("  fitness:       %s\n", mem.Profile.FitnessLevel)
		}
		if mem.Profile.CurrentMilestone != "" {
			fmt.Printf("  milestone:     %s\n", mem.Profile.CurrentMilestone)
		}
		if mem.Profile.MilestoneHistory != "" {
			fmt.Printf("  trail:         %s\n", faint.Sprint(mem.Profile.MilestoneHistory))
		}

		bold.Println("History")
		lang := cfg.GetLanguage()
		for _, s := range mem.Summaries {
			fmt.Printf("  %s  score %s\n", faint.Sprint(s.Date.Format("2006-01-02")), scoreLabel(s.Score))
			if finding := s.KeyFindings[lang]; finding != "" {
				fmt.Printf("    %s\n", finding)
			}
		}

		bold.Println("Insights")
		for _, w := range mem.Insights.PersistentWeaknesses {
			fmt.Printf("  weakness: %s\n", w)
		}
		for _, st := range mem.Insights.KeyStrengths {
			fmt.Printf("  strength: %s\n", st)
		}
		for _, e := range mem.Insights.NotableEvents {
			fmt.Printf("  event:    %s\n", e)
		}
		if mem.Insights.SupplementHistory != "" {
			fmt.Printf("  supplements: %s\n", mem.Insights.SupplementHistory)
		}

		fmt.Printf("\n%s\n", faint.Sprintf("%d analyses since %s, updated %s",
			mem.InteractionCount,
			mem.FirstAnalysisAt.Format("2006-01-02"),
			mem.LastUpdatedAt.Format("2006-01-02 15:04")))
		return nil
	},
}

var memoryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear memory from cache and cloud",
	Long: `Remove the subject's memory from the local cache and the Charm Cloud
document store. Used on logout or account deletion. Idempotent: clearing
an already-clear subject is a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := eng.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear memory: %w", err)
		}
		color.Yellow("✗ Memory cleared")
		return nil
	},
}

func init() {
	memoryShowCmd.Flags().BoolVar(&memoryJSON, "json", false, "print memory as JSON")
	memoryCmd.AddCommand(memoryShowCmd)
	memoryCmd.AddCommand(memoryClearCmd)
	rootCmd.AddCommand(memoryCmd)
}
