// ABOUTME: CLI command for bulk-importing a daily entry series from JSON.
// ABOUTME: Upserts by date, so re-importing the same file is idempotent.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/insight/internal/models"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import daily entries from a JSON file",
	Long: `Import a daily entry series from a JSON array.

Each element is one day of observations:

  [
    {"date": "2026-08-20", "sleep_hours": 7.2, "hrv": 48, "steps": 9400},
    {"date": "2026-08-21", "sleep_hours": 6.8, "resting_hr": 55}
  ]

Entries are keyed by date: an entry for an already-stored day replaces
it in full. Unknown fields are ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		var entries []models.DailyEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		for i := range entries {
			if err := entryStore.UpsertEntry(&entries[i]); err != nil {
				return fmt.Errorf("import entry %s: %w", entries[i].Date, err)
			}
		}

		color.Green("✓ Imported %d entries", len(entries))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
