// ABOUTME: CLI command for recording a daily metric value.
// ABOUTME: Upserts into the one-entry-per-date series.
package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/insight/internal/models"
)

var addDate string

var addCmd = &cobra.Command{
	Use:     "add <metric> <value>",
	Aliases: []string{"a"},
	Short:   "Record a daily metric value",
	Long: `Record one daily metric value. Each calendar day has exactly one entry;
recording a metric twice for the same day overwrites the earlier value.

Examples:
  insight add sleep_hours 7.4
  insight add hrv 52 --date 2026-08-27
  insight add steps 10400
  insight add readiness 78`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		metric := args[0]
		if !models.IsValidMetric(metric) {
			return fmt.Errorf("unknown metric: %s\nValid metrics: sleep_hours, deep_sleep_hours, rem_sleep_hours, resting_hr, hrv, steps, active_calories, vo2max, readiness, strain", metric)
		}

		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid value: %s", args[1])
		}

		date := addDate
		if date == "" {
			date = time.Now().Format(models.DateFormat)
		} else if _, err := time.Parse(models.DateFormat, date); err != nil {
			return fmt.Errorf("invalid date: %s (use YYYY-MM-DD)", addDate)
		}

		if err := entryStore.SetEntryValue(date, models.Metric(metric), value); err != nil {
			return fmt.Errorf("failed to record %s: %w", metric, err)
		}

		color.Green("✓ Recorded %s", metric)
		fmt.Printf("  %s %.2f %s\n",
			color.New(color.Faint).Sprint(date),
			value, models.MetricUnits[models.Metric(metric)])

		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addDate, "date", "", "calendar day (YYYY-MM-DD), defaults to today")
	rootCmd.AddCommand(addCmd)
}
