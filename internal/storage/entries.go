// ABOUTME: Daily entry CRUD operations for SQLite storage.
// ABOUTME: Upsert keeps the one-entry-per-date invariant; lists are date-ascending.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/insight/internal/models"
)

// UpsertEntry inserts or replaces the entry for its date. Two entries
// never share a date; a second write for the same day wins in full.
func (d *DB) UpsertEntry(e *models.DailyEntry) error {
	if _, err := time.Parse(models.DateFormat, e.Date); err != nil {
		return fmt.Errorf("invalid entry date %q: %w", e.Date, err)
	}

	query := `
		INSERT INTO daily_entries (
			date, sleep_hours, deep_sleep_hours, rem_sleep_hours, resting_hr,
			hrv, steps, active_calories, vo2max, readiness, strain, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date) DO UPDATE SET
			sleep_hours = excluded.sleep_hours,
			deep_sleep_hours = excluded.deep_sleep_hours,
			rem_sleep_hours = excluded.rem_sleep_hours,
			resting_hr = excluded.resting_hr,
			hrv = excluded.hrv,
			steps = excluded.steps,
			active_calories = excluded.active_calories,
			vo2max = excluded.vo2max,
			readiness = excluded.readiness,
			strain = excluded.strain,
			updated_at = CURRENT_TIMESTAMP
	`
	_, err := d.db.Exec(query,
		e.Date, e.SleepHours, e.DeepSleepHours, e.RemSleepHours, e.RestingHR,
		e.HRV, e.Steps, e.ActiveCalories, e.VO2Max, e.Readiness, e.Strain,
	)
	if err != nil {
		return fmt.Errorf("upsert entry: %w", err)
	}
	return nil
}

// SetEntryValue sets one metric on the entry for a date, creating the
// entry if the day has none yet.
func (d *DB) SetEntryValue(date string, metric models.Metric, value float64) error {
	e, err := d.GetEntry(date)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if e == nil {
		e = &models.DailyEntry{Date: date}
	}
	e.SetValue(metric, value)
	return d.UpsertEntry(e)
}

// GetEntry retrieves the entry for a date. Missing days return
// sql.ErrNoRows wrapped.
func (d *DB) GetEntry(date string) (*models.DailyEntry, error) {
	query := `
		SELECT date, sleep_hours, deep_sleep_hours, rem_sleep_hours, resting_hr,
		       hrv, steps, active_calories, vo2max, readiness, strain
		FROM daily_entries
		WHERE date = ?
	`
	e, err := scanEntry(d.db.QueryRow(query, date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no entry for %s: %w", date, err)
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}

// ListEntries returns the series ordered by date ascending, oldest
// first, as the baseline engine expects. limit > 0 keeps only the most
// recent limit days.
func (d *DB) ListEntries(limit int) ([]models.DailyEntry, error) {
	query := `
		SELECT date, sleep_hours, deep_sleep_hours, rem_sleep_hours, resting_hr,
		       hrv, steps, active_calories, vo2max, readiness, strain
		FROM (
			SELECT * FROM daily_entries ORDER BY date DESC %s
		)
		ORDER BY date ASC
	`
	var args []interface{}
	if limit > 0 {
		query = fmt.Sprintf(query, "LIMIT ?")
		args = append(args, limit)
	} else {
		query = fmt.Sprintf(query, "")
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []models.DailyEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// DeleteEntry removes the entry for a date.
func (d *DB) DeleteEntry(date string) error {
	result, err := d.db.Exec("DELETE FROM daily_entries WHERE date = ?", date)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("not found: %s", date)
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for entry scanning.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(s scanner) (*models.DailyEntry, error) {
	var e models.DailyEntry
	err := s.Scan(
		&e.Date, &e.SleepHours, &e.DeepSleepHours, &e.RemSleepHours, &e.RestingHR,
		&e.HRV, &e.Steps, &e.ActiveCalories, &e.VO2Max, &e.Readiness, &e.Strain,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
