// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines the daily_entries table, uniquely keyed by date.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS daily_entries (
		date TEXT PRIMARY KEY,
		sleep_hours REAL,
		deep_sleep_hours REAL,
		rem_sleep_hours REAL,
		resting_hr REAL,
		hrv REAL,
		steps REAL,
		active_calories REAL,
		vo2max REAL,
		readiness REAL,
		strain REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_entries_date ON daily_entries(date DESC);
	`

	_, err := d.db.Exec(schema)
	return err
}
