// ABOUTME: Repository interface for the daily-entry series store.
// ABOUTME: Defines the contract the engine and CLI consume; enables test doubles.
package storage

import "github.com/harperreed/insight/internal/models"

// EntryStore is the storage contract for the per-subject daily series.
// This interface allows swapping implementations (e.g., for testing).
type EntryStore interface {
	UpsertEntry(e *models.DailyEntry) error
	SetEntryValue(date string, metric models.Metric, value float64) error
	GetEntry(date string) (*models.DailyEntry, error)
	ListEntries(limit int) ([]models.DailyEntry, error)
	DeleteEntry(date string) error
	Close() error
}

var _ EntryStore = (*DB)(nil)
