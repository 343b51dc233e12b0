// ABOUTME: Badger-backed local memory cache, one slot per subject.
// ABOUTME: Synchronous last-writer-wins writes; missing slot reads as nil.
package cache

import (
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v3"

	"github.com/harperreed/insight/internal/memory"
	"github.com/harperreed/insight/internal/models"
)

const memoryPrefix = "memory:"

// Badger is the device-local memory cache. It is not shared across
// subjects except by explicit key, and never consulted for freshness
// guarantees beyond last-writer-wins.
type Badger struct {
	db *badger.DB
}

// Open opens or creates the cache at the given directory.
func Open(dir string) (*Badger, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &Badger{db: db}, nil
}

// Close closes the underlying database.
func (b *Badger) Close() error {
	return b.db.Close()
}

func subjectKey(subject string) []byte {
	return []byte(memoryPrefix + subject)
}

// Load reads the cached Memory for a subject. A missing slot is (nil, nil);
// a corrupt document is an error the caller recovers from by bootstrapping.
func (b *Badger) Load(subject string) (*models.Memory, error) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(subjectKey(subject))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache slot: %w", err)
	}
	return memory.Decode(data)
}

// Store writes the subject's Memory slot synchronously.
func (b *Badger) Store(subject string, m *models.Memory) error {
	data, err := memory.Encode(m)
	if err != nil {
		return fmt.Errorf("encode memory: %w", err)
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(subjectKey(subject), data)
	})
	if err != nil {
		return fmt.Errorf("write cache slot: %w", err)
	}
	return nil
}

// Clear removes the subject's slot. Clearing an absent slot is a no-op.
func (b *Badger) Clear(subject string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(subjectKey(subject))
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("clear cache slot: %w", err)
	}
	return nil
}
