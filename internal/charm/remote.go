// ABOUTME: Charm Cloud KV client holding the durable per-subject memory document.
// ABOUTME: Best-effort sync; an unlinked account degrades the engine to cache-only.
package charm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	badger "github.com/dgraph-io/badger/v3"

	"github.com/harperreed/insight/internal/memory"
	"github.com/harperreed/insight/internal/models"
)

const (
	dbName    = "insight"
	charmHost = "charm.2389.dev"
)

// memoryKey is the stable per-subject document path.
func memoryKey(subject string) []byte {
	return []byte("subjects/" + subject + "/memory/current")
}

// Remote stores one full Memory document per subject in Charm Cloud KV.
// Save replaces the document wholesale; there is no field-level merge
// that could resurrect stale fields.
type Remote struct {
	kv *kv.KV
	mu sync.RWMutex
}

// Dial opens the Charm-backed remote store. It returns an error when no
// Charm account is reachable; callers treat that as the valid
// unauthenticated state and run cache-only.
func Dial() (*Remote, error) {
	if err := os.Setenv("CHARM_HOST", charmHost); err != nil {
		return nil, err
	}

	db, err := kv.OpenWithDefaultsFallback(dbName)
	if err != nil {
		return nil, fmt.Errorf("open charm kv: %w", err)
	}

	return &Remote{kv: db}, nil
}

// Close closes the KV connection.
func (r *Remote) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.kv != nil {
		return r.kv.Close()
	}
	return nil
}

// SubjectID returns the Charm user ID for the linked account.
func (r *Remote) SubjectID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// Fetch pulls the latest cloud state and reads the subject's document.
// A subject with no document yet is (nil, nil).
func (r *Remote) Fetch(ctx context.Context, subject string) (*models.Memory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.kv.IsReadOnly() {
		if err := r.kv.Sync(); err != nil {
			return nil, fmt.Errorf("sync charm kv: %w", err)
		}
	}

	data, err := r.kv.Get(memoryKey(subject))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get memory document: %w", err)
	}
	return memory.Decode(data)
}

// Save replaces the subject's memory document in full and pushes it to
// the cloud.
func (r *Remote) Save(ctx context.Context, subject string, m *models.Memory) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := memory.Encode(m)
	if err != nil {
		return fmt.Errorf("encode memory: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.kv.IsReadOnly() {
		return fmt.Errorf("cannot write: charm kv is locked by another process")
	}
	if err := r.kv.Set(memoryKey(subject), data); err != nil {
		return fmt.Errorf("set memory document: %w", err)
	}
	if err := r.kv.Sync(); err != nil {
		return fmt.Errorf("sync charm kv: %w", err)
	}
	return nil
}

// Delete removes the subject's durable document. Deleting an absent
// document is a no-op, so Clear stays idempotent.
func (r *Remote) Delete(ctx context.Context, subject string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.kv.IsReadOnly() {
		return fmt.Errorf("cannot delete: charm kv is locked by another process")
	}
	if err := r.kv.Delete(memoryKey(subject)); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("delete memory document: %w", err)
	}
	if err := r.kv.Sync(); err != nil {
		return fmt.Errorf("sync charm kv: %w", err)
	}
	return nil
}
