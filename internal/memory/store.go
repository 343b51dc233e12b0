// ABOUTME: Memory persistence: synchronous local cache, best-effort remote store.
// ABOUTME: Reads race the remote against a timeout and fall back to cache.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harperreed/insight/internal/models"
)

// DefaultReadTimeout bounds how long a load waits on the remote store
// before falling back to the local cache.
const DefaultReadTimeout = 2500 * time.Millisecond

// Cache is the fast device-local store: one slot per subject,
// last-writer-wins, written synchronously.
type Cache interface {
	Load(subject string) (*models.Memory, error)
	Store(subject string, m *models.Memory) error
	Clear(subject string) error
}

// Remote is the durable document store. Save replaces the subject's
// document wholesale; there is no field-level merge.
type Remote interface {
	Fetch(ctx context.Context, subject string) (*models.Memory, error)
	Save(ctx context.Context, subject string, m *models.Memory) error
	Delete(ctx context.Context, subject string) error
}

// Store coordinates the cache and the remote under the engine's
// persistence policy. A nil remote is the valid unauthenticated state:
// everything degrades to cache-only.
type Store struct {
	cache   Cache
	remote  Remote
	timeout time.Duration
	logger  *log.Logger

	wg sync.WaitGroup
}

// NewStore builds a Store. remote may be nil.
func NewStore(cache Cache, remote Remote, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		cache:   cache,
		remote:  remote,
		timeout: DefaultReadTimeout,
		logger:  logger,
	}
}

// Load returns the freshest Memory it can get. The remote fetch races a
// fixed timeout; exactly one of {remote success, fallback} wins and the
// loser is discarded. On any remote failure the local cache answers, and
// a remote success also refreshes the cache. Returns nil when the
// subject has no memory anywhere; a result may be up to one update cycle
// stale.
func (s *Store) Load(ctx context.Context, subject string) *models.Memory {
	if s.remote != nil {
		type fetched struct {
			m   *models.Memory
			err error
		}
		// Buffered so a losing fetch can finish and be dropped.
		ch := make(chan fetched, 1)
		fctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		go func() {
			m, err := s.remote.Fetch(fctx, subject)
			ch <- fetched{m: m, err: err}
		}()

		select {
		case r := <-ch:
			if r.err == nil && r.m != nil {
				if err := s.cache.Store(subject, r.m); err != nil {
					s.logger.Warn("refresh cache from remote", "subject", subject, "err", err)
				}
				return r.m
			}
			if r.err != nil {
				s.logger.Warn("remote read failed, using cache", "subject", subject, "err", r.err)
			}
		case <-fctx.Done():
			s.logger.Warn("remote read timed out, using cache", "subject", subject)
		}
	}

	m, err := s.cache.Load(subject)
	if err != nil {
		s.logger.Warn("cache read failed", "subject", subject, "err", err)
		return nil
	}
	return m
}

// Save writes the Memory to the local cache synchronously, then pushes
// it to the remote fire-and-forget. A lost remote write degrades future
// personalization but never fails the update: the only error a caller
// can see is a cache write failure.
func (s *Store) Save(ctx context.Context, subject string, m *models.Memory) error {
	if err := s.cache.Store(subject, m); err != nil {
		return fmt.Errorf("cache memory: %w", err)
	}

	if s.remote == nil {
		return nil
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		wctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.remote.Save(wctx, subject, m); err != nil {
			s.logger.Warn("remote write dropped", "subject", subject, "err", err)
		}
	}()
	return nil
}

// Clear removes the subject's cache entry and durable document.
// Idempotent: clearing an already-clear subject is a no-op.
func (s *Store) Clear(ctx context.Context, subject string) error {
	if err := s.cache.Clear(subject); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	if s.remote != nil {
		if err := s.remote.Delete(ctx, subject); err != nil {
			s.logger.Warn("remote delete failed", "subject", subject, "err", err)
		}
	}
	return nil
}

// Flush waits for in-flight remote writes. Call before process exit.
func (s *Store) Flush() {
	s.wg.Wait()
}

// Encode serializes a Memory document for storage.
func Encode(m *models.Memory) ([]byte, error) {
	return json.Marshal(m)
}

// Decode parses a stored Memory document, checking the schema version
// before trusting the rest of the shape.
func Decode(data []byte) (*models.Memory, error) {
	var probe struct {
		SchemaVersion int `json:"schema_version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse memory document: %w", err)
	}
	if probe.SchemaVersion > models.MemorySchemaVersion {
		return nil, fmt.Errorf("memory schema version %d is newer than supported %d",
			probe.SchemaVersion, models.MemorySchemaVersion)
	}

	var m models.Memory
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse memory document: %w", err)
	}
	return &m, nil
}
