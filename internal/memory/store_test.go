// ABOUTME: Tests for the cache/remote persistence coordinator.
// ABOUTME: Uses in-memory fakes to exercise fallback, races, and fire-and-forget.
package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/harperreed/insight/internal/models"
)

type fakeCache struct {
	mu       sync.Mutex
	data     map[string]*models.Memory
	loadErr  error
	storeErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]*models.Memory)}
}

func (c *fakeCache) Load(subject string) (*models.Memory, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loadErr != nil {
		return nil, c.loadErr
	}
	return c.data[subject], nil
}

func (c *fakeCache) Store(subject string, m *models.Memory) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.storeErr != nil {
		return c.storeErr
	}
	c.data[subject] = m
	return nil
}

func (c *fakeCache) Clear(subject string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, subject)
	return nil
}

type fakeRemote struct {
	mu       sync.Mutex
	data     map[string]*models.Memory
	fetchErr error
	saveErr  error
	delay    time.Duration
	saves    int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{data: make(map[string]*models.Memory)}
}

func (r *fakeRemote) Fetch(ctx context.Context, subject string) (*models.Memory, error) {
	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	return r.data[subject], nil
}

func (r *fakeRemote) Save(ctx context.Context, subject string, m *models.Memory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.data[subject] = m
	return nil
}

func (r *fakeRemote) Delete(ctx context.Context, subject string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, subject)
	return nil
}

func memWithCount(n int) *models.Memory {
	m := models.NewMemory(testNow)
	m.InteractionCount = n
	return m
}

func TestLoadPrefersRemoteAndRefreshesCache(t *testing.T) {
	cache := newFakeCache()
	remote := newFakeRemote()
	cache.data["s"] = memWithCount(1)
	remote.data["s"] = memWithCount(5)

	s := NewStore(cache, remote, nil)
	got := s.Load(context.Background(), "s")

	if got == nil || got.InteractionCount != 5 {
		t.Fatalf("Expected the remote copy (count 5), got %+v", got)
	}
	if cache.data["s"].InteractionCount != 5 {
		t.Errorf("Remote success should refresh the cache, cache has count %d",
			cache.data["s"].InteractionCount)
	}
}

func TestLoadFallsBackToCacheOnRemoteError(t *testing.T) {
	cache := newFakeCache()
	remote := newFakeRemote()
	cache.data["s"] = memWithCount(3)
	remote.fetchErr = errors.New("network down")

	s := NewStore(cache, remote, nil)
	got := s.Load(context.Background(), "s")

	if got == nil || got.InteractionCount != 3 {
		t.Fatalf("Expected the cached copy (count 3), got %+v", got)
	}
}

func TestLoadFallsBackToCacheOnTimeout(t *testing.T) {
	cache := newFakeCache()
	remote := newFakeRemote()
	cache.data["s"] = memWithCount(2)
	remote.data["s"] = memWithCount(9)
	remote.delay = time.Second

	s := NewStore(cache, remote, nil)
	s.timeout = 10 * time.Millisecond

	got := s.Load(context.Background(), "s")
	if got == nil || got.InteractionCount != 2 {
		t.Fatalf("A slow remote must lose to the cache, got %+v", got)
	}
}

func TestLoadRemoteEmptyFallsBackToCache(t *testing.T) {
	cache := newFakeCache()
	remote := newFakeRemote()
	cache.data["s"] = memWithCount(4)

	s := NewStore(cache, remote, nil)
	got := s.Load(context.Background(), "s")
	if got == nil || got.InteractionCount != 4 {
		t.Fatalf("Expected the cached copy when the remote has no document, got %+v", got)
	}
}

func TestLoadNothingAnywhere(t *testing.T) {
	s := NewStore(newFakeCache(), nil, nil)
	if got := s.Load(context.Background(), "s"); got != nil {
		t.Errorf("Expected nil for an unknown subject, got %+v", got)
	}
}

func TestSaveWritesCacheThenRemote(t *testing.T) {
	cache := newFakeCache()
	remote := newFakeRemote()
	s := NewStore(cache, remote, nil)

	if err := s.Save(context.Background(), "s", memWithCount(7)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	s.Flush()

	if cache.data["s"] == nil || cache.data["s"].InteractionCount != 7 {
		t.Error("Cache write should be synchronous")
	}
	remote.mu.Lock()
	defer remote.mu.Unlock()
	if remote.data["s"] == nil || remote.data["s"].InteractionCount != 7 {
		t.Error("Remote write should land after Flush")
	}
}

func TestSaveRemoteFailureIsSilent(t *testing.T) {
	cache := newFakeCache()
	remote := newFakeRemote()
	remote.saveErr = errors.New("quota exceeded")
	s := NewStore(cache, remote, nil)

	if err := s.Save(context.Background(), "s", memWithCount(1)); err != nil {
		t.Fatalf("A dropped remote write must not fail the save: %v", err)
	}
	s.Flush()

	if cache.data["s"] == nil {
		t.Error("Cache write should still have happened")
	}
}

func TestSaveCacheFailureIsFatal(t *testing.T) {
	cache := newFakeCache()
	cache.storeErr = errors.New("disk full")
	s := NewStore(cache, newFakeRemote(), nil)

	if err := s.Save(context.Background(), "s", memWithCount(1)); err == nil {
		t.Fatal("Expected an error when the cache write fails")
	}
}

func TestSaveWithoutRemote(t *testing.T) {
	cache := newFakeCache()
	s := NewStore(cache, nil, nil)

	if err := s.Save(context.Background(), "s", memWithCount(2)); err != nil {
		t.Fatalf("Cache-only save failed: %v", err)
	}
	s.Flush()
	if cache.data["s"] == nil {
		t.Error("Expected the memory in cache")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	cache := newFakeCache()
	remote := newFakeRemote()
	cache.data["s"] = memWithCount(1)
	remote.data["s"] = memWithCount(1)
	s := NewStore(cache, remote, nil)

	for i := 0; i < 2; i++ {
		if err := s.Clear(context.Background(), "s"); err != nil {
			t.Fatalf("Clear #%d failed: %v", i+1, err)
		}
	}
	if cache.data["s"] != nil || remote.data["s"] != nil {
		t.Error("Expected both stores empty after Clear")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := Update(nil, baseInput(62))

	data, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if diff := cmp.Diff(m, got); diff != "" {
		t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsNewerSchema(t *testing.T) {
	if _, err := Decode([]byte(`{"schema_version": 99}`)); err == nil {
		t.Error("Expected an error for a newer schema version")
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	if _, err := Decode([]byte(`{not json`)); err == nil {
		t.Error("Expected an error for malformed JSON")
	}
}
