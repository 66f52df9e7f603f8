package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryEntry is a stored artifact. Payload is written once on Put and
// never mutated, so Get can hand out the slice without copying.
type memoryEntry struct {
	payload   []byte
	format    string
	createdAt time.Time
}

// MemoryStore is the default in-process artifact store. A single mutex
// serializes access; entries older than the TTL are invisible to Get even
// before EvictExpired removes them.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	ttl     time.Duration

	now func() time.Time // overridable in tests
}

// NewMemoryStore creates a memory store with the given TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put stores the payload under a fresh key and returns the key.
func (s *MemoryStore) Put(_ context.Context, payload []byte, format string) (string, error) {
	key := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = &memoryEntry{
		payload:   payload,
		format:    format,
		createdAt: s.now(),
	}
	return key, nil
}

// Get returns the payload and format for a live key. Expired entries are
// removed on read and reported as ErrNotFound, the same as unknown keys.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[key]
	if !ok {
		return nil, "", ErrNotFound
	}
	if s.expired(ent, s.now()) {
		delete(s.entries, key)
		return nil, "", ErrNotFound
	}
	return ent.payload, ent.format, nil
}

// Inspect returns a snapshot of all live entries.
func (s *MemoryStore) Inspect(_ context.Context) ([]EntryInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	infos := make([]EntryInfo, 0, len(s.entries))
	for key, ent := range s.entries {
		if s.expired(ent, now) {
			continue
		}
		infos = append(infos, EntryInfo{
			Key:        key,
			Format:     ent.format,
			Size:       len(ent.payload),
			AgeSeconds: ageSeconds(ent.createdAt, now),
		})
	}
	return infos, nil
}

// EvictExpired removes all entries older than the TTL and returns how many
// were removed.
func (s *MemoryStore) EvictExpired(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, ent := range s.entries {
		if s.expired(ent, now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// TTL returns the configured time-to-live.
func (s *MemoryStore) TTL() time.Duration {
	return s.ttl
}

// Close releases all entries.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*memoryEntry)
	return nil
}

// Len returns the number of entries currently held, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) expired(ent *memoryEntry, now time.Time) bool {
	return now.Sub(ent.createdAt) > s.ttl
}
