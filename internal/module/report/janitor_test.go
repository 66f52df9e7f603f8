package report

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reportd/reportd/internal/module/report/store"
)

// countingStore wraps a memory store and counts eviction passes.
type countingStore struct {
	*store.MemoryStore
	evictions atomic.Int32
}

func (s *countingStore) EvictExpired(ctx context.Context) (int, error) {
	s.evictions.Add(1)
	return s.MemoryStore.EvictExpired(ctx)
}

func TestJanitorEvictsExpiredEntries(t *testing.T) {
	st := &countingStore{MemoryStore: store.NewMemoryStore(10 * time.Millisecond)}

	_, err := st.Put(context.Background(), []byte("%PDF-1.7"), "pdf")
	require.NoError(t, err)

	janitor := NewJanitor(st, 20*time.Millisecond, nil, nil)
	janitor.Start()
	defer janitor.Stop()

	require.Eventually(t, func() bool {
		return st.Len() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestJanitorStopHaltsLoop(t *testing.T) {
	st := &countingStore{MemoryStore: store.NewMemoryStore(time.Hour)}

	janitor := NewJanitor(st, 10*time.Millisecond, nil, nil)
	janitor.Start()

	require.Eventually(t, func() bool {
		return st.evictions.Load() > 0
	}, time.Second, 5*time.Millisecond)

	janitor.Stop()
	after := st.evictions.Load()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, st.evictions.Load(), "no passes may run after Stop")
}
