// Package store holds generated report artifacts under opaque keys until
// they are fetched or expire.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned for keys that never existed or have expired.
var ErrNotFound = errors.New("artifact not found")

// StorageError wraps a backing-medium failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("artifact storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// EntryInfo is a read-only view of a live artifact for diagnostics.
type EntryInfo struct {
	Key        string `json:"key"`
	Format     string `json:"format"`
	Size       int    `json:"size"`
	AgeSeconds int64  `json:"age_seconds"`
}

// Store is a key-addressed artifact store with a fixed TTL.
//
// Put never reuses a key; Get treats expired entries as absent even if the
// janitor has not evicted them yet. EvictExpired is idempotent and safe to
// call concurrently with reads.
type Store interface {
	Put(ctx context.Context, payload []byte, format string) (string, error)
	Get(ctx context.Context, key string) ([]byte, string, error)
	Inspect(ctx context.Context) ([]EntryInfo, error)
	EvictExpired(ctx context.Context) (int, error)
	TTL() time.Duration
	Close() error
}

func ageSeconds(createdAt, now time.Time) int64 {
	return int64(now.Sub(createdAt) / time.Second)
}
