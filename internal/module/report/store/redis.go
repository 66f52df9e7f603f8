package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// redisEnvelope is the stored value for one artifact.
type redisEnvelope struct {
	Payload   []byte `json:"payload"`
	Format    string `json:"format"`
	CreatedAt int64  `json:"created_at"` // unix seconds
}

// RedisStore keeps artifacts in Redis with the TTL applied server-side,
// so expiry needs no janitor pass.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed artifact store. The client is owned
// by the caller and is not closed by the store.
func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "report:"
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Put stores the payload under a fresh key and returns the key.
func (s *RedisStore) Put(ctx context.Context, payload []byte, format string) (string, error) {
	key := uuid.NewString()

	data, err := json.Marshal(redisEnvelope{
		Payload:   payload,
		Format:    format,
		CreatedAt: time.Now().Unix(),
	})
	if err != nil {
		return "", &StorageError{Op: "put", Err: err}
	}

	if err := s.client.Set(ctx, s.prefix+key, data, s.ttl).Err(); err != nil {
		return "", &StorageError{Op: "put", Err: err}
	}
	return key, nil
}

// Get returns the payload and format for a live key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, "", ErrNotFound
		}
		return nil, "", &StorageError{Op: "get", Err: err}
	}

	var env redisEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, "", &StorageError{Op: "get", Err: err}
	}
	return env.Payload, env.Format, nil
}

// Inspect returns a snapshot of all live entries under the store prefix.
func (s *RedisStore) Inspect(ctx context.Context) ([]EntryInfo, error) {
	var infos []EntryInfo
	now := time.Now()

	var cursor uint64
	for {
		keys, nextCursor, err := s.client.Scan(ctx, cursor, s.prefix+"*", 100).Result()
		if err != nil {
			return nil, &StorageError{Op: "inspect", Err: err}
		}

		for _, fullKey := range keys {
			data, err := s.client.Get(ctx, fullKey).Bytes()
			if err != nil {
				if err == redis.Nil {
					continue // expired between scan and get
				}
				return nil, &StorageError{Op: "inspect", Err: err}
			}

			var env redisEnvelope
			if err := json.Unmarshal(data, &env); err != nil {
				continue
			}
			infos = append(infos, EntryInfo{
				Key:        fullKey[len(s.prefix):],
				Format:     env.Format,
				Size:       len(env.Payload),
				AgeSeconds: ageSeconds(time.Unix(env.CreatedAt, 0), now),
			})
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return infos, nil
}

// EvictExpired is a no-op: Redis expires entries server-side via the key
// TTL set on Put.
func (s *RedisStore) EvictExpired(context.Context) (int, error) {
	return 0, nil
}

// TTL returns the configured time-to-live.
func (s *RedisStore) TTL() time.Duration {
	return s.ttl
}

// Close is a no-op; the Redis client belongs to the application.
func (s *RedisStore) Close() error {
	return nil
}
