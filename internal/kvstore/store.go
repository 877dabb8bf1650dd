// Package kvstore wraps the Redis connection with typed save/get/list/delete
// operations on flat records and append-only stream publishing.
//
// Records are stored as hashes under "namespace:id" keys; streams receive
// immutable entries via XADD.
package kvstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store is the shared key-value store handle. Construct it once in main and
// Close it on shutdown.
type Store struct {
	client *redis.Client
}

// New connects to the store at addr with the given credentials.
func New(addr, password string, db int) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// NewWithClient wraps an existing client. Used by tests to point the store
// at an in-process Redis.
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Ping verifies the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}

// Save assigns a fresh id to the record, writes its fields under
// "namespace:id" and returns the id.
func (s *Store) Save(ctx context.Context, namespace string, fields map[string]string) (string, error) {
	id := uuid.NewString()
	if err := s.SaveID(ctx, namespace, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

// SaveID writes the record fields under "namespace:id", overwriting any
// previous value. Used for full-record updates such as status transitions.
func (s *Store) SaveID(ctx context.Context, namespace, id string, fields map[string]string) error {
	if err := s.client.HSet(ctx, key(namespace, id), fields).Err(); err != nil {
		return fmt.Errorf("save %s:%s: %w", namespace, id, err)
	}
	return nil
}

// Get reads the record stored under "namespace:id". Returns (nil, nil) when
// the key does not exist; absence is not an error.
func (s *Store) Get(ctx context.Context, namespace, id string) (map[string]string, error) {
	fields, err := s.client.HGetAll(ctx, key(namespace, id)).Result()
	if err != nil {
		return nil, fmt.Errorf("get %s:%s: %w", namespace, id, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return fields, nil
}

// ListIDs scans all keys under the namespace prefix and returns their ids.
// Order is unspecified.
func (s *Store) ListIDs(ctx context.Context, namespace string) ([]string, error) {
	prefix := namespace + ":"
	var (
		ids    []string
		cursor uint64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", namespace, err)
		}
		for _, k := range keys {
			ids = append(ids, strings.TrimPrefix(k, prefix))
		}
		cursor = next
		if cursor == 0 {
			return ids, nil
		}
	}
}

// Delete removes the record under "namespace:id" and returns the number of
// keys removed (0 or 1).
func (s *Store) Delete(ctx context.Context, namespace, id string) (int64, error) {
	removed, err := s.client.Del(ctx, key(namespace, id)).Result()
	if err != nil {
		return 0, fmt.Errorf("delete %s:%s: %w", namespace, id, err)
	}
	return removed, nil
}

// Publish appends the record to the named stream. No consumer is defined in
// this system; entries are written fire-and-forget for downstream use.
func (s *Store) Publish(ctx context.Context, stream string, fields map[string]string) error {
	err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: fields,
	}).Err()
	if err != nil {
		return fmt.Errorf("publish to %s: %w", stream, err)
	}
	return nil
}

func key(namespace, id string) string {
	return namespace + ":" + id
}
