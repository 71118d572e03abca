package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultChecksumsKey = "namada-indexer:checksums"

// SnapshotStore keeps the last known code checksum table in a Redis hash.
type SnapshotStore struct {
	client *redis.Client
	key    string
}

func NewSnapshotStore(url string) (*SnapshotStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &SnapshotStore{client: client, key: defaultChecksumsKey}, nil
}

// NewSnapshotStoreFromClient wraps an existing client. An empty key selects
// the default hash key.
func NewSnapshotStoreFromClient(client *redis.Client, key string) *SnapshotStore {
	if key == "" {
		key = defaultChecksumsKey
	}
	return &SnapshotStore{client: client, key: key}
}

func (s *SnapshotStore) Close() error {
	return s.client.Close()
}

// SaveChecksums replaces the stored table. Readers never observe a partial
// table because the delete and the write run in one MULTI/EXEC.
func (s *SnapshotStore) SaveChecksums(ctx context.Context, seed map[string]string) error {
	values := make(map[string]any, len(seed))
	for name, hash := range seed {
		values[name] = hash
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(values) > 0 {
			pipe.HSet(ctx, s.key, values)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save checksums snapshot: %w", err)
	}
	return nil
}

// LoadChecksums returns the stored table, or an empty map when none was saved.
func (s *SnapshotStore) LoadChecksums(ctx context.Context) (map[string]string, error) {
	seed, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("load checksums snapshot: %w", err)
	}
	return seed, nil
}
