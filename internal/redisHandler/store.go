package redishandler

import (
	"context"
	"errors"
	"sort"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 100

// Store is a kv.Store backed directly by Redis.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.rdb.Set(ctx, key, value, 0).Err()
}

func (s *Store) Del(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

// Keys walks the keyspace with SCAN in batches of scanBatch.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	var cursor uint64
	var batch []string
	var err error
	seen := make(map[string]struct{})
	keys := make([]string, 0)
	for {
		batch, cursor, err = s.rdb.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			return nil, err
		}

		// SCAN may return a key more than once.
		for _, key := range batch {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}

		if cursor == 0 {
			break
		}
	}

	sort.Strings(keys)
	return keys, nil
}
