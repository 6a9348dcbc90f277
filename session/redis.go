package session

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// keyPrefix namespaces session records in Redis.
	keyPrefix = "converse:session:"

	// indexKey is the set of live session IDs.
	indexKey = "converse:sessions"
)

// RedisOptions configures the Redis connection for a RedisStore.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379").
	URL string

	// TLS configuration for secure connections.
	TLS *tls.Config

	// TTL is the per-record expiry. Zero means records never expire.
	TTL time.Duration

	// ConnectTimeout is the maximum time to wait for connection establishment.
	ConnectTimeout time.Duration
}

// RedisStore implements Store using go-redis/v9. Records live under
// converse:session:<id> with an index set for listing.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a session store backed by the Redis instance at
// opts.URL and verifies the connection with a ping.
func NewRedisStore(opts RedisOptions) (*RedisStore, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("session: parse redis url: %w", err)
	}
	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("session: connect to redis: %w", err)
	}

	return &RedisStore{client: client, ttl: opts.TTL}, nil
}

// Save stores the record, overwriting any previous record with the same ID.
func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	if err := validateID(rec.ID); err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session: marshal record %s: %w", rec.ID, err)
	}

	if err := s.client.Set(ctx, keyPrefix+rec.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: save %s: %w", rec.ID, err)
	}
	if err := s.client.SAdd(ctx, indexKey, rec.ID).Err(); err != nil {
		return fmt.Errorf("session: index %s: %w", rec.ID, err)
	}
	return nil
}

// Load returns the record stored under id.
func (s *RedisStore) Load(ctx context.Context, id string) (Record, error) {
	if err := validateID(id); err != nil {
		return Record{}, err
	}

	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Record{}, fmt.Errorf("session: load %s: %w", id, err)
	}

	return decodeRecord(data, id)
}

// Delete removes the record stored under id. Deleting an unknown ID is not
// an error.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("session: delete %s: %w", id, err)
	}
	if err := s.client.SRem(ctx, indexKey, id).Err(); err != nil {
		return fmt.Errorf("session: unindex %s: %w", id, err)
	}
	return nil
}

// List returns the IDs of all live sessions. IDs whose records have
// expired are dropped from the index as a side effect.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("session: list: %w", err)
	}

	live := make([]string, 0, len(ids))
	for _, id := range ids {
		n, err := s.client.Exists(ctx, keyPrefix+id).Result()
		if err != nil {
			return nil, fmt.Errorf("session: list: %w", err)
		}
		if n == 0 {
			_ = s.client.SRem(ctx, indexKey, id).Err()
			continue
		}
		live = append(live, id)
	}
	return live, nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
