// Package snapshot reads registry snapshots that a host agent publishes to
// Redis, and publishes them on the agent's behalf.
//
// Each registry lives in one hash, <prefix>:<kind>, whose fields are
// fully-qualified function names and whose values are JSON records:
//
//	{"doc": "...", "argspec": {"args": [...], "defaults": [...], "varargs": null, "kwargs": "kwargs"}}
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lrevnic/salt/internal/registry"
)

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	// Addr is the Redis server address (host:port)
	Addr string
	// Password is the Redis password (optional)
	Password string
	// DB is the Redis database number
	DB int
	// Prefix is prepended to every registry hash key
	Prefix string
}

// DefaultRedisConfig returns a default Redis configuration
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:   "localhost:6379",
		DB:     0,
		Prefix: "sysmod",
	}
}

type record struct {
	Doc     string           `json:"doc"`
	ArgSpec registry.ArgSpec `json:"argspec"`
}

// Store reads and writes registry hashes.
type Store struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewStore connects to Redis and verifies the connection.
func NewStore(ctx context.Context, config RedisConfig, logger *zap.Logger) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", config.Addr, err)
	}

	return NewStoreWithClient(client, config.Prefix, logger), nil
}

// NewStoreWithClient creates a Store with an existing client
func NewStoreWithClient(client *redis.Client, prefix string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if prefix == "" {
		prefix = DefaultRedisConfig().Prefix
	}
	return &Store{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

// Key returns the hash key holding the registry of kind.
func (s *Store) Key(kind registry.Kind) string {
	return s.prefix + ":" + string(kind)
}

// Provider returns a registry.Provider that reads the hash of kind with one
// HGETALL per snapshot. A hash that does not exist means the host agent has
// not published yet and is reported as unavailable.
func (s *Store) Provider(kind registry.Kind) registry.Provider {
	return registry.ProviderFunc(func(ctx context.Context) (*registry.Registry, error) {
		return s.Snapshot(ctx, kind)
	})
}

// Snapshot reads the current registry of kind.
func (s *Store) Snapshot(ctx context.Context, kind registry.Kind) (*registry.Registry, error) {
	key := s.Key(kind)

	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, registry.Unavailable(kind, "redis "+key, err)
	}
	if len(fields) == 0 {
		return nil, registry.Unavailable(kind, fmt.Sprintf("hash %s has not been published", key), nil)
	}

	entries := make(map[string]registry.Descriptor, len(fields))
	for name, raw := range fields {
		var rec record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, registry.Unavailable(kind, fmt.Sprintf("invalid record for %q in %s", name, key), err)
		}
		entries[name] = registry.Function{Doc: rec.Doc, Spec: rec.ArgSpec}
	}

	reg, err := registry.New(kind, entries)
	if err != nil {
		return nil, registry.Unavailable(kind, "redis "+key, err)
	}
	s.logger.Debug("registry snapshot read",
		zap.String("key", key),
		zap.Int("functions", reg.Len()))
	return reg, nil
}

// Publish replaces the hash of reg's kind with the contents of reg in one
// transaction. Publishing an empty registry removes the hash, which readers
// then report as unavailable.
func (s *Store) Publish(ctx context.Context, reg *registry.Registry) error {
	values := make(map[string]any, reg.Len())
	var encodeErr error
	reg.Each(func(name string, desc registry.Descriptor) {
		if encodeErr != nil {
			return
		}
		data, err := json.Marshal(record{Doc: desc.Documentation(), ArgSpec: desc.ArgSpec()})
		if err != nil {
			encodeErr = fmt.Errorf("failed to encode %q: %w", name, err)
			return
		}
		values[name] = string(data)
	})
	if encodeErr != nil {
		return encodeErr
	}

	key := s.Key(reg.Kind())
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			pipe.HSet(ctx, key, values)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", key, err)
	}

	s.logger.Info("registry published",
		zap.String("key", key),
		zap.Int("functions", len(values)))
	return nil
}

// Close closes the Redis client
func (s *Store) Close() error {
	return s.client.Close()
}
