// Package agent wires the registry providers a host agent exposes into a
// query engine. It is the only place that knows where registries come from.
package agent

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lrevnic/salt/internal/manifest"
	"github.com/lrevnic/salt/internal/registry"
	"github.com/lrevnic/salt/internal/snapshot"
	"github.com/lrevnic/salt/internal/sysmod"
)

// Registry sources.
const (
	SourceManifest = "manifest"
	SourceRedis    = "redis"
)

// Options are the host options that decide where each registry is read from.
type Options struct {
	Source        string
	ExecutionDirs []string
	// StateDirs must be set for the state registry to be available from
	// manifests.
	StateDirs []string
	Redis     snapshot.RedisConfig
}

// Host owns the providers of one host agent and the engine built on them.
type Host struct {
	Engine *sysmod.Engine

	store *snapshot.Store
}

// Open builds the providers described by opts. Connection problems are not
// reported here; they surface as unavailable-registry errors on query.
func Open(opts Options, logger *zap.Logger) (*Host, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		execution registry.Provider
		state     registry.Provider
		store     *snapshot.Store
	)

	switch opts.Source {
	case SourceManifest, "":
		execution = manifest.NewProvider(registry.Execution, opts.ExecutionDirs, logger)
		if len(opts.StateDirs) > 0 {
			state = manifest.NewProvider(registry.State, opts.StateDirs, logger)
		} else {
			logger.Debug("state registry has no host options; state queries will be unavailable")
		}
	case SourceRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     opts.Redis.Addr,
			Password: opts.Redis.Password,
			DB:       opts.Redis.DB,
		})
		store = snapshot.NewStoreWithClient(client, opts.Redis.Prefix, logger)
		execution = store.Provider(registry.Execution)
		state = store.Provider(registry.State)
	default:
		return nil, fmt.Errorf("unknown registry source %q", opts.Source)
	}

	return &Host{
		Engine: sysmod.New(execution, state, sysmod.WithLogger(logger)),
		store:  store,
	}, nil
}

// Close releases connections held by the providers.
func (h *Host) Close() error {
	if h.store != nil {
		return h.store.Close()
	}
	return nil
}
