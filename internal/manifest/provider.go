package manifest

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/lrevnic/salt/internal/registry"
)

// Provider serves a registry loaded from manifest directories. The first
// successful load is kept; failed loads are retried on the next Snapshot.
type Provider struct {
	kind   registry.Kind
	dirs   []string
	logger *zap.Logger

	mu  sync.Mutex
	reg *registry.Registry
}

// NewProvider returns a Provider for kind reading from dirs.
func NewProvider(kind registry.Kind, dirs []string, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		kind:   kind,
		dirs:   append([]string(nil), dirs...),
		logger: logger,
	}
}

// Snapshot implements registry.Provider.
func (p *Provider) Snapshot(ctx context.Context) (*registry.Registry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.reg != nil {
		return p.reg, nil
	}
	reg, err := Load(ctx, p.kind, p.dirs, p.logger)
	if err != nil {
		return nil, err
	}
	p.reg = reg
	return reg, nil
}
