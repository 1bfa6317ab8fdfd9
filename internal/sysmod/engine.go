package sysmod

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/lrevnic/salt/internal/docstring"
	"github.com/lrevnic/salt/internal/registry"
)

// Engine answers introspection queries against registry snapshots.
// It holds no state between calls and is safe for concurrent use.
type Engine struct {
	execution registry.Provider
	state     registry.Provider
	normalize func(string) string
	logger    *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug tracing of queries.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithNormalizer replaces the documentation normalizer.
func WithNormalizer(fn func(string) string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.normalize = fn
		}
	}
}

// New creates an Engine over the given providers. A nil provider is allowed
// and makes every query against that registry fail as unavailable.
func New(execution, state registry.Provider, opts ...Option) *Engine {
	e := &Engine{
		execution: execution,
		state:     state,
		normalize: docstring.Strip,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Doc returns the normalized documentation of execution functions matching
// any of terms, or of every function when no term is given.
func (e *Engine) Doc(ctx context.Context, terms ...string) (map[string]string, error) {
	reg, err := e.snapshot(ctx, registry.Execution)
	if err != nil {
		return nil, err
	}
	return e.document(reg, terms), nil
}

// StateDoc is Doc for the state registry.
func (e *Engine) StateDoc(ctx context.Context, terms ...string) (map[string]string, error) {
	reg, err := e.snapshot(ctx, registry.State)
	if err != nil {
		return nil, err
	}
	return e.document(reg, terms), nil
}

// ListFunctions returns the sorted execution function names matching any of
// terms, or every name when no term is given.
func (e *Engine) ListFunctions(ctx context.Context, terms ...string) ([]string, error) {
	reg, err := e.snapshot(ctx, registry.Execution)
	if err != nil {
		return nil, err
	}
	return e.listNames(reg, terms), nil
}

// ListStateFunctions is ListFunctions for the state registry.
func (e *Engine) ListStateFunctions(ctx context.Context, terms ...string) ([]string, error) {
	reg, err := e.snapshot(ctx, registry.State)
	if err != nil {
		return nil, err
	}
	return e.listNames(reg, terms), nil
}

// ListModules returns the sorted distinct modules of the execution registry.
func (e *Engine) ListModules(ctx context.Context) ([]string, error) {
	reg, err := e.snapshot(ctx, registry.Execution)
	if err != nil {
		return nil, err
	}
	return listModules(reg), nil
}

// ListStateModules returns the sorted distinct modules of the state registry.
func (e *Engine) ListStateModules(ctx context.Context) ([]string, error) {
	reg, err := e.snapshot(ctx, registry.State)
	if err != nil {
		return nil, err
	}
	return listModules(reg), nil
}

// Argspec reports the argument specification of execution functions
// matching module. Nothing is invoked.
func (e *Engine) Argspec(ctx context.Context, module string) (map[string]registry.ArgSpec, error) {
	reg, err := e.snapshot(ctx, registry.Execution)
	if err != nil {
		return nil, err
	}
	return registry.ArgspecReport(reg, module), nil
}

// ReloadModules acknowledges a reload request. The reload itself belongs to
// the host agent's control path, which intercepts the command before it
// reaches this layer; this method never touches a registry.
func (e *Engine) ReloadModules(ctx context.Context) (bool, error) {
	e.logger.Debug("reload_modules acknowledged")
	return true, nil
}

func (e *Engine) snapshot(ctx context.Context, kind registry.Kind) (*registry.Registry, error) {
	provider := e.execution
	if kind == registry.State {
		provider = e.state
	}
	if provider == nil {
		return nil, registry.Unavailable(kind, "no provider configured", nil)
	}
	reg, err := provider.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, registry.Unavailable(kind, "provider returned no snapshot", nil)
	}
	return reg, nil
}

func (e *Engine) document(reg *registry.Registry, terms []string) map[string]string {
	docs := make(map[string]string)
	if len(terms) == 0 {
		terms = []string{""}
	}
	for _, term := range terms {
		reg.Each(func(name string, desc registry.Descriptor) {
			if registry.Matches(term, name) {
				docs[name] = e.normalize(desc.Documentation())
			}
		})
	}
	e.logger.Debug("doc query",
		zap.String("registry", string(reg.Kind())),
		zap.Strings("terms", terms),
		zap.Int("matches", len(docs)))
	return docs
}

func (e *Engine) listNames(reg *registry.Registry, terms []string) []string {
	if len(terms) == 0 {
		return reg.Names()
	}
	seen := make(map[string]struct{})
	for _, term := range terms {
		reg.Each(func(name string, _ registry.Descriptor) {
			if registry.Matches(term, name) {
				seen[name] = struct{}{}
			}
		})
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	e.logger.Debug("list query",
		zap.String("registry", string(reg.Kind())),
		zap.Strings("terms", terms),
		zap.Int("matches", len(names)))
	return names
}

func listModules(reg *registry.Registry) []string {
	seen := make(map[string]struct{})
	modules := make([]string, 0)
	reg.Each(func(name string, _ registry.Descriptor) {
		mod, ok := registry.ModuleOf(name)
		if !ok {
			return
		}
		if _, dup := seen[mod]; !dup {
			seen[mod] = struct{}{}
			modules = append(modules, mod)
		}
	})
	// name order is not module order: "a-b.x" < "a.y" but "a" < "a-b"
	sort.Strings(modules)
	return modules
}
