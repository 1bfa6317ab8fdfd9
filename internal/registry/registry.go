package registry

import (
	"fmt"
	"sort"
)

// Kind identifies which of the host agent's registries a snapshot belongs to.
type Kind string

const (
	// Execution is the registry of imperative execution functions.
	Execution Kind = "execution"
	// State is the registry of declarative state functions.
	State Kind = "state"
)

// Descriptor is the metadata capability every registry entry exposes.
// Implementations must not invoke the underlying function to answer.
type Descriptor interface {
	Documentation() string
	ArgSpec() ArgSpec
}

// Function is the plain Descriptor used by the in-repo providers.
type Function struct {
	Doc  string
	Spec ArgSpec
}

// Documentation returns the raw, un-normalized docstring.
func (f Function) Documentation() string { return f.Doc }

// ArgSpec returns a copy of the signature metadata.
func (f Function) ArgSpec() ArgSpec { return f.Spec.Clone() }

// Registry is an immutable snapshot of one registry. It is safe for
// concurrent readers because nothing mutates it after New returns.
type Registry struct {
	kind    Kind
	entries map[string]Descriptor
	names   []string
}

// New builds a snapshot from entries. The map is copied; nil descriptors
// are rejected since every entry must answer metadata queries.
func New(kind Kind, entries map[string]Descriptor) (*Registry, error) {
	r := &Registry{
		kind:    kind,
		entries: make(map[string]Descriptor, len(entries)),
		names:   make([]string, 0, len(entries)),
	}
	for name, desc := range entries {
		if name == "" {
			return nil, fmt.Errorf("%s registry: empty function name", kind)
		}
		if desc == nil {
			return nil, fmt.Errorf("%s registry: nil descriptor for %q", kind, name)
		}
		r.entries[name] = desc
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r, nil
}

// Kind returns the registry kind.
func (r *Registry) Kind() Kind { return r.kind }

// Len returns the number of entries.
func (r *Registry) Len() int { return len(r.entries) }

// Names returns every fully-qualified name in lexicographic order.
// The slice is a copy.
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	desc, ok := r.entries[name]
	return desc, ok
}

// Each calls fn for every entry in name order.
func (r *Registry) Each(fn func(name string, desc Descriptor)) {
	for _, name := range r.names {
		fn(name, r.entries[name])
	}
}
