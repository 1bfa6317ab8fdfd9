package registry

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable is matched by every *UnavailableError via errors.Is.
var ErrUnavailable = errors.New("registry unavailable")

// UnavailableError reports that a registry snapshot could not be obtained,
// typically because the host agent has not populated it yet. It is kept
// distinct from an empty result on purpose: an empty registry and "no
// matches" would otherwise look the same to a caller.
type UnavailableError struct {
	Kind   Kind
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	msg := fmt.Sprintf("%s registry unavailable", e.Kind)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause.
func (e *UnavailableError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrUnavailable) succeed.
func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

// Unavailable is a shorthand constructor.
func Unavailable(kind Kind, reason string, err error) *UnavailableError {
	return &UnavailableError{Kind: kind, Reason: reason, Err: err}
}

// Provider hands out registry snapshots. Implementations own consistency:
// the returned Registry must not change while a caller reads it.
type Provider interface {
	Snapshot(ctx context.Context) (*Registry, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (*Registry, error)

// Snapshot calls f.
func (f ProviderFunc) Snapshot(ctx context.Context) (*Registry, error) { return f(ctx) }

// Static returns a Provider that always yields reg. A nil reg yields an
// unavailable error for kind.
func Static(kind Kind, reg *Registry) Provider {
	return ProviderFunc(func(context.Context) (*Registry, error) {
		if reg == nil {
			return nil, Unavailable(kind, "not initialized", nil)
		}
		return reg, nil
	})
}
