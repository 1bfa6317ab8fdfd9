// Package registry defines the read-only snapshot model that the sys
// introspection layer queries.
//
// # Overview
//
// A host agent keeps two function registries: the execution registry
// (imperative functions such as "pkg.install") and the state registry
// (declarative functions such as "service.running"). Both use dotted
// "module.function" names. This package does not populate either registry;
// a Provider hands out an immutable Registry snapshot and the query layer
// reads it.
//
// # Core Types
//
//   - Registry: immutable name -> Descriptor mapping for one Kind
//   - Descriptor: capability interface exposing documentation and an ArgSpec
//   - ArgSpec: static signature metadata (args, defaults, varargs, kwargs)
//   - Provider: source of snapshots; returns *UnavailableError when the
//     host agent has not finished its own setup
//
// # Namespace Matching
//
// Matches implements the separator-aware prefix rule shared by every
// listing and filtering operation:
//
//	registry.Matches("sys", "sys.reload")  // true
//	registry.Matches("sys", "sysctl.get")  // false
//	registry.Matches("sys.", "sys.doc")    // true
//	registry.Matches("", "anything")       // true
package registry
