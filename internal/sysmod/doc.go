// Package sysmod implements the "sys" query operations over the host agent's
// execution and state registries.
//
// The Engine never loads, reloads or calls registry functions. Each
// operation takes one snapshot from the relevant registry.Provider, applies
// the namespace matcher from package registry and aggregates the result:
//
//	doc [names...]                 -> map of name to normalized docstring
//	state_doc [names...]           -> same, for the state registry
//	list_functions [names...]      -> sorted, deduplicated names
//	list_state_functions [names...]
//	list_modules                   -> sorted distinct module segments
//	list_state_modules
//	argspec [module]               -> map of name to registry.ArgSpec
//	reload_modules                 -> always true
//
// Zero matches are never an error. The only failure is a provider that
// cannot produce a snapshot, reported as *registry.UnavailableError.
package sysmod
