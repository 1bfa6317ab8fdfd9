package registry

import "strings"

// Separator splits the module segment from the function segment.
const Separator = "."

// Prefix returns the prefix a query term selects. An empty term selects
// everything and a term already ending in the separator is used as-is.
func Prefix(term string) string {
	if term == "" || strings.HasSuffix(term, Separator) {
		return term
	}
	return term + Separator
}

// Matches reports whether name belongs to the namespace identified by term.
// Exact full-name matches succeed without a trailing separator, so "sys"
// matches "sys" and "sys.doc" but not "sysctl.get".
func Matches(term, name string) bool {
	if name == term {
		return true
	}
	return strings.HasPrefix(name, Prefix(term))
}

// ModuleOf returns the text before the first separator. ok is false for
// names that carry no separator.
func ModuleOf(name string) (module string, ok bool) {
	module, _, ok = strings.Cut(name, Separator)
	return module, ok
}
