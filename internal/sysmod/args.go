package sysmod

import "strings"

// SplitArgs separates positional name terms from key=value keyword
// arguments. No operation reads keyword arguments; they are returned so the
// caller can log what was dropped.
func SplitArgs(args []string) (terms []string, kwargs map[string]string) {
	terms = make([]string, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			terms = append(terms, arg)
			continue
		}
		if kwargs == nil {
			kwargs = make(map[string]string)
		}
		kwargs[key] = value
	}
	return terms, kwargs
}
