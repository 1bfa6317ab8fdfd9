package registry

import "encoding/json"

// ArgSpec is the static signature of a registry function. Defaults align
// with the trailing entries of Args: with Args [a b c] and Defaults [1 2],
// b defaults to 1 and c to 2.
type ArgSpec struct {
	Args     []string
	Defaults []any
	Varargs  string // name of the variadic positional parameter, if any
	Kwargs   string // name of the keyword catch-all parameter, if any
}

type argSpecJSON struct {
	Args     []string `json:"args"`
	Defaults []any    `json:"defaults"`
	Varargs  *string  `json:"varargs"`
	Kwargs   *string  `json:"kwargs"`
}

// MarshalJSON encodes missing varargs/kwargs as null and empty lists as [].
func (s ArgSpec) MarshalJSON() ([]byte, error) {
	out := argSpecJSON{
		Args:     s.Args,
		Defaults: s.Defaults,
	}
	if out.Args == nil {
		out.Args = []string{}
	}
	if out.Defaults == nil {
		out.Defaults = []any{}
	}
	if s.Varargs != "" {
		out.Varargs = &s.Varargs
	}
	if s.Kwargs != "" {
		out.Kwargs = &s.Kwargs
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (s *ArgSpec) UnmarshalJSON(data []byte) error {
	var in argSpecJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = ArgSpec{Args: in.Args, Defaults: in.Defaults}
	if in.Varargs != nil {
		s.Varargs = *in.Varargs
	}
	if in.Kwargs != nil {
		s.Kwargs = *in.Kwargs
	}
	return nil
}

// Clone returns a copy whose slices do not alias s.
func (s ArgSpec) Clone() ArgSpec {
	c := s
	if s.Args != nil {
		c.Args = append([]string(nil), s.Args...)
	}
	if s.Defaults != nil {
		c.Defaults = append([]any(nil), s.Defaults...)
	}
	return c
}

// Default returns the default value of the named argument.
func (s ArgSpec) Default(arg string) (any, bool) {
	offset := len(s.Args) - len(s.Defaults)
	for i, name := range s.Args {
		if name == arg && i >= offset {
			return s.Defaults[i-offset], true
		}
	}
	return nil, false
}

// ArgspecReport returns the signature metadata of every function in reg that
// matches module. An empty module reports the whole registry. Only
// Descriptor.ArgSpec is consulted, so no function is ever invoked.
func ArgspecReport(reg *Registry, module string) map[string]ArgSpec {
	report := make(map[string]ArgSpec)
	reg.Each(func(name string, desc Descriptor) {
		if Matches(module, name) {
			report[name] = desc.ArgSpec()
		}
	})
	return report
}
