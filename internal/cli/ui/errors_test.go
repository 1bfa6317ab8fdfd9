package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		opts     ErrorOptions
		contains []string
		excludes []string
	}{
		{
			name: "basic error",
			opts: ErrorOptions{
				Level:   ErrorLevelError,
				Context: "execution registry unavailable",
				Problem: "not initialized",
				NoColor: true,
			},
			contains: []string{"❌", "EXECUTION REGISTRY UNAVAILABLE: not initialized"},
			excludes: []string{"Did you mean"},
		},
		{
			name: "error with suggestions",
			opts: ErrorOptions{
				Problem:     "'pgk' matched no function.",
				Suggestions: []string{"pkg", "pkgng"},
				NoColor:     true,
			},
			contains: []string{"Did you mean: pkg, pkgng?"},
		},
		{
			name: "error with help commands",
			opts: ErrorOptions{
				Problem:      "bad config",
				HelpCommands: []string{"View config: cat sysmod.yml", "Get help: sysmod --help"},
				NoColor:      true,
			},
			contains: []string{"→ View config: cat sysmod.yml", "→ Get help: sysmod --help"},
		},
		{
			name: "warning without context",
			opts: ErrorOptions{
				Level:   ErrorLevelWarning,
				Problem: "careful",
				NoColor: true,
			},
			contains: []string{"⚠️ careful"},
		},
		{
			name: "info with consequence",
			opts: ErrorOptions{
				Level:       ErrorLevelInfo,
				Problem:     "heads up",
				Consequence: "nothing changed",
				NoColor:     true,
			},
			contains: []string{"ℹ️ heads up", "   nothing changed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatError(tt.opts)
			for _, expected := range tt.contains {
				if !strings.Contains(result, expected) {
					t.Errorf("FormatError() missing %q\nGot:\n%s", expected, result)
				}
			}
			for _, unexpected := range tt.excludes {
				if strings.Contains(result, unexpected) {
					t.Errorf("FormatError() should not contain %q\nGot:\n%s", unexpected, result)
				}
			}
			if strings.Contains(result, "\x1b[") {
				t.Errorf("FormatError() emitted color codes with NoColor set")
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	WriteError(&buf, ErrorOptions{Problem: "boom", NoColor: true})

	if buf.String() != "❌ boom\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestRegistryUnavailableError(t *testing.T) {
	state := RegistryUnavailableError("state", "no provider configured", true)
	for _, expected := range []string{
		"STATE REGISTRY UNAVAILABLE: no provider configured",
		"The state registry has not been loaded by the host agent.",
		"state.dirs",
	} {
		if !strings.Contains(state, expected) {
			t.Errorf("missing %q in:\n%s", expected, state)
		}
	}

	execution := RegistryUnavailableError("execution", "hash sysmod:execution has not been published", true)
	if !strings.Contains(execution, "--source") {
		t.Errorf("expected source hint in:\n%s", execution)
	}
	if strings.Contains(execution, "state.dirs") {
		t.Errorf("execution error should not mention state.dirs:\n%s", execution)
	}
}

func TestConfigError(t *testing.T) {
	result := ConfigError("format must be \"table\" or \"json\", got: xml", true)
	if !strings.Contains(result, "CONFIGURATION ERROR: format must be") {
		t.Errorf("unexpected config error:\n%s", result)
	}
}

func TestNoMatchWarning(t *testing.T) {
	result := NoMatchWarning("systl", []string{"sysctl"}, "list_modules", true)
	for _, expected := range []string{
		"'systl' matched no function.",
		"Did you mean: sysctl?",
		"See all modules: sysmod list_modules",
	} {
		if !strings.Contains(result, expected) {
			t.Errorf("missing %q in:\n%s", expected, result)
		}
	}
}
