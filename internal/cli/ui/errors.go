package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ErrorLevel represents the severity of an error message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Consequence  string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// FormatError creates a standardized error message with suggestions and help commands
//
// Example output:
//
//	❌ STATE REGISTRY UNAVAILABLE: no provider configured
//	   The state registry has not been loaded by the host agent.
//
//	   → Configure state manifests: state.dirs in sysmod.yml
//	   → Get help: sysmod --help
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	var headerColor, bodyColor *color.Color
	var symbol string

	switch opts.Level {
	case ErrorLevelWarning:
		headerColor = newColor(opts.NoColor, color.FgYellow, color.Bold)
		bodyColor = newColor(opts.NoColor, color.FgYellow)
		symbol = "⚠️"
	case ErrorLevelInfo:
		headerColor = newColor(opts.NoColor, color.FgCyan, color.Bold)
		bodyColor = newColor(opts.NoColor, color.FgCyan)
		symbol = "ℹ️"
	default:
		headerColor = newColor(opts.NoColor, color.FgRed, color.Bold)
		bodyColor = newColor(opts.NoColor, color.FgRed)
		symbol = "❌"
	}

	if opts.Context != "" {
		headerColor.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(opts.Context), opts.Problem)
	} else {
		headerColor.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	if opts.Consequence != "" {
		bodyColor.Fprintf(&b, "   %s\n", opts.Consequence)
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		newColor(opts.NoColor, color.FgYellow).Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		cyan := newColor(opts.NoColor, color.FgCyan)
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

// WriteError writes a formatted error message to the writer
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// RegistryUnavailableError renders a registry that could not be observed.
// kind is "execution" or "state".
func RegistryUnavailableError(kind, reason string, noColor bool) string {
	help := []string{"Get help: sysmod --help"}
	if kind == "state" {
		help = append([]string{"Configure state manifests: state.dirs in sysmod.yml or SYSMOD_STATE_DIRS"}, help...)
	} else {
		help = append([]string{"Check registry source: --source manifest|redis"}, help...)
	}
	return FormatError(ErrorOptions{
		Level:        ErrorLevelError,
		Context:      kind + " registry unavailable",
		Problem:      reason,
		Consequence:  fmt.Sprintf("The %s registry has not been loaded by the host agent.", kind),
		HelpCommands: help,
		NoColor:      noColor,
	})
}

// ConfigError creates a standardized configuration error
func ConfigError(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelError,
		Context: "configuration error",
		Problem: message,
		HelpCommands: []string{
			"View config: cat sysmod.yml",
			"Get help: sysmod --help",
		},
		NoColor: noColor,
	})
}

// NoMatchWarning reports a term that matched no function. The query result
// itself is unaffected.
func NoMatchWarning(term string, suggestions []string, listCommand string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:        ErrorLevelWarning,
		Problem:      fmt.Sprintf("'%s' matched no function.", term),
		Suggestions:  suggestions,
		HelpCommands: []string{"See all modules: sysmod " + listCommand},
		NoColor:      noColor,
	})
}
