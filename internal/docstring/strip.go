// Package docstring turns raw reStructuredText-flavoured function docstrings
// into plain prose suitable for terminal, JSON and MCP output.
package docstring

import (
	"regexp"
	"strings"
)

var (
	codeBlock = regexp.MustCompile(`(?m)^[ \t]*\.\. code-block::[^\n]*\n(?:[ \t]*\n)?`)
	roles     = regexp.MustCompile("(?::[A-Za-z]+)+:`([^`]+)`")
	literals  = regexp.MustCompile("``([^`]+)``")

	directives = strings.NewReplacer(
		".. note::", "Note:",
		".. warning::", "Warning:",
		".. versionadded::", "New in version",
		".. versionchanged::", "Changed in version",
		".. deprecated::", "Deprecated in version",
	)
)

// Strip normalizes a single docstring. Absent documentation stays empty.
func Strip(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	doc := dedent(raw)
	doc = codeBlock.ReplaceAllString(doc, "")
	doc = directives.Replace(doc)
	doc = roles.ReplaceAllString(doc, "$1")
	doc = literals.ReplaceAllString(doc, "$1")
	return strings.TrimSpace(doc)
}

// dedent removes the indentation shared by every non-blank line after the
// first. The first line is trimmed on its own since docstrings usually start
// right after the opening quote.
func dedent(doc string) string {
	lines := strings.Split(strings.ReplaceAll(doc, "\r\n", "\n"), "\n")

	indent := -1
	for _, line := range lines[1:] {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		if n := len(line) - len(trimmed); indent < 0 || n < indent {
			indent = n
		}
	}

	lines[0] = strings.TrimSpace(lines[0])
	for i := 1; i < len(lines); i++ {
		switch {
		case strings.TrimSpace(lines[i]) == "":
			lines[i] = ""
		case indent > 0:
			lines[i] = strings.TrimRight(lines[i][indent:], " \t")
		default:
			lines[i] = strings.TrimRight(lines[i], " \t")
		}
	}
	return strings.Join(lines, "\n")
}
