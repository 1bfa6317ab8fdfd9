package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lrevnic/salt/internal/cli/ui"
	"github.com/lrevnic/salt/internal/registry"
)

// renderJSON writes v as indented JSON followed by a newline
func renderJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// renderDocs writes one section per function in name order
func renderDocs(w io.Writer, docs map[string]string, noColor bool) {
	for _, name := range mapKeys(docs) {
		section := ui.NewSection(w, name, noColor)
		if doc := docs[name]; doc != "" {
			section.AddText(doc)
		}
		section.Render()
	}
}

func renderNames(w io.Writer, names []string, noColor bool) {
	list := ui.NewList(w, noColor)
	for _, name := range names {
		list.AddItem(name)
	}
	list.Render()
}

// renderArgspecs writes one table row per function in name order
func renderArgspecs(w io.Writer, specs map[string]registry.ArgSpec, noColor bool) {
	if len(specs) == 0 {
		return
	}

	table := ui.NewTable(w, []string{"FUNCTION", "ARGS", "DEFAULTS", "VARARGS", "KWARGS"}, &ui.TableOptions{NoColor: noColor})
	for _, name := range mapKeys(specs) {
		spec := specs[name]

		defaults := make([]string, len(spec.Defaults))
		for i, value := range spec.Defaults {
			data, err := json.Marshal(value)
			if err != nil {
				data = []byte(fmt.Sprint(value))
			}
			defaults[i] = string(data)
		}

		table.AddRow(
			name,
			strings.Join(spec.Args, ", "),
			strings.Join(defaults, ", "),
			spec.Varargs,
			spec.Kwargs,
		)
	}
	table.Render()
}

// warnUnmatched writes a hint to stderr for every term that selected
// nothing, with module names close to the term as suggestions.
func (s *session) warnUnmatched(ctx context.Context, cmd *cobra.Command, kind registry.Kind, terms, matched []string) {
	var unmatched []string
	for _, term := range terms {
		found := false
		for _, name := range matched {
			if registry.Matches(term, name) {
				found = true
				break
			}
		}
		if !found {
			unmatched = append(unmatched, term)
		}
	}
	if len(unmatched) == 0 {
		return
	}

	listModules := s.host.Engine.ListModules
	listCommand := "list_modules"
	if kind == registry.State {
		listModules = s.host.Engine.ListStateModules
		listCommand = "list_state_modules"
	}
	modules, err := listModules(ctx)
	if err != nil {
		s.logger.Debug("no module suggestions", zap.Error(err))
	}

	for _, term := range unmatched {
		module := strings.TrimSuffix(term, ".")
		if m, ok := registry.ModuleOf(module); ok {
			module = m
		}
		suggestions := ui.FindSimilar(module, modules, nil)
		fmt.Fprint(cmd.ErrOrStderr(), ui.NoMatchWarning(term, suggestions, listCommand, s.noColor))
	}
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
