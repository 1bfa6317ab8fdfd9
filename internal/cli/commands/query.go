package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lrevnic/salt/internal/cli/config"
	"github.com/lrevnic/salt/internal/registry"
	"github.com/lrevnic/salt/internal/sysmod"
)

// Unknown flags are accepted and dropped so that callers passing extra
// keyword arguments get the same answer as callers passing none.
var tolerateUnknownFlags = cobra.FParseErrWhitelist{UnknownFlags: true}

// commandName returns the command name of an operation for kind, e.g.
// "doc" and "state_doc".
func commandName(kind registry.Kind, operation string) string {
	if kind == registry.State {
		return "state_" + operation
	}
	return operation
}

// newDocCommand creates the 'doc' or 'state_doc' command
func newDocCommand(opts *options, kind registry.Kind) *cobra.Command {
	name := commandName(kind, "doc")
	return &cobra.Command{
		Use:     name + " [names...]",
		Aliases: []string{"sys." + name},
		Short:   fmt.Sprintf("Show the documentation of %s functions", kind),
		Long: fmt.Sprintf(`Show the normalized documentation of %s functions.

Each name selects a single function ("pkg.install") or every function of a
module ("pkg" or "pkg."). Without names, every function is documented.
Functions without documentation are listed with an empty body.`, kind),
		Example: fmt.Sprintf(`  # Document every %[1]s function
  sysmod %[2]s

  # Document one module and one function
  sysmod %[2]s pkg sys.reload

  # Machine-readable output
  sysmod %[2]s pkg --format json`, kind, name),
		FParseErrWhitelist: tolerateUnknownFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				terms, _ := sysmod.SplitArgs(args)

				query := s.host.Engine.Doc
				if kind == registry.State {
					query = s.host.Engine.StateDoc
				}
				docs, err := query(ctx, terms...)
				if err != nil {
					return err
				}

				if s.cfg.Format == config.FormatJSON {
					return renderJSON(cmd.OutOrStdout(), docs)
				}
				renderDocs(cmd.OutOrStdout(), docs, s.noColor)
				s.warnUnmatched(ctx, cmd, kind, terms, mapKeys(docs))
				return nil
			})
		},
	}
}

// newListFunctionsCommand creates the 'list_functions' or
// 'list_state_functions' command
func newListFunctionsCommand(opts *options, kind registry.Kind) *cobra.Command {
	name := "list_" + commandName(kind, "functions")
	return &cobra.Command{
		Use:     name + " [names...]",
		Aliases: []string{"sys." + name},
		Short:   fmt.Sprintf("List %s function names", kind),
		Long: fmt.Sprintf(`List %s function names in sorted order.

Each name selects a single function or every function of a module, the same
way as for documentation. Without names, every function is listed.`, kind),
		Example: fmt.Sprintf(`  # List every %[1]s function
  sysmod %[2]s

  # List the functions of two modules
  sysmod %[2]s pkg user`, kind, name),
		FParseErrWhitelist: tolerateUnknownFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				terms, _ := sysmod.SplitArgs(args)

				query := s.host.Engine.ListFunctions
				if kind == registry.State {
					query = s.host.Engine.ListStateFunctions
				}
				names, err := query(ctx, terms...)
				if err != nil {
					return err
				}

				if s.cfg.Format == config.FormatJSON {
					return renderJSON(cmd.OutOrStdout(), names)
				}
				renderNames(cmd.OutOrStdout(), names, s.noColor)
				s.warnUnmatched(ctx, cmd, kind, terms, names)
				return nil
			})
		},
	}
}

// newListModulesCommand creates the 'list_modules' or 'list_state_modules'
// command
func newListModulesCommand(opts *options, kind registry.Kind) *cobra.Command {
	name := "list_" + commandName(kind, "modules")
	return &cobra.Command{
		Use:     name,
		Aliases: []string{"sys." + name},
		Short:   fmt.Sprintf("List the modules of the %s registry", kind),
		Long: fmt.Sprintf(`List the distinct modules of the %s registry in sorted order.

A module is the part of a function name before the first dot. Functions
without a module are not listed.`, kind),
		FParseErrWhitelist: tolerateUnknownFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				query := s.host.Engine.ListModules
				if kind == registry.State {
					query = s.host.Engine.ListStateModules
				}
				modules, err := query(ctx)
				if err != nil {
					return err
				}

				if s.cfg.Format == config.FormatJSON {
					return renderJSON(cmd.OutOrStdout(), modules)
				}
				renderNames(cmd.OutOrStdout(), modules, s.noColor)
				return nil
			})
		},
	}
}

// newArgspecCommand creates the 'argspec' command
func newArgspecCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "argspec [module]",
		Aliases: []string{"sys.argspec"},
		Short:   "Show the argument specification of execution functions",
		Long: `Show the argument specification of execution functions.

For every function of the module (or the single function) given, report its
positional arguments, their trailing defaults and the names of its variadic
and keyword catch-all parameters. Functions are never called.`,
		Example: `  # Every function of the pkg module
  sysmod argspec pkg

  # One function, as JSON
  sysmod argspec pkg.install --format json`,
		FParseErrWhitelist: tolerateUnknownFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				terms, _ := sysmod.SplitArgs(args)
				module := ""
				if len(terms) > 0 {
					module = terms[0]
				}

				specs, err := s.host.Engine.Argspec(ctx, module)
				if err != nil {
					return err
				}

				if s.cfg.Format == config.FormatJSON {
					return renderJSON(cmd.OutOrStdout(), specs)
				}
				renderArgspecs(cmd.OutOrStdout(), specs, s.noColor)
				if module != "" {
					s.warnUnmatched(ctx, cmd, registry.Execution, []string{module}, mapKeys(specs))
				}
				return nil
			})
		},
	}
}

// newReloadModulesCommand creates the 'reload_modules' command
func newReloadModulesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "reload_modules",
		Aliases: []string{"sys.reload_modules"},
		Short:   "Acknowledge a module reload request",
		Long: `Acknowledge a module reload request.

The reload itself is carried out by the host agent, which intercepts the
request before it reaches this command. The command only confirms receipt
and always prints true.`,
		FParseErrWhitelist: tolerateUnknownFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				ok, err := s.host.Engine.ReloadModules(ctx)
				if err != nil {
					return err
				}
				return renderJSON(cmd.OutOrStdout(), ok)
			})
		},
	}
}
