package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lrevnic/salt/internal/agent"
	"github.com/lrevnic/salt/internal/cli/config"
	"github.com/lrevnic/salt/internal/cli/ui"
	"github.com/lrevnic/salt/internal/logging"
	"github.com/lrevnic/salt/internal/registry"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// options holds the persistent flags shared by every command
type options struct {
	configFile string
	format     string
	noColor    bool
	logLevel   string
	source     string
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "sysmod",
		Short: "Inspect the execution and state registries of a host agent",
		Long: color.CyanString(`sysmod - registry introspection for a host agent

sysmod answers read-only questions about the functions a host agent has
loaded: which modules exist, which functions they provide, what each one
documents and which arguments it accepts. Nothing is ever executed.

Functions are named module.function. A name argument selects either one
function ("pkg.install") or a whole module ("pkg" or "pkg.").`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Config file (default: ./sysmod.yml)")
	flags.StringVar(&opts.format, "format", config.FormatTable, "Output format: table or json")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.source, "source", config.SourceManifest, "Registry source: manifest or redis")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(newDocCommand(opts, registry.Execution))
	rootCmd.AddCommand(newDocCommand(opts, registry.State))
	rootCmd.AddCommand(newListFunctionsCommand(opts, registry.Execution))
	rootCmd.AddCommand(newListFunctionsCommand(opts, registry.State))
	rootCmd.AddCommand(newListModulesCommand(opts, registry.Execution))
	rootCmd.AddCommand(newListModulesCommand(opts, registry.State))
	rootCmd.AddCommand(newArgspecCommand(opts))
	rootCmd.AddCommand(newReloadModulesCommand(opts))
	rootCmd.AddCommand(newServeCommand(opts))
	rootCmd.AddCommand(newMCPCommand(opts))
	rootCmd.AddCommand(newPublishCommand(opts))
	rootCmd.AddCommand(newTokenCommand(opts))

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the sysmod version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			// Set GoVersion to actual runtime if not set at build time
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			w := cmd.OutOrStdout()
			titleColor := color.New(color.FgCyan, color.Bold)

			titleColor.Fprint(w, "sysmod version: ")
			fmt.Fprintln(w, Version)

			titleColor.Fprint(w, "Git commit: ")
			fmt.Fprintln(w, GitCommit)

			titleColor.Fprint(w, "Build date: ")
			fmt.Fprintln(w, BuildDate)

			titleColor.Fprint(w, "Go version: ")
			fmt.Fprintln(w, goVer)
		},
	}
}

// configError marks failures to load or validate configuration
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// loadConfig reads the configuration and applies the persistent flags that
// were set explicitly on the command line.
func (o *options) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, &configError{err: err}
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = o.format
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("source") {
		cfg.Source = o.source
	}

	if err := config.Validate(cfg); err != nil {
		return nil, &configError{err: err}
	}
	return cfg, nil
}

// session is everything a command needs to answer one query
type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	host    *agent.Host
	noColor bool
}

func (o *options) open(cmd *cobra.Command) (*session, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return nil, &configError{err: err}
	}

	host, err := agent.Open(cfg.AgentOptions(), logger)
	if err != nil {
		logger.Sync()
		return nil, &configError{err: err}
	}

	return &session{
		cfg:     cfg,
		logger:  logger,
		host:    host,
		noColor: o.noColor,
	}, nil
}

func (s *session) close() {
	if err := s.host.Close(); err != nil {
		s.logger.Warn("failed to close registry providers", zap.Error(err))
	}
	s.logger.Sync()
}

// run opens a session, calls fn and closes the session again
func (o *options) run(cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	s, err := o.open(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, s)
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		noColor, _ := rootCmd.PersistentFlags().GetBool("no-color")
		writeError(rootCmd.ErrOrStderr(), err, noColor)
		return err
	}
	return nil
}

// writeError renders err for the terminal. Unavailable registries and
// configuration problems get their own guidance.
func writeError(w io.Writer, err error, noColor bool) {
	var unavailable *registry.UnavailableError
	var cfgErr *configError

	switch {
	case errors.As(err, &unavailable):
		reason := unavailable.Reason
		if unavailable.Err != nil {
			if reason != "" {
				reason += ": "
			}
			reason += unavailable.Err.Error()
		}
		fmt.Fprint(w, ui.RegistryUnavailableError(string(unavailable.Kind), reason, noColor))
	case errors.As(err, &cfgErr):
		fmt.Fprint(w, ui.ConfigError(cfgErr.Error(), noColor))
	default:
		ui.WriteError(w, ui.ErrorOptions{
			Level:        ui.ErrorLevelError,
			Problem:      err.Error(),
			HelpCommands: []string{"Get help: sysmod --help"},
			NoColor:      noColor,
		})
	}
}
