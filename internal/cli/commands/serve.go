package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lrevnic/salt/internal/api"
	cliconfig "github.com/lrevnic/salt/internal/cli/config"
	"github.com/lrevnic/salt/internal/mcp"
)

// newServeCommand creates the 'serve' command
func newServeCommand(opts *options) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the registry queries as a JSON HTTP API",
		Long: `Serve the registry queries as a JSON HTTP API.

Every query command is available under /v1. When api.jwt_secret is
configured, requests must carry a bearer token (see 'sysmod token').
The server shuts down gracefully on SIGINT or SIGTERM.`,
		Example: `  # Serve on the configured address
  sysmod serve

  # Serve on all interfaces, port 9000
  sysmod serve --host 0.0.0.0 --port 9000

  # Query it
  curl 'http://localhost:8080/v1/doc?name=pkg'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				if cmd.Flags().Changed("host") {
					s.cfg.API.Host = host
				}
				if cmd.Flags().Changed("port") {
					s.cfg.API.Port = port
				}
				if err := cliconfig.Validate(s.cfg); err != nil {
					return &configError{err: err}
				}

				config := api.DefaultConfig()
				config.Address = s.cfg.API.Addr()
				config.JWTSecret = s.cfg.API.JWTSecret
				if s.cfg.API.ShutdownTimeout > 0 {
					config.ShutdownTimeout = s.cfg.API.ShutdownTimeout
				}

				server, err := api.New(s.host.Engine, config, s.logger)
				if err != nil {
					return err
				}

				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()
				return server.ListenAndServe(ctx)
			})
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Host to bind (overrides api.host)")
	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (overrides api.port)")

	return cmd
}

// newMCPCommand creates the 'mcp' command
func newMCPCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the registry queries as MCP tools over stdio",
		Long: `Serve the registry queries as Model Context Protocol tools over stdio.

Each query command is exposed as a sys_* tool. Logs go to stderr so that
stdout carries protocol messages only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()

				server := mcp.NewServer(s.host.Engine, Version, s.logger)
				return server.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
			})
		},
	}
}
