package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/lrevnic/salt/internal/api"
	"github.com/lrevnic/salt/internal/cli/ui"
	"github.com/lrevnic/salt/internal/logging"
	"github.com/lrevnic/salt/internal/manifest"
	"github.com/lrevnic/salt/internal/registry"
	"github.com/lrevnic/salt/internal/snapshot"
)

// newPublishCommand creates the 'publish' command
func newPublishCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Publish manifest registries to Redis",
		Long: `Load the execution and state registries from their manifest directories
and publish them to Redis, replacing what was published before.

This is how a host agent makes its registries visible to readers started
with --source redis. The state registry is only published when state.dirs
is configured.`,
		Example: `  # Publish using sysmod.yml
  sysmod publish

  # Publish to another Redis
  SYSMOD_REDIS_ADDR=redis.internal:6379 sysmod publish`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
			if err != nil {
				return &configError{err: err}
			}
			defer logger.Sync()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			hostOpts := cfg.AgentOptions()
			sources := map[registry.Kind][]string{registry.Execution: hostOpts.ExecutionDirs}
			if len(hostOpts.StateDirs) > 0 {
				sources[registry.State] = hostOpts.StateDirs
			}

			store, err := snapshot.NewStore(ctx, hostOpts.Redis, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			ui.Header(cmd.OutOrStdout(), "Published registries", opts.noColor)
			summary := ui.NewKeyValueTable(cmd.OutOrStdout(), opts.noColor)
			for _, kind := range []registry.Kind{registry.Execution, registry.State} {
				dirs, ok := sources[kind]
				if !ok {
					continue
				}
				reg, err := manifest.Load(ctx, kind, dirs, logger)
				if err != nil {
					return err
				}
				if err := store.Publish(ctx, reg); err != nil {
					return err
				}
				summary.AddRow(store.Key(kind), strconv.Itoa(reg.Len())+" functions")
			}
			summary.Render()
			return nil
		},
	}
}

// newTokenCommand creates the 'token' command
func newTokenCommand(opts *options) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the HTTP API",
		Long: `Issue an HS256 bearer token signed with api.jwt_secret.

Pass it to 'sysmod serve' clients as "Authorization: Bearer <token>".`,
		Example: `  # A token for the deploy pipeline, valid for a day
  sysmod token --subject deploy --ttl 24h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.API.JWTSecret == "" {
				return &configError{err: errors.New("api.jwt_secret is not set")}
			}

			token, err := api.NewAuthService(cfg.API.JWTSecret, ttl).GenerateToken(subject)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "sysmod", "Token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime (0 for no expiry)")

	return cmd
}
