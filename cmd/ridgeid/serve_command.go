package main

import (
	"strings"

	"github.com/spf13/cobra"

	"ridgeid/internal/httpapi"
	"ridgeid/internal/logging"
	"ridgeid/internal/preflight"
	"ridgeid/internal/roster"
	"ridgeid/internal/services"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the identification HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			for _, result := range preflight.Failed(preflight.RunAll(cmd.Context(), cfg)) {
				logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
					logging.String("check", result.Name),
					logging.String("detail", result.Detail),
					logging.String(logging.FieldImpact, "API requests that depend on it may fail"),
				)
			}

			return ctx.withStore(func(store *roster.Store) error {
				opts := httpapi.OptionsFromConfig(cfg, store, logger)
				if strings.TrimSpace(bind) != "" {
					opts.Bind = bind
				}
				srv, err := httpapi.New(opts)
				if err != nil {
					return services.Wrap(services.ErrConfiguration, "cli", "serve", "", err)
				}
				return srv.Run(cmd.Context())
			})
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Override api.bind")
	return cmd
}
