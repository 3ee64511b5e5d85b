package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ridgeid/internal/deps"
	"ridgeid/internal/preflight"
	"ridgeid/internal/services"
)

type checkJSON struct {
	ConfigPath   string             `json:"config_path"`
	Checks       []preflight.Result `json:"checks"`
	Dependencies []deps.Status      `json:"dependencies"`
	OK           bool               `json:"ok"`
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify directories, capture hardware, binaries, and the roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			statuses := preflight.CheckSystemDeps(cfg)
			failed := len(preflight.Failed(results)) + len(deps.MissingRequired(statuses))

			if ctx.jsonMode() {
				if err := writeJSON(cmd, checkJSON{
					ConfigPath:   ctx.configPath,
					Checks:       results,
					Dependencies: statuses,
					OK:           failed == 0,
				}); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				fmt.Fprintf(out, "Config: %s\n", valueOrDash(ctx.configPath))
				for _, r := range results {
					kind := statusOK
					if !r.Passed {
						kind = statusError
					}
					fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
				}
				for _, s := range statuses {
					kind, detail := statusOK, s.Path
					switch {
					case !s.Available && s.Optional:
						kind, detail = statusWarn, s.Detail+" (optional)"
					case !s.Available:
						kind, detail = statusError, s.Detail
					}
					fmt.Fprintln(out, renderStatusLine(s.Name, kind, detail, colorize))
				}
			}

			if failed > 0 {
				return services.Wrap(services.ErrConfiguration, "cli", "check", fmt.Sprintf("%d check(s) failed", failed), nil)
			}
			return nil
		},
	}
}
