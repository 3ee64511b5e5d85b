package main

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"ridgeid/internal/reader"
	"ridgeid/internal/roster"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var imagePath string
	var encoded string

	cmd := &cobra.Command{
		Use:   "identify",
		Short: "Capture a fingerprint and identify the student",
		Long: `Capture one fingerprint image (from the camera, or --image), extract its
template, and compare it with every enrolled student. A match requires a
similarity score above 0.70.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withReader(cmd, imagePath, func(r *reader.Reader, _ *roster.Store, _ *slog.Logger) error {
				var (
					res reader.Identification
					err error
				)
				if strings.TrimSpace(encoded) != "" {
					res, err = r.IdentifyEncoded(cmd.Context(), encoded)
				} else {
					res, err = r.ScanAndIdentify(cmd.Context())
				}
				if err != nil {
					return err
				}
				if ctx.jsonMode() {
					return writeJSON(cmd, toIdentificationJSON(res))
				}
				printIdentification(cmd.OutOrStdout(), res)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "Read the fingerprint from an image file instead of the camera")
	cmd.Flags().StringVar(&encoded, "template", "", "Identify an already encoded template")
	return cmd
}
