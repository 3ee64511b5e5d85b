package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"ridgeid/internal/reader"
	"ridgeid/internal/roster"
	"ridgeid/internal/template"
)

type enrollJSON struct {
	StudentID string `json:"student_id"`
	Blobs     int    `json:"blobs"`
	ImageHash string `json:"image_hash"`
}

func newEnrollCommand(ctx *commandContext) *cobra.Command {
	var imagePath string
	var encoded string

	cmd := &cobra.Command{
		Use:   "enroll <student-id>",
		Short: "Capture a fingerprint and store it for a student",
		Long: `Capture one fingerprint image (from the camera, or --image) and store its
template for an existing student, replacing any previous template.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			studentID := strings.TrimSpace(args[0])
			return ctx.withReader(cmd, imagePath, func(r *reader.Reader, _ *roster.Store, _ *slog.Logger) error {
				var (
					tpl template.Template
					err error
				)
				if strings.TrimSpace(encoded) != "" {
					tpl, err = template.Decode(encoded)
					if err == nil {
						err = r.Enroll(cmd.Context(), studentID, &tpl)
					}
				} else {
					tpl, err = r.ScanAndEnroll(cmd.Context(), studentID)
				}
				if err != nil {
					return err
				}
				if ctx.jsonMode() {
					return writeJSON(cmd, enrollJSON{StudentID: studentID, Blobs: tpl.Len(), ImageHash: tpl.ImageHash})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Fingerprint enrolled for %s (%d ridge blobs)\n", studentID, tpl.Len())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "Read the fingerprint from an image file instead of the camera")
	cmd.Flags().StringVar(&encoded, "template", "", "Store an already encoded template")
	return cmd
}
