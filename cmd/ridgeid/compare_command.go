package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ridgeid/internal/capture"
	"ridgeid/internal/matching"
	"ridgeid/internal/services"
	"ridgeid/internal/template"
)

type compareJSON struct {
	Score          float64 `json:"score"`
	Match          bool    `json:"match"`
	ProbeBlobs     int     `json:"probe_blobs"`
	CandidateBlobs int     `json:"candidate_blobs"`
}

func newCompareCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <probe> <candidate>",
		Short: "Score two fingerprints against each other",
		Long: `Each argument is an image file or a file holding an encoded template
(as written by "ridgeid template extract").`,
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			probe, err := loadTemplate(args[0])
			if err != nil {
				return err
			}
			candidate, err := loadTemplate(args[1])
			if err != nil {
				return err
			}
			score := matching.Score(probe, candidate)
			out := compareJSON{
				Score:          score,
				Match:          score > matching.AcceptanceThreshold,
				ProbeBlobs:     probe.Len(),
				CandidateBlobs: candidate.Len(),
			}
			if ctx.jsonMode() {
				return writeJSON(cmd, out)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Score: %.4f\n", out.Score)
			fmt.Fprintf(w, "Match: %s\n", yesNo(out.Match))
			fmt.Fprintf(w, "Blobs: %d vs %d\n", out.ProbeBlobs, out.CandidateBlobs)
			return nil
		},
	}
}

// loadTemplate reads path as an image, falling back to an encoded template.
func loadTemplate(path string) (template.Template, error) {
	path = expandOrRaw(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return template.Template{}, services.Wrap(services.ErrValidation, "cli", "read", path, err)
	}
	raster, imgErr := capture.DecodeBytes(data)
	if imgErr == nil {
		return template.Extract(raster)
	}
	tpl, tplErr := template.Decode(strings.TrimSpace(string(data)))
	if tplErr == nil {
		return tpl, nil
	}
	return template.Template{}, services.Wrap(services.ErrValidation, "cli", "read", path+" is neither an image nor an encoded template", errors.Join(imgErr, tplErr))
}
