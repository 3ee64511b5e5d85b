package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ridgeid/internal/services"
	"ridgeid/internal/template"
)

func newTemplateCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "template",
		Short:       "Extract and inspect encoded templates",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}
	cmd.AddCommand(newTemplateExtractCommand(ctx))
	cmd.AddCommand(newTemplateInspectCommand(ctx))
	return cmd
}

func newTemplateExtractCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <image>",
		Short: "Print the encoded template for an image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := loadTemplate(args[0])
			if err != nil {
				return err
			}
			encoded, err := template.Encode(tpl)
			if err != nil {
				return err
			}
			if ctx.jsonMode() {
				return writeJSON(cmd, map[string]any{
					"template":   encoded,
					"blobs":      tpl.Len(),
					"image_hash": tpl.ImageHash,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return nil
		},
	}
}

func newTemplateInspectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <encoded|file|->",
		Short: "Decode a template and list its ridge blobs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			encoded, err := readEncodedArg(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			tpl, err := template.Decode(encoded)
			if err != nil {
				return err
			}
			if ctx.jsonMode() {
				return writeJSON(cmd, tpl)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Image hash: %s\n", valueOrDash(tpl.ImageHash))
			fmt.Fprintf(w, "Ridge blobs: %d\n", tpl.Len())
			fmt.Fprintf(w, "Mean area: %.2f\n", tpl.MeanArea())
			if tpl.Empty() {
				return nil
			}
			rows := make([][]string, 0, tpl.Len())
			for i, b := range tpl.Blobs {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					strconv.FormatFloat(b.Area, 'f', 1, 64),
					strconv.FormatFloat(b.Perimeter, 'f', 2, 64),
					strconv.FormatFloat(b.Circularity, 'f', 4, 64),
				})
			}
			fmt.Fprintln(w, renderTable(
				[]string{"#", "Area", "Perimeter", "Circularity"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
}

// readEncodedArg resolves "-" to stdin and an existing path to its contents;
// anything else is taken as the encoded text itself.
func readEncodedArg(stdin io.Reader, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", services.Wrap(services.ErrValidation, "cli", "read", "stdin", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	if info, err := os.Stat(expandOrRaw(arg)); err == nil && !info.IsDir() {
		data, err := os.ReadFile(expandOrRaw(arg))
		if err != nil {
			return "", services.Wrap(services.ErrValidation, "cli", "read", arg, err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return arg, nil
}

func valueOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
