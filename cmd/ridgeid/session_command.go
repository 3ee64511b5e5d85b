package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"ridgeid/internal/reader"
	"ridgeid/internal/roster"
	"ridgeid/internal/services"
	"ridgeid/internal/template"
)

func newSessionCommand(ctx *commandContext) *cobra.Command {
	var imagePath string

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Interactive identify/enroll menu",
		Long: `Run the interactive reader: choose 1 to identify a student, 2 to enroll a
fingerprint, 3 (or "quit") to exit. The roster stays open for the whole
session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withReader(cmd, imagePath, func(r *reader.Reader, store *roster.Store, _ *slog.Logger) error {
				s := &session{
					reader: r,
					in:     bufio.NewScanner(cmd.InOrStdin()),
					out:    cmd.OutOrStdout(),
					echo:   !isInteractive(cmd.InOrStdin()),
				}
				fmt.Fprintln(s.out, "Student Fingerprint Reader")
				fmt.Fprintln(s.out, strings.Repeat("=", 26))
				fmt.Fprintf(s.out, "Roster: %s\n", store.Path())
				return s.run(cmd.Context())
			})
		},
	}

	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "Read fingerprints from an image file instead of the camera")
	return cmd
}

type session struct {
	reader *reader.Reader
	in     *bufio.Scanner
	out    io.Writer
	echo   bool
}

var errSessionClosed = errors.New("input closed")

func (s *session) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			fmt.Fprintln(s.out, "\nSession interrupted")
			return nil
		}
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, "Choose an option:")
		fmt.Fprintln(s.out, "1. Scan fingerprint to identify student")
		fmt.Fprintln(s.out, "2. Enroll new fingerprint")
		fmt.Fprintln(s.out, "3. Quit")
		choice, err := s.prompt("\nEnter your choice (1-3): ")
		if errors.Is(err, errSessionClosed) {
			fmt.Fprintln(s.out, "Goodbye")
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.ToLower(choice) {
		case "1":
			s.identify(ctx)
		case "2":
			s.enroll(ctx)
		case "3", "q", "quit", "exit":
			fmt.Fprintln(s.out, "Goodbye")
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid choice. Please try again.")
		}
	}
}

func (s *session) identify(ctx context.Context) {
	tpl, ok := s.capture(ctx)
	if !ok {
		return
	}
	res, err := s.reader.Identify(ctx, tpl)
	if err != nil {
		fmt.Fprintf(s.out, "Identification failed: %v\n", err)
		return
	}
	fmt.Fprintln(s.out)
	printIdentification(s.out, res)
}

func (s *session) enroll(ctx context.Context) {
	id, err := s.prompt("Enter student ID to enroll: ")
	if err != nil {
		return
	}
	if id == "" {
		fmt.Fprintln(s.out, "Invalid student ID")
		return
	}
	fmt.Fprintf(s.out, "Enrolling fingerprint for student: %s\n", id)
	tpl, ok := s.capture(ctx)
	if !ok {
		return
	}
	if err := s.reader.Enroll(ctx, id, &tpl); err != nil {
		fmt.Fprintf(s.out, "Enrollment failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Fingerprint enrolled for %s (%d ridge blobs)\n", id, tpl.Len())
}

// capture prompts until a template is extracted, the user cancels, or the
// source itself is unavailable.
func (s *session) capture(ctx context.Context) (template.Template, bool) {
	fmt.Fprintln(s.out, "Place your finger on the reader.")
	for {
		answer, err := s.prompt("Press Enter to capture, or q to cancel: ")
		if err != nil || strings.EqualFold(answer, "q") {
			fmt.Fprintln(s.out, "No fingerprint captured")
			return template.Template{}, false
		}
		fmt.Fprintln(s.out, "Capturing fingerprint...")
		tpl, err := s.reader.Scan(ctx)
		switch {
		case err == nil:
			fmt.Fprintln(s.out, "Fingerprint captured")
			return tpl, true
		case errors.Is(err, services.ErrExtractionFailed):
			fmt.Fprintln(s.out, "Failed to extract fingerprint features. Try again.")
		default:
			fmt.Fprintf(s.out, "Capture failed: %v\n", err)
			fmt.Fprintln(s.out, "No fingerprint captured")
			return template.Template{}, false
		}
	}
}

func (s *session) prompt(text string) (string, error) {
	fmt.Fprint(s.out, text)
	if !s.in.Scan() {
		if s.echo {
			fmt.Fprintln(s.out)
		}
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", errSessionClosed
	}
	line := strings.TrimSpace(s.in.Text())
	if s.echo {
		fmt.Fprintln(s.out, line)
	}
	return line, nil
}
