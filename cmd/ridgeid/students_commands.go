package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ridgeid/internal/roster"
	"ridgeid/internal/services"
)

func newStudentsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "students",
		Aliases: []string{"student"},
		Short:   "Manage the student roster",
	}
	cmd.AddCommand(newStudentsAddCommand(ctx))
	cmd.AddCommand(newStudentsListCommand(ctx))
	cmd.AddCommand(newStudentsShowCommand(ctx))
	cmd.AddCommand(newStudentsRemoveCommand(ctx))
	cmd.AddCommand(newStudentsClearTemplateCommand(ctx))
	return cmd
}

func newStudentsAddCommand(ctx *commandContext) *cobra.Command {
	var st roster.Student

	cmd := &cobra.Command{
		Use:   "add <student-id>",
		Short: "Add a student to the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st.StudentID = strings.TrimSpace(args[0])
			if st.YearOfStudy < 0 {
				return services.Wrap(services.ErrValidation, "cli", "students add", "--year must be non-negative", nil)
			}
			return ctx.withStore(func(store *roster.Store) error {
				created, err := store.AddStudent(cmd.Context(), st)
				if err != nil {
					return rosterError("students add", st.StudentID, err)
				}
				if ctx.jsonMode() {
					return writeJSON(cmd, created)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added student %s (%s)\n", created.StudentID, created.FullName())
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&st.FirstName, "first", "", "First name")
	flags.StringVar(&st.LastName, "last", "", "Last name")
	flags.StringVar(&st.Email, "email", "", "Email address")
	flags.StringVar(&st.Phone, "phone", "", "Phone number")
	flags.StringVar(&st.Department, "department", "", "Department")
	flags.IntVar(&st.YearOfStudy, "year", 0, "Year of study")
	flags.StringVar(&st.EnrollmentDate, "enrollment-date", "", "Enrollment date (YYYY-MM-DD)")
	flags.StringVar(&st.Status, "status", roster.StatusActive, "Status (active, inactive, graduated)")
	return cmd
}

func newStudentsListCommand(ctx *commandContext) *cobra.Command {
	var enrolledOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List students",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *roster.Store) error {
				students, err := store.ListStudents(cmd.Context())
				if err != nil {
					return services.Wrap(services.ErrStorageUnavailable, "cli", "students list", "", err)
				}
				if enrolledOnly {
					filtered := students[:0]
					for _, st := range students {
						if st.Enrolled {
							filtered = append(filtered, st)
						}
					}
					students = filtered
				}
				if ctx.jsonMode() {
					if students == nil {
						students = []roster.Student{}
					}
					return writeJSON(cmd, students)
				}
				out := cmd.OutOrStdout()
				if len(students) == 0 {
					fmt.Fprintln(out, "No students found")
					return nil
				}
				rows := make([][]string, 0, len(students))
				for _, st := range students {
					rows = append(rows, []string{
						st.StudentID,
						st.FullName(),
						valueOrDash(st.Department),
						st.Status,
						yesNo(st.Enrolled),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{detailLabel("student_id"), "Name", detailLabel("department"), detailLabel("status"), detailLabel("enrolled")},
					rows,
					nil,
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&enrolledOnly, "enrolled", false, "Only list students with a stored template")
	return cmd
}

func newStudentsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <student-id>",
		Short: "Show a student's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return ctx.withStore(func(store *roster.Store) error {
				st, err := store.GetStudent(cmd.Context(), id)
				if err != nil {
					return services.Wrap(services.ErrStorageUnavailable, "cli", "students show", id, err)
				}
				if st == nil {
					return services.Wrap(services.ErrNotFound, "cli", "students show", "unknown student "+id, nil)
				}
				if ctx.jsonMode() {
					return writeJSON(cmd, st)
				}
				printStudentDetails(cmd.OutOrStdout(), *st)
				return nil
			})
		},
	}
}

func newStudentsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <student-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a student and their template",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return ctx.withStore(func(store *roster.Store) error {
				if err := store.RemoveStudent(cmd.Context(), id); err != nil {
					return rosterError("students remove", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed student %s\n", id)
				return nil
			})
		},
	}
}

func newStudentsClearTemplateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-template <student-id>",
		Short: "Delete a student's stored template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return ctx.withStore(func(store *roster.Store) error {
				if err := store.ClearTemplate(cmd.Context(), id); err != nil {
					return rosterError("students clear-template", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared template for %s\n", id)
				return nil
			})
		},
	}
}

func rosterError(op, id string, err error) error {
	switch {
	case errors.Is(err, roster.ErrStudentNotFound):
		return services.Wrap(services.ErrNotFound, "cli", op, "unknown student "+id, err)
	case errors.Is(err, roster.ErrDuplicateStudent):
		return services.Wrap(services.ErrValidation, "cli", op, "student "+id+" already exists", err)
	case strings.TrimSpace(id) == "":
		return services.Wrap(services.ErrValidation, "cli", op, "student id is required", err)
	default:
		return services.Wrap(services.ErrStorageUnavailable, "cli", op, id, err)
	}
}
