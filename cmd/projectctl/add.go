package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/projectctl/internal/project"
	"github.com/fyrsmithlabs/projectctl/internal/store"
)

func newAddCmd(a *app) *cobra.Command {
	var d project.Draft

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project",
		Long: `Validate the given fields and create a project on the service.

Dates are YYYY-MM-DD. Times are hh:mm followed by AM or PM, or 24-hour hh:mm.
The end date must be after the start date. Line breaks in the description are
joined with ". ".

Examples:
  projectctl add --name "Roof" --description "Replace tiles" \
    --start-date 2024-06-01 --start-time "09:00 AM" \
    --end-date 2024-06-10 --end-time "05:30 PM"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if errs := project.Validate(d); !errs.Empty() {
				for _, field := range errs.Fields() {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field, errs[field])
				}
				return &project.ValidationError{Errors: errs}
			}

			p, err := project.FromDraft(d)
			if err != nil {
				return err
			}

			s, err := a.newStore()
			if err != nil {
				return err
			}

			err = s.Create(cmd.Context(), p)
			if errors.Is(err, store.ErrReloadFailed) {
				warnStale(cmd.ErrOrStderr(), "project created", err)
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %q (%d projects)\n", p.Name, s.Snapshot().Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&d.Name, "name", "", "project name")
	cmd.Flags().StringVar(&d.Description, "description", "", "project description")
	cmd.Flags().StringVar(&d.StartDate, "start-date", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&d.StartTime, "start-time", "", "start time (hh:mm AM|PM)")
	cmd.Flags().StringVar(&d.EndDate, "end-date", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&d.EndTime, "end-time", "", "end time (hh:mm AM|PM)")

	return cmd
}
