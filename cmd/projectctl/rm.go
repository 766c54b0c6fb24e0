package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/projectctl/internal/project"
	"github.com/fyrsmithlabs/projectctl/internal/store"
)

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a project",
		Long: `Delete the project with the given id and reload the list.

The id is sent to the service as is; unknown ids are not an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := project.ID(args[0])

			s, err := a.newStore()
			if err != nil {
				return err
			}

			err = s.Remove(cmd.Context(), id)
			if errors.Is(err, store.ErrReloadFailed) {
				warnStale(cmd.ErrOrStderr(), "project deleted", err)
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "removed %s (%d projects)\n", id, s.Snapshot().Len())
			return nil
		},
	}
}
