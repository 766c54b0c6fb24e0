package main

import (
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/projectctl/internal/board"
)

func newBoardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Browse projects interactively",
		Long: `Open an interactive project list.

Keys:
  /        search by name (enter or esc to leave the search box)
  1-4      sort by name ascending, name descending, date ascending, date descending
  a        add a project (tab moves between fields, enter on the last field creates)
  up/down  move the selection (also k/j)
  d        delete the selected project
  r        reload from the service
  q        quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newStore()
			if err != nil {
				return err
			}
			return board.Run(cmd.Context(), s)
		},
	}
}
