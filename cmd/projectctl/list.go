package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/projectctl/internal/view"
)

func newListCmd(a *app) *cobra.Command {
	var (
		search string
		sortBy string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Long: `Load all projects from the service and print them.

Sort modes: name-asc, name-desc, date-asc, date-desc (or NameA, NameD, DateA,
DateD). Without --sort the service order is kept.

Examples:
  # Everything, in service order
  projectctl list

  # Projects whose name contains "roof", newest start first
  projectctl list --search roof --sort date-desc

  # Machine-readable output
  projectctl list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var mode view.SortMode
			if sortBy != "" {
				m, err := view.ParseSortMode(sortBy)
				if err != nil {
					return err
				}
				mode = m
			}

			s, err := a.newStore()
			if err != nil {
				return err
			}
			if err := s.Load(cmd.Context()); err != nil {
				return err
			}
			if mode != 0 {
				s.ApplySort(mode)
			}
			rows := s.Visible(search)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSTART\tEND\tDESCRIPTION")
			for _, p := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.StartDate, p.EndDate, p.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive name filter")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort mode")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}
