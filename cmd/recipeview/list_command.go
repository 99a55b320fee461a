package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"recipeview/internal/browse"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var page int
	var search string
	var grid bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes one page at a time",
		RunE: func(cmd *cobra.Command, args []string) error {
			bench, err := ctx.newWorkbench()
			if err != nil {
				return err
			}
			defer bench.Close()

			session, err := loadSession(cmd, bench, loadOptions{progress: true})
			if err != nil {
				return err
			}

			state := browse.ViewState{
				Page:     page,
				PageSize: bench.cfg.Display.PageSize,
				Query:    search,
			}
			view := browse.View(session.Records(), state)

			out := cmd.OutOrStdout()
			switch {
			case len(view.Entries) == 0:
			case grid:
				fmt.Fprintln(out, renderGrid(session, view.Entries, bench.cfg.Display.Columns))
			default:
				fmt.Fprintln(out, renderTable("", recipeHeaders, recipeRows(session, view.Entries), recipeAligns))
			}
			fmt.Fprintln(out, pageFooter(view, search))
			return nil
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number (1-based)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Only list recipes whose name contains every word")
	cmd.Flags().BoolVar(&grid, "grid", false, "Lay the page out as a grid of recipe names")
	return cmd
}
