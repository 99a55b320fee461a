package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Validate the recipe document, fetch images, and print the accepted recipes",
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

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable("Recipes", recipeHeaders, recipeRows(session, allEntries(session.Records())), recipeAligns))
			summaryLine(out, session)
			if session.Result().Interrupted {
				fmt.Fprintf(out, "Interrupted: %d images are pending and will be fetched when viewed\n", session.PendingCount())
			}
			return nil
		},
	}
}
