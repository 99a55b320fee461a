package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"recipeview/internal/intake"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Materialize every recipe image and report the ones that failed",
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

			// Only pending images are attempted here; unavailable ones already
			// had their single attempt during the load.
			completed := 0
			for _, rec := range session.Records() {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				if session.ImageState(rec) != intake.ImagePending {
					continue
				}
				if _, ok := session.EnsureImage(cmd.Context(), rec); ok {
					completed++
				}
			}

			out := cmd.OutOrStdout()
			summaryLine(out, session)
			if completed > 0 {
				fmt.Fprintf(out, "Fetched %d pending images\n", completed)
			}
			missing := 0
			for _, rec := range session.Records() {
				if session.ImageState(rec) != intake.ImageReady {
					missing++
				}
			}
			if missing > 0 {
				fmt.Fprintf(out, "%d recipes have no image; see `recipeview assets --state unavailable`\n", missing)
			} else {
				fmt.Fprintf(out, "All images stored in %s\n", bench.assets.Root())
			}
			return nil
		},
	}
}
