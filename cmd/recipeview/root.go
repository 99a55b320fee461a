package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var datasetFlag string
	var limitFlag int
	var fullFlag bool

	ctx := newCommandContext(&configFlag, &datasetFlag, &limitFlag, &fullFlag)

	rootCmd := &cobra.Command{
		Use:           "recipeview",
		Short:         "Recipe intake and browsing",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&datasetFlag, "dataset", "", "Recipe document to load (overrides paths.dataset)")
	rootCmd.PersistentFlags().IntVar(&limitFlag, "limit", 0, "Stop after this many accepted recipes (overrides intake.limit)")
	rootCmd.PersistentFlags().BoolVar(&fullFlag, "full", false, "Process every entry instead of stopping at the limit")

	rootCmd.AddCommand(
		newLoadCommand(ctx),
		newListCommand(ctx),
		newShowCommand(ctx),
		newFetchCommand(ctx),
		newAssetsCommand(ctx),
		newStatusCommand(ctx),
		newLogsCommand(ctx),
		newConfigCommand(ctx),
	)

	return rootCmd
}
