package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"recipeview/internal/config"
	"recipeview/internal/preflight"
)

const recentRunLimit = 5

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check paths, the image host, and recent intake runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			var lines []string
			lines = append(lines, renderSectionHeader("Configuration", colorize)...)
			lines = append(lines,
				renderStatusLine("Dataset", statusInfo, cfg.Paths.Dataset, colorize),
				renderStatusLine("Policy", statusInfo, policySummary(cfg.Intake.Policy, cfg.Intake.Limit), colorize),
				renderStatusLine("Images", statusInfo, fmt.Sprintf("%s to %s (%s)", cfg.Images.Policy, cfg.TargetExtension(), cfg.Paths.AssetDir), colorize),
			)

			client := &http.Client{Timeout: cfg.RequestTimeout()}
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Preflight", colorize)...)
			lines = append(lines, preflightLines(preflight.RunAll(cmd.Context(), cfg, client), colorize)...)

			store, err := ctx.openCatalog()
			if err != nil {
				lines = append(lines, "", renderStatusLine("Ledger", statusError, err.Error(), colorize))
				fmt.Fprintln(out, strings.Join(lines, "\n"))
				return nil
			}
			defer store.Close()

			stats, err := store.AssetStats(cmd.Context())
			if err != nil {
				return err
			}
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Assets", colorize)...)
			lines = append(lines, assetLines(stats, colorize)...)

			runs, err := store.RecentRuns(cmd.Context(), recentRunLimit)
			if err != nil {
				return err
			}
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Recent runs", colorize)...)
			if len(runs) == 0 {
				lines = append(lines, renderStatusLine("Runs", statusInfo, "none yet", colorize))
			}
			for _, run := range runs {
				lines = append(lines, runLine(run, colorize))
			}

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
}

func policySummary(policy string, limit int) string {
	if policy == config.PolicyFull {
		return "full scan"
	}
	return fmt.Sprintf("bounded, stop after %d recipes", limit)
}
