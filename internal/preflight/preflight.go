package preflight

import (
	"context"

	"recipeview/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem checks and, when the dataset parses, probes
// the image host of its first entry.
func RunAll(ctx context.Context, cfg *config.Config, client HTTPDoer) []Result {
	if cfg == nil {
		return nil
	}

	dataset, sample := CheckDataset("Dataset", cfg.Paths.Dataset)
	results := []Result{
		dataset,
		CheckCreatableDirectory("Asset directory", cfg.Paths.AssetDir),
		CheckCreatableDirectory("State directory", cfg.Paths.StateDir),
	}
	if sample != "" {
		results = append(results, CheckImageHost(ctx, client, sample))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
