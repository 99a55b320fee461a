package intake

import (
	"context"
	"errors"
	"log/slog"

	"recipeview/internal/assets"
	"recipeview/internal/catalog"
	"recipeview/internal/config"
	"recipeview/internal/imagecheck"
	"recipeview/internal/logging"
	"recipeview/internal/recipe"
	"recipeview/internal/services"
)

// loadRun carries the mutable state of one Load call.
type loadRun struct {
	pipeline *Pipeline
	opts     Options
	logger   *slog.Logger
	sampler  *logging.ProgressSampler
	result   *Result
}

func (r *loadRun) validate(ctx context.Context, raws []recipe.RawRecipe, policy string) error {
	ctx = services.WithStage(ctx, string(PhaseValidate))
	bounded := policy == config.PolicyBounded
	total := len(raws)
	stats := &r.result.Stats

	for i, raw := range raws {
		if bounded && len(r.result.Records) >= r.opts.Limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return services.Wrap(services.ErrTransient, "intake", "validate", "load canceled", err)
		}

		rctx := services.WithRecordIndex(ctx, i)
		logger := logging.WithContext(rctx, r.logger).With(logging.String(logging.FieldRecipe, raw.Name))
		stats.Scanned++

		if raw.Err != nil {
			stats.Skipped++
			logging.WarnWithContext(logger, "recipe skipped", "recipe_malformed",
				logging.Error(raw.Err),
				logging.String(logging.FieldErrorHint, "fix the entry's field types in the dataset"),
				logging.String(logging.FieldImpact, "recipe is not listed"),
			)
		} else if err := r.screen(rctx, logger, raw); err != nil {
			return err
		}

		r.progress(PhaseValidate, i+1, total)
		if err := r.checkpoint(ctx); err != nil {
			return services.Wrap(services.ErrTransient, "intake", "validate", "load stopped", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return services.Wrap(services.ErrTransient, "intake", "validate", "load canceled", err)
	}
	if bounded && len(r.result.Records) < r.opts.Limit {
		return &InsufficientDataError{Wanted: r.opts.Limit, Got: len(r.result.Records)}
	}
	return nil
}

// screen runs the image check and construction for one decoded entry. A
// cancel observed after the check fails the load instead of counting the
// entry as rejected.
func (r *loadRun) screen(ctx context.Context, logger *slog.Logger, raw recipe.RawRecipe) error {
	stats := &r.result.Stats
	verdict := r.pipeline.validator.Check(ctx, raw)
	if err := ctx.Err(); err != nil {
		return services.Wrap(services.ErrTransient, "intake", "validate", "load canceled", err)
	}
	if verdict != imagecheck.VerdictOK {
		stats.Rejected[verdict]++
		logger.Debug("recipe rejected",
			logging.String("reason", string(verdict)),
			logging.String(logging.FieldURL, raw.Image),
		)
		return nil
	}
	rec, err := recipe.Construct(raw, r.pipeline.ext)
	if err != nil {
		stats.Skipped++
		logging.WarnWithContext(logger, "recipe skipped", "recipe_skipped",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "fix cookTime/prepTime to valid ISO-8601 durations"),
			logging.String(logging.FieldImpact, "recipe is not listed"),
		)
		return nil
	}
	r.result.Records = append(r.result.Records, rec)
	stats.Accepted++
	return nil
}

func (r *loadRun) fetch(ctx context.Context) {
	ctx = services.WithStage(ctx, string(PhaseFetch))
	records := r.result.Records
	total := len(records)
	stats := &r.result.Stats

	for i, rec := range records {
		if ctx.Err() != nil {
			r.interrupt(records[i:])
			return
		}
		rctx := services.WithRecordIndex(ctx, i)
		outcome, err := r.pipeline.fetcher.Materialize(rctx, rec)
		switch {
		case err != nil && ctx.Err() != nil:
			r.interrupt(records[i:])
			return
		case err != nil:
			stats.Unavailable++
			r.result.Unavailable[rec.AssetKey()] = failureKind(err)
			logging.WarnWithContext(logging.WithContext(rctx, r.logger), "recipe image unavailable", "asset_unavailable",
				logging.String(logging.FieldRecipe, rec.Name()),
				logging.String(logging.FieldAssetKey, rec.AssetKey()),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the image URL or rerun recipeview fetch"),
				logging.String(logging.FieldImpact, "recipe is shown without an image"),
			)
		case outcome.State == catalog.AssetReused:
			stats.Reused++
		default:
			stats.Fetched++
		}

		r.progress(PhaseFetch, i+1, total)
		if err := r.checkpoint(ctx); err != nil {
			r.logger.Info("fetch stopped by checkpoint", logging.Error(err))
			r.interrupt(records[i+1:])
			return
		}
	}
}

func (r *loadRun) interrupt(remaining []recipe.Record) {
	r.result.Interrupted = true
	for _, rec := range remaining {
		r.result.Pending = append(r.result.Pending, rec.AssetKey())
	}
	r.result.Stats.Pending = len(r.result.Pending)
	r.logger.Info("fetch interrupted",
		logging.Int("pending", len(r.result.Pending)),
		logging.String(logging.FieldEventType, "intake_interrupted"),
	)
}

func (r *loadRun) progress(phase Phase, completed, total int) {
	if r.opts.OnProgress != nil {
		r.opts.OnProgress(phase, completed, total)
	}
	if r.sampler.ShouldLog(string(phase), completed, total) {
		r.logger.Info("intake progress",
			logging.String(logging.FieldStage, string(phase)),
			logging.Int("completed", completed),
			logging.Int("total", total),
		)
	}
}

func (r *loadRun) checkpoint(ctx context.Context) error {
	if r.opts.Checkpoint == nil {
		return nil
	}
	return r.opts.Checkpoint(ctx)
}

func failureKind(err error) string {
	var fetchErr *assets.FetchError
	if errors.As(err, &fetchErr) {
		return string(fetchErr.Kind)
	}
	if kind := services.Kind(err); kind != "" {
		return kind
	}
	return "unknown"
}
