package intake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"recipeview/internal/assets"
	"recipeview/internal/catalog"
	"recipeview/internal/config"
	"recipeview/internal/imagecheck"
	"recipeview/internal/logging"
	"recipeview/internal/recipe"
	"recipeview/internal/services"
)

// Validator decides whether a raw entry's image is usable.
type Validator interface {
	Check(ctx context.Context, raw recipe.RawRecipe) imagecheck.Verdict
}

// Fetcher materializes a record's image.
type Fetcher interface {
	Materialize(ctx context.Context, rec recipe.Record) (assets.Outcome, error)
}

// RunLedger persists run bookkeeping.
type RunLedger interface {
	StartRun(ctx context.Context, run catalog.Run) error
	FinishRun(ctx context.Context, id string, status catalog.RunStatus, statsJSON, errMessage string) error
}

// ProgressFunc observes progress. completed counts finished units of the
// phase out of total.
type ProgressFunc func(phase Phase, completed, total int)

// CheckpointFunc is the cooperative yield point run after every unit of work.
// A non-nil error stops the load.
type CheckpointFunc func(ctx context.Context) error

// Options controls one load.
type Options struct {
	// Policy is config.PolicyBounded or config.PolicyFull. Empty selects
	// bounded when Limit is positive and full otherwise.
	Policy     string
	Limit      int
	Dataset    string
	OnProgress ProgressFunc
	Checkpoint CheckpointFunc
}

// Deps wires a Pipeline to its collaborators.
type Deps struct {
	Validator Validator
	Fetcher   Fetcher
	Ledger    RunLedger
	// Extension is the local asset extension used to derive asset keys.
	Extension string
	Logger    *slog.Logger
}

// Pipeline loads recipe documents.
type Pipeline struct {
	validator Validator
	fetcher   Fetcher
	ledger    RunLedger
	ext       string
	logger    *slog.Logger
}

// New constructs a Pipeline.
func New(deps Deps) *Pipeline {
	ext := strings.TrimPrefix(strings.TrimSpace(deps.Extension), ".")
	if ext == "" {
		ext = "gif"
	}
	return &Pipeline{
		validator: deps.Validator,
		fetcher:   deps.Fetcher,
		ledger:    deps.Ledger,
		ext:       ext,
		logger:    logging.NewComponentLogger(deps.Logger, "intake"),
	}
}

// Load decodes src and runs both phases.
func (p *Pipeline) Load(ctx context.Context, src io.Reader, opts Options) (*Result, error) {
	if p.validator == nil || p.fetcher == nil {
		return nil, services.Wrap(services.ErrConfiguration, "intake", "load", "validator and fetcher are required", nil)
	}
	policy, err := resolvePolicy(opts)
	if err != nil {
		return nil, err
	}

	runID := logging.NewRunID()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithRunID(p.logger, runID)

	raws, err := recipe.ParseDocument(src)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "intake", "parse", opts.Dataset, err)
	}

	p.startRun(ctx, logger, catalog.Run{ID: runID, Dataset: opts.Dataset, Policy: policy, Limit: opts.Limit})
	logger.Info("intake started",
		logging.String("policy", policy),
		logging.Int("limit", opts.Limit),
		logging.Int("entries", len(raws)),
		logging.String(logging.FieldEventType, "intake_started"),
	)

	run := &loadRun{
		pipeline: p,
		opts:     opts,
		logger:   logger,
		sampler:  logging.NewProgressSampler(25),
		result: &Result{
			RunID:       runID,
			Unavailable: map[string]string{},
			Stats:       Stats{Rejected: map[imagecheck.Verdict]int{}},
		},
	}

	if err := run.validate(ctx, raws, policy); err != nil {
		p.finishRun(ctx, logger, runID, runStatusFor(err), run.result.Stats, err)
		return nil, err
	}
	run.fetch(ctx)

	status := catalog.RunCompleted
	if run.result.Interrupted {
		status = catalog.RunCanceled
	}
	p.finishRun(ctx, logger, runID, status, run.result.Stats, nil)

	stats := run.result.Stats
	logger.Info("intake completed",
		logging.Int("accepted", stats.Accepted),
		logging.Int("rejected", stats.RejectedTotal()),
		logging.Int("skipped", stats.Skipped),
		logging.Int("fetched", stats.Fetched),
		logging.Int("reused", stats.Reused),
		logging.Int("unavailable", stats.Unavailable),
		logging.Int("pending", stats.Pending),
		logging.String(logging.FieldEventType, "intake_completed"),
	)
	return run.result, nil
}

func resolvePolicy(opts Options) (string, error) {
	policy := strings.ToLower(strings.TrimSpace(opts.Policy))
	if policy == "" {
		if opts.Limit > 0 {
			policy = config.PolicyBounded
		} else {
			policy = config.PolicyFull
		}
	}
	switch policy {
	case config.PolicyBounded:
		if opts.Limit <= 0 {
			return "", services.Wrap(services.ErrConfiguration, "intake", "load", "bounded policy requires a positive limit", nil)
		}
	case config.PolicyFull:
	default:
		return "", services.Wrap(services.ErrConfiguration, "intake", "load", fmt.Sprintf("unknown policy %q", opts.Policy), nil)
	}
	return policy, nil
}

func runStatusFor(err error) catalog.RunStatus {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return catalog.RunCanceled
	}
	return catalog.RunFailed
}

func (p *Pipeline) startRun(ctx context.Context, logger *slog.Logger, run catalog.Run) {
	if p.ledger == nil {
		return
	}
	if err := p.ledger.StartRun(ctx, run); err != nil {
		logging.WarnWithContext(logger, "intake run not recorded", "ledger_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "status command will not list this run"),
		)
	}
}

func (p *Pipeline) finishRun(ctx context.Context, logger *slog.Logger, id string, status catalog.RunStatus, stats Stats, runErr error) {
	if p.ledger == nil {
		return
	}
	message := ""
	if runErr != nil {
		message = runErr.Error()
	}
	if err := p.ledger.FinishRun(context.WithoutCancel(ctx), id, status, stats.json(), message); err != nil {
		logging.WarnWithContext(logger, "intake run completion not recorded", "ledger_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "status command shows this run as running"),
		)
	}
}
