package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"recipeview/internal/config"
	"recipeview/internal/intake"
	"recipeview/internal/logging"
)

type loadOptions struct {
	// progress draws a progress bar on stderr when it is a terminal.
	progress bool
}

// loadSession runs the intake pipeline against the configured dataset. An
// interrupt during the fetch phase leaves the remaining images pending and the
// session still holds every accepted record.
func loadSession(cmd *cobra.Command, bench *workbench, opts loadOptions) (*intake.Session, error) {
	cfg := bench.cfg
	file, err := os.Open(cfg.Paths.Dataset)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loadOpts := intakeOptions(cfg)

	var observer *progressObserver
	if opts.progress && shouldColorize(cmd.ErrOrStderr()) {
		observer = newProgressObserver(cmd.ErrOrStderr())
		loadOpts.OnProgress = observer.observe
	}

	result, err := bench.pipeline.Load(ctx, file, loadOpts)
	if observer != nil {
		observer.finish()
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Load interrupted while validating recipes")
		}
		return nil, err
	}
	if result.Interrupted {
		bench.logger.Info("load interrupted; images will be fetched on demand",
			logging.Int("pending", len(result.Pending)),
		)
	}
	return intake.NewSession(result, bench.assets), nil
}

func intakeOptions(cfg *config.Config) intake.Options {
	return intake.Options{
		Policy:     cfg.Intake.Policy,
		Limit:      cfg.Intake.Limit,
		Dataset:    cfg.Paths.Dataset,
		Checkpoint: yieldCheckpoint,
	}
}

// yieldCheckpoint lets the signal handler and progress bar run between
// records and stops the load once the context is done.
func yieldCheckpoint(ctx context.Context) error {
	runtime.Gosched()
	return ctx.Err()
}

func summaryLine(w io.Writer, session *intake.Session) {
	stats := session.Result().Stats
	fmt.Fprintf(w, "%d recipes loaded (%d scanned, %d rejected, %d skipped; images: %d fetched, %d reused, %d unavailable, %d pending)\n",
		session.Len(),
		stats.Scanned,
		stats.RejectedTotal(),
		stats.Skipped,
		stats.Fetched,
		stats.Reused,
		stats.Unavailable,
		stats.Pending,
	)
}
