package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"recipeview/internal/intake"
)

// progressObserver renders intake progress as a terminal bar. One bar is used
// per phase; a phase change finishes the previous bar.
type progressObserver struct {
	out   io.Writer
	mu    sync.Mutex
	bar   *progressbar.ProgressBar
	phase intake.Phase
}

func newProgressObserver(out io.Writer) *progressObserver {
	return &progressObserver{out: out}
}

func (o *progressObserver) observe(phase intake.Phase, completed, total int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.bar == nil || o.phase != phase {
		o.finishLocked()
		o.phase = phase
		o.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(o.out),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetDescription(phaseLabel(phase, completed, total)),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetRenderBlankState(true),
		)
	}
	if o.bar.GetMax() != total {
		o.bar.ChangeMax(total)
	}
	o.bar.Describe(phaseLabel(phase, completed, total))
	_ = o.bar.Set(completed)
}

func (o *progressObserver) finish() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finishLocked()
}

func (o *progressObserver) finishLocked() {
	if o.bar == nil {
		return
	}
	_ = o.bar.Finish()
	o.bar = nil
}

func phaseLabel(phase intake.Phase, completed, total int) string {
	switch phase {
	case intake.PhaseValidate:
		return fmt.Sprintf("validating & creating recipe objects (%d/%d)", completed, total)
	case intake.PhaseFetch:
		return fmt.Sprintf("fetching images (%d/%d)", completed, total)
	default:
		return fmt.Sprintf("%s (%d/%d)", phase, completed, total)
	}
}
