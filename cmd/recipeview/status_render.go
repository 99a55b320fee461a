package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"recipeview/internal/catalog"
	"recipeview/internal/preflight"
	"recipeview/internal/textutil"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

// preflightLines renders one status line per check, preceded by a summary.
func preflightLines(results []preflight.Result, colorize bool) []string {
	failed := preflight.Failed(results)
	lines := make([]string, 0, len(results)+1)
	switch {
	case len(results) == 0:
		lines = append(lines, renderStatusLine("Summary", statusWarn, "No checks ran", colorize))
	case len(failed) == 0:
		lines = append(lines, renderStatusLine("Summary", statusOK, fmt.Sprintf("%d checks passed", len(results)), colorize))
	default:
		lines = append(lines, renderStatusLine("Summary", statusError, fmt.Sprintf("%d of %d checks failed", len(failed), len(results)), colorize))
	}
	for _, r := range results {
		kind := statusOK
		if !r.Passed {
			kind = statusError
		}
		lines = append(lines, renderStatusLine(r.Name, kind, r.Detail, colorize))
	}
	return lines
}

// assetLines summarizes ledger counts by state. Unavailable assets warn.
func assetLines(stats map[catalog.AssetState]int, colorize bool) []string {
	states := []catalog.AssetState{catalog.AssetFetched, catalog.AssetReused, catalog.AssetUnavailable}
	lines := make([]string, 0, len(states))
	for _, state := range states {
		count := stats[state]
		kind := statusInfo
		if state == catalog.AssetUnavailable && count > 0 {
			kind = statusWarn
		}
		lines = append(lines, renderStatusLine(textutil.Title(string(state)), kind, fmt.Sprintf("%d", count), colorize))
	}
	return lines
}

// runLine renders a single intake run.
func runLine(run *catalog.Run, colorize bool) string {
	kind := statusInfo
	switch run.Status {
	case catalog.RunCompleted:
		kind = statusOK
	case catalog.RunCanceled:
		kind = statusWarn
	case catalog.RunFailed:
		kind = statusError
	}
	message := fmt.Sprintf("%s %s", run.Status, run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if d := run.Duration(); d > 0 {
		message += fmt.Sprintf(" (%s)", d.Round(10*time.Millisecond))
	}
	if run.ErrorMessage != "" {
		message += ": " + run.ErrorMessage
	}
	label := run.ID
	if len(label) > 8 {
		label = label[:8]
	}
	return renderStatusLine(label, kind, message, colorize)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
