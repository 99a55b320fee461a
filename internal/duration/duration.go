package duration

import (
	"fmt"
	"math"
	"strings"

	isoduration "github.com/sosodev/duration"
)

// Empty is the rendering of a missing duration.
const Empty = "00:00"

// ParseError reports a non-empty value that is not a valid ISO-8601 duration.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid duration %q", e.Input)
	}
	return fmt.Sprintf("invalid duration %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrorKind classifies parse failures as validation problems.
func (e *ParseError) ErrorKind() string { return "validation" }

// Normalize renders an ISO-8601 duration as HH:MM.
func Normalize(iso string) (string, error) {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return Empty, nil
	}
	if !strings.ContainsAny(iso[len(iso)-1:], "YMWDHS") {
		return "", &ParseError{Input: iso, Err: fmt.Errorf("missing unit designator")}
	}
	parsed, err := isoduration.Parse(iso)
	if err != nil {
		return "", &ParseError{Input: iso, Err: err}
	}
	if parsed.Negative {
		return "", &ParseError{Input: iso, Err: fmt.Errorf("negative durations are not supported")}
	}
	hours, minutes := split(parsed)
	return Format(hours, minutes), nil
}

// Format renders hours and minutes, carrying whole hours out of minutes.
func Format(hours, minutes int) string {
	if minutes >= 60 {
		hours += minutes / 60
		minutes %= 60
	}
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

func split(d *isoduration.Duration) (int, int) {
	totalHours := d.Weeks*168 + d.Days*24 + d.Hours
	wholeHours := math.Floor(totalHours)
	minutes := (totalHours-wholeHours)*60 + d.Minutes + math.Floor(d.Seconds/60)
	// fractional minutes left after folding are dropped like leftover seconds
	return int(wholeHours), int(math.Floor(minutes + 1e-9))
}
