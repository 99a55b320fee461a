package intake

import "fmt"

// InsufficientDataError reports a bounded load whose document ran out before
// the limit was reached. It is fatal: no partial result is returned.
type InsufficientDataError struct {
	Wanted int
	Got    int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: wanted %d valid recipes, found %d", e.Wanted, e.Got)
}

// ErrorKind classifies the failure.
func (e *InsufficientDataError) ErrorKind() string { return "insufficient_data" }
