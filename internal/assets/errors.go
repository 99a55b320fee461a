package assets

import (
	"fmt"

	"recipeview/internal/services"
)

// FailureKind classifies why an asset could not be materialized.
type FailureKind string

const (
	// KindNetwork covers transport failures and non-200 responses.
	KindNetwork FailureKind = "network"
	// KindDecode covers bodies that are not a supported image.
	KindDecode FailureKind = "decode"
	// KindStorage covers local filesystem failures.
	KindStorage FailureKind = "storage"
)

// FetchError reports a failed asset fetch. The owning record is kept and
// shown without an image.
type FetchError struct {
	Kind FailureKind
	Key  string
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch asset %s (%s): %s: %v", e.Key, e.URL, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ErrorKind returns the failure kind for classification.
func (e *FetchError) ErrorKind() string { return string(e.Kind) }

// Is lets FetchError match the services markers: network failures are
// transient, decode failures are validation problems.
func (e *FetchError) Is(target error) bool {
	switch e.Kind {
	case KindNetwork:
		return target == services.ErrTransient
	case KindDecode:
		return target == services.ErrValidation
	default:
		return false
	}
}

func newFetchError(kind FailureKind, key, url string, err error) *FetchError {
	return &FetchError{Kind: kind, Key: key, URL: url, Err: err}
}
