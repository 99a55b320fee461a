package intake

import (
	"context"
	"strings"

	"recipeview/internal/recipe"
	"recipeview/internal/textutil"
)

// AssetSource is what a Session needs from the asset store.
type AssetSource interface {
	Fetcher
	Path(key string) string
	Exists(key string) bool
}

// Session is the read-only view of a completed load handed to the front end.
type Session struct {
	result  *Result
	assets  AssetSource
	pending map[string]bool
}

// NewSession wraps result for presentation.
func NewSession(result *Result, source AssetSource) *Session {
	if result == nil {
		result = &Result{}
	}
	if result.Unavailable == nil {
		result.Unavailable = map[string]string{}
	}
	pending := make(map[string]bool, len(result.Pending))
	for _, key := range result.Pending {
		pending[key] = true
	}
	return &Session{result: result, assets: source, pending: pending}
}

// Records returns the accepted records in source order.
func (s *Session) Records() []recipe.Record {
	return append([]recipe.Record(nil), s.result.Records...)
}

// Len returns the number of records.
func (s *Session) Len() int { return len(s.result.Records) }

// Record returns the record at index.
func (s *Session) Record(index int) (recipe.Record, bool) {
	if index < 0 || index >= len(s.result.Records) {
		return recipe.Record{}, false
	}
	return s.result.Records[index], true
}

// Find returns the index of the first record whose name equals name, ignoring case.
func (s *Session) Find(name string) (int, bool) {
	want := textutil.Fold(strings.TrimSpace(name))
	for i, rec := range s.result.Records {
		if textutil.Fold(rec.Name()) == want {
			return i, true
		}
	}
	return -1, false
}

// Result returns the underlying load result.
func (s *Session) Result() *Result { return s.result }

// ImageState describes whether a record's image can be shown.
type ImageState string

const (
	ImageReady       ImageState = "ready"
	ImagePending     ImageState = "pending"
	ImageUnavailable ImageState = "unavailable"
)

// ImageState reports the state of rec's image without touching the network.
func (s *Session) ImageState(rec recipe.Record) ImageState {
	key := rec.AssetKey()
	if s.assets != nil && s.assets.Exists(key) {
		return ImageReady
	}
	if _, failed := s.result.Unavailable[key]; failed {
		return ImageUnavailable
	}
	return ImagePending
}

// EnsureImage fetches rec's image just in time when it is not on disk yet and
// returns its path. ok is false when the image cannot be shown; the caller
// renders a placeholder.
func (s *Session) EnsureImage(ctx context.Context, rec recipe.Record) (path string, ok bool) {
	if s.assets == nil {
		return "", false
	}
	key := rec.AssetKey()
	if s.assets.Exists(key) {
		return s.assets.Path(key), true
	}
	if _, err := s.assets.Materialize(ctx, rec); err != nil {
		if ctx.Err() == nil {
			s.result.Unavailable[key] = failureKind(err)
		}
		return "", false
	}
	delete(s.pending, key)
	delete(s.result.Unavailable, key)
	return s.assets.Path(key), true
}

// PendingCount returns how many records still await a just-in-time fetch.
func (s *Session) PendingCount() int { return len(s.pending) }
