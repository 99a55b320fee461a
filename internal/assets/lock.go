package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"recipeview/internal/textutil"
)

const lockRetryDelay = 50 * time.Millisecond

// lock takes the per-key file lock, waiting until ctx is done.
func (s *Store) lock(ctx context.Context, key string) (func(), error) {
	if err := os.MkdirAll(s.lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock dir: %w", err)
	}
	fl := flock.New(filepath.Join(s.lockDir, textutil.SanitizeToken(key)+".lock"))
	ok, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire asset lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("acquire asset lock: %s is held by another writer", key)
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			s.logger.Debug("asset lock release failed", "error", err)
		}
	}, nil
}
