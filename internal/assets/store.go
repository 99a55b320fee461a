package assets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"recipeview/internal/catalog"
	"recipeview/internal/config"
	"recipeview/internal/fileutil"
	"recipeview/internal/logging"
	"recipeview/internal/recipe"
	"recipeview/internal/services"
)

// maxImageBytes caps a single download.
const maxImageBytes = 20 << 20

// HTTPDoer describes the HTTP client used to download images.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Ledger receives the outcome of every fetch.
type Ledger interface {
	RecordAsset(ctx context.Context, asset catalog.Asset) error
}

// Options configures a Store.
type Options struct {
	Root string
	// LockDir holds per-key lock files. Empty places them next to Root in
	// a sibling directory named after it.
	LockDir      string
	Policy       string
	TargetWidth  int
	TargetFormat string
	Client       HTTPDoer
	Ledger       Ledger
	Logger       *slog.Logger
}

// Outcome describes a successful fetch.
type Outcome struct {
	State       catalog.AssetState
	Path        string
	ContentType string
	Width       int
	Height      int
	SizeBytes   int64
}

// Store materializes recipe images under a root directory.
type Store struct {
	root         string
	lockDir      string
	policy       string
	targetWidth  int
	targetFormat string
	client       HTTPDoer
	ledger       Ledger
	logger       *slog.Logger
}

// New constructs a Store. Missing options fall back to the rescale policy,
// a 200 pixel width, GIF output and http.DefaultClient.
func New(opts Options) *Store {
	policy := strings.ToLower(strings.TrimSpace(opts.Policy))
	if policy == "" {
		policy = config.ImagePolicyRescale
	}
	format := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(opts.TargetFormat), "."))
	if format == "" {
		format = "gif"
	}
	width := opts.TargetWidth
	if width <= 0 {
		width = 200
	}
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	lockDir := opts.LockDir
	if lockDir == "" {
		lockDir = filepath.Clean(opts.Root) + ".locks"
	}
	return &Store{
		root:         opts.Root,
		lockDir:      lockDir,
		policy:       policy,
		targetWidth:  width,
		targetFormat: format,
		client:       client,
		ledger:       opts.Ledger,
		logger:       logging.NewComponentLogger(opts.Logger, "assets"),
	}
}

// NewFromConfig builds a Store from application config. The HTTP client
// applies the configured per-request timeout.
func NewFromConfig(cfg *config.Config, ledger Ledger, logger *slog.Logger) *Store {
	return New(Options{
		Root:         cfg.Paths.AssetDir,
		LockDir:      cfg.LockDir(),
		Policy:       cfg.Images.Policy,
		TargetWidth:  cfg.Images.TargetWidth,
		TargetFormat: cfg.Images.TargetFormat,
		Client:       &http.Client{Timeout: cfg.RequestTimeout()},
		Ledger:       ledger,
		Logger:       logger,
	})
}

// Root returns the asset directory.
func (s *Store) Root() string { return s.root }

// Path returns where the asset for key lives.
func (s *Store) Path(key string) string {
	return filepath.Join(s.root, key)
}

// Exists reports whether the asset for key is already on disk.
func (s *Store) Exists(key string) bool {
	return fileutil.FileExists(s.Path(key))
}

// Fetch ensures the record's image exists locally.
func (s *Store) Fetch(ctx context.Context, rec recipe.Record) error {
	_, err := s.Materialize(ctx, rec)
	return err
}

// Materialize ensures the record's image exists locally and reports whether
// it was downloaded or already present. Failures are *FetchError values.
func (s *Store) Materialize(ctx context.Context, rec recipe.Record) (Outcome, error) {
	key := rec.AssetKey()
	logger := logging.WithContext(ctx, s.logger).With(
		logging.String(logging.FieldAssetKey, key),
		logging.String(logging.FieldRecipe, rec.Name()),
	)

	outcome, err := s.materialize(ctx, rec)
	s.record(ctx, rec, outcome, err, logger)
	if err != nil {
		return Outcome{}, err
	}
	if outcome.State == catalog.AssetFetched {
		logger.Debug("asset stored",
			logging.String("path", outcome.Path),
			logging.Int("width", outcome.Width),
			logging.Int("height", outcome.Height),
			logging.Int64("bytes", outcome.SizeBytes),
		)
	}
	return outcome, nil
}

func (s *Store) materialize(ctx context.Context, rec recipe.Record) (Outcome, error) {
	key := rec.AssetKey()
	path := s.Path(key)
	if s.Exists(key) {
		return Outcome{State: catalog.AssetReused, Path: path}, nil
	}

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return Outcome{}, newFetchError(KindStorage, key, rec.ImageURL(), fmt.Errorf("ensure asset dir: %w", err))
	}

	unlock, err := s.lock(ctx, key)
	if err != nil {
		return Outcome{}, newFetchError(KindStorage, key, rec.ImageURL(), err)
	}
	defer unlock()

	// another writer may have finished while we waited for the lock
	if s.Exists(key) {
		return Outcome{State: catalog.AssetReused, Path: path}, nil
	}

	data, err := s.download(ctx, rec.ImageURL())
	if err != nil {
		return Outcome{}, newFetchError(KindNetwork, key, rec.ImageURL(), err)
	}
	contentType := sniff(data)

	outcome := Outcome{State: catalog.AssetFetched, Path: path, ContentType: contentType}
	if s.policy == config.ImagePolicyVerbatim {
		if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
			return Outcome{}, newFetchError(KindStorage, key, rec.ImageURL(), err)
		}
		outcome.SizeBytes = int64(len(data))
		return outcome, nil
	}

	img, err := convert(data, contentType, s.targetWidth)
	if err != nil {
		return Outcome{}, newFetchError(KindDecode, key, rec.ImageURL(), err)
	}
	var written int64
	err = fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		counter := &countingWriter{w: w}
		if err := encode(counter, img.img, s.targetFormat); err != nil {
			return fmt.Errorf("encode %s: %w", s.targetFormat, err)
		}
		written = counter.n
		return nil
	})
	if err != nil {
		return Outcome{}, newFetchError(KindStorage, key, rec.ImageURL(), err)
	}
	outcome.Width = img.width
	outcome.Height = img.height
	outcome.SizeBytes = written
	return outcome, nil
}

func (s *Store) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image request returned %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}
	return data, nil
}

func (s *Store) record(ctx context.Context, rec recipe.Record, outcome Outcome, fetchErr error, logger *slog.Logger) {
	if s.ledger == nil {
		return
	}
	if fetchErr != nil && ctx.Err() != nil {
		// interrupted fetches are retried just in time, not marked unavailable
		return
	}
	runID, _ := services.RunIDFromContext(ctx)
	entry := catalog.Asset{
		Key:         rec.AssetKey(),
		URL:         rec.ImageURL(),
		RecipeName:  rec.Name(),
		State:       outcome.State,
		ContentType: outcome.ContentType,
		Width:       outcome.Width,
		Height:      outcome.Height,
		SizeBytes:   outcome.SizeBytes,
		RunID:       runID,
		UpdatedAt:   time.Now().UTC(),
	}
	if fetchErr != nil {
		entry.State = catalog.AssetUnavailable
		entry.ErrorKind = services.Kind(fetchErr)
		entry.ErrorMessage = fetchErr.Error()
	}
	// the ledger write must survive a canceled intake
	if err := s.ledger.RecordAsset(context.WithoutCancel(ctx), entry); err != nil {
		logging.WarnWithContext(logger, "asset ledger update failed", "ledger_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the catalog database under state_dir"),
			logging.String(logging.FieldImpact, "assets and status commands show stale data"),
		)
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
