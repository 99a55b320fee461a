package imagecheck

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"recipeview/internal/logging"
	"recipeview/internal/recipe"
)

// HTTPDoer describes the HTTP client used for reachability checks.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Verdict explains why an image reference was accepted or rejected.
type Verdict string

const (
	VerdictOK        Verdict = "ok"
	VerdictFormat    Verdict = "format"
	VerdictStatus    Verdict = "status"
	VerdictTransport Verdict = "transport"
)

// DefaultFormat is the only image format accepted unless configured otherwise.
const DefaultFormat = "jpg"

// drainLimit bounds how much of a response body is read so keep-alive
// connections can be reused without downloading whole images.
const drainLimit = 4 << 10

// Validator checks recipe image references.
type Validator struct {
	client HTTPDoer
	format string
	logger *slog.Logger
}

// New constructs a Validator. A nil client uses http.DefaultClient and an empty
// format uses DefaultFormat. The format token is compared case-sensitively.
func New(client HTTPDoer, format string, logger *slog.Logger) *Validator {
	if client == nil {
		client = http.DefaultClient
	}
	format = strings.TrimPrefix(strings.TrimSpace(format), ".")
	if format == "" {
		format = DefaultFormat
	}
	return &Validator{
		client: client,
		format: format,
		logger: logging.NewComponentLogger(logger, "imagecheck"),
	}
}

// Format returns the accepted format token.
func (v *Validator) Format() string { return v.format }

// FormatOK reports whether url ends with the configured format token.
func (v *Validator) FormatOK(url string) bool {
	return strings.HasSuffix(url, v.format)
}

// Reachable issues one GET and reports whether the status was exactly 200.
func (v *Validator) Reachable(ctx context.Context, url string) bool {
	return v.reach(ctx, url) == VerdictOK
}

// Valid reports whether raw's image passes the format and reachability checks.
func (v *Validator) Valid(ctx context.Context, raw recipe.RawRecipe) bool {
	return v.Check(ctx, raw) == VerdictOK
}

// Check returns the verdict for raw's image reference.
func (v *Validator) Check(ctx context.Context, raw recipe.RawRecipe) Verdict {
	return v.CheckURL(ctx, raw.Image)
}

// CheckURL returns the verdict for a bare image URL.
func (v *Validator) CheckURL(ctx context.Context, url string) Verdict {
	if !v.FormatOK(url) {
		return VerdictFormat
	}
	return v.reach(ctx, url)
}

func (v *Validator) reach(ctx context.Context, url string) Verdict {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		v.logger.Debug("image request rejected",
			logging.String(logging.FieldURL, url),
			logging.Error(err),
		)
		return VerdictTransport
	}
	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Debug("image unreachable",
			logging.String(logging.FieldURL, url),
			logging.Error(err),
		)
		return VerdictTransport
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))

	if resp.StatusCode != http.StatusOK {
		v.logger.Debug("image status rejected",
			logging.String(logging.FieldURL, url),
			logging.Int("status", resp.StatusCode),
		)
		return VerdictStatus
	}
	return VerdictOK
}
