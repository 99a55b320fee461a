package testsupport

import (
	"path/filepath"
	"testing"

	"recipeview/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.Dataset = filepath.Join(base, "recipes.json")
	cfgVal.Paths.AssetDir = filepath.Join(base, "images")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "state", "logs")
	cfgVal.Images.RequestTimeout = 5

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithIntakeLimit sets a bounded intake policy with the given limit.
func WithIntakeLimit(limit int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Intake.Policy = config.PolicyBounded
		b.cfg.Intake.Limit = limit
	}
}

// WithFullScan switches the intake policy to a full scan.
func WithFullScan() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Intake.Policy = config.PolicyFull
	}
}

// WithImagePolicy overrides the image encoding policy.
func WithImagePolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Images.Policy = policy
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
