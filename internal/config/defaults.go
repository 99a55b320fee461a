package config

import "time"

const (
	defaultDatasetPath    = "recipes.json"
	defaultAssetDir       = "images"
	defaultStateDir       = "~/.local/share/recipeview"
	defaultLogDir         = "~/.local/share/recipeview/logs"
	defaultIntakePolicy   = PolicyBounded
	defaultIntakeLimit    = 50
	defaultImageFormat    = "jpg"
	defaultImagePolicy    = ImagePolicyRescale
	defaultTargetWidth    = 200
	defaultTargetFormat   = "gif"
	defaultRequestTimeout = 15
	defaultPageSize       = 16
	defaultColumns        = 4
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultLogRetention   = 30
)

// Intake traversal policies.
const (
	PolicyBounded = "bounded"
	PolicyFull    = "full"
)

// Image encoding policies.
const (
	ImagePolicyRescale  = "rescale"
	ImagePolicyVerbatim = "verbatim"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Dataset:  defaultDatasetPath,
			AssetDir: defaultAssetDir,
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Intake: Intake{
			Policy:      defaultIntakePolicy,
			Limit:       defaultIntakeLimit,
			ImageFormat: defaultImageFormat,
		},
		Images: Images{
			Policy:         defaultImagePolicy,
			TargetWidth:    defaultTargetWidth,
			TargetFormat:   defaultTargetFormat,
			RequestTimeout: defaultRequestTimeout,
		},
		Display: Display{
			PageSize: defaultPageSize,
			Columns:  defaultColumns,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetention,
		},
	}
}

// RequestTimeout returns the per-request image timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	if c == nil || c.Images.RequestTimeout <= 0 {
		return time.Duration(defaultRequestTimeout) * time.Second
	}
	return time.Duration(c.Images.RequestTimeout) * time.Second
}
