package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeIntake()
	c.normalizeImages()
	c.normalizeDisplay()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("RECIPEVIEW_DATASET"); ok && strings.TrimSpace(value) != "" {
		c.Paths.Dataset = value
	}
	if value, ok := os.LookupEnv("RECIPEVIEW_ASSET_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.AssetDir = value
	}
	if strings.TrimSpace(c.Paths.Dataset) == "" {
		c.Paths.Dataset = defaultDatasetPath
	}
	if strings.TrimSpace(c.Paths.AssetDir) == "" {
		c.Paths.AssetDir = defaultAssetDir
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}

	var err error
	if c.Paths.Dataset, err = expandPath(c.Paths.Dataset); err != nil {
		return fmt.Errorf("paths.dataset: %w", err)
	}
	if c.Paths.AssetDir, err = expandPath(c.Paths.AssetDir); err != nil {
		return fmt.Errorf("paths.asset_dir: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeIntake() {
	c.Intake.Policy = strings.ToLower(strings.TrimSpace(c.Intake.Policy))
	if c.Intake.Policy == "" {
		c.Intake.Policy = defaultIntakePolicy
	}
	// The suffix check is case-sensitive on purpose; only whitespace and a
	// leading dot are stripped here.
	c.Intake.ImageFormat = strings.TrimPrefix(strings.TrimSpace(c.Intake.ImageFormat), ".")
	if c.Intake.ImageFormat == "" {
		c.Intake.ImageFormat = defaultImageFormat
	}
}

func (c *Config) normalizeImages() {
	c.Images.Policy = strings.ToLower(strings.TrimSpace(c.Images.Policy))
	if c.Images.Policy == "" {
		c.Images.Policy = defaultImagePolicy
	}
	c.Images.TargetFormat = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Images.TargetFormat), "."))
	if c.Images.TargetFormat == "" {
		c.Images.TargetFormat = defaultTargetFormat
	}
	if c.Images.TargetWidth == 0 {
		c.Images.TargetWidth = defaultTargetWidth
	}
	if c.Images.RequestTimeout == 0 {
		c.Images.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeDisplay() {
	if c.Display.PageSize == 0 {
		c.Display.PageSize = defaultPageSize
	}
	if c.Display.Columns == 0 {
		c.Display.Columns = defaultColumns
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
