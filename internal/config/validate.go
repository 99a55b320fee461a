package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateIntake(); err != nil {
		return err
	}
	if err := c.validateImages(); err != nil {
		return err
	}
	if err := c.validateDisplay(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateIntake() error {
	switch c.Intake.Policy {
	case PolicyBounded:
		if c.Intake.Limit <= 0 {
			return errors.New("intake.limit must be positive when intake.policy is \"bounded\"")
		}
	case PolicyFull:
	default:
		return fmt.Errorf("intake.policy: unsupported value %q (want %q or %q)", c.Intake.Policy, PolicyBounded, PolicyFull)
	}
	if len(c.Intake.ImageFormat) != 3 {
		return fmt.Errorf("intake.image_format must be exactly three characters, got %q", c.Intake.ImageFormat)
	}
	return nil
}

func (c *Config) validateImages() error {
	switch c.Images.Policy {
	case ImagePolicyRescale:
		switch c.Images.TargetFormat {
		case "gif", "png":
		default:
			return fmt.Errorf("images.target_format: unsupported value %q (want gif or png)", c.Images.TargetFormat)
		}
		if c.Images.TargetWidth <= 0 {
			return errors.New("images.target_width must be positive")
		}
	case ImagePolicyVerbatim:
	default:
		return fmt.Errorf("images.policy: unsupported value %q (want %q or %q)", c.Images.Policy, ImagePolicyRescale, ImagePolicyVerbatim)
	}
	if c.Images.RequestTimeout < 0 {
		return errors.New("images.request_timeout must not be negative")
	}
	return nil
}

func (c *Config) validateDisplay() error {
	if c.Display.PageSize <= 0 {
		return errors.New("display.page_size must be positive")
	}
	if c.Display.Columns <= 0 {
		return errors.New("display.columns must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must not be negative")
	}
	return nil
}
