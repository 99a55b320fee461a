package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"recipeview/internal/assets"
	"recipeview/internal/catalog"
	"recipeview/internal/config"
	"recipeview/internal/imagecheck"
	"recipeview/internal/intake"
	"recipeview/internal/logging"
)

type commandContext struct {
	configFlag  *string
	datasetFlag *string
	limitFlag   *int
	fullFlag    *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, datasetFlag *string, limitFlag *int, fullFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		datasetFlag: datasetFlag,
		limitFlag:   limitFlag,
		fullFlag:    fullFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := c.applyOverrides(cfg); err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// applyOverrides folds the persistent flags into cfg.
func (c *commandContext) applyOverrides(cfg *config.Config) error {
	if c.datasetFlag != nil {
		if dataset := strings.TrimSpace(*c.datasetFlag); dataset != "" {
			expanded, err := config.ExpandPath(dataset)
			if err != nil {
				return fmt.Errorf("resolve dataset path: %w", err)
			}
			cfg.Paths.Dataset = expanded
		}
	}
	if c.limitFlag != nil && *c.limitFlag != 0 {
		if *c.limitFlag < 0 {
			return fmt.Errorf("--limit must be positive, got %d", *c.limitFlag)
		}
		cfg.Intake.Limit = *c.limitFlag
		cfg.Intake.Policy = config.PolicyBounded
	}
	if c.fullFlag != nil && *c.fullFlag {
		cfg.Intake.Policy = config.PolicyFull
	}
	return nil
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		logging.CleanupOldLogs(logger, cfg.Paths.LogDir, "*.log", cfg.Logging.RetentionDays)
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) openCatalog() (*catalog.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open asset ledger: %w", err)
	}
	return store, nil
}

// workbench bundles the collaborators a load needs. Close releases the ledger.
type workbench struct {
	cfg      *config.Config
	logger   *slog.Logger
	ledger   *catalog.Store
	assets   *assets.Store
	pipeline *intake.Pipeline
}

func (c *commandContext) newWorkbench() (*workbench, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	ledger, err := c.openCatalog()
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: cfg.RequestTimeout()}
	store := assets.NewFromConfig(cfg, ledger, logger)
	pipeline := intake.New(intake.Deps{
		Validator: imagecheck.New(client, cfg.Intake.ImageFormat, logger),
		Fetcher:   store,
		Ledger:    ledger,
		Extension: cfg.TargetExtension(),
		Logger:    logger,
	})

	return &workbench{
		cfg:      cfg,
		logger:   logger,
		ledger:   ledger,
		assets:   store,
		pipeline: pipeline,
	}, nil
}

func (w *workbench) Close() error {
	if w == nil || w.ledger == nil {
		return nil
	}
	return w.ledger.Close()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
