package main

import (
	"strings"
	"sync"

	"unicsv/internal/config"
	"unicsv/internal/logging"
	"unicsv/internal/pipeline"
	"unicsv/internal/tracker"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
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
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) withStore(fn func(*tracker.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := tracker.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// withService builds the full conversion stack. The delimiter override, when
// non-empty, replaces the configured value for this invocation only and is
// validated the same way the config file is.
func (c *commandContext) withService(delimiter string, fn func(*pipeline.Service) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if delimiter != "" {
		override := *cfg
		override.Conversion.Delimiter = delimiter
		if err := override.Validate(); err != nil {
			return err
		}
		cfg = &override
	}

	store, err := tracker.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	svc, err := pipeline.New(cfg, store, logger)
	if err != nil {
		return err
	}
	return fn(svc)
}
