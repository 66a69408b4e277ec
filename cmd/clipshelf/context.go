package main

import (
	"log/slog"

	"clipshelf/internal/catalog"
	"clipshelf/internal/clip"
	"clipshelf/internal/config"
	"clipshelf/internal/logging"
	"clipshelf/internal/relink"
)

// commandContext lazily loads configuration and opens components so that
// commands share one catalog store per invocation.
type commandContext struct {
	configFlag *string

	cfg     *config.Config
	logger  *slog.Logger
	store   *catalog.Store
	matcher *relink.Matcher
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, _, _, err := config.Load(*c.configFlag)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// cliLogger keeps interactive commands quiet; serve swaps in the full
// configured logger.
func (c *commandContext) cliLogger() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console"})
	if err != nil {
		logger = logging.NewNop()
	}
	c.logger = logger
	return c.logger
}

func (c *commandContext) openStore() (*catalog.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := catalog.Open(cfg, c.cliLogger())
	if err != nil {
		return nil, err
	}
	c.store = store
	return store, nil
}

func (c *commandContext) openMatcher() (*relink.Matcher, error) {
	if c.matcher != nil {
		return c.matcher, nil
	}
	store, err := c.openStore()
	if err != nil {
		return nil, err
	}
	c.matcher = relink.NewMatcher(c.cfg, store, c.cliLogger())
	return c.matcher, nil
}

func (c *commandContext) newPipeline() (*clip.Pipeline, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return clip.NewPipeline(cfg, c.cliLogger()), nil
}
