package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"crosscast/internal/config"
	"crosscast/internal/history"
	"crosscast/internal/logging"
	"crosscast/internal/status"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
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
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) tracker() (*status.Tracker, error) {
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return status.NewTracker(logger), nil
}

// openHistory opens the history store; callers own Close. Returns nil
// without error when history is disabled.
func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, nil
	}
	store, err := history.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

// foldersFor resolves an optional folder-name argument to the folders a
// command should operate on. An empty name selects every configured folder.
func (c *commandContext) foldersFor(name string) ([]config.Folder, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return cfg.Folders, nil
	}
	folder, ok := cfg.FolderByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown folder %q", name)
	}
	return []config.Folder{folder}, nil
}
