package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateFolders(); err != nil {
		return err
	}
	if err := c.validateUploads(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.BaseDir) == "" {
		return errors.New("paths.base_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateFolders() error {
	if len(c.Folders) == 0 {
		return errors.New("at least one [[folders]] entry is required")
	}
	seen := make(map[string]struct{}, len(c.Folders))
	for i, folder := range c.Folders {
		if folder.Name == "" {
			return fmt.Errorf("folders[%d].name must be set", i)
		}
		key := strings.ToLower(folder.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("folders[%d].name %q is duplicated", i, folder.Name)
		}
		seen[key] = struct{}{}
		if len(folder.Platforms) == 0 {
			return fmt.Errorf("folders[%d] (%s) must route to at least one platform", i, folder.Name)
		}
		if len(folder.BonusPlatforms) > 0 && strings.TrimSpace(folder.BonusMatch) == "" {
			return fmt.Errorf("folders[%d] (%s) sets bonus_platforms without bonus_match", i, folder.Name)
		}
	}
	return nil
}

func (c *Config) validateUploads() error {
	if c.Uploads.MaxConcurrent < 1 {
		return errors.New("uploads.max_concurrent must be at least 1")
	}
	for i, ext := range c.Uploads.VideoExtensions {
		if strings.TrimSpace(ext) == "" {
			return fmt.Errorf("uploads.video_extensions[%d] is empty", i)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
