package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeFolders(); err != nil {
		return err
	}
	c.normalizeUploads()
	c.normalizeLogging()
	c.normalizeNotifications()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.BaseDir, err = expandPath(c.Paths.BaseDir); err != nil {
		return fmt.Errorf("paths.base_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ArchiveDir) != "" {
		if c.Paths.ArchiveDir, err = expandPath(c.Paths.ArchiveDir); err != nil {
			return fmt.Errorf("paths.archive_dir: %w", err)
		}
	}
	return nil
}

// normalizeFolders resolves relative folder dirs against the base dir.
func (c *Config) normalizeFolders() error {
	for i := range c.Folders {
		folder := &c.Folders[i]
		folder.Name = strings.TrimSpace(folder.Name)
		dir := strings.TrimSpace(folder.Dir)
		if dir == "" {
			dir = folder.Name
		}
		if !filepath.IsAbs(dir) && !strings.HasPrefix(dir, "~") {
			dir = filepath.Join(c.Paths.BaseDir, dir)
		}
		expanded, err := expandPath(dir)
		if err != nil {
			return fmt.Errorf("folders[%d].dir: %w", i, err)
		}
		folder.Dir = expanded
	}
	return nil
}

func (c *Config) normalizeUploads() {
	if c.Uploads.MaxConcurrent <= 0 {
		c.Uploads.MaxConcurrent = defaultMaxConcurrent
	}
	if c.Uploads.SettleSeconds <= 0 {
		c.Uploads.SettleSeconds = defaultSettleSeconds
	}
	if c.Uploads.ExpireDays < 0 {
		c.Uploads.ExpireDays = 0
	}
	if len(c.Uploads.VideoExtensions) == 0 {
		c.Uploads.VideoExtensions = append([]string{}, defaultVideoExtensions...)
	}
	for i, ext := range c.Uploads.VideoExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Uploads.VideoExtensions[i] = ext
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyRequestTimeout <= 0 {
		c.Notifications.NtfyRequestTimeout = defaultNtfyTimeout
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
