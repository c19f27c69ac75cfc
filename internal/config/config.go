package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// BaseDir is the root under which relative drop folder directories live.
	BaseDir string `toml:"base_dir"`
	// ArchiveDir enables the local archive upload target when set.
	ArchiveDir string `toml:"archive_dir"`
	LogDir     string `toml:"log_dir"`
}

// Folder describes a drop folder and the platforms its videos are routed to.
type Folder struct {
	Name      string   `toml:"name"`
	Dir       string   `toml:"dir"`
	Platforms []string `toml:"platforms"`
	// BonusMatch adds BonusPlatforms to files whose name contains the substring.
	BonusMatch     string   `toml:"bonus_match"`
	BonusPlatforms []string `toml:"bonus_platforms"`
}

// Uploads contains orchestration and watcher tuning.
type Uploads struct {
	MaxConcurrent   int      `toml:"max_concurrent"`
	SettleSeconds   int      `toml:"settle_seconds"`
	ExpireDays      int      `toml:"expire_days"`
	VideoExtensions []string `toml:"video_extensions"`
}

// History contains configuration for the upload history database.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Notifications contains configuration for upload event notifications.
type Notifications struct {
	// NtfyTopic is the full ntfy topic URL; empty disables notifications.
	NtfyTopic          string `toml:"ntfy_topic"`
	NtfyRequestTimeout int    `toml:"ntfy_request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for crosscast.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Folders       []Folder      `toml:"folders"`
	Uploads       Uploads       `toml:"uploads"`
	History       History       `toml:"history"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/crosscast/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("crosscast.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories crosscast needs at runtime:
// the log dir, the base dir, every drop folder, and the archive dir when set.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir, c.Paths.BaseDir}
	for _, folder := range c.Folders {
		dirs = append(dirs, folder.Dir)
	}
	if strings.TrimSpace(c.Paths.ArchiveDir) != "" {
		dirs = append(dirs, c.Paths.ArchiveDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FolderByName returns the folder config matching name, if any.
func (c *Config) FolderByName(name string) (Folder, bool) {
	for _, folder := range c.Folders {
		if strings.EqualFold(folder.Name, name) {
			return folder, true
		}
	}
	return Folder{}, false
}

// VideoExtensionSet returns the normalized extension list as a lookup set.
func (c *Config) VideoExtensionSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Uploads.VideoExtensions))
	for _, ext := range c.Uploads.VideoExtensions {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return set
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
