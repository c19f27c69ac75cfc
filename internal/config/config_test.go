package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	cfg, path, exists, err := Load(missing)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing config")
	}
	if path != missing {
		t.Fatalf("expected resolved path %q, got %q", missing, path)
	}
	if cfg.Uploads.MaxConcurrent != defaultMaxConcurrent {
		t.Fatalf("expected default max_concurrent, got %d", cfg.Uploads.MaxConcurrent)
	}
	if len(cfg.Folders) != 3 {
		t.Fatalf("expected default folders, got %d", len(cfg.Folders))
	}
}

func TestLoadResolvesRelativeFolderDirs(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	content := `
[paths]
base_dir = "` + dir + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[[folders]]
name = "shorts"
dir = "Shorts"
platforms = ["youtube_shorts"]
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	want := filepath.Join(dir, "Shorts")
	if cfg.Folders[0].Dir != want {
		t.Fatalf("expected folder dir %q, got %q", want, cfg.Folders[0].Dir)
	}
}

func TestValidateRejectsDuplicateFolderNames(t *testing.T) {
	cfg := Default()
	cfg.Folders = append(cfg.Folders, Folder{Name: "Pinterest", Dir: "p2", Platforms: []string{"pinterest"}})
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "duplicated") {
		t.Fatalf("expected duplicate folder error, got %v", err)
	}
}

func TestValidateRejectsBonusPlatformsWithoutMatch(t *testing.T) {
	cfg := Default()
	cfg.Folders = []Folder{{
		Name:           "main",
		Dir:            "Main",
		Platforms:      []string{"cloudflare"},
		BonusPlatforms: []string{"youtube"},
	}}
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for bonus_platforms without bonus_match")
	}
}

func TestNormalizeExtensions(t *testing.T) {
	cfg := Default()
	cfg.Uploads.VideoExtensions = []string{"MP4", ".MOV", " webm "}
	cfg.normalizeUploads()
	want := []string{".mp4", ".mov", ".webm"}
	for i, ext := range want {
		if cfg.Uploads.VideoExtensions[i] != ext {
			t.Fatalf("extension %d: got %q, want %q", i, cfg.Uploads.VideoExtensions[i], ext)
		}
	}
}

func TestNormalizeNotifications(t *testing.T) {
	cfg := Default()
	cfg.Notifications.NtfyTopic = "  crosscast-alerts "
	cfg.Notifications.NtfyRequestTimeout = 0
	cfg.normalizeNotifications()
	if cfg.Notifications.NtfyTopic != "crosscast-alerts" {
		t.Fatalf("expected trimmed topic, got %q", cfg.Notifications.NtfyTopic)
	}
	if cfg.Notifications.NtfyRequestTimeout != defaultNtfyTimeout {
		t.Fatalf("expected default timeout, got %d", cfg.Notifications.NtfyRequestTimeout)
	}
}

func TestEnsureDirectoriesCreatesFolders(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.BaseDir = filepath.Join(dir, "base")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Paths.ArchiveDir = filepath.Join(dir, "archive")
	cfg.Folders = []Folder{{Name: "main", Dir: filepath.Join(dir, "base", "Main"), Platforms: []string{"x"}}}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, p := range []string{cfg.Paths.LogDir, cfg.Paths.ArchiveDir, cfg.Folders[0].Dir} {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q, err=%v", p, err)
		}
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[paths]") {
		t.Fatal("sample config missing [paths] section")
	}
}
