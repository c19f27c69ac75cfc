package library_test

import (
	"os"
	"path/filepath"
	"testing"

	"crosscast/internal/config"
	"crosscast/internal/library"
	"crosscast/internal/logging"
	"crosscast/internal/status"
)

func newConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.BaseDir = base
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Folders = []config.Folder{
		{
			Name:           "cloudflare",
			Dir:            filepath.Join(base, "CloudFlare"),
			Platforms:      []string{"cloudflare", "facebook"},
			BonusMatch:     "001",
			BonusPlatforms: []string{"youtube"},
		},
		{
			Name:      "pinterest",
			Dir:       filepath.Join(base, "Pinterest"),
			Platforms: []string{"pinterest"},
		},
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	return &cfg
}

func newScanner(t *testing.T, cfg *config.Config) (*library.Scanner, *status.Tracker) {
	t.Helper()
	tracker := status.NewTracker(logging.NewNop())
	return library.NewScanner(cfg, tracker, logging.NewNop()), tracker
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScanFiltersAndRoutes(t *testing.T) {
	cfg := newConfig(t)
	scanner, tracker := newScanner(t, cfg)

	cloudflare := cfg.Folders[0].Dir
	pinterest := cfg.Folders[1].Dir

	writeFile(t, filepath.Join(cloudflare, "intro.mp4"), "data")
	writeFile(t, filepath.Join(cloudflare, "clip 001.mov"), "data")
	writeFile(t, filepath.Join(cloudflare, "notes.txt"), "not a video")
	writeFile(t, filepath.Join(cloudflare, "empty.mp4"), "")
	writeFile(t, filepath.Join(pinterest, "nested", "pin.mp4"), "data")

	uploaded := writeFile(t, filepath.Join(pinterest, "done.mp4"), "data")
	tracker.MarkCompleted(uploaded, []string{"pinterest"}, "")

	files := scanner.Scan()
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d: %+v", len(files), files)
	}

	byName := make(map[string]library.FileInfo, len(files))
	for _, file := range files {
		byName[file.Name] = file
	}

	intro := byName["intro.mp4"]
	if intro.Folder != "cloudflare" {
		t.Fatalf("intro folder: %s", intro.Folder)
	}
	if len(intro.Platforms) != 2 || intro.Platforms[0] != "cloudflare" || intro.Platforms[1] != "facebook" {
		t.Fatalf("intro platforms: %v", intro.Platforms)
	}

	clip := byName["clip 001.mov"]
	if len(clip.Platforms) != 3 || clip.Platforms[2] != "youtube" {
		t.Fatalf("bonus platform missing: %v", clip.Platforms)
	}

	pin := byName["pin.mp4"]
	if pin.Folder != "pinterest" {
		t.Fatalf("nested file folder: %s", pin.Folder)
	}
}

func TestScanSkipsUploadingAndCompleted(t *testing.T) {
	cfg := newConfig(t)
	scanner, tracker := newScanner(t, cfg)
	dir := cfg.Folders[0].Dir

	uploading := writeFile(t, filepath.Join(dir, "busy.mp4"), "data")
	failed := writeFile(t, filepath.Join(dir, "retry.mp4"), "data")
	tracker.Create(uploading, status.KindUploading, "")
	tracker.MarkFailed(failed, "network error")

	files := scanner.Scan()
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	// Failed uploads stay eligible for another attempt.
	if files[0].Name != "retry.mp4" {
		t.Fatalf("expected retry.mp4, got %s", files[0].Name)
	}
}

func TestDescribeReadsSidecarMetadata(t *testing.T) {
	cfg := newConfig(t)
	scanner, _ := newScanner(t, cfg)
	dir := cfg.Folders[1].Dir

	video := writeFile(t, filepath.Join(dir, "recipe.mp4"), "data")
	writeFile(t, filepath.Join(dir, "recipe TITLE.txt"), "Five Minute Pasta\n")
	writeFile(t, filepath.Join(dir, "DESCRIPTION.txt"), "Folder-wide description")

	info, err := scanner.Describe(video)
	if err != nil {
		t.Fatal(err)
	}
	if info.Title != "Five Minute Pasta" {
		t.Fatalf("title: %q", info.Title)
	}
	if info.Description != "Folder-wide description" {
		t.Fatalf("description: %q", info.Description)
	}
	if info.ShortDescription != "" {
		t.Fatalf("short description should be empty, got %q", info.ShortDescription)
	}
}

func TestDescribeInfersTitle(t *testing.T) {
	cfg := newConfig(t)
	scanner, _ := newScanner(t, cfg)
	dir := cfg.Folders[1].Dir

	video := writeFile(t, filepath.Join(dir, "042_morning-routine_v2.mp4"), "data")
	info, err := scanner.Describe(video)
	if err != nil {
		t.Fatal(err)
	}
	if info.Title != "Morning Routine V2" {
		t.Fatalf("inferred title: %q", info.Title)
	}
}

func TestDescribeRejectsOutsidePaths(t *testing.T) {
	cfg := newConfig(t)
	scanner, _ := newScanner(t, cfg)

	stray := writeFile(t, filepath.Join(t.TempDir(), "stray.mp4"), "data")
	if _, err := scanner.Describe(stray); err == nil {
		t.Fatal("expected error for path outside configured folders")
	}
	text := writeFile(t, filepath.Join(cfg.Folders[0].Dir, "readme.txt"), "data")
	if _, err := scanner.Describe(text); err == nil {
		t.Fatal("expected error for non-video path")
	}
}

func TestFolderStats(t *testing.T) {
	cfg := newConfig(t)
	scanner, _ := newScanner(t, cfg)

	writeFile(t, filepath.Join(cfg.Folders[0].Dir, "a.mp4"), "data")
	writeFile(t, filepath.Join(cfg.Folders[0].Dir, "b.mp4"), "data")
	writeFile(t, filepath.Join(cfg.Folders[1].Dir, "c.mp4"), "data")

	counts, total := scanner.FolderStats()
	if total != 3 {
		t.Fatalf("total: %d", total)
	}
	if len(counts) != 2 || counts[0].Videos != 2 || counts[1].Videos != 1 {
		t.Fatalf("counts: %+v", counts)
	}
}

func TestEnsureFoldersCreatesMissing(t *testing.T) {
	cfg := newConfig(t)
	scanner, _ := newScanner(t, cfg)

	if err := os.RemoveAll(cfg.Folders[0].Dir); err != nil {
		t.Fatal(err)
	}
	if err := scanner.EnsureFolders(); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(cfg.Folders[0].Dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("folder not recreated: %v", err)
	}
}

func TestScanMissingFolderIsEmpty(t *testing.T) {
	cfg := newConfig(t)
	cfg.Folders = append(cfg.Folders, config.Folder{
		Name:      "ghost",
		Dir:       filepath.Join(cfg.Paths.BaseDir, "Ghost"),
		Platforms: []string{"nowhere"},
	})
	scanner, _ := newScanner(t, cfg)

	files, err := scanner.ScanFolder("ghost")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Fatalf("expected empty, got %d", len(files))
	}
}
