package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"crosscast/internal/config"
	"crosscast/internal/logging"
	"crosscast/internal/watcher"
)

func newConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.BaseDir = base
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Uploads.SettleSeconds = 1
	cfg.Folders = []config.Folder{
		{
			Name:      "inbox",
			Dir:       filepath.Join(base, "inbox"),
			Platforms: []string{"youtube"},
		},
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	return &cfg
}

func TestWatcherReportsStableVideo(t *testing.T) {
	cfg := newConfig(t)
	reported := make(chan string, 4)

	w := watcher.New(cfg, logging.NewNop(), func(path string) {
		reported <- path
	})
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	video := filepath.Join(cfg.Folders[0].Dir, "video.mp4")
	if err := os.WriteFile(video, []byte("stable content"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Marker and sidecar text files never trigger reports.
	if err := os.WriteFile(filepath.Join(cfg.Folders[0].Dir, "video_UPLOADING.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-reported:
		if path != video {
			t.Fatalf("reported %q, want %q", path, video)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("video never reported")
	}

	select {
	case path := <-reported:
		t.Fatalf("unexpected extra report: %q", path)
	case <-time.After(2 * time.Second):
	}
}

func TestWatcherWaitsForGrowingFile(t *testing.T) {
	cfg := newConfig(t)
	reported := make(chan string, 4)

	w := watcher.New(cfg, logging.NewNop(), func(path string) {
		reported <- path
	})
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	video := filepath.Join(cfg.Folders[0].Dir, "video.mp4")
	f, err := os.Create(video)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := f.Write([]byte("chunk-")); err != nil {
			t.Fatal(err)
		}
		time.Sleep(300 * time.Millisecond)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-reported:
		if path != video {
			t.Fatalf("reported %q, want %q", path, video)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Size() == 0 {
			t.Fatal("reported before content settled")
		}
	case <-time.After(15 * time.Second):
		t.Fatal("video never reported")
	}
}

func TestWatcherStartFailsOnMissingFolder(t *testing.T) {
	cfg := newConfig(t)
	cfg.Folders[0].Dir = filepath.Join(cfg.Paths.BaseDir, "missing")

	w := watcher.New(cfg, logging.NewNop(), func(string) {})
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Fatal("expected error for missing folder")
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	cfg := newConfig(t)
	w := watcher.New(cfg, logging.NewNop(), func(string) {})
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	w.Stop()
	w.Stop()

	if dirs := w.Folders(); len(dirs) != 1 {
		t.Fatalf("folders: %v", dirs)
	}
}
