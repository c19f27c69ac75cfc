package uploader_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"crosscast/internal/config"
	"crosscast/internal/history"
	"crosscast/internal/library"
	"crosscast/internal/logging"
	"crosscast/internal/status"
	"crosscast/internal/uploader"
)

type fakePlatform struct {
	name string
	err  error

	mu    sync.Mutex
	calls []string
	block chan struct{}
}

func (f *fakePlatform) Name() string { return f.name }

func (f *fakePlatform) Upload(ctx context.Context, file library.FileInfo) error {
	f.mu.Lock()
	f.calls = append(f.calls, file.Name)
	f.mu.Unlock()
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.err
}

func (f *fakePlatform) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newManager(t *testing.T, platforms ...uploader.Platform) (*uploader.Manager, *status.Tracker, *history.Store) {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.BaseDir = base
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Folders = nil

	store, err := history.Open(&cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})

	tracker := status.NewTracker(logging.NewNop())
	manager := uploader.NewManager(&cfg, tracker, store, logging.NewNop())
	for _, platform := range platforms {
		manager.RegisterPlatform(platform)
	}
	return manager, tracker, store
}

func newVideo(t *testing.T, platforms ...string) library.FileInfo {
	t.Helper()
	path := filepath.Join(t.TempDir(), "video.mp4")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	return library.FileInfo{
		Path:      path,
		Name:      "video.mp4",
		Title:     "Video",
		Platforms: platforms,
	}
}

func TestUploadAllPlatformsSucceed(t *testing.T) {
	youtube := &fakePlatform{name: "youtube"}
	pinterest := &fakePlatform{name: "pinterest"}
	manager, tracker, store := newManager(t, youtube, pinterest)

	file := newVideo(t, "youtube", "pinterest")
	outcome := manager.Upload(context.Background(), file)

	if outcome.Kind != status.KindCompleted {
		t.Fatalf("expected COMPLETED, got %s", outcome.Kind)
	}
	if len(outcome.Successful) != 2 || len(outcome.Failed) != 0 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if outcome.UploadID == "" {
		t.Fatal("expected upload ID")
	}
	if youtube.callCount() != 1 || pinterest.callCount() != 1 {
		t.Fatal("each platform should be called once")
	}
	if got := tracker.Status(file.Path).Kind; got != status.KindCompleted {
		t.Fatalf("marker kind: %s", got)
	}

	entries, err := store.Recent(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Kind != status.KindCompleted || entries[0].UploadID != outcome.UploadID {
		t.Fatalf("history entry: %+v", entries)
	}
}

func TestUploadPartialFailure(t *testing.T) {
	youtube := &fakePlatform{name: "youtube"}
	pinterest := &fakePlatform{name: "pinterest", err: errors.New("quota exceeded")}
	manager, tracker, _ := newManager(t, youtube, pinterest)

	file := newVideo(t, "youtube", "pinterest")
	outcome := manager.Upload(context.Background(), file)

	if outcome.Kind != status.KindPartial {
		t.Fatalf("expected PARTIAL, got %s", outcome.Kind)
	}
	record := tracker.Status(file.Path)
	if record.Kind != status.KindPartial {
		t.Fatalf("marker kind: %s", record.Kind)
	}
}

func TestUploadAllFail(t *testing.T) {
	youtube := &fakePlatform{name: "youtube", err: errors.New("boom")}
	manager, tracker, _ := newManager(t, youtube)

	file := newVideo(t, "youtube")
	outcome := manager.Upload(context.Background(), file)

	if outcome.Kind != status.KindError {
		t.Fatalf("expected ERROR, got %s", outcome.Kind)
	}
	if got := tracker.Status(file.Path).Kind; got != status.KindError {
		t.Fatalf("marker kind: %s", got)
	}
}

func TestUploadUnknownPlatformFails(t *testing.T) {
	manager, tracker, _ := newManager(t)

	file := newVideo(t, "nowhere")
	outcome := manager.Upload(context.Background(), file)

	if outcome.Kind != status.KindError {
		t.Fatalf("expected ERROR, got %s", outcome.Kind)
	}
	if len(outcome.Failed) != 1 || outcome.Failed[0] != "nowhere" {
		t.Fatalf("failed platforms: %v", outcome.Failed)
	}
	if got := tracker.Status(file.Path).Kind; got != status.KindError {
		t.Fatalf("marker kind: %s", got)
	}
}

func TestUploadCancellation(t *testing.T) {
	blocked := &fakePlatform{name: "youtube", block: make(chan struct{})}
	manager, tracker, store := newManager(t, blocked)

	file := newVideo(t, "youtube")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan uploader.Outcome, 1)
	go func() {
		done <- manager.Upload(ctx, file)
	}()

	// Wait for the platform call to begin before aborting.
	deadline := time.After(5 * time.Second)
	for blocked.callCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("platform never called")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()

	outcome := <-done
	if outcome.Kind != status.KindCancelled {
		t.Fatalf("expected CANCELLED, got %s", outcome.Kind)
	}
	if got := tracker.Status(file.Path).Kind; got != status.KindCancelled {
		t.Fatalf("marker kind: %s", got)
	}

	entries, err := store.Recent(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Kind != status.KindCancelled {
		t.Fatalf("history entry: %+v", entries)
	}
}

func TestUploadProgressCallback(t *testing.T) {
	youtube := &fakePlatform{name: "youtube"}
	manager, _, _ := newManager(t, youtube)

	var mu sync.Mutex
	var messages []string
	manager.OnProgress(func(p uploader.Progress) {
		mu.Lock()
		messages = append(messages, p.Message)
		mu.Unlock()
	})

	manager.Upload(context.Background(), newVideo(t, "youtube"))

	mu.Lock()
	defer mu.Unlock()
	if len(messages) < 3 {
		t.Fatalf("expected start, platform, finish reports, got %v", messages)
	}
	if messages[0] != "upload started" || messages[len(messages)-1] != "upload finished" {
		t.Fatalf("unexpected report sequence: %v", messages)
	}
}

func TestPoolProcessesQueue(t *testing.T) {
	youtube := &fakePlatform{name: "youtube"}
	manager, tracker, _ := newManager(t, youtube)
	pool := uploader.NewPool(manager)

	pool.Start(context.Background())
	defer pool.Stop()

	files := []library.FileInfo{newVideo(t, "youtube"), newVideo(t, "youtube")}
	for _, file := range files {
		if !pool.Enqueue(file) {
			t.Fatalf("enqueue %s failed", file.Name)
		}
	}
	deadline := time.After(10 * time.Second)
	for pool.Pending() > 0 {
		select {
		case <-deadline:
			t.Fatal("queue never drained")
		case <-time.After(10 * time.Millisecond):
		}
	}

	for _, file := range files {
		if got := tracker.Status(file.Path).Kind; got != status.KindCompleted {
			t.Fatalf("%s: expected COMPLETED, got %s", file.Name, got)
		}
	}
	if youtube.callCount() != 2 {
		t.Fatalf("expected 2 uploads, got %d", youtube.callCount())
	}
}

func TestPoolRejectsDuplicateEnqueue(t *testing.T) {
	blocked := &fakePlatform{name: "youtube", block: make(chan struct{})}
	manager, _, _ := newManager(t, blocked)
	pool := uploader.NewPool(manager)

	pool.Start(context.Background())
	defer pool.Stop()

	file := newVideo(t, "youtube")
	if !pool.Enqueue(file) {
		t.Fatal("first enqueue failed")
	}
	if pool.Enqueue(file) {
		t.Fatal("duplicate enqueue should be rejected while pending")
	}
	close(blocked.block)

	deadline := time.After(10 * time.Second)
	for pool.Pending() > 0 {
		select {
		case <-deadline:
			t.Fatal("queue never drained")
		case <-time.After(10 * time.Millisecond):
		}
	}
	if blocked.callCount() != 1 {
		t.Fatalf("expected 1 upload, got %d", blocked.callCount())
	}
}
