// Package watcher monitors the configured drop folders and reports new
// videos once their contents have settled.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"crosscast/internal/config"
	"crosscast/internal/logging"
)

// stabilityProbe is the gap between the two size samples taken after the
// settle timer fires.
const stabilityProbe = 500 * time.Millisecond

// Watcher reports stable new videos in the drop folders through a callback.
// Watching is non-recursive; only files directly inside a configured folder
// are seen, matching how the drop folders are used.
type Watcher struct {
	cfg      *config.Config
	logger   *slog.Logger
	onStable func(path string)
	settle   time.Duration

	fs *fsnotify.Watcher

	mu      sync.Mutex
	timers  map[string]*time.Timer
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New constructs a watcher that invokes onStable with the path of each
// video that has finished arriving.
func New(cfg *config.Config, logger *slog.Logger, onStable func(path string)) *Watcher {
	settle := time.Duration(cfg.Uploads.SettleSeconds) * time.Second
	if settle <= 0 {
		settle = time.Second
	}
	return &Watcher{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "watcher"),
		onStable: onStable,
		settle:   settle,
		timers:   make(map[string]*time.Timer),
	}
}

// Start begins watching every configured folder. It returns once the
// watch loop is running; events are delivered until Stop.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify.NewWatcher: %w", err)
	}
	for _, folder := range w.cfg.Folders {
		if err := fs.Add(folder.Dir); err != nil {
			_ = fs.Close()
			return fmt.Errorf("watch folder %q: %w", folder.Name, err)
		}
		w.logger.Info("watching folder",
			logging.String("folder", folder.Name),
			logging.String("dir", folder.Dir),
		)
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.fs = fs
	w.running = true
	w.wg.Add(1)
	go w.loop(ctx)
	return nil
}

// Stop halts event delivery and waits for in-flight checks to finish.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	cancel := w.cancel
	fs := w.fs
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()

	cancel()
	_ = fs.Close()
	w.wg.Wait()
}

// Folders returns the directories currently being watched.
func (w *Watcher) Folders() []string {
	dirs := make([]string, 0, len(w.cfg.Folders))
	for _, folder := range w.cfg.Folders {
		dirs = append(dirs, folder.Dir)
	}
	return dirs
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !w.isVideo(event.Name) {
				continue
			}
			w.arm(ctx, event.Name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", logging.Error(err))
		}
	}
}

// arm starts or resets the settle timer for a path. Every further write
// pushes the check out by the full settle window.
func (w *Watcher) arm(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	if timer, ok := w.timers[path]; ok {
		timer.Reset(w.settle)
		return
	}
	w.timers[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		if !w.running {
			w.mu.Unlock()
			return
		}
		delete(w.timers, path)
		w.wg.Add(1)
		w.mu.Unlock()

		defer w.wg.Done()
		w.check(ctx, path)
	})
}

// check verifies the file size has stopped changing and reports the file.
// A still-growing file re-arms its timer.
func (w *Watcher) check(ctx context.Context, path string) {
	first, err := os.Stat(path)
	if err != nil {
		return
	}
	select {
	case <-ctx.Done():
		return
	case <-time.After(stabilityProbe):
	}
	second, err := os.Stat(path)
	if err != nil {
		return
	}
	if second.Size() != first.Size() || second.Size() == 0 {
		w.logger.Debug("file still arriving", logging.String("path", path))
		w.arm(ctx, path)
		return
	}

	w.logger.Info("new video detected",
		logging.String("path", path),
		logging.Int64("size", second.Size()),
	)
	w.onStable(path)
}

func (w *Watcher) isVideo(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := w.cfg.VideoExtensionSet()[ext]
	return ok
}
