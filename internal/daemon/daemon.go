package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"crosscast/internal/config"
	"crosscast/internal/library"
	"crosscast/internal/logging"
	"crosscast/internal/status"
	"crosscast/internal/uploader"
	"crosscast/internal/watcher"
)

// expirySweepInterval is how often old markers are checked for expiry.
const expirySweepInterval = time.Hour

// Daemon wires the watcher, the scanner, and the upload pool into one
// lifecycle guarded by a file lock so only a single instance runs.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	tracker *status.Tracker
	scanner *library.Scanner
	pool    *uploader.Pool
	watcher *watcher.Watcher

	lockPath string
	pidPath  string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, tracker *status.Tracker, scanner *library.Scanner, pool *uploader.Pool, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || tracker == nil || scanner == nil || pool == nil || logger == nil {
		return nil, errors.New("daemon requires config, tracker, scanner, pool, and logger")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "crosscast.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		tracker:  tracker,
		scanner:  scanner,
		pool:     pool,
		lockPath: lockPath,
		pidPath:  filepath.Join(cfg.Paths.LogDir, "crosscast.pid"),
		lock:     flock.New(lockPath),
	}
	d.watcher = watcher.New(cfg, logger, d.onVideo)
	return d, nil
}

// Start acquires the instance lock, seeds the queue with the videos already
// waiting in the drop folders, and begins watching for new arrivals.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := d.cfg.EnsureDirectories(); err != nil {
		return err
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another crosscast instance is already running")
	}
	if err := d.writePID(); err != nil {
		_ = d.lock.Unlock()
		return err
	}

	ctx, d.cancel = context.WithCancel(ctx)
	d.pool.Start(ctx)
	if err := d.watcher.Start(ctx); err != nil {
		d.pool.Stop()
		d.removePID()
		_ = d.lock.Unlock()
		d.cancel()
		return fmt.Errorf("start watcher: %w", err)
	}

	for _, file := range d.scanner.Scan() {
		d.pool.Enqueue(file)
	}

	if d.cfg.Uploads.ExpireDays > 0 {
		d.wg.Add(1)
		go d.expiryLoop(ctx)
	}

	d.running.Store(true)
	d.logger.Info("daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop halts watching and uploads and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	d.cancel()
	d.watcher.Stop()
	d.pool.Stop()
	d.wg.Wait()

	d.removePID()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("release lock failed", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Running reports whether the daemon lifecycle is active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// LockPath returns the instance lock file location.
func (d *Daemon) LockPath() string {
	return d.lockPath
}

// onVideo handles a stable new file from the watcher.
func (d *Daemon) onVideo(path string) {
	file, err := d.scanner.Describe(path)
	if err != nil {
		d.logger.Warn("describe file failed",
			logging.Error(err),
			logging.String("path", path),
		)
		return
	}
	if d.tracker.IsProcessed(path) {
		return
	}
	d.pool.Enqueue(file)
}

// expiryLoop removes old markers from every drop folder on an interval.
func (d *Daemon) expiryLoop(ctx context.Context) {
	defer d.wg.Done()
	age := time.Duration(d.cfg.Uploads.ExpireDays) * 24 * time.Hour

	ticker := time.NewTicker(expirySweepInterval)
	defer ticker.Stop()

	d.sweep(age)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.sweep(age)
		}
	}
}

func (d *Daemon) sweep(age time.Duration) {
	total := 0
	for _, folder := range d.cfg.Folders {
		total += d.tracker.ExpireOlderThan(folder.Dir, age)
	}
	if total > 0 {
		d.logger.Info("expired old markers", logging.Int("count", total))
	}
}

func (d *Daemon) writePID() error {
	pid := strconv.Itoa(os.Getpid())
	if err := os.WriteFile(d.pidPath, []byte(pid+"\n"), 0o644); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	return nil
}

func (d *Daemon) removePID() {
	if err := os.Remove(d.pidPath); err != nil && !os.IsNotExist(err) {
		d.logger.Warn("remove pid file failed", logging.Error(err))
	}
}
