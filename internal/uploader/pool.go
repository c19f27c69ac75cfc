package uploader

import (
	"context"
	"sync"

	"crosscast/internal/library"
	"crosscast/internal/logging"
)

const queueCapacity = 128

// Pool runs a manager's uploads on a bounded set of workers fed by a
// FIFO queue. A file is held by exactly one worker at a time, so its
// marker writes never race.
type Pool struct {
	manager *Manager
	queue   chan library.FileInfo

	mu       sync.Mutex
	inflight map[string]struct{}
	running  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewPool(manager *Manager) *Pool {
	return &Pool{
		manager:  manager,
		queue:    make(chan library.FileInfo, queueCapacity),
		inflight: make(map[string]struct{}),
	}
}

// Start launches the worker pool. Workers exit when the context is
// cancelled or Stop is called.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.running = true

	workers := p.manager.cfg.Uploads.MaxConcurrent
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.work(ctx)
	}
	p.manager.logger.Info("upload pool started", logging.Int("workers", workers))
}

// Stop cancels in-flight uploads and waits for the workers to exit.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	cancel := p.cancel
	p.mu.Unlock()

	cancel()
	p.wg.Wait()
	p.manager.logger.Info("upload pool stopped")
}

// Enqueue adds a file to the queue. Files already queued or uploading are
// skipped; a full queue rejects the file.
func (p *Pool) Enqueue(file library.FileInfo) bool {
	p.mu.Lock()
	if _, busy := p.inflight[file.Path]; busy {
		p.mu.Unlock()
		return false
	}
	p.inflight[file.Path] = struct{}{}
	p.mu.Unlock()

	select {
	case p.queue <- file:
		return true
	default:
		p.release(file.Path)
		p.manager.logger.Warn("upload queue full", logging.String("file", file.Name))
		return false
	}
}

// Pending returns the number of files queued or uploading.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inflight)
}

func (p *Pool) work(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case file := <-p.queue:
			p.manager.Upload(ctx, file)
			p.release(file.Path)
		}
	}
}

func (p *Pool) release(path string) {
	p.mu.Lock()
	delete(p.inflight, path)
	p.mu.Unlock()
}
