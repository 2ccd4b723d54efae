package workerpool

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrPoolClosed is returned when work is submitted after Shutdown
var ErrPoolClosed = errors.New("worker pool is shut down")

// Task represents a unit of blocking store work
type Task func(ctx context.Context) error

type job struct {
	ctx  context.Context
	task Task
	done chan error
}

// Pool runs blocking store calls on a fixed set of goroutines so request
// handlers never pile unbounded concurrent work onto the store clients.
type Pool struct {
	workerCount int
	taskQueue   chan job
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	closed      bool
	closeMux    sync.RWMutex
	logger      *slog.Logger
}

// New creates a pool with specified number of workers
func New(workerCount int, logger *slog.Logger) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workerCount: workerCount,
		taskQueue:   make(chan job, workerCount*2),
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}
}

// Start launches worker goroutines
func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.logger.Info("worker_pool_started", "workers", p.workerCount)
}

// Run queues the task and blocks until it finished or ctx is done.
// A task that was already picked up keeps running after ctx expires; its
// result is dropped.
func (p *Pool) Run(ctx context.Context, task Task) error {
	done := make(chan error, 1)

	p.closeMux.RLock()
	if p.closed {
		p.closeMux.RUnlock()
		return ErrPoolClosed
	}
	select {
	case p.taskQueue <- job{ctx: ctx, task: task, done: done}:
		p.closeMux.RUnlock()
	case <-ctx.Done():
		p.closeMux.RUnlock()
		return ctx.Err()
	case <-p.ctx.Done():
		p.closeMux.RUnlock()
		return ErrPoolClosed
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit runs fn on the pool and hands its result back to the caller
func Submit[T any](ctx context.Context, p *Pool, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := p.Run(ctx, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Shutdown stops accepting work, drains queued tasks and waits for workers
func (p *Pool) Shutdown() {
	p.closeMux.Lock()
	if !p.closed {
		close(p.taskQueue)
		p.closed = true
	}
	p.closeMux.Unlock()

	p.wg.Wait()
	p.cancel()
	p.logger.Info("worker_pool_stopped")
}

// worker processes tasks from the queue
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for j := range p.taskQueue {
		if err := j.ctx.Err(); err != nil {
			j.done <- err
			continue
		}
		err := j.task(j.ctx)
		if err != nil {
			p.logger.Debug("worker_task_failed", "worker", id, "error", err)
		}
		j.done <- err
	}
}
