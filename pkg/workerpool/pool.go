package workerpool

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"

	"taskbridge.backend/pkg/logger"
)

// ErrQueueFull is returned when the task queue cannot accept more work
var ErrQueueFull = errors.New("worker pool queue is full")

// Pool is a fixed-size pool of workers draining a bounded task queue.
// Submitted tasks are best-effort: errors and panics are logged, never
// propagated to the submitter.
type Pool struct {
	workers   int
	taskQueue chan func()

	waitGroup sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// New creates a pool with the given number of workers and queue capacity
func New(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}

	ctx, cancel := context.WithCancel(context.Background())

	p := &Pool{
		workers:   workers,
		taskQueue: make(chan func(), queueSize),
		ctx:       ctx,
		cancel:    cancel,
	}

	for i := 0; i < workers; i++ {
		p.waitGroup.Add(1)
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	defer p.waitGroup.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.taskQueue:
			if !ok {
				return
			}
			if task != nil {
				task()
			}
		}
	}
}

// Submit enqueues a task without blocking. Returns ErrQueueFull when the
// queue is saturated.
func (p *Pool) Submit(task func() error) error {
	if task == nil {
		return nil
	}

	wrapped := func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(p.ctx, "worker recovered panic",
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()))
			}
		}()
		if err := task(); err != nil {
			logger.Warn(p.ctx, "background task failed", zap.Error(err))
		}
	}

	select {
	case p.taskQueue <- wrapped:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop cancels the workers, discarding any queued tasks
func (p *Pool) Stop() {
cleanup:
	for {
		select {
		case <-p.taskQueue:
		default:
			break cleanup
		}
	}

	p.cancel()
	p.waitGroup.Wait()
}

// StopWait drains the queue before stopping
func (p *Pool) StopWait() {
	close(p.taskQueue)
	p.waitGroup.Wait()
}

// IsRunning reports whether the pool still has active workers
func (p *Pool) IsRunning() bool {
	select {
	case <-p.ctx.Done():
		return false
	default:
		return true
	}
}
