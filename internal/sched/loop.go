package sched

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Loop runs dispatched functions one at a time on a single goroutine.
type Loop struct {
	queue     chan func()
	done      chan struct{}
	closeOnce sync.Once
	afterEach func()
	logger    *slog.Logger
}

// NewLoop creates a loop with a queue of the given size. A nil logger
// discards panic reports.
func NewLoop(size int, logger *slog.Logger) *Loop {
	if size <= 0 {
		size = 64
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		queue:  make(chan func(), size),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// AfterEach registers fn to run on the loop after every dispatched
// function. It must be called before Run.
func (l *Loop) AfterEach(fn func()) {
	l.afterEach = fn
}

// Dispatch queues fn to run on the loop. It blocks while the queue is full
// and reports false once the loop is closed. Dispatch must not be called
// from the loop goroutine itself.
func (l *Loop) Dispatch(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run drains the queue until the loop is closed or ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case fn := <-l.queue:
			l.run(fn)
			if l.afterEach != nil {
				l.run(l.afterEach)
			}
		case <-l.done:
			return nil
		case <-ctx.Done():
			l.Close()
			return ctx.Err()
		}
	}
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop callback panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}

// Close stops the loop. Queued functions that have not run are dropped.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}

// Done is closed when the loop is closed.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
