package loop

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Dispatcher accepts tasks to be run on the main loop.
type Dispatcher interface {
	Post(task func())
}

// Loop is a FIFO task queue drained by a single goroutine.
type Loop struct {
	mu    sync.Mutex
	tasks []func()

	wake     chan struct{}
	quit     chan struct{}
	quitOnce sync.Once

	logger *slog.Logger
}

// New creates an empty loop that logs recovered task panics to slog.Default().
func New() *Loop {
	return NewWithLogger(nil)
}

// NewWithLogger creates an empty loop using the given logger.
// If logger is nil, slog.Default() is used.
func NewWithLogger(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		wake:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
		logger: logger,
	}
}

// Post enqueues task. It is safe to call from any goroutine.
// Nil tasks and tasks posted after Quit are dropped.
func (l *Loop) Post(task func()) {
	if task == nil || l.quitting() {
		return
	}

	l.mu.Lock()
	l.tasks = append(l.tasks, task)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

// Run executes tasks on the calling goroutine until Quit is called or ctx is
// done. It returns nil after Quit and ctx.Err() on cancellation.
func (l *Loop) Run(ctx context.Context) error {
	for {
		for {
			if l.quitting() {
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			task, ok := l.next()
			if !ok {
				break
			}
			l.runTask(task)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.quit:
			return nil
		case <-l.wake:
		}
	}
}

// RunUntilIdle runs queued tasks, including tasks posted while running, until
// the queue is empty. It returns the number of tasks executed.
func (l *Loop) RunUntilIdle() int {
	n := 0
	for !l.quitting() {
		task, ok := l.next()
		if !ok {
			break
		}
		l.runTask(task)
		n++
	}
	return n
}

// Quit stops the loop. Run returns once the current task finishes.
// Calling Quit more than once is safe.
func (l *Loop) Quit() {
	l.quitOnce.Do(func() {
		close(l.quit)
	})
}

func (l *Loop) quitting() bool {
	select {
	case <-l.quit:
		return true
	default:
		return false
	}
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.tasks) == 0 {
		return nil, false
	}
	task := l.tasks[0]
	l.tasks[0] = nil
	l.tasks = l.tasks[1:]
	return task, true
}

func (l *Loop) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("main loop task panicked",
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()
	task()
}
