package platform

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"k8s.io/utils/clock"

	"github.com/teemow/drivekit/internal/instrumentation"
	"github.com/teemow/drivekit/internal/logging"
	"github.com/teemow/drivekit/internal/loop"
)

// Platform is the Client implementation backed by a main loop.
type Platform struct {
	dispatcher loop.Dispatcher
	clock      clock.WithDelayedExecution
	clipboard  Clipboard
	logger     *slog.Logger
	metrics    *instrumentation.Metrics

	mu        sync.Mutex
	timerFunc func()
	timer     clock.Timer
	// generation identifies the armed timer; fires carrying an older value
	// are dropped.
	generation uint64
}

// Option configures a Platform.
type Option func(*Platform)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c clock.WithDelayedExecution) Option {
	return func(p *Platform) {
		if c != nil {
			p.clock = c
		}
	}
}

// WithClipboard replaces the default in-memory clipboard.
func WithClipboard(c Clipboard) Option {
	return func(p *Platform) {
		if c != nil {
			p.clipboard = c
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Platform) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics counts timer fires and resource loads.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(p *Platform) { p.metrics = m }
}

// New creates a Platform that runs callbacks on dispatcher.
func New(dispatcher loop.Dispatcher, opts ...Option) *Platform {
	p := &Platform{
		dispatcher: dispatcher,
		clock:      clock.RealClock{},
		clipboard:  NewMemoryClipboard(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.WithComponent(p.logger, "platform")
	return p
}

// Clipboard implements Client.
func (p *Platform) Clipboard() Clipboard {
	return p.clipboard
}

// LoadResource implements Client.
func (p *Platform) LoadResource(name string) Resource {
	res := loadResource(name)
	p.metrics.RecordResourceLoad(context.Background(), name)
	return res
}

// CurrentTime implements Client.
func (p *Platform) CurrentTime() float64 {
	return float64(p.clock.Now().UnixNano()) / float64(time.Second)
}

// SetSharedTimerFiredFunction implements Client.
func (p *Platform) SetSharedTimerFiredFunction(f func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.timerFunc = f
}

// SetSharedTimerFireTime implements Client.
func (p *Platform) SetSharedTimerFireTime(fireTime float64) {
	delay := fireDelay((fireTime - p.CurrentTime()) * 1000)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	gen := p.generation
	// The clock may run this callback while holding its own lock, so it only
	// posts.
	p.timer = p.clock.AfterFunc(delay, func() {
		p.dispatcher.Post(func() { p.fire(gen) })
	})
	p.logger.Debug("shared timer armed", slog.Duration("delay", delay))
}

// StopSharedTimer implements Client.
func (p *Platform) StopSharedTimer() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Platform) stopLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.generation++
}

// fire runs on the main loop.
func (p *Platform) fire(gen uint64) {
	p.mu.Lock()
	if gen != p.generation || p.timer == nil {
		p.mu.Unlock()
		return
	}
	p.timer = nil
	f := p.timerFunc
	p.mu.Unlock()

	p.metrics.RecordTimerFire(context.Background())
	if f != nil {
		f()
	}
}

// CallOnMainThread implements Client.
func (p *Platform) CallOnMainThread(f func()) {
	if f == nil {
		return
	}
	p.dispatcher.Post(f)
}

// fireDelay converts a millisecond interval to a timer delay. Past and NaN
// intervals fire immediately; anything beyond the range of time.Duration
// saturates to the longest delay.
func fireDelay(ms float64) time.Duration {
	switch {
	case math.IsNaN(ms) || ms <= 0:
		return 0
	case ms >= float64(math.MaxInt64/int64(time.Millisecond)):
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(int64(ms)) * time.Millisecond
}
