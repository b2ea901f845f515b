package watch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	drivev2 "google.golang.org/api/drive/v2"

	"github.com/teemow/drivekit/internal/drive"
	"github.com/teemow/drivekit/internal/logging"
	"github.com/teemow/drivekit/internal/loop"
	"github.com/teemow/drivekit/internal/platform"
)

// DefaultInterval is the poll interval used when Config.Interval is zero.
const DefaultInterval = 30 * time.Second

// Starter starts Drive operations. *drive.Runner implements it.
type Starter interface {
	StartWith(ctx context.Context, dispatcher loop.Dispatcher, op drive.Operation) *drive.Handle
}

// Handler receives every page that carries at least one change. It runs on
// the main loop.
type Handler func(page *drive.ChangePage)

// Config configures a Watcher.
type Config struct {
	Interval time.Duration

	// StartChangestamp is the first changestamp to report. Zero or negative
	// means "from now": the current largest changestamp is read from the
	// about resource first.
	StartChangestamp int64

	Logger *slog.Logger
}

// Watcher polls the change feed. Except for Done and Err, its methods must be
// called on the main loop.
type Watcher struct {
	starter    Starter
	urls       *drive.URLGenerator
	dispatcher loop.Dispatcher
	platform   platform.Client
	handler    Handler
	interval   time.Duration
	logger     *slog.Logger

	ctx      context.Context
	next     int64
	pageURL  string
	inflight *drive.Handle
	started  bool
	stopped  bool
	polls    int

	err  error
	done chan struct{}
}

// New creates a Watcher. Requests go through starter, their callbacks and
// the shared timer are delivered to dispatcher, which must be the loop that
// backs p.
func New(starter Starter, urls *drive.URLGenerator, dispatcher loop.Dispatcher, p platform.Client, handler Handler, cfg Config) *Watcher {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if handler == nil {
		handler = func(*drive.ChangePage) {}
	}
	return &Watcher{
		starter:    starter,
		urls:       urls,
		dispatcher: dispatcher,
		platform:   p,
		handler:    handler,
		interval:   cfg.Interval,
		logger:     logging.WithComponent(cfg.Logger, "watch"),
		next:       cfg.StartChangestamp,
		done:       make(chan struct{}),
	}
}

// Start issues the first request. Later calls do nothing. Cancelling ctx
// stops the watcher with ctx.Err().
func (w *Watcher) Start(ctx context.Context) {
	if w.started {
		return
	}
	w.started = true
	w.ctx = ctx
	w.platform.SetSharedTimerFiredFunction(w.poll)
	context.AfterFunc(ctx, func() {
		w.platform.CallOnMainThread(func() { w.finish(ctx.Err()) })
	})
	w.poll()
}

// Stop cancels the pending request and timer. Done is closed and Err
// returns nil.
func (w *Watcher) Stop() {
	w.finish(nil)
}

// Done is closed once the watcher has stopped.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Err returns why the watcher stopped. Only valid after Done is closed.
func (w *Watcher) Err() error {
	return w.err
}

// NextChangestamp returns the first changestamp the next poll asks for.
func (w *Watcher) NextChangestamp() int64 {
	return w.next
}

// Polls returns the number of requests issued so far.
func (w *Watcher) Polls() int {
	return w.polls
}

func (w *Watcher) poll() {
	if w.stopped || w.inflight != nil {
		return
	}
	w.polls++

	var op drive.Operation
	if w.next <= 0 {
		op = drive.NewGetAboutOperation(w.urls, w.handleAbout)
	} else {
		op = drive.NewGetChangeListOperation(w.urls, w.pageURL, w.next, w.handleChanges)
	}
	w.inflight = w.starter.StartWith(w.ctx, w.dispatcher, op)
}

func (w *Watcher) handleAbout(code drive.Code, about *drivev2.About) {
	w.inflight = nil
	if w.stopped {
		return
	}
	if !code.IsSuccess() {
		w.handleError(drive.OpGetAbout, code)
		return
	}
	if about == nil {
		w.retryEmpty(drive.OpGetAbout, code)
		return
	}

	w.next = about.LargestChangeId + 1
	w.logger.Info("watching changes", slog.Int64("start_changestamp", w.next))
	w.schedule()
}

func (w *Watcher) handleChanges(code drive.Code, list *drivev2.ChangeList) {
	w.inflight = nil
	if w.stopped {
		return
	}
	if !code.IsSuccess() {
		w.handleError(drive.OpGetChangeList, code)
		return
	}
	if list == nil {
		w.retryEmpty(drive.OpGetChangeList, code)
		return
	}

	page := drive.NewChangePage(list)
	if len(page.Changes) > 0 {
		w.handler(page)
	}
	if w.stopped {
		return
	}

	if page.NextLink != "" {
		w.pageURL = page.NextLink
		w.platform.CallOnMainThread(w.poll)
		return
	}

	w.pageURL = ""
	if page.LargestChangestamp >= w.next {
		w.next = page.LargestChangestamp + 1
	}
	w.schedule()
}

// handleError stops on cancellation and authorization failures and retries
// everything else at the next tick.
func (w *Watcher) handleError(op string, code drive.Code) {
	err := code.Err()
	var derr *drive.Error
	if errors.As(err, &derr) {
		derr.Op = op
	}

	switch {
	case code == drive.CodeCancelled:
		if ctxErr := w.ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		w.finish(err)
	case errors.Is(err, drive.ErrUnauthorized), errors.Is(err, drive.ErrForbidden):
		w.logger.Error("change feed not accessible", logging.Operation(op), logging.Code(int(code)))
		w.finish(err)
	default:
		w.logger.Warn("poll failed, retrying", logging.Operation(op), logging.Code(int(code)))
		w.pageURL = ""
		w.schedule()
	}
}

// retryEmpty handles a success status that carried no body. The position is
// kept and the request is repeated at the next tick.
func (w *Watcher) retryEmpty(op string, code drive.Code) {
	w.logger.Warn("empty response, retrying", logging.Operation(op), logging.Code(int(code)))
	w.pageURL = ""
	w.schedule()
}

func (w *Watcher) schedule() {
	w.platform.SetSharedTimerFireTime(w.platform.CurrentTime() + w.interval.Seconds())
}

func (w *Watcher) finish(err error) {
	if w.stopped {
		return
	}
	w.stopped = true
	w.err = err
	w.platform.StopSharedTimer()
	w.platform.SetSharedTimerFiredFunction(nil)
	if w.inflight != nil {
		w.inflight.Cancel()
	}
	close(w.done)
}
