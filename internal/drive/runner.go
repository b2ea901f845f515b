package drive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"

	"github.com/teemow/drivekit/internal/instrumentation"
	"github.com/teemow/drivekit/internal/logging"
	"github.com/teemow/drivekit/internal/loop"
)

// Runner executes operations. The HTTP exchange happens on a worker goroutine;
// the operation's callback always runs on the dispatcher.
type Runner struct {
	client     *http.Client
	dispatcher loop.Dispatcher
	registry   *OperationRegistry
	limiter    *rate.Limiter
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
	audit      *instrumentation.AuditLogger
	account    string
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics records operation metrics.
func WithMetrics(m *instrumentation.Metrics) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// WithAudit writes an audit record for every mutating operation.
func WithAudit(a *instrumentation.AuditLogger) RunnerOption {
	return func(r *Runner) { r.audit = a }
}

// WithRateLimit limits requests to rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) RunnerOption {
	return func(r *Runner) {
		if rps <= 0 {
			r.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRegistry shares an operation registry between runners.
func WithRegistry(reg *OperationRegistry) RunnerOption {
	return func(r *Runner) {
		if reg != nil {
			r.registry = reg
		}
	}
}

// WithAccount tags logs, spans and audit records with the account name.
func WithAccount(account string) RunnerOption {
	return func(r *Runner) { r.account = account }
}

// NewRunner creates a Runner that sends requests with client and delivers
// callbacks to dispatcher.
func NewRunner(client *http.Client, dispatcher loop.Dispatcher, opts ...RunnerOption) *Runner {
	if client == nil {
		client = http.DefaultClient
	}
	r := &Runner{
		client:     client,
		dispatcher: dispatcher,
		registry:   NewOperationRegistry(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.WithComponent(r.logger, "drive")
	if r.account != "" {
		r.logger = logging.WithAccount(r.logger, r.account)
	}
	return r
}

// Registry returns the registry tracking this runner's operations.
func (r *Runner) Registry() *OperationRegistry {
	return r.registry
}

// Start runs op and delivers its callback to the runner's dispatcher.
func (r *Runner) Start(ctx context.Context, op Operation) *Handle {
	return r.StartWith(ctx, r.dispatcher, op)
}

// StartWith runs op and delivers its callback to dispatcher.
func (r *Runner) StartWith(ctx context.Context, dispatcher loop.Dispatcher, op Operation) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		op:     op,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	r.registry.add(h)
	r.metrics.IncrementInflight(ctx)

	go r.run(ctx, dispatcher, h)
	return h
}

func (r *Runner) run(ctx context.Context, dispatcher loop.Dispatcher, h *Handle) {
	op := h.op
	start := time.Now()
	resourceID := resourceIDOf(op)

	attrs := instrumentation.SpanAttrs{
		Method:     op.Method(),
		Account:    r.account,
		ResourceID: resourceID,
		ReadOnly:   !isMutating(op),
	}
	ctx, span := instrumentation.StartDriveSpan(ctx, op.Name(), attrs.KeyValues()...)

	code, body := r.execute(ctx, op)

	dispatcher.Post(func() {
		defer h.cancel()
		if h.cancelled.Load() {
			code, body = CodeCancelled, nil
		}

		delivered := op.complete(code, body)
		duration := time.Since(start)

		if code.IsSuccess() && delivered == CodeParseError {
			r.metrics.RecordDriveParseError(ctx, op.Name())
			r.logger.Warn("failed to parse response", logging.Operation(op.Name()), slog.Int("bytes", len(body)))
		}
		r.metrics.RecordDriveOperation(ctx, op.Name(), int(delivered), duration)
		r.metrics.DecrementInflight(ctx)

		if isMutating(op) {
			r.audit.LogOperation(&instrumentation.OperationRecord{
				Operation:  op.Name(),
				Method:     op.Method(),
				Account:    r.account,
				ResourceID: resourceID,
				Code:       int(delivered),
				Duration:   duration,
				TraceID:    instrumentation.GetTraceID(ctx),
			})
		}

		span.SetAttributes(attribute.Int64("http.response.body.size", int64(len(body))))
		instrumentation.EndDriveSpan(span, int(delivered), newError(op.Name(), delivered))

		r.registry.remove(h)
		h.code = delivered
		close(h.done)
	})
}

// execute performs the HTTP exchange and maps its outcome to a Code.
func (r *Runner) execute(ctx context.Context, op Operation) (Code, []byte) {
	log := r.logger.With(logging.Operation(op.Name()))

	rawURL, err := op.URL()
	if err != nil {
		log.Warn("invalid operation", logging.Err(err))
		return CodeOtherError, nil
	}

	contentType, payload, err := op.Body()
	if err != nil {
		log.Warn("failed to build request body", logging.Err(err))
		return CodeOtherError, nil
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, op.Method(), rawURL, reqBody)
	if err != nil {
		log.Warn("failed to create request", logging.Err(err))
		return CodeOtherError, nil
	}
	for key, values := range op.Headers() {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return CodeCancelled, nil
			}
			log.Warn("rate limiter rejected request", logging.Err(err))
			return CodeOtherError, nil
		}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return CodeCancelled, nil
		}
		log.Warn("request failed", logging.Err(err))
		return CodeNoConnection, nil
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return CodeCancelled, nil
		}
		log.Warn("failed to read response body", logging.Err(err))
		return CodeNoConnection, nil
	}

	code := Code(resp.StatusCode)
	if !code.IsSuccess() {
		r.logErrorResponse(log, resp, data)
	}
	return code, data
}

// logErrorResponse decodes a Drive error document for the log.
func (r *Runner) logErrorResponse(log *slog.Logger, resp *http.Response, data []byte) {
	err := googleapi.CheckResponse(&http.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       io.NopCloser(bytes.NewReader(data)),
	})
	if err == nil {
		return
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		log.Warn("drive api error",
			logging.Code(apiErr.Code),
			slog.String("message", apiErr.Message),
			slog.String("reason", firstReason(apiErr)),
		)
		return
	}
	log.Warn("drive api error", logging.Code(resp.StatusCode), logging.Err(err))
}

func firstReason(e *googleapi.Error) string {
	for _, item := range e.Errors {
		if item.Reason != "" {
			return item.Reason
		}
	}
	return ""
}
