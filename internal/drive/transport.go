package drive

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/teemow/drivekit/internal/logging"
)

// RetryConfig controls how the Drive transport retries failed requests.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// WaitMin and WaitMax bound the exponential backoff between attempts.
	WaitMin time.Duration
	WaitMax time.Duration
}

// DefaultRetryConfig returns the retry settings used when none are configured.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		WaitMin:    500 * time.Millisecond,
		WaitMax:    10 * time.Second,
	}
}

// NewRetryingHTTPClient wraps base so that connection errors, 429 and 5xx
// responses are retried with backoff. POST requests create folders and
// links, so they are only retried on 429. After the last attempt the final
// response is returned as is, so its status code reaches the callback.
func NewRetryingHTTPClient(base *http.Client, cfg RetryConfig, logger *slog.Logger) *http.Client {
	if base == nil {
		base = http.DefaultClient
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = base
	rc.RetryMax = cfg.MaxRetries
	if cfg.WaitMin > 0 {
		rc.RetryWaitMin = cfg.WaitMin
	}
	if cfg.WaitMax > 0 {
		rc.RetryWaitMax = cfg.WaitMax
	}
	rc.Logger = logging.NewRetryLogger(logger)
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.CheckRetry = retryPolicy

	hc := rc.StandardClient()
	hc.Transport = methodTagger{next: hc.Transport}
	return hc
}

type methodKey struct{}

// methodTagger records the request method in the context, which is all
// CheckRetry sees when the request failed without a response.
type methodTagger struct {
	next http.RoundTripper
}

func (t methodTagger) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := context.WithValue(req.Context(), methodKey{}, req.Method)
	return t.next.RoundTrip(req.WithContext(ctx))
}

func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	method, _ := ctx.Value(methodKey{}).(string)
	if method == "" && resp != nil && resp.Request != nil {
		method = resp.Request.Method
	}
	if idempotent(method) {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}

	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	// A throttled request was rejected before it did anything.
	return resp != nil && resp.StatusCode == http.StatusTooManyRequests, nil
}

// idempotent reports whether a request can be repeated safely. Drive
// patches overwrite fields, so PATCH counts.
func idempotent(method string) bool {
	switch method {
	case "", http.MethodGet, http.MethodHead, http.MethodOptions,
		http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	}
	return false
}
