package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/hashicorp/go-retryablehttp"
)

var _ retryablehttp.LeveledLogger = (*RetryLogger)(nil)

func TestNewRetryLogger_NilUsesDefault(t *testing.T) {
	l := NewRetryLogger(nil)
	if l == nil || l.Logger == nil {
		t.Fatal("NewRetryLogger(nil) returned an unusable logger")
	}
}

func TestRetryLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewRetryLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	l.Debug("performing request", "method", "GET")
	l.Info("info message", "key", "i")
	l.Warn("warn message", "key", "w")
	l.Error("request failed", "error", "connection reset")

	out := buf.String()
	for _, want := range []string{
		`level=DEBUG msg="performing request" component=drive-transport method=GET`,
		`level=INFO msg="info message" component=drive-transport key=i`,
		`level=WARN msg="warn message" component=drive-transport key=w`,
		`level=WARN msg="request failed" component=drive-transport error="connection reset"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "level=ERROR") {
		t.Errorf("failed attempts must not log at error level:\n%s", out)
	}
}
