package logging

import (
	"log/slog"
)

// RetryLogger satisfies go-retryablehttp's LeveledLogger. The embedded
// slog.Logger supplies Debug, Info and Warn unchanged.
type RetryLogger struct {
	*slog.Logger
}

// NewRetryLogger returns a RetryLogger tagged with the drive-transport
// component. A nil logger selects slog.Default().
func NewRetryLogger(logger *slog.Logger) *RetryLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryLogger{Logger: WithComponent(logger, "drive-transport")}
}

// Error is emitted by the retry client for every failed attempt. The attempt
// is retried and the final error reaches the caller, so it is logged as a
// warning.
func (l *RetryLogger) Error(msg string, args ...any) {
	l.Logger.Warn(msg, args...)
}
