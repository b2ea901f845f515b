// Package logging provides structured logging utilities for drivekit.
//
// All packages log through log/slog. This package keeps attribute names
// consistent (operation, account, resource_id, code) and builds the root
// handler from configuration.
//
// # Usage Patterns
//
// Build the process logger once at startup:
//
//	logger, err := logging.New(os.Stderr, "debug", "json")
//	slog.SetDefault(logger)
//
// Attach operation context:
//
//	logger := logging.WithOperation(slog.Default(), "drive.rename_resource")
//	logger.Info("request finished", logging.Code(200))
//
// RetryLogger plugs slog into go-retryablehttp for the Drive transport.
//
// Tokens are never logged directly; use SanitizeToken.
package logging
