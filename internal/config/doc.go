// Package config loads drivekit settings.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables prefixed with DRIVEKIT_. Nested sections map to
// underscore-joined names, for example DRIVEKIT_DRIVE_ACCOUNT,
// DRIVEKIT_HTTP_MAX_RETRIES or DRIVEKIT_WATCH_INTERVAL.
package config
