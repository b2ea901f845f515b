// Package server holds the state shared by the MCP tool handlers and the
// optional metrics listener.
//
// ServerContext caches one Drive client per account, created lazily from the
// stored OAuth tokens. All clients share one operation registry, so Shutdown
// cancels every Drive request still in flight.
//
// MetricsServer exposes /metrics from the instrumentation provider's
// Prometheus registry together with the HealthChecker endpoints /healthz,
// /readyz and /healthz/detailed.
package server
