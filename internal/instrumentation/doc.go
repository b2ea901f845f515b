// Package instrumentation provides OpenTelemetry metrics, tracing and audit
// logging for drivekit.
//
// # Metrics
//
// Drive operations:
//   - drive_operations_total: operations by name, status and result code
//   - drive_operation_duration_seconds: time from start to callback
//   - drive_parse_errors_total: 2xx responses whose body failed to parse
//   - drive_operations_inflight: operations started but not yet finished
//
// Platform adapter:
//   - platform_shared_timer_fires_total: shared timer fires delivered to the loop
//   - platform_resource_loads_total: bundled resource lookups by name
//
// MCP tools:
//   - mcp_tool_invocations_total and mcp_tool_duration_seconds
//
// # Tracing
//
// Drive operations produce client spans named google.<operation>, for example
// google.drive.get_file_list. MCP tool calls produce server spans named
// tool.<name>.
//
// # Configuration
//
// DefaultConfig reads the standard OTEL_* variables plus
// INSTRUMENTATION_ENABLED, METRICS_EXPORTER, TRACING_EXPORTER,
// METRICS_DETAILED_LABELS and AUDIT_LOGGING_*. Console exporters write to
// stderr because stdout carries the MCP stdio transport.
package instrumentation
