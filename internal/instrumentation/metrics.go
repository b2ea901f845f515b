package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	attrOperation = "operation"
	attrStatus    = "status"
	attrCode      = "code"
	attrResource  = "resource"
	attrTool      = "tool"
	attrAccount   = "account"
)

// Metrics records drivekit's metrics. A zero Metrics is a valid no-op
// recorder, which is what a disabled Provider hands out.
type Metrics struct {
	// Drive operation metrics
	driveOperationsTotal   metric.Int64Counter
	driveOperationDuration metric.Float64Histogram
	driveParseErrorsTotal  metric.Int64Counter
	driveInflight          metric.Int64UpDownCounter

	// Platform adapter metrics
	timerFiresTotal    metric.Int64Counter
	resourceLoadsTotal metric.Int64Counter

	// MCP tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.driveOperationsTotal, err = meter.Int64Counter(
		"drive_operations_total",
		metric.WithDescription("Total number of Drive API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive_operations_total counter: %w", err)
	}

	m.driveOperationDuration, err = meter.Float64Histogram(
		"drive_operation_duration_seconds",
		metric.WithDescription("Drive API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive_operation_duration_seconds histogram: %w", err)
	}

	m.driveParseErrorsTotal, err = meter.Int64Counter(
		"drive_parse_errors_total",
		metric.WithDescription("Drive responses that were present but could not be parsed"),
		metric.WithUnit("{response}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive_parse_errors_total counter: %w", err)
	}

	m.driveInflight, err = meter.Int64UpDownCounter(
		"drive_operations_inflight",
		metric.WithDescription("Drive API operations currently in flight"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive_operations_inflight gauge: %w", err)
	}

	m.timerFiresTotal, err = meter.Int64Counter(
		"platform_shared_timer_fires_total",
		metric.WithDescription("Total number of shared timer fires delivered to the main loop"),
		metric.WithUnit("{fire}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create platform_shared_timer_fires_total counter: %w", err)
	}

	m.resourceLoadsTotal, err = meter.Int64Counter(
		"platform_resource_loads_total",
		metric.WithDescription("Total number of bundled resource loads"),
		metric.WithUnit("{load}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create platform_resource_loads_total counter: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordDriveOperation records a finished Drive operation.
//
// Parameters:
//   - operation: operation name (drive.get_about, drive.rename_resource, ...)
//   - code: the result code delivered to the callback
//   - duration: time from start to callback
func (m *Metrics) RecordDriveOperation(ctx context.Context, operation string, code int, duration time.Duration) {
	if m == nil || m.driveOperationsTotal == nil || m.driveOperationDuration == nil {
		return
	}

	status := StatusError
	if code >= 200 && code <= 299 {
		status = StatusSuccess
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
		attribute.String(attrCode, strconv.Itoa(code)),
	}

	m.driveOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.driveOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs[:2]...))
}

// RecordDriveParseError records a response body that failed to parse.
func (m *Metrics) RecordDriveParseError(ctx context.Context, operation string) {
	if m == nil || m.driveParseErrorsTotal == nil {
		return
	}
	m.driveParseErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOperation, operation)))
}

// IncrementInflight marks a Drive operation as started.
func (m *Metrics) IncrementInflight(ctx context.Context) {
	if m == nil || m.driveInflight == nil {
		return
	}
	m.driveInflight.Add(ctx, 1)
}

// DecrementInflight marks a Drive operation as finished.
func (m *Metrics) DecrementInflight(ctx context.Context) {
	if m == nil || m.driveInflight == nil {
		return
	}
	m.driveInflight.Add(ctx, -1)
}

// RecordTimerFire records one shared timer fire.
func (m *Metrics) RecordTimerFire(ctx context.Context) {
	if m == nil || m.timerFiresTotal == nil {
		return
	}
	m.timerFiresTotal.Add(ctx, 1)
}

// RecordResourceLoad records a bundled resource lookup by name.
// Resource names are a closed set, so the label is bounded.
func (m *Metrics) RecordResourceLoad(ctx context.Context, name string) {
	if m == nil || m.resourceLoadsTotal == nil {
		return
	}
	m.resourceLoadsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResource, name)))
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	m.RecordToolInvocationWithAccount(ctx, toolName, status, "", duration)
}

// RecordToolInvocationWithAccount records an MCP tool invocation. The account
// label is only added when detailed labels are enabled.
func (m *Metrics) RecordToolInvocationWithAccount(ctx context.Context, toolName, status, account string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	if m.detailedLabels && account != "" {
		attrs = append(attrs, attribute.String(attrAccount, account))
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
