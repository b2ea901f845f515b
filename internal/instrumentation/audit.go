package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Audit record messages.
const (
	auditOperation       = "drive_operation"
	auditOperationFailed = "drive_operation_failed"
	auditTool            = "tool_executed"
	auditToolFailed      = "tool_failed"
)

// OperationRecord is the audit entry of one mutating Drive call.
type OperationRecord struct {
	Operation  string
	Method     string
	Account    string
	ResourceID string
	Code       int
	Duration   time.Duration
	TraceID    string
}

// Success reports a 2xx code.
func (r *OperationRecord) Success() bool {
	return r.Code >= 200 && r.Code < 300
}

func (r *OperationRecord) attrs(withResourceID bool) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("operation", r.Operation),
		slog.String("method", r.Method),
		slog.Int("code", r.Code),
		slog.Duration("duration", r.Duration),
	}
	attrs = appendNonEmpty(attrs, "account", r.Account)
	if withResourceID {
		attrs = appendNonEmpty(attrs, "resource_id", r.ResourceID)
	}
	return appendNonEmpty(attrs, "trace_id", r.TraceID)
}

// ToolInvocation is the audit entry of one MCP tool call. Start it with
// NewToolInvocation and finish it with Complete.
type ToolInvocation struct {
	Tool    string
	Account string

	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	TraceID string
	SpanID  string
}

func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{Tool: tool, StartTime: time.Now()}
}

func (ti *ToolInvocation) WithAccount(account string) *ToolInvocation {
	ti.Account = account
	return ti
}

// WithSpanContext copies the trace and span ids of the span in ctx.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		ti.TraceID = sc.TraceID().String()
		ti.SpanID = sc.SpanID().String()
	}
	return ti
}

// Complete stops the clock and stores the outcome.
func (ti *ToolInvocation) Complete(success bool, err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// Status is the metric label for the outcome.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// The default account is implied and left out.
func (ti *ToolInvocation) attrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}
	if ti.Account != "default" {
		attrs = appendNonEmpty(attrs, "account", ti.Account)
	}
	attrs = appendNonEmpty(attrs, "trace_id", ti.TraceID)
	return appendNonEmpty(attrs, "error", ti.Error)
}

func appendNonEmpty(attrs []slog.Attr, key, value string) []slog.Attr {
	if value == "" {
		return attrs
	}
	return append(attrs, slog.String(key, value))
}

// AuditLogger writes audit records tagged log_type=audit. Successes log at
// info, failures at warn. A nil *AuditLogger discards everything.
type AuditLogger struct {
	logger             *slog.Logger
	enabled            bool
	includeResourceIDs bool
}

// NewAuditLogger returns an enabled logger that records resource ids.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true, IncludeResourceIDs: true})
}

func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:             logger.With(slog.String("log_type", "audit")),
		enabled:            config.Enabled,
		includeResourceIDs: config.IncludeResourceIDs,
	}
}

func (al *AuditLogger) active() bool {
	return al != nil && al.enabled
}

func (al *AuditLogger) emit(ok bool, okMsg, failMsg string, attrs []slog.Attr) {
	level, msg := slog.LevelInfo, okMsg
	if !ok {
		level, msg = slog.LevelWarn, failMsg
	}
	al.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// LogOperation records a mutating Drive call.
func (al *AuditLogger) LogOperation(rec *OperationRecord) {
	if !al.active() || rec == nil {
		return
	}
	al.emit(rec.Success(), auditOperation, auditOperationFailed, rec.attrs(al.includeResourceIDs))
}

// LogToolInvocation records a completed tool call.
func (al *AuditLogger) LogToolInvocation(ti *ToolInvocation) {
	if !al.active() || ti == nil {
		return
	}
	al.emit(ti.Success, auditTool, auditToolFailed, ti.attrs())
}
