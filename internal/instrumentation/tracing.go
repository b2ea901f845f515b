package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the tracer name used for all drivekit spans.
const TracerName = "github.com/teemow/drivekit"

// Span attribute keys.
const (
	SpanAttrTool       = "mcp.tool"
	SpanAttrOperation  = "drive.operation"
	SpanAttrMethod     = "http.request.method"
	SpanAttrCode       = "drive.code"
	SpanAttrAccount    = "drive.account"
	SpanAttrResourceID = "drive.resource_id"
	SpanAttrReadOnly   = "drive.read_only"
)

// SpanAttrs describes a Drive call or tool invocation. Empty strings are
// left off the span; ReadOnly is always set.
type SpanAttrs struct {
	Tool       string
	Operation  string
	Method     string
	Account    string
	ResourceID string
	ReadOnly   bool
}

// KeyValues converts a to otel attributes.
func (a SpanAttrs) KeyValues() []attribute.KeyValue {
	kv := make([]attribute.KeyValue, 0, 6)
	for _, s := range [...]struct{ key, value string }{
		{SpanAttrTool, a.Tool},
		{SpanAttrOperation, a.Operation},
		{SpanAttrMethod, a.Method},
		{SpanAttrAccount, a.Account},
		{SpanAttrResourceID, a.ResourceID},
	} {
		if s.value != "" {
			kv = append(kv, attribute.String(s.key, s.value))
		}
	}
	return append(kv, attribute.Bool(SpanAttrReadOnly, a.ReadOnly))
}

func start(ctx context.Context, name string, kind trace.SpanKind, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, name,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(kind),
	)
}

// StartToolSpan starts the server span "tool.<name>" for an MCP tool call.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return start(ctx, "tool."+toolName, trace.SpanKindServer,
		append([]attribute.KeyValue{attribute.String(SpanAttrTool, toolName)}, attrs...))
}

// StartDriveSpan starts the client span "google.<operation>", e.g.
// "google.drive.get_about".
func StartDriveSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return start(ctx, "google."+operation, trace.SpanKindClient,
		append([]attribute.KeyValue{attribute.String(SpanAttrOperation, operation)}, attrs...))
}

// EndDriveSpan records the Drive result code and err, then ends span.
func EndDriveSpan(span trace.Span, code int, err error) {
	span.SetAttributes(attribute.Int(SpanAttrCode, code))
	if err != nil {
		SetSpanError(span, err)
	} else {
		SetSpanSuccess(span)
	}
	span.End()
}

// SetSpanError marks span failed. A nil err is ignored.
func SetSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// GetTraceID returns the trace id of the span in ctx, or "".
func GetTraceID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// GetSpanID returns the span id of the span in ctx, or "".
func GetSpanID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.SpanID().String()
	}
	return ""
}
