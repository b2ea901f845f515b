package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func attrMap(attrs []attribute.KeyValue) map[string]any {
	m := make(map[string]any, len(attrs))
	for _, attr := range attrs {
		m[string(attr.Key)] = attr.Value.AsInterface()
	}
	return m
}

func TestSpanAttrs_KeyValues(t *testing.T) {
	attrs := SpanAttrs{
		Tool:       "drive_rename",
		Operation:  "drive.rename_resource",
		Method:     "PATCH",
		Account:    "work",
		ResourceID: "file:1",
	}.KeyValues()

	if len(attrs) != 6 {
		t.Fatalf("expected 6 attributes, got %d", len(attrs))
	}

	m := attrMap(attrs)
	if m[SpanAttrTool] != "drive_rename" {
		t.Errorf("unexpected tool %v", m[SpanAttrTool])
	}
	if m[SpanAttrOperation] != "drive.rename_resource" {
		t.Errorf("unexpected operation %v", m[SpanAttrOperation])
	}
	if m[SpanAttrMethod] != "PATCH" {
		t.Errorf("unexpected method %v", m[SpanAttrMethod])
	}
	if m[SpanAttrResourceID] != "file:1" {
		t.Errorf("unexpected resource id %v", m[SpanAttrResourceID])
	}
	if m[SpanAttrReadOnly] != false {
		t.Errorf("unexpected read_only %v", m[SpanAttrReadOnly])
	}
}

func TestSpanAttrs_SkipsEmpty(t *testing.T) {
	attrs := SpanAttrs{Tool: "drive_about", ReadOnly: true}.KeyValues()

	if len(attrs) != 2 {
		t.Fatalf("expected tool and read_only attributes, got %d", len(attrs))
	}
	if m := attrMap(attrs); m[SpanAttrReadOnly] != true {
		t.Errorf("unexpected read_only %v", m[SpanAttrReadOnly])
	}
}

func TestStartDriveSpan(t *testing.T) {
	recorder := withRecorder(t)

	ctx, span := StartDriveSpan(context.Background(), "drive.get_file",
		attribute.String(SpanAttrResourceID, "abc"))
	if GetTraceID(ctx) == "" || GetSpanID(ctx) == "" {
		t.Error("expected trace and span ids in context")
	}
	EndDriveSpan(span, 200, nil)

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(ended))
	}
	got := ended[0]
	if got.Name() != "google.drive.get_file" {
		t.Errorf("unexpected span name %q", got.Name())
	}
	if got.SpanKind() != trace.SpanKindClient {
		t.Errorf("expected client span, got %v", got.SpanKind())
	}
	if got.Status().Code != codes.Ok {
		t.Errorf("expected OK status, got %v", got.Status().Code)
	}
	m := attrMap(got.Attributes())
	if m[SpanAttrOperation] != "drive.get_file" || m[SpanAttrResourceID] != "abc" {
		t.Errorf("unexpected attributes %v", m)
	}
	if m[SpanAttrCode] != int64(200) {
		t.Errorf("expected code 200, got %v", m[SpanAttrCode])
	}
}

func TestEndDriveSpan_Error(t *testing.T) {
	recorder := withRecorder(t)

	_, span := StartDriveSpan(context.Background(), "drive.trash_resource")
	EndDriveSpan(span, 404, errors.New("not found"))

	got := recorder.Ended()[0]
	if got.Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", got.Status().Code)
	}
	if got.Status().Description != "not found" {
		t.Errorf("unexpected status description %q", got.Status().Description)
	}
	if len(got.Events()) == 0 {
		t.Error("expected the error to be recorded as an event")
	}
}

func TestStartToolSpan(t *testing.T) {
	recorder := withRecorder(t)

	_, span := StartToolSpan(context.Background(), "drive_list_files")
	SetSpanSuccess(span)
	span.End()

	got := recorder.Ended()[0]
	if got.Name() != "tool.drive_list_files" {
		t.Errorf("unexpected span name %q", got.Name())
	}
	if got.SpanKind() != trace.SpanKindServer {
		t.Errorf("expected server span, got %v", got.SpanKind())
	}
}

func TestGetTraceID_NoSpan(t *testing.T) {
	if id := GetTraceID(context.Background()); id != "" {
		t.Errorf("expected empty trace id, got %q", id)
	}
	if id := GetSpanID(context.Background()); id != "" {
		t.Errorf("expected empty span id, got %q", id)
	}
}
