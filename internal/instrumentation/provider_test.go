package instrumentation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestProvider(t *testing.T, metricsExporter, tracingExporter string) *Provider {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, Config{
		ServiceName:       "drivekit-test",
		ServiceVersion:    "1.0.0",
		Enabled:           true,
		MetricsExporter:   metricsExporter,
		TracingExporter:   tracingExporter,
		TraceSamplingRate: 1,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return provider
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{ServiceName: "drivekit-test"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if provider.Enabled() {
		t.Error("expected provider to be disabled")
	}
	if provider.Metrics() == nil {
		t.Error("expected a no-op metrics recorder when disabled")
	}
	if provider.Tracer("test") == nil {
		t.Error("expected a no-op tracer when disabled")
	}
	if provider.PrometheusHandler() != nil {
		t.Error("expected no Prometheus handler when disabled")
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("expected no error on shutdown, got %v", err)
	}
}

func TestNewProvider_PrometheusServesDriveMetrics(t *testing.T) {
	provider := newTestProvider(t, ExporterPrometheus, ExporterNone)

	if !provider.Enabled() {
		t.Fatal("expected provider to be enabled")
	}
	handler := provider.PrometheusHandler()
	if handler == nil {
		t.Fatal("expected PrometheusHandler to be non-nil for prometheus exporter")
	}

	provider.Metrics().RecordDriveOperation(context.Background(), "drive.get_about", 200, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "drive_operations_total") {
		t.Error("expected drive_operations_total in the Prometheus output")
	}
}

func TestNewProvider_StdoutExporter(t *testing.T) {
	provider := newTestProvider(t, ExporterStdout, ExporterStdout)

	if !provider.Enabled() {
		t.Error("expected provider to be enabled")
	}
	if provider.PrometheusHandler() != nil {
		t.Error("expected PrometheusHandler to be nil for stdout exporter")
	}
}

func TestNewProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		metrics string
		tracing string
	}{
		{name: "invalid metrics exporter", metrics: "invalid", tracing: ExporterNone},
		{name: "invalid tracing exporter", metrics: ExporterPrometheus, tracing: "invalid"},
		{name: "otlp tracing without endpoint", metrics: ExporterPrometheus, tracing: ExporterOTLP},
		{name: "otlp metrics without endpoint", metrics: ExporterOTLP, tracing: ExporterNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(context.Background(), Config{
				ServiceName:     "drivekit-test",
				Enabled:         true,
				MetricsExporter: tt.metrics,
				TracingExporter: tt.tracing,
			})
			if err == nil {
				t.Error("expected an error")
			}
		})
	}
}
