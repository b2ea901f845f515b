package instrumentation

import (
	"context"
	"testing"
	"time"
)

func TestMetrics_ZeroValueIsNoop(t *testing.T) {
	ctx := context.Background()

	for _, m := range []*Metrics{nil, {}} {
		m.RecordDriveOperation(ctx, "drive.get_about", 200, time.Millisecond)
		m.RecordDriveParseError(ctx, "drive.get_about")
		m.IncrementInflight(ctx)
		m.DecrementInflight(ctx)
		m.RecordTimerFire(ctx)
		m.RecordResourceLoad(ctx, "folder")
		m.RecordToolInvocation(ctx, "drive_about", StatusSuccess, time.Millisecond)
		m.RecordToolInvocationWithAccount(ctx, "drive_about", StatusError, "work", time.Millisecond)
	}
}

func TestMetrics_RecordAll(t *testing.T) {
	provider := newTestProvider(t, ExporterPrometheus, ExporterNone)
	metrics := provider.Metrics()
	ctx := context.Background()

	metrics.RecordDriveOperation(ctx, "drive.get_file_list", 200, 120*time.Millisecond)
	metrics.RecordDriveOperation(ctx, "drive.trash_resource", 404, 30*time.Millisecond)
	metrics.RecordDriveOperation(ctx, "drive.get_file", -100, time.Millisecond)
	metrics.RecordDriveParseError(ctx, "drive.get_file")
	metrics.IncrementInflight(ctx)
	metrics.DecrementInflight(ctx)
	metrics.RecordTimerFire(ctx)
	metrics.RecordResourceLoad(ctx, "folder")
	metrics.RecordToolInvocation(ctx, "drive_list_files", StatusSuccess, 150*time.Millisecond)
	metrics.RecordToolInvocationWithAccount(ctx, "drive_trash", StatusError, "work", 10*time.Millisecond)
}

func TestNewMetrics_DetailedLabels(t *testing.T) {
	provider := newTestProvider(t, ExporterPrometheus, ExporterNone)

	metrics, err := NewMetrics(provider.meterProvider.Meter("detailed"), true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !metrics.detailedLabels {
		t.Error("expected detailed labels to be enabled")
	}
	metrics.RecordToolInvocationWithAccount(context.Background(), "drive_about", StatusSuccess, "work", time.Millisecond)
}
