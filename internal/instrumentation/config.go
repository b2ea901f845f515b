package instrumentation

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"
)

// Label values and exporter names.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusUnknown = "unknown"

	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"

	// DefaultMetricInterval is the push interval of the otlp and stdout
	// metric readers.
	DefaultMetricInterval = 10 * time.Second
)

var (
	metricsExporters = []string{ExporterPrometheus, ExporterOTLP, ExporterStdout}
	tracingExporters = []string{ExporterOTLP, ExporterStdout, ExporterNone}
)

// Config selects exporters and resource attributes for a Provider.
type Config struct {
	ServiceName       string
	ServiceVersion    string
	ServiceInstanceID string // hostname when empty
	K8sNamespace      string
	K8sPodName        string

	// Enabled is false when INSTRUMENTATION_ENABLED=false.
	Enabled bool

	MetricsExporter string // prometheus, otlp or stdout
	TracingExporter string // otlp, stdout or none

	// OTLPEndpoint is host:port without a scheme, e.g. "localhost:4318".
	OTLPEndpoint string
	OTLPInsecure bool

	TraceSamplingRate float64

	// DetailedLabels adds the account label to tool metrics. Every account
	// becomes its own series.
	DetailedLabels bool

	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig controls the audit records of mutating Drive calls and
// tool invocations.
type AuditLoggingConfig struct {
	Enabled            bool
	IncludeResourceIDs bool
}

// DefaultConfig reads the standard OTEL_* variables plus the drivekit
// specific switches. Unparsable values keep their default.
func DefaultConfig() Config {
	hostname := env("HOSTNAME", "", parseString)
	return Config{
		ServiceName:       env("OTEL_SERVICE_NAME", "drivekit", parseString),
		ServiceVersion:    "unknown",
		ServiceInstanceID: env("OTEL_SERVICE_INSTANCE_ID", "", parseString),
		K8sNamespace:      env("K8S_NAMESPACE", env("POD_NAMESPACE", "", parseString), parseString),
		K8sPodName:        env("K8S_POD_NAME", hostname, parseString),
		Enabled:           env("INSTRUMENTATION_ENABLED", true, strconv.ParseBool),
		MetricsExporter:   env("METRICS_EXPORTER", ExporterPrometheus, parseString),
		TracingExporter:   env("TRACING_EXPORTER", ExporterNone, parseString),
		OTLPEndpoint:      env("OTEL_EXPORTER_OTLP_ENDPOINT", "", parseString),
		OTLPInsecure:      env("OTEL_EXPORTER_OTLP_INSECURE", false, strconv.ParseBool),
		TraceSamplingRate: env("OTEL_TRACES_SAMPLER_ARG", 0.1, parseFloat),
		DetailedLabels:    env("METRICS_DETAILED_LABELS", false, strconv.ParseBool),
		AuditLogging: AuditLoggingConfig{
			Enabled:            env("AUDIT_LOGGING_ENABLED", true, strconv.ParseBool),
			IncludeResourceIDs: env("AUDIT_LOGGING_INCLUDE_RESOURCE_IDS", true, strconv.ParseBool),
		},
	}
}

func parseString(s string) (string, error) { return s, nil }

func parseFloat(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

func env[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		return fallback
	}
	return v
}

// Validate rejects unknown exporters, an otlp exporter without endpoint and
// a sampling rate outside [0, 1].
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}
	if c.MetricsExporter != "" && !slices.Contains(metricsExporters, c.MetricsExporter) {
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter)
	}
	if c.TracingExporter != "" && !slices.Contains(tracingExporters, c.TracingExporter) {
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter)
	}
	if c.OTLPEndpoint != "" {
		return nil
	}
	if c.TracingExporter == ExporterOTLP {
		return fmt.Errorf("OTLP endpoint is required when using OTLP tracing exporter")
	}
	if c.MetricsExporter == ExporterOTLP {
		return fmt.Errorf("OTLP endpoint is required when using OTLP metrics exporter")
	}
	return nil
}
