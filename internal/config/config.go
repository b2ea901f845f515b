package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/teemow/drivekit/internal/drive"
	"github.com/teemow/drivekit/internal/google"
	"github.com/teemow/drivekit/internal/instrumentation"
	"github.com/teemow/drivekit/internal/logging"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "DRIVEKIT"

// Config holds all drivekit configuration.
type Config struct {
	Drive           DriveConfig           `yaml:"drive"`
	OAuth           OAuthConfig           `yaml:"oauth"`
	HTTP            HTTPConfig            `yaml:"http"`
	Watch           WatchConfig           `yaml:"watch"`
	Logging         LoggingConfig         `yaml:"logging"`
	Instrumentation InstrumentationConfig `yaml:"instrumentation"`
}

// DriveConfig selects the account and API endpoint.
type DriveConfig struct {
	Account   string  `envconfig:"ACCOUNT" yaml:"account"`
	BaseURL   string  `envconfig:"BASE_URL" yaml:"base_url"`
	RateLimit float64 `envconfig:"RATE_LIMIT" yaml:"rate_limit"`
	RateBurst int     `envconfig:"RATE_BURST" yaml:"rate_burst"`
}

// OAuthConfig holds the OAuth client registration and token location.
type OAuthConfig struct {
	ClientID     string `envconfig:"CLIENT_ID" yaml:"client_id"`
	ClientSecret string `envconfig:"CLIENT_SECRET" yaml:"client_secret"`
	TokenDir     string `envconfig:"TOKEN_DIR" yaml:"token_dir"`
}

// HTTPConfig controls retries of the Drive transport.
type HTTPConfig struct {
	MaxRetries   int           `envconfig:"MAX_RETRIES" yaml:"max_retries"`
	RetryWaitMin time.Duration `envconfig:"RETRY_WAIT_MIN" yaml:"retry_wait_min"`
	RetryWaitMax time.Duration `envconfig:"RETRY_WAIT_MAX" yaml:"retry_wait_max"`
}

// WatchConfig configures the change watcher.
type WatchConfig struct {
	Interval time.Duration `envconfig:"INTERVAL" yaml:"interval"`
}

// LoggingConfig selects the log level and handler.
type LoggingConfig struct {
	Level  string `envconfig:"LEVEL" yaml:"level"`
	Format string `envconfig:"FORMAT" yaml:"format"`
}

// InstrumentationConfig overrides the exporter selection. Empty values keep
// the environment defaults of the instrumentation package.
type InstrumentationConfig struct {
	MetricsExporter string `envconfig:"METRICS_EXPORTER" yaml:"metrics_exporter"`
	TracingExporter string `envconfig:"TRACING_EXPORTER" yaml:"tracing_exporter"`
	OTLPEndpoint    string `envconfig:"OTLP_ENDPOINT" yaml:"otlp_endpoint"`
	MetricsAddr     string `envconfig:"METRICS_ADDR" yaml:"metrics_addr"`
}

// Default returns the configuration used when neither a file nor the
// environment sets a value.
func Default() *Config {
	retry := drive.DefaultRetryConfig()
	return &Config{
		Drive: DriveConfig{
			Account: google.DefaultAccount,
			BaseURL: drive.DefaultBaseURL,
		},
		HTTP: HTTPConfig{
			MaxRetries:   retry.MaxRetries,
			RetryWaitMin: retry.WaitMin,
			RetryWaitMax: retry.WaitMax,
		},
		Watch: WatchConfig{
			Interval: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatText,
		},
	}
}

// Load builds the configuration from the defaults, the YAML file at path
// (skipped when path is empty) and DRIVEKIT_* environment variables, in that
// order of precedence from lowest to highest.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if err := google.ValidateAccountName(c.Drive.Account); err != nil {
		return err
	}
	if c.Drive.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %v", c.Drive.RateLimit)
	}
	if c.Drive.RateBurst < 0 {
		return fmt.Errorf("rate burst must not be negative, got %d", c.Drive.RateBurst)
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative, got %d", c.HTTP.MaxRetries)
	}
	if c.HTTP.RetryWaitMax > 0 && c.HTTP.RetryWaitMin > c.HTTP.RetryWaitMax {
		return errors.New("retry_wait_min must not exceed retry_wait_max")
	}
	if c.Watch.Interval <= 0 {
		return fmt.Errorf("watch interval must be positive, got %s", c.Watch.Interval)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("unknown log format %q, must be one of: text, json", c.Logging.Format)
	}
	return nil
}

// GoogleConfig returns the OAuth client settings.
func (c *Config) GoogleConfig() google.Config {
	return google.Config{
		ClientID:     c.OAuth.ClientID,
		ClientSecret: c.OAuth.ClientSecret,
		TokenDir:     c.OAuth.TokenDir,
	}
}

// DriveClientConfig returns the Drive client settings. Logger, metrics and
// audit are left for the caller.
func (c *Config) DriveClientConfig() drive.ClientConfig {
	return drive.ClientConfig{
		Account:   c.Drive.Account,
		BaseURL:   c.Drive.BaseURL,
		RateLimit: c.Drive.RateLimit,
		RateBurst: c.Drive.RateBurst,
		Retry: drive.RetryConfig{
			MaxRetries: c.HTTP.MaxRetries,
			WaitMin:    c.HTTP.RetryWaitMin,
			WaitMax:    c.HTTP.RetryWaitMax,
		},
	}
}

// InstrumentationConfig returns the instrumentation defaults with the
// exporter overrides of c applied.
func (c *Config) InstrumentationConfig(version string) instrumentation.Config {
	ic := instrumentation.DefaultConfig()
	ic.ServiceVersion = version
	if c.Instrumentation.MetricsExporter != "" {
		ic.MetricsExporter = c.Instrumentation.MetricsExporter
	}
	if c.Instrumentation.TracingExporter != "" {
		ic.TracingExporter = c.Instrumentation.TracingExporter
	}
	if c.Instrumentation.OTLPEndpoint != "" {
		ic.OTLPEndpoint = c.Instrumentation.OTLPEndpoint
	}
	return ic
}
