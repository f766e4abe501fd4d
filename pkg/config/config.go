package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/vmforge/vmforge/pkg/telemetry"
)

// Config is the application configuration loaded from YAML.
type Config struct {
	Server    ServerConfig    `yaml:"server" validate:"required"`
	Store     StoreConfig     `yaml:"store"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	ListenAddress string `yaml:"listen_address" validate:"required"`
}

// StoreConfig configures the optional SQLite persistence layer.
type StoreConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Path            string        `yaml:"path" validate:"required_if=Enabled true"`
	MaxOpenConns    int           `yaml:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `yaml:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// CatalogConfig points at an optional catalog extension file.
type CatalogConfig struct {
	ExtensionsPath string `yaml:"extensions_path"`
}

// TelemetryConfig mirrors the telemetry package configuration in YAML.
type TelemetryConfig struct {
	Environment string `yaml:"environment" validate:"omitempty,oneof=development staging production"`

	LogLevel  string `yaml:"log_level" validate:"omitempty,oneof=trace debug info warn error fatal"`
	LogFormat string `yaml:"log_format" validate:"omitempty,oneof=console json"`

	TracingEnabled  bool    `yaml:"tracing_enabled"`
	TracingExporter string  `yaml:"tracing_exporter" validate:"omitempty,oneof=otlp stdout none"`
	TracingEndpoint string  `yaml:"tracing_endpoint"`
	SamplingRate    float64 `yaml:"sampling_rate" validate:"gte=0,lte=1"`

	MetricsEnabled bool   `yaml:"metrics_enabled"`
	MetricsAddress string `yaml:"metrics_address"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{ListenAddress: ":8080"},
		Store: StoreConfig{
			Enabled: false,
			Path:    "vmforge.db",
		},
		Telemetry: TelemetryConfig{
			Environment:     "development",
			LogLevel:        "info",
			LogFormat:       "console",
			TracingExporter: "stdout",
			SamplingRate:    1.0,
			MetricsEnabled:  true,
			MetricsAddress:  ":9090",
		},
	}
}

// Load reads and validates a configuration file. Missing fields fall back
// to the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// TelemetrySettings maps the YAML telemetry block onto the telemetry
// package configuration.
func (c *Config) TelemetrySettings(version string) *telemetry.Config {
	tc := telemetry.DefaultConfig()
	tc.ServiceVersion = version

	if c.Telemetry.Environment != "" {
		tc.Environment = c.Telemetry.Environment
	}
	if c.Telemetry.LogLevel != "" {
		tc.Logging.Level = c.Telemetry.LogLevel
	}
	if c.Telemetry.LogFormat != "" {
		tc.Logging.Format = c.Telemetry.LogFormat
	}

	tc.Tracing.Enabled = c.Telemetry.TracingEnabled
	if c.Telemetry.TracingExporter != "" {
		tc.Tracing.Exporter = c.Telemetry.TracingExporter
	}
	tc.Tracing.Endpoint = c.Telemetry.TracingEndpoint
	if c.Telemetry.SamplingRate > 0 {
		tc.Tracing.SamplingRate = c.Telemetry.SamplingRate
	}

	tc.Metrics.Enabled = c.Telemetry.MetricsEnabled
	if c.Telemetry.MetricsAddress != "" {
		tc.Metrics.ListenAddress = c.Telemetry.MetricsAddress
	}

	return tc
}
