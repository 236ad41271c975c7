// Package config holds the runtime configuration of the gke-mcp server
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/StacklokLabs/gke-mcp/pkg/otel"
	"github.com/StacklokLabs/gke-mcp/pkg/types"
)

// Keys used for flags and viper lookups
const (
	KeyServerMode         = "server-mode"
	KeyServerPort         = "server-port"
	KeyProject            = "project"
	KeyLocation           = "location"
	KeyKubeconfig         = "kubeconfig"
	KeyReadOnly           = "read-only"
	KeyEnableRateLimiting = "enable-rate-limiting"
	KeyToolTimeout        = "tool-timeout"
	KeyLogLevel           = "log-level"

	KeyOtelEnabled        = "otel-enabled"
	KeyOtelEndpoint       = "otel-endpoint"
	KeyOtelInsecure       = "otel-insecure"
	KeyOtelSampleRatio    = "otel-sample-ratio"
	KeyOtelServiceName    = "otel-service-name"
	KeyOtelServiceVersion = "otel-service-version"
)

const (
	defaultServerPort  = 8080
	defaultToolTimeout = 60 * time.Second
	defaultLogLevel    = "info"
)

// envBindings maps configuration keys to the environment variables that may set them.
// The first variable that is set wins.
var envBindings = map[string][]string{
	KeyServerMode:         {"MCP_SERVER_MODE"},
	KeyServerPort:         {"MCP_PORT", "PORT"},
	KeyProject:            {"GOOGLE_CLOUD_PROJECT"},
	KeyLocation:           {"GOOGLE_CLOUD_LOCATION"},
	KeyKubeconfig:         {"KUBECONFIG"},
	KeyReadOnly:           {"MCP_READ_ONLY"},
	KeyEnableRateLimiting: {"MCP_ENABLE_RATE_LIMITING"},
	KeyToolTimeout:        {"MCP_TOOL_TIMEOUT"},
	KeyLogLevel:           {"MCP_LOG_LEVEL"},

	KeyOtelEnabled:        {"GKE_MCP_OTEL_ENABLED"},
	KeyOtelEndpoint:       {"OTEL_EXPORTER_OTLP_ENDPOINT"},
	KeyOtelInsecure:       {"OTEL_EXPORTER_OTLP_INSECURE"},
	KeyOtelSampleRatio:    {"GKE_MCP_OTEL_SAMPLE_RATIO"},
	KeyOtelServiceName:    {"GKE_MCP_OTEL_SERVICE_NAME"},
	KeyOtelServiceVersion: {"GKE_MCP_OTEL_SERVICE_VERSION"},
}

// Config holds configuration options for the server
type Config struct {
	// ServerMode is the transport used to expose the tools: stdio, http or sse
	ServerMode string
	// ServerPort is the port used by the http and sse transports
	ServerPort int
	// Project is the default Google Cloud project
	Project string
	// Location is the default region or zone
	Location string
	// Kubeconfig, when set, makes in-cluster tools use gcloud-style kubeconfig contexts
	Kubeconfig string
	// ReadOnly omits tools that mutate cloud resources
	ReadOnly bool
	// EnableRateLimiting applies per-session rate limits to tool calls
	EnableRateLimiting bool
	// ToolTimeout bounds each tool call
	ToolTimeout time.Duration
	// LogLevel is one of debug, info, warn, error
	LogLevel string
	// Telemetry configures OpenTelemetry traces and metrics
	Telemetry otel.Config
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerMode:         types.ServerModeStdio,
		ServerPort:         defaultServerPort,
		EnableRateLimiting: true,
		ToolTimeout:        defaultToolTimeout,
		LogLevel:           defaultLogLevel,
		Telemetry:          *otel.DefaultConfig(),
	}
}

// AddFlags registers the server flags on fs and binds them, together with their
// environment variables, to v.
func AddFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	d := DefaultConfig()

	fs.String(KeyServerMode, d.ServerMode, "Transport used to expose the tools: 'stdio', 'http' or 'sse'")
	fs.Int(KeyServerPort, d.ServerPort, "Port to listen on when --server-mode is 'http' or 'sse'")
	fs.String(KeyProject, d.Project, "Default Google Cloud project for tools that do not take one")
	fs.String(KeyLocation, d.Location, "Default Google Cloud region or zone")
	fs.String(KeyKubeconfig, d.Kubeconfig,
		"Path to a kubeconfig with gcloud-style contexts. If empty, cluster credentials are built from the GKE API")
	fs.Bool(KeyReadOnly, d.ReadOnly, "Do not register tools that create or modify cloud resources")
	fs.Bool(KeyEnableRateLimiting, d.EnableRateLimiting, "Whether to enable rate limiting for tool calls")
	fs.Duration(KeyToolTimeout, d.ToolTimeout, "Maximum duration of a single tool call")
	fs.String(KeyLogLevel, d.LogLevel, "Log level: debug, info, warn or error")

	fs.Bool(KeyOtelEnabled, d.Telemetry.Enabled, "Export OpenTelemetry traces and metrics of tool calls")
	fs.String(KeyOtelEndpoint, d.Telemetry.OTLPEndpoint, "OTLP gRPC endpoint. If empty, telemetry is written to stderr")
	fs.Bool(KeyOtelInsecure, d.Telemetry.Insecure, "Disable TLS towards the OTLP endpoint")
	fs.Float64(KeyOtelSampleRatio, d.Telemetry.SampleRatio, "Fraction of traces sampled, between 0 and 1")
	fs.String(KeyOtelServiceName, d.Telemetry.ServiceName, "Service name reported to OpenTelemetry")
	fs.String(KeyOtelServiceVersion, d.Telemetry.ServiceVersion, "Service version reported to OpenTelemetry")

	if err := v.BindPFlags(fs); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}
	return nil
}

// Load builds a Config from v and validates it
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ServerMode:         v.GetString(KeyServerMode),
		ServerPort:         v.GetInt(KeyServerPort),
		Project:            strings.TrimSpace(v.GetString(KeyProject)),
		Location:           strings.TrimSpace(v.GetString(KeyLocation)),
		Kubeconfig:         v.GetString(KeyKubeconfig),
		ReadOnly:           v.GetBool(KeyReadOnly),
		EnableRateLimiting: v.GetBool(KeyEnableRateLimiting),
		ToolTimeout:        v.GetDuration(KeyToolTimeout),
		LogLevel:           v.GetString(KeyLogLevel),
		Telemetry: otel.Config{
			Enabled:        v.GetBool(KeyOtelEnabled),
			ServiceName:    strings.TrimSpace(v.GetString(KeyOtelServiceName)),
			ServiceVersion: strings.TrimSpace(v.GetString(KeyOtelServiceVersion)),
			OTLPEndpoint:   strings.TrimSpace(v.GetString(KeyOtelEndpoint)),
			Insecure:       v.GetBool(KeyOtelInsecure),
			SampleRatio:    v.GetFloat64(KeyOtelSampleRatio),
			MetricInterval: otel.DefaultConfig().MetricInterval,
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate normalizes the configuration and checks it for errors
func (c *Config) Validate() error {
	c.ServerMode = strings.ToLower(strings.TrimSpace(c.ServerMode))
	switch c.ServerMode {
	case types.ServerModeStdio, types.ServerModeHTTP, types.ServerModeSSE:
	default:
		return fmt.Errorf("invalid server mode %q: must be 'stdio', 'http' or 'sse'", c.ServerMode)
	}

	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("port %d out of valid range (1-65535)", c.ServerPort)
	}

	if c.ToolTimeout <= 0 {
		c.ToolTimeout = defaultToolTimeout
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("otel sample ratio %v out of valid range (0-1)", c.Telemetry.SampleRatio)
	}
	defaults := otel.DefaultConfig()
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = defaults.ServiceName
	}
	if c.Telemetry.ServiceVersion == "" {
		c.Telemetry.ServiceVersion = defaults.ServiceVersion
	}
	if c.Telemetry.MetricInterval <= 0 {
		c.Telemetry.MetricInterval = defaults.MetricInterval
	}

	return nil
}

// Address returns the address to listen on for network transports
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

// UsesNetwork reports whether the configured mode listens on a port
func (c *Config) UsesNetwork() bool {
	return c.ServerMode != types.ServerModeStdio
}
