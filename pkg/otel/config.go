// Package otel provides OpenTelemetry instrumentation for the MCP server
package otel

import "time"

// Config holds the OpenTelemetry configuration
type Config struct {
	// Enabled determines whether OpenTelemetry is enabled
	Enabled bool
	// ServiceName is the name of the service for tracing
	ServiceName string
	// ServiceVersion is the version of the service
	ServiceVersion string
	// OTLPEndpoint is the endpoint for the OTLP exporters (e.g., "localhost:4317")
	// If empty, spans and metrics are written to stderr for debugging
	OTLPEndpoint string
	// Insecure disables TLS towards the OTLP endpoint
	Insecure bool
	// SampleRatio is the fraction of traces sampled, between 0 and 1
	SampleRatio float64
	// MetricInterval is how often metrics are exported
	MetricInterval time.Duration
}

// DefaultConfig returns the default OpenTelemetry configuration
func DefaultConfig() *Config {
	return &Config{
		ServiceName:    "gke-mcp",
		ServiceVersion: "0.1.0",
		Insecure:       true,
		SampleRatio:    1.0,
		MetricInterval: time.Minute,
	}
}
