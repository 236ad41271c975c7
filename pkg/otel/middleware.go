package otel

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/StacklokLabs/gke-mcp/pkg/otel"

// spanArguments are the tool arguments copied onto spans when present
var spanArguments = map[string]string{
	"project_id":   "gcp.project_id",
	"location":     "gcp.location",
	"region":       "gcp.location",
	"cluster_name": "gke.cluster.name",
	"namespace":    "k8s.namespace.name",
}

type options struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// Option configures the telemetry middleware
type Option func(*options)

// WithTracerProvider records spans on tp instead of the global tracer provider
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithMeterProvider records metrics on mp instead of the global meter provider
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// Middleware returns a tool handler middleware that records a span, a request
// counter and a duration histogram for every tool call
func Middleware(opts ...Option) (server.ToolHandlerMiddleware, error) {
	o := options{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	tracer := o.tracerProvider.Tracer(instrumentationName)
	meter := o.meterProvider.Meter(instrumentationName)

	requestCounter, err := meter.Int64Counter("gke_mcp.tool.requests",
		metric.WithDescription("Number of tool requests"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("gke_mcp.tool.duration",
		metric.WithDescription("Duration of tool requests"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			toolName := request.Params.Name
			start := time.Now()

			ctx, span := tracer.Start(ctx, "tool."+toolName,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(spanAttributes(request)...),
			)
			defer span.End()

			result, err := next(ctx, request)

			duration := float64(time.Since(start).Milliseconds())
			attrs := []attribute.KeyValue{
				attribute.String("tool", toolName),
			}

			switch {
			case err != nil:
				span.SetStatus(codes.Error, err.Error())
				span.RecordError(err)
				attrs = append(attrs, attribute.Bool("error", true))
			case result != nil && result.IsError:
				span.SetStatus(codes.Error, "tool returned error")
				attrs = append(attrs, attribute.Bool("error", true))
			default:
				span.SetStatus(codes.Ok, "")
				attrs = append(attrs, attribute.Bool("error", false))
			}

			requestCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
			requestDuration.Record(ctx, duration, metric.WithAttributes(attrs...))

			return result, err
		}
	}, nil
}

func spanAttributes(request mcp.CallToolRequest) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("mcp.tool.name", request.Params.Name),
	}
	args := request.GetArguments()
	for arg, key := range spanArguments {
		if v, ok := args[arg].(string); ok && v != "" {
			attrs = append(attrs, attribute.String(key, v))
		}
	}
	return attrs
}
