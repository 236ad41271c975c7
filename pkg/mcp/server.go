package mcp

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/StacklokLabs/gke-mcp/pkg/logging"
	"github.com/StacklokLabs/gke-mcp/pkg/otel"
	"github.com/StacklokLabs/gke-mcp/pkg/ratelimit"
)

const (
	// ServerName is the name the server reports to MCP clients
	ServerName = "gke-mcp"
	// ServerVersion is the version the server reports to MCP clients
	ServerVersion = "0.1.0"

	// EndpointPath is where the streamable HTTP transport is mounted
	EndpointPath = "/mcp"

	defaultToolTimeout = 60 * time.Second
)

const instructions = `You are a specialized assistant for Google Kubernetes Engine (GKE).
Use the tools of this server to help with GKE clusters, logs, recommendations and manifests:
  - list_clusters: list GKE clusters
  - get_cluster: get details about a specific cluster
  - cluster_toolkit: create clusters, optionally with GPU accelerators
  - giq_generate_manifest: generate AI/ML inference manifests
  - query_logs: query Cloud Logging
  - get_log_schema: describe the GKE log types
  - list_recommendations: list Recommender recommendations
  - list_namespaces, get_pods and get_pod_logs: inspect workloads inside a cluster
If a request is unrelated to GKE, say that you can only help with GKE clusters, logs, recommendations or manifests.`

// Config holds configuration options for the MCP server
type Config struct {
	// DefaultProject is used by tools called without a project_id
	DefaultProject string
	// DefaultLocation is used by tools called without a location
	DefaultLocation string
	// ReadOnly omits tools that create cloud resources
	ReadOnly bool
	// EnableRateLimiting determines whether to enable rate limiting for tool calls
	EnableRateLimiting bool
	// EnableTelemetry adds OpenTelemetry tracing and metrics to tool calls
	EnableTelemetry bool
	// ToolTimeout bounds every tool call
	ToolTimeout time.Duration
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		EnableRateLimiting: true,
		ToolTimeout:        defaultToolTimeout,
	}
}

var (
	rateLimiterMu sync.Mutex
	rateLimiter   *ratelimit.RateLimiter
)

// CreateServer creates a new MCP server for GKE
func CreateServer(deps Dependencies, config *Config) *server.MCPServer {
	if config == nil {
		config = DefaultConfig()
	}
	if config.ToolTimeout <= 0 {
		config.ToolTimeout = defaultToolTimeout
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	impl := NewImplementation(deps, config.DefaultProject, config.DefaultLocation)

	// Middlewares run in the order they are added
	serverOptions := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithInstructions(instructions),
		server.WithRecovery(),
		WithTimeoutContext(config.ToolTimeout),
		server.WithToolHandlerMiddleware(LoggingMiddleware(logger.Named("mcp"))),
	}

	if config.EnableRateLimiting {
		rl := ratelimit.GetDefaultRateLimiter()
		rateLimiterMu.Lock()
		if rateLimiter != nil {
			rateLimiter.Stop()
		}
		rateLimiter = rl
		rateLimiterMu.Unlock()
		serverOptions = append(serverOptions, server.WithToolHandlerMiddleware(rl.Middleware()))
	}

	if config.EnableTelemetry {
		telemetry, err := otel.Middleware()
		if err != nil {
			logger.Warn("Tool telemetry disabled", zap.Error(err))
		} else {
			serverOptions = append(serverOptions, server.WithToolHandlerMiddleware(telemetry))
		}
	}

	mcpServer := server.NewMCPServer(ServerName, ServerVersion, serverOptions...)

	mcpServer.AddTool(NewListClustersTool(), impl.HandleListClusters)
	mcpServer.AddTool(NewGetClusterTool(), impl.HandleGetCluster)
	mcpServer.AddTool(NewGenerateManifestTool(), impl.HandleGenerateManifest)
	mcpServer.AddTool(NewListRecommendationsTool(), impl.HandleListRecommendations)
	mcpServer.AddTool(NewQueryLogsTool(), impl.HandleQueryLogs)
	mcpServer.AddTool(NewGetLogSchemaTool(), impl.HandleGetLogSchema)
	mcpServer.AddTool(NewListNamespacesTool(), impl.HandleListNamespaces)
	mcpServer.AddTool(NewGetPodsTool(), impl.HandleGetPods)
	mcpServer.AddTool(NewGetPodLogsTool(), impl.HandleGetPodLogs)

	// Only add the cluster creation tool if not in read-only mode
	if !config.ReadOnly {
		mcpServer.AddTool(NewClusterToolkitTool(), impl.HandleClusterToolkit)
	}

	return mcpServer
}

// StopServer releases resources held by the last created server
func StopServer() {
	rateLimiterMu.Lock()
	defer rateLimiterMu.Unlock()
	if rateLimiter != nil {
		rateLimiter.Stop()
		rateLimiter = nil
	}
}

// CreateSSEServer creates a new SSE server for the MCP server
func CreateSSEServer(mcpServer *server.MCPServer) *server.SSEServer {
	return server.NewSSEServer(mcpServer)
}

// CreateStreamableHTTPServer creates a new streamable HTTP server for the MCP server
func CreateStreamableHTTPServer(mcpServer *server.MCPServer) *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(mcpServer, server.WithEndpointPath(EndpointPath))
}

// ServeStdio serves MCP over in and out until ctx is cancelled or in is closed
func ServeStdio(ctx context.Context, mcpServer *server.MCPServer, in io.Reader, out io.Writer, logger *zap.Logger) error {
	stdio := server.NewStdioServer(mcpServer)
	stdio.SetErrorLogger(logging.StdLogger(logger))
	return stdio.Listen(ctx, in, out)
}
