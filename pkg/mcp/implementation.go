package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/StacklokLabs/gke-mcp/pkg/gcp"
	"github.com/StacklokLabs/gke-mcp/pkg/k8s"
)

// ClusterClientProvider hands out Kubernetes clients for GKE clusters
type ClusterClientProvider interface {
	ClientFor(ctx context.Context, ref k8s.ClusterRef) (*k8s.Client, error)
	Invalidate(ref k8s.ClusterRef)
}

// Dependencies are the backends the tools are implemented on
type Dependencies struct {
	Clusters        gcp.ClusterService
	Recommendations gcp.RecommendationService
	Logs            gcp.LogService
	Kubernetes      ClusterClientProvider
	Logger          *zap.Logger
}

// Implementation implements the GKE tools
type Implementation struct {
	clusters        gcp.ClusterService
	recommendations gcp.RecommendationService
	logs            gcp.LogService
	kubernetes      ClusterClientProvider
	logger          *zap.Logger

	defaultProject  string
	defaultLocation string
}

// NewImplementation creates a new MCP implementation
func NewImplementation(deps Dependencies, defaultProject, defaultLocation string) *Implementation {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Implementation{
		clusters:        deps.Clusters,
		recommendations: deps.Recommendations,
		logs:            deps.Logs,
		kubernetes:      deps.Kubernetes,
		logger:          logger.Named("tools"),
		defaultProject:  defaultProject,
		defaultLocation: defaultLocation,
	}
}

// project returns the project_id argument or the configured default
func (m *Implementation) project(request mcp.CallToolRequest) string {
	if p := strings.TrimSpace(mcp.ParseString(request, "project_id", "")); p != "" {
		return p
	}
	return m.defaultProject
}

// location returns the location argument or the configured default
func (m *Implementation) location(request mcp.CallToolRequest) string {
	if l := strings.TrimSpace(mcp.ParseString(request, "location", "")); l != "" {
		return l
	}
	return m.defaultLocation
}

// toolError logs a failed tool call and converts it into an MCP error result
func (m *Implementation) toolError(request mcp.CallToolRequest, message string, err error) *mcp.CallToolResult {
	m.logger.Warn(message,
		zap.String("tool", request.Params.Name),
		zap.Error(err),
	)
	return mcp.NewToolResultErrorFromErr(message, err)
}

// jsonResult marshals v into a text result
func jsonResult(v interface{}) *mcp.CallToolResult {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultErrorFromErr("Failed to marshal result", err)
	}
	return mcp.NewToolResultText(string(b))
}

const (
	missingProjectMessage  = "project_id is required: pass it or set GOOGLE_CLOUD_PROJECT"
	missingLocationMessage = "location is required: pass it or set GOOGLE_CLOUD_LOCATION"
)
