package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/StacklokLabs/gke-mcp/pkg/gcp"
	"github.com/StacklokLabs/gke-mcp/pkg/logschema"
)

const (
	defaultLogLimit = 10
	maxLogLimit     = 1000

	orderDesc = "desc"
	orderAsc  = "asc"
)

// QueryLogsResult is the query_logs response
type QueryLogsResult struct {
	Logs []gcp.LogEntry `json:"logs"`
}

// HandleQueryLogs handles the query_logs tool
func (m *Implementation) HandleQueryLogs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, errResult := requiredString(request, "query")
	if errResult != nil {
		return errResult, nil
	}
	project := m.project(request)
	if project == "" {
		return mcp.NewToolResultError(missingProjectMessage), nil
	}

	var newestFirst bool
	switch order := strings.ToLower(strings.TrimSpace(mcp.ParseString(request, "order", orderDesc))); order {
	case "", orderDesc:
		newestFirst = true
	case orderAsc:
	default:
		return mcp.NewToolResultError(fmt.Sprintf("invalid order %q: must be 'desc' or 'asc'", order)), nil
	}
	limit := clampInt(mcp.ParseInt(request, "limit", defaultLogLimit), defaultLogLimit, maxLogLimit)

	entries, err := m.logs.ListEntries(ctx, project, query, limit, newestFirst)
	if err != nil {
		return m.toolError(request, "Failed to query logs", err), nil
	}
	if entries == nil {
		entries = []gcp.LogEntry{}
	}
	return jsonResult(QueryLogsResult{Logs: entries}), nil
}

// HandleGetLogSchema handles the get_log_schema tool
func (m *Implementation) HandleGetLogSchema(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logType, errResult := requiredString(request, "log_type")
	if errResult != nil {
		return errResult, nil
	}

	schema, err := logschema.Lookup(logType)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(schema), nil
}
