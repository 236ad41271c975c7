package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/StacklokLabs/gke-mcp/pkg/ratelimit"
)

// WithTimeoutContext bounds every tool handler by timeout and tags its context
// with the session ID. Cancellation of the caller's context (client disconnect,
// server shutdown) still reaches the handler.
func WithTimeoutContext(timeout time.Duration) server.ServerOption {
	return server.WithToolHandlerMiddleware(func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var sessionID string
			if session := server.ClientSessionFromContext(ctx); session != nil {
				sessionID = session.SessionID()
			}

			timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			if sessionID != "" {
				timeoutCtx = ratelimit.SetSessionIDToContext(timeoutCtx, sessionID)
			}

			return next(timeoutCtx, request)
		}
	})
}

// LoggingMiddleware logs every tool call with its duration and outcome
func LoggingMiddleware(logger *zap.Logger) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			result, err := next(ctx, request)

			fields := []zap.Field{
				zap.String("tool", request.Params.Name),
				zap.Duration("duration", time.Since(start)),
			}
			switch {
			case err != nil:
				logger.Error("Tool call failed", append(fields, zap.Error(err))...)
			case result != nil && result.IsError:
				logger.Info("Tool call returned an error", fields...)
			default:
				logger.Info("Tool call completed", fields...)
			}
			return result, err
		}
	}
}
