package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/time/rate"
)

const (
	cleanupInterval = 10 * time.Minute
	bucketTimeout   = 30 * time.Minute
	defaultWindow   = time.Minute
)

type sessionIDKey struct{}

// SetSessionIDToContext stores the MCP session ID in ctx.
// Tool handlers run on a fresh context, so the session ID is carried explicitly.
func SetSessionIDToContext(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

// RateLimiter implements a rate limiting middleware for MCP server
// It keeps a token bucket per session and tool, refilled at limit requests per window
type RateLimiter struct {
	mu           sync.Mutex
	limits       map[string]int                       // Tool name to requests per window
	defaultLimit int                                  // Default requests per window
	window       time.Duration                        // Window the limits apply to
	buckets      map[string]map[string]*sessionBucket // SessionID:[Tool:Bucket] mapping

	stopCh   chan struct{}
	stopOnce sync.Once
}

type sessionBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterOption is a function that configures a RateLimiter
type RateLimiterOption func(*RateLimiter)

// WithToolLimit sets the rate limit for a specific tool
func WithToolLimit(toolName string, requestsPerWindow int) RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.limits[toolName] = requestsPerWindow
	}
}

// WithDefaultLimit sets the default rate limit for all tools
func WithDefaultLimit(requestsPerWindow int) RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.defaultLimit = requestsPerWindow
	}
}

// WithTimeWindow sets the window the limits are expressed in. Defaults to one minute.
func WithTimeWindow(window time.Duration) RateLimiterOption {
	return func(rl *RateLimiter) {
		if window > 0 {
			rl.window = window
		}
	}
}

// NewRateLimiter creates a new rate limiter with the given options
func NewRateLimiter(opts ...RateLimiterOption) *RateLimiter {
	rl := &RateLimiter{
		limits:       make(map[string]int),
		defaultLimit: defaultLimit,
		window:       defaultWindow,
		buckets:      make(map[string]map[string]*sessionBucket),
		stopCh:       make(chan struct{}),
	}

	for _, opt := range opts {
		opt(rl)
	}

	go rl.cleanupLoop()

	return rl
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup removes buckets that have not been used for bucketTimeout
func (rl *RateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for sessionID, toolBuckets := range rl.buckets {
		for tool, b := range toolBuckets {
			if now.Sub(b.lastSeen) > bucketTimeout {
				delete(toolBuckets, tool)
			}
		}
		if len(toolBuckets) == 0 {
			delete(rl.buckets, sessionID)
		}
	}
}

// Stop stops the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCh)
	})
}

// getSessionID extracts the session ID from the request context.
// Without a session, calls are grouped per tool.
func getSessionID(ctx context.Context, tool string) string {
	if id, ok := ctx.Value(sessionIDKey{}).(string); ok && id != "" {
		return id
	}
	if session := server.ClientSessionFromContext(ctx); session != nil && session.SessionID() != "" {
		return session.SessionID()
	}
	return "tool:" + tool
}

// getLimit returns the rate limit for the given tool. Caller must hold rl.mu.
func (rl *RateLimiter) getLimit(tool string) int {
	if limit, ok := rl.limits[tool]; ok {
		return limit
	}
	return rl.defaultLimit
}

// allow reports whether a call of tool by sessionID may proceed, consuming a token if so
func (rl *RateLimiter) allow(sessionID, tool string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	toolBuckets, ok := rl.buckets[sessionID]
	if !ok {
		toolBuckets = make(map[string]*sessionBucket)
		rl.buckets[sessionID] = toolBuckets
	}

	b, ok := toolBuckets[tool]
	if !ok {
		limit := rl.getLimit(tool)
		every := rate.Limit(float64(limit) / rl.window.Seconds())
		b = &sessionBucket{limiter: rate.NewLimiter(every, limit)}
		toolBuckets[tool] = b
	}

	b.lastSeen = time.Now()
	return b.limiter.Allow()
}

// Middleware returns a middleware function for the MCP server
func (rl *RateLimiter) Middleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			tool := request.Params.Name
			if !rl.allow(getSessionID(ctx, tool), tool) {
				return mcp.NewToolResultError(fmt.Sprintf("Rate limit exceeded for tool '%s'. Try again later.", tool)), nil
			}
			return next(ctx, request)
		}
	}
}
