package ratelimit

import "github.com/StacklokLabs/gke-mcp/pkg/types"

const (
	defaultLimit = 60
	readLimit    = 120 // 120 requests per minute (2 per second)
	writeLimit   = 10  // cluster creation is slow and billable
	DefaultTool  = "default"
)

// DefaultConfig defines the default rate limits for different tools
var DefaultConfig = map[string]int{
	// Read operations - higher limits
	types.ListClustersToolName:        readLimit,
	types.GetClusterToolName:          readLimit,
	types.ListRecommendationsToolName: readLimit,
	types.QueryLogsToolName:           readLimit,
	types.GetLogSchemaToolName:        readLimit,
	types.GenerateManifestToolName:    readLimit,
	types.ListNamespacesToolName:      readLimit,
	types.GetPodsToolName:             readLimit,
	types.GetPodLogsToolName:          readLimit,

	// Write operations - lower limits
	types.ClusterToolkitToolName: writeLimit,

	// Default for any other tool
	DefaultTool: defaultLimit,
}

// GetDefaultRateLimiter returns a RateLimiter with default configuration
func GetDefaultRateLimiter() *RateLimiter {
	options := []RateLimiterOption{
		WithDefaultLimit(DefaultConfig[DefaultTool]),
	}

	// Add tool-specific limits
	for tool, limit := range DefaultConfig {
		if tool != DefaultTool {
			options = append(options, WithToolLimit(tool, limit))
		}
	}

	return NewRateLimiter(options...)
}
