package mcp

import (
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// BoolPtr returns a pointer to the given bool value
func BoolPtr(b bool) *bool {
	return &b
}

// clampInt caps v at hi, returning def when v is not positive
func clampInt(v, def, hi int) int {
	if v <= 0 {
		return def
	}
	if v > hi {
		return hi
	}
	return v
}

// requiredString returns the trimmed string argument key, or an error result naming it
func requiredString(request mcp.CallToolRequest, key string) (string, *mcp.CallToolResult) {
	v := strings.TrimSpace(mcp.ParseString(request, key, ""))
	if v == "" {
		return "", mcp.NewToolResultError(key + " is required")
	}
	return v, nil
}

// int32Arg returns the numeric argument key as an int32, or an error result when it does not fit
func int32Arg(request mcp.CallToolRequest, key string, def int) (int32, *mcp.CallToolResult) {
	v := mcp.ParseInt64(request, key, int64(def))
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, mcp.NewToolResultError(fmt.Sprintf("%s %d is out of range", key, v))
	}
	return int32(v), nil
}
