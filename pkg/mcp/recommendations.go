package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/StacklokLabs/gke-mcp/pkg/gcp"
)

const (
	defaultRecommendationLimit = 50
	maxRecommendationLimit     = 500
)

// ListRecommendationsResult is the list_recommendations response
type ListRecommendationsResult struct {
	Recommendations []gcp.Recommendation `json:"recommendations"`
}

// HandleListRecommendations handles the list_recommendations tool
func (m *Implementation) HandleListRecommendations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recommender, errResult := requiredString(request, "recommender_id")
	if errResult != nil {
		return errResult, nil
	}
	project := m.project(request)
	if project == "" {
		return mcp.NewToolResultError(missingProjectMessage), nil
	}
	location := m.location(request)
	if location == "" {
		return mcp.NewToolResultError(missingLocationMessage), nil
	}
	limit := clampInt(mcp.ParseInt(request, "limit", defaultRecommendationLimit),
		defaultRecommendationLimit, maxRecommendationLimit)

	recs, err := m.recommendations.ListRecommendations(ctx,
		gcp.RecommenderPath(project, location, recommender),
		mcp.ParseString(request, "filter", ""),
		limit,
	)
	if err != nil {
		return m.toolError(request, "Failed to list recommendations", err), nil
	}
	if recs == nil {
		recs = []gcp.Recommendation{}
	}
	return jsonResult(ListRecommendationsResult{Recommendations: recs}), nil
}
