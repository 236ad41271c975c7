package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StacklokLabs/gke-mcp/pkg/gcp"
	"github.com/StacklokLabs/gke-mcp/pkg/types"
)

func TestHandleListRecommendations(t *testing.T) {
	b := newTestBackends()
	b.recommendations.recs = []gcp.Recommendation{{
		Name:        "projects/p/locations/us-central1/recommenders/google.container.DiagnosisRecommender/recommendations/r1",
		Description: "Node pool is underutilized",
		Priority:    "P2",
		State:       "ACTIVE",
	}}
	impl := newTestImplementation(b)

	result, err := impl.HandleListRecommendations(context.Background(), newRequest(types.ListRecommendationsToolName, map[string]any{
		"recommender_id": "google.container.DiagnosisRecommender",
		"filter":         "stateInfo.state = ACTIVE",
	}))
	require.NoError(t, err)

	var got ListRecommendationsResult
	decodeResult(t, result, &got)
	require.Len(t, got.Recommendations, 1)
	assert.Equal(t, "Node pool is underutilized", got.Recommendations[0].Description)

	assert.Equal(t, "projects/default-project/locations/us-central1/recommenders/google.container.DiagnosisRecommender",
		b.recommendations.parent)
	assert.Equal(t, "stateInfo.state = ACTIVE", b.recommendations.filter)
	assert.Equal(t, defaultRecommendationLimit, b.recommendations.limit)
}

func TestHandleListRecommendationsLimit(t *testing.T) {
	b := newTestBackends()
	impl := newTestImplementation(b)

	result, err := impl.HandleListRecommendations(context.Background(), newRequest(types.ListRecommendationsToolName, map[string]any{
		"recommender_id": "google.container.DiagnosisRecommender",
		"limit":          float64(100000),
	}))
	require.NoError(t, err)

	var got ListRecommendationsResult
	decodeResult(t, result, &got)
	assert.NotNil(t, got.Recommendations)
	assert.Equal(t, maxRecommendationLimit, b.recommendations.limit)
}

func TestHandleListRecommendationsErrors(t *testing.T) {
	t.Run("missing recommender", func(t *testing.T) {
		impl := newTestImplementation(newTestBackends())

		result, err := impl.HandleListRecommendations(context.Background(), newRequest(types.ListRecommendationsToolName, nil))
		require.NoError(t, err)
		requireToolError(t, result, "recommender_id is required")
	})

	t.Run("missing location", func(t *testing.T) {
		b := newTestBackends()
		impl := NewImplementation(b.dependencies(), "p", "")

		result, err := impl.HandleListRecommendations(context.Background(), newRequest(types.ListRecommendationsToolName,
			map[string]any{"recommender_id": "r"}))
		require.NoError(t, err)
		requireToolError(t, result, "GOOGLE_CLOUD_LOCATION")
	})

	t.Run("api error", func(t *testing.T) {
		b := newTestBackends()
		b.recommendations.err = errors.New("recommender not enabled")
		impl := newTestImplementation(b)

		result, err := impl.HandleListRecommendations(context.Background(), newRequest(types.ListRecommendationsToolName,
			map[string]any{"recommender_id": "r"}))
		require.NoError(t, err)
		requireToolError(t, result, "recommender not enabled")
	})
}
