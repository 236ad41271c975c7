package gcp

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/recommender/apiv1/recommenderpb"
	"google.golang.org/api/iterator"
)

// RecommendationService lists Recommender recommendations
type RecommendationService interface {
	// ListRecommendations returns at most limit recommendations of the recommender at parent
	ListRecommendations(ctx context.Context, parent, filter string, limit int) ([]Recommendation, error)
}

// Recommendation is the list_recommendations projection of a recommendation
type Recommendation struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Subtype     string `json:"subtype,omitempty"`
	Priority    string `json:"priority,omitempty"`
	State       string `json:"state,omitempty"`
	Category    string `json:"category,omitempty"`
}

type recommendationService struct {
	clients *Clients
}

func (s *recommendationService) ListRecommendations(ctx context.Context, parent, filter string, limit int) ([]Recommendation, error) {
	client, err := s.clients.recommenderClient(ctx)
	if err != nil {
		return nil, err
	}

	it := client.ListRecommendations(ctx, &recommenderpb.ListRecommendationsRequest{
		Parent:   parent,
		Filter:   filter,
		PageSize: int32(limit),
	})

	recs := []Recommendation{}
	for len(recs) < limit {
		r, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list recommendations for %s: %w", parent, err)
		}
		recs = append(recs, ConvertRecommendation(r))
	}
	return recs, nil
}

// ConvertRecommendation projects a Recommender API recommendation
func ConvertRecommendation(r *recommenderpb.Recommendation) Recommendation {
	rec := Recommendation{
		Name:        r.GetName(),
		Description: r.GetDescription(),
		Subtype:     r.GetRecommenderSubtype(),
	}
	if r.GetPriority() != recommenderpb.Recommendation_PRIORITY_UNSPECIFIED {
		rec.Priority = r.GetPriority().String()
	}
	if info := r.GetStateInfo(); info != nil {
		rec.State = info.GetState().String()
	}
	if impact := r.GetPrimaryImpact(); impact != nil {
		rec.Category = impact.GetCategory().String()
	}
	return rec
}
