package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// Place represents a simplified location result.
type Place struct {
	Name             string
	Address          string
	Rating           float32
	PlaceID          string
	UserRatingsTotal int
}

// PlacesService handles interactions with Google Places API.
type PlacesService struct {
	client *maps.Client
}

// NewPlacesService creates a new PlacesService with the given API Key.
func NewPlacesService(apiKey string) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesService{client: client}, nil
}

// SearchCity looks up places of a category (e.g. "tourist attractions",
// "restaurants", "nightlife") in a city and returns the best-rated results,
// capped at limit.
func (s *PlacesService) SearchCity(ctx context.Context, city, category string, limit int) ([]Place, error) {
	r := &maps.TextSearchRequest{
		Query: fmt.Sprintf("%s in %s", category, city),
	}

	resp, err := s.client.TextSearch(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	if limit <= 0 {
		limit = 5
	}

	var results []Place
	for _, result := range resp.Results {
		if result.Rating < 4.0 { // Filter for high quality
			continue
		}
		results = append(results, Place{
			Name:             result.Name,
			Address:          result.FormattedAddress,
			Rating:           result.Rating,
			PlaceID:          result.PlaceID,
			UserRatingsTotal: result.UserRatingsTotal,
		})
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}
