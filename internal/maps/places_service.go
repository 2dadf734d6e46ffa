// README: Google Places text search for destination attractions.
package maps

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"
)

// Place represents a simplified location result.
type Place struct {
	Name             string  `json:"name"`
	Address          string  `json:"address"`
	Rating           float32 `json:"rating"`
	PlaceID          string  `json:"placeId"`
	UserRatingsTotal int     `json:"userRatingsTotal"`
}

const (
	minRating = 4.0
	maxPlaces = 5
)

// excludedKinds drops generic results that are rarely worth a visit on their own.
var excludedKinds = []string{"Hotel", "Hostel", "Airport", "Parking", "Station"}

// PlacesService handles interactions with the Google Places API.
type PlacesService struct {
	client *maps.Client
}

// NewPlacesService creates a PlacesService. Extra client options (base URL,
// HTTP client) are passed through for tests.
func NewPlacesService(apiKey string, opts ...maps.ClientOption) (*PlacesService, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesService{client: client}, nil
}

// AttractionQuery builds the text query: "museums food attractions in Kyoto".
func AttractionQuery(destination string, interests []string) string {
	var b strings.Builder
	for _, in := range interests {
		b.WriteString(in)
		b.WriteByte(' ')
	}
	b.WriteString("attractions in ")
	b.WriteString(destination)
	return b.String()
}

// SearchAttractions returns up to five well-rated places for destination,
// biased towards interests.
func (s *PlacesService) SearchAttractions(ctx context.Context, destination string, interests []string) ([]Place, error) {
	if strings.TrimSpace(destination) == "" {
		return nil, fmt.Errorf("places: empty destination")
	}

	resp, err := s.client.TextSearch(ctx, &maps.TextSearchRequest{
		Query:    AttractionQuery(destination, interests),
		Language: "en",
	})
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	var results []Place
	seen := make(map[string]struct{})
	for _, result := range resp.Results {
		if result.Rating < minRating {
			continue
		}
		if containsAny(result.Name, excludedKinds) {
			continue
		}
		if _, dup := seen[result.PlaceID]; dup {
			continue
		}
		seen[result.PlaceID] = struct{}{}

		results = append(results, Place{
			Name:             result.Name,
			Address:          result.FormattedAddress,
			Rating:           result.Rating,
			PlaceID:          result.PlaceID,
			UserRatingsTotal: result.UserRatingsTotal,
		})
		if len(results) >= maxPlaces {
			break
		}
	}
	return results, nil
}

func containsAny(s string, words []string) bool {
	lower := strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}
