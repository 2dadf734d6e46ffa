// README: Reference-data enrichers (weather, attraction lookup) consulted before generation.
package planner

import (
	"context"
	"fmt"
	"strings"

	"trailmate/internal/maps"
	"trailmate/internal/modules/entity"
	"trailmate/internal/weather"
)

// Enricher contributes one line of reference data for the planner payload.
// An empty note means "nothing to add".
type Enricher interface {
	Name() string
	Enrich(ctx context.Context, e entity.Entities) (string, error)
}

type WeatherSource interface {
	Current(ctx context.Context, location string) (weather.Conditions, error)
}

type WeatherEnricher struct {
	Source WeatherSource
}

func (WeatherEnricher) Name() string { return "weather" }

func (w WeatherEnricher) Enrich(ctx context.Context, e entity.Entities) (string, error) {
	if e.Destination == "" {
		return "", nil
	}
	c, err := w.Source.Current(ctx, e.Destination)
	if err != nil {
		return "", err
	}
	return "Current weather: " + c.Summary(), nil
}

type AttractionSource interface {
	SearchAttractions(ctx context.Context, destination string, interests []string) ([]maps.Place, error)
}

type PlacesEnricher struct {
	Source AttractionSource
}

func (PlacesEnricher) Name() string { return "places" }

func (p PlacesEnricher) Enrich(ctx context.Context, e entity.Entities) (string, error) {
	if e.Destination == "" {
		return "", nil
	}
	places, err := p.Source.SearchAttractions(ctx, e.Destination, e.Interests)
	if err != nil {
		return "", err
	}
	if len(places) == 0 {
		return "", nil
	}
	parts := make([]string, len(places))
	for i, pl := range places {
		parts[i] = fmt.Sprintf("%s (%.1f★, %s)", pl.Name, pl.Rating, pl.Address)
	}
	return "Well-rated places: " + strings.Join(parts, "; "), nil
}
