// Package geocode resolves deployment locations to coordinates with the
// Google Maps geocoding API.
package geocode

import (
	"context"
	"errors"
	"fmt"

	"go-reliefdesk/types"

	"googlemaps.github.io/maps"
)

var ErrNoResults = errors.New("no geocoding results")

type client interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// Geocoder forward-geocodes addresses.
type Geocoder struct {
	client client
}

// New returns nil and no error when apiKey is empty, leaving assignments
// without coordinates.
func New(apiKey string) (*Geocoder, error) {
	if apiKey == "" {
		return nil, nil
	}
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Geocoder{client: c}, nil
}

// Geocode returns the first result for address.
func (g *Geocoder) Geocode(ctx context.Context, address string) (*types.Coordinates, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoResults, address)
	}

	first := results[0]
	return &types.Coordinates{
		Lat:              first.Geometry.Location.Lat,
		Long:             first.Geometry.Location.Lng,
		FormattedAddress: first.FormattedAddress,
	}, nil
}
