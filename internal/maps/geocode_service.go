package maps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"
)

// ErrNoResults is returned when the geocoder recognises nothing for the query.
var ErrNoResults = errors.New("maps: no geocoding results")

// Location is the part of a geocoding result the planner uses.
type Location struct {
	Locality string
	Country  string
	Lat      float64
	Lng      float64
}

// GeocodeService resolves free-form place names through the Google Geocoding API.
type GeocodeService struct {
	client *maps.Client
}

// NewGeocodeService creates a GeocodeService. Extra client options (e.g. maps.WithBaseURL) are passed through.
func NewGeocodeService(apiKey string, opts ...maps.ClientOption) (*GeocodeService, error) {
	opts = append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GeocodeService{client: client}, nil
}

// Geocode returns the first result for query, with its locality and country names when present.
func (s *GeocodeService) Geocode(ctx context.Context, query string) (Location, error) {
	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{
		Address:  query,
		Language: "en",
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Location{}, err
		}
		// The client reports ZERO_RESULTS as an error status.
		if isZeroResults(err) {
			return Location{}, ErrNoResults
		}
		return Location{}, fmt.Errorf("geocoding api error: %w", err)
	}
	if len(results) == 0 {
		return Location{}, ErrNoResults
	}

	r := results[0]
	loc := Location{
		Lat: r.Geometry.Location.Lat,
		Lng: r.Geometry.Location.Lng,
	}
	for _, c := range r.AddressComponents {
		for _, t := range c.Types {
			switch t {
			case "locality":
				if loc.Locality == "" {
					loc.Locality = c.LongName
				}
			case "country":
				loc.Country = c.LongName
			}
		}
	}
	return loc, nil
}

func isZeroResults(err error) bool {
	return strings.Contains(err.Error(), "ZERO_RESULTS")
}
