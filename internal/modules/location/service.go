// README: Location service resolves a city name to the IATA code used for flight search.
package location

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"tripplanner/internal/logger"
	"tripplanner/internal/maps"
)

// ErrNotFound means no airport code could be determined for the name. Callers never default it.
var ErrNotFound = errors.New("location: no airport code for city")

// nearestAirportMaxKm bounds how far a geocoded point may be from the airport chosen for it.
const nearestAirportMaxKm = 150.0

// Geocoder is the optional fallback for names missing from the table.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (maps.Location, error)
}

type Service struct {
	table    *Table
	geocoder Geocoder
	log      logger.Logger

	mu    sync.RWMutex
	cache map[string]string
}

// NewService builds a resolver. geocoder may be nil, in which case only the table is consulted.
func NewService(table *Table, geocoder Geocoder, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{
		table:    table,
		geocoder: geocoder,
		log:      log,
		cache:    make(map[string]string),
	}
}

// ResolveCode maps a city (or an airport code typed as such) to its IATA code.
func (s *Service) ResolveCode(ctx context.Context, city string) (string, error) {
	raw := strings.TrimSpace(city)
	if looksLikeCode(raw) {
		if a, ok := s.table.ByCode(raw); ok {
			return a.IATA, nil
		}
	}

	name := cleanCityName(raw)
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrNotFound)
	}
	if a, ok := s.table.Lookup(name); ok {
		return a.IATA, nil
	}

	key := cityKey(raw)
	s.mu.RLock()
	code, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return code, nil
	}

	if s.geocoder == nil {
		return "", fmt.Errorf("%w: %q", ErrNotFound, raw)
	}
	code, err := s.geocode(ctx, raw)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.cache[key] = code
	s.mu.Unlock()
	return code, nil
}

func (s *Service) geocode(ctx context.Context, query string) (string, error) {
	loc, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		if errors.Is(err, maps.ErrNoResults) {
			return "", fmt.Errorf("%w: %q", ErrNotFound, query)
		}
		s.log.Warn("geocoding failed", map[string]interface{}{"city": query, "error": err.Error()})
		return "", fmt.Errorf("geocode %q: %w", query, err)
	}

	if loc.Locality != "" {
		if a, ok := s.table.Lookup(loc.Locality); ok {
			return a.IATA, nil
		}
	}
	if a, km, ok := s.table.Nearest(loc.Lat, loc.Lng, nearestAirportMaxKm); ok {
		s.log.Debug("resolved city by nearest airport", map[string]interface{}{
			"city": query, "iata": a.IATA, "distance_km": km,
		})
		return a.IATA, nil
	}
	return "", fmt.Errorf("%w: %q", ErrNotFound, query)
}

// cleanCityName drops country suffixes and parentheticals the assistant tends to add,
// e.g. "Kyoto, Japan" or "Bali (Indonesia)".
func cleanCityName(s string) string {
	if i := strings.IndexAny(s, ",("); i >= 0 {
		s = s[:i]
	}
	return strings.Trim(strings.TrimSpace(s), ".")
}
