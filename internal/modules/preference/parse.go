package preference

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"tripplanner/internal/types"
)

var ErrValidation = errors.New("validation error")

// maxBudget is the largest dollar amount that still fits in int64 cents.
const maxBudget = float64(math.MaxInt64 / 100)

// Parse validates raw input. An empty origin falls back to defaultOrigin.
func Parse(raw RawPreferences, defaultOrigin string) (TripPreferences, error) {
	start, err := parseDate("start_date", raw.StartDate)
	if err != nil {
		return TripPreferences{}, err
	}
	end, err := parseDate("end_date", raw.EndDate)
	if err != nil {
		return TripPreferences{}, err
	}
	if end.Before(start) {
		return TripPreferences{}, fmt.Errorf("%w: end_date %s is before start_date %s",
			ErrValidation, raw.EndDate, raw.StartDate)
	}

	if math.IsNaN(raw.Budget) || math.IsInf(raw.Budget, 0) {
		return TripPreferences{}, fmt.Errorf("%w: budget must be a finite number", ErrValidation)
	}
	if raw.Budget < 0 {
		return TripPreferences{}, fmt.Errorf("%w: budget must not be negative", ErrValidation)
	}
	if raw.Budget > maxBudget {
		return TripPreferences{}, fmt.Errorf("%w: budget is too large", ErrValidation)
	}

	tripType := strings.ToLower(strings.TrimSpace(raw.TripType))
	if tripType == "" {
		return TripPreferences{}, fmt.Errorf("%w: trip_type is required", ErrValidation)
	}

	origin := strings.TrimSpace(raw.Origin)
	if origin == "" {
		origin = strings.TrimSpace(defaultOrigin)
	}
	if origin == "" {
		return TripPreferences{}, fmt.Errorf("%w: origin is required", ErrValidation)
	}

	return TripPreferences{
		StartDate: start,
		EndDate:   end,
		Budget:    types.USD(raw.Budget),
		TripType:  tripType,
		Origin:    origin,
	}, nil
}

func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD, got %q", ErrValidation, field, value)
	}
	return t, nil
}
