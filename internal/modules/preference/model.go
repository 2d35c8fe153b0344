// README: Trip preferences as collected from the user, validated and with derived fields.
package preference

import (
	"time"

	"tripplanner/internal/types"
)

const DateLayout = "2006-01-02"

// RawPreferences is the unvalidated input of a planning request.
type RawPreferences struct {
	StartDate string
	EndDate   string
	Budget    float64
	TripType  string
	Origin    string
}

// TripPreferences is read-only once Parse returns it.
type TripPreferences struct {
	StartDate time.Time   `json:"start_date"`
	EndDate   time.Time   `json:"end_date"`
	Budget    types.Money `json:"budget"`
	TripType  string      `json:"trip_type"`
	Origin    string      `json:"origin"`
}

const secondsPerDay = 24 * 60 * 60

// Duration is the number of whole days between start and end; 0 when they are equal.
func (p TripPreferences) Duration() int {
	d := p.EndDate.Unix() - p.StartDate.Unix()
	if d < 0 {
		d = -d
	}
	return int(d / secondsPerDay)
}

// Month is the English month name of the start date.
func (p TripPreferences) Month() string {
	return p.StartDate.Month().String()
}
