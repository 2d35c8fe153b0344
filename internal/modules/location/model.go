// README: Airport rows of the embedded city -> IATA table.
package location

import "strings"

// Airport is one row of data/airports.csv.
type Airport struct {
	City    string  `csv:"city"`
	Country string  `csv:"country"`
	IATA    string  `csv:"iata"`
	Lat     float64 `csv:"lat"`
	Lng     float64 `csv:"lng"`
}

// NormalizeAirportCode converts 4-letter US ICAO codes (e.g. "KJFK") to IATA ("JFK") and upper-cases the rest.
func NormalizeAirportCode(code string) string {
	upper := strings.ToUpper(strings.TrimSpace(code))
	if len(upper) == 4 && strings.HasPrefix(upper, "K") {
		return upper[1:]
	}
	return upper
}

// looksLikeCode reports whether s was typed as an airport code rather than a city name.
func looksLikeCode(s string) bool {
	if len(s) != 3 && len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func cityKey(city string) string {
	return strings.ToLower(strings.Join(strings.Fields(city), " "))
}
