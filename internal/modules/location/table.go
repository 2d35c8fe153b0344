// README: In-memory airport table decoded from the embedded CSV.
package location

import (
	"bytes"
	"encoding/csv"
	_ "embed"
	"fmt"
	"io"

	"github.com/jszwec/csvutil"
)

//go:embed data/airports.csv
var airportsCSV []byte

// Table indexes airports by normalised city name and by IATA code.
// It is immutable after construction and safe for concurrent reads.
type Table struct {
	byCity map[string]Airport
	byCode map[string]Airport
	all    []Airport
}

// LoadTable decodes airport rows from r. The first line must be the csv header.
func LoadTable(r io.Reader) (*Table, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV decoder for airports: %w", err)
	}

	var rows []Airport
	if err := dec.Decode(&rows); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode airports CSV data: %w", err)
	}

	t := &Table{
		byCity: make(map[string]Airport, len(rows)),
		byCode: make(map[string]Airport, len(rows)),
		all:    make([]Airport, 0, len(rows)),
	}
	for _, a := range rows {
		a.IATA = NormalizeAirportCode(a.IATA)
		if a.City == "" || a.IATA == "" {
			continue
		}
		// First row wins for both indexes.
		if _, dup := t.byCity[cityKey(a.City)]; !dup {
			t.byCity[cityKey(a.City)] = a
		}
		if _, dup := t.byCode[a.IATA]; !dup {
			t.byCode[a.IATA] = a
		}
		t.all = append(t.all, a)
	}
	return t, nil
}

// DefaultTable loads the airport table shipped with the binary.
func DefaultTable() (*Table, error) {
	return LoadTable(bytes.NewReader(airportsCSV))
}

func (t *Table) Lookup(city string) (Airport, bool) {
	a, ok := t.byCity[cityKey(city)]
	return a, ok
}

func (t *Table) ByCode(code string) (Airport, bool) {
	a, ok := t.byCode[NormalizeAirportCode(code)]
	return a, ok
}

func (t *Table) Len() int { return len(t.all) }

type airportDistance struct {
	airport Airport
	km      float64
}

// Nearest returns the closest airport within maxKm of the point.
func (t *Table) Nearest(lat, lng, maxKm float64) (Airport, float64, bool) {
	var candidates []airportDistance
	for _, a := range t.all {
		if d := haversineKm(lat, lng, a.Lat, a.Lng); d <= maxKm {
			candidates = append(candidates, airportDistance{airport: a, km: d})
		}
	}
	if len(candidates) == 0 {
		return Airport{}, 0, false
	}
	sortByDistance(candidates, func(c airportDistance) float64 { return c.km })
	return candidates[0].airport, candidates[0].km, true
}
