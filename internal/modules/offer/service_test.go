package offer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripplanner/internal/config"
	"tripplanner/internal/logger"
	"tripplanner/internal/modules/location"
	"tripplanner/internal/search"
	"tripplanner/internal/types"
)

type fakeSearcher struct {
	flights    *search.FlightsResponse
	flightsErr error
	hotels     *search.HotelsResponse
	hotelsErr  error

	flightQueries []search.FlightQuery
	hotelQueries  []search.HotelQuery
}

func (f *fakeSearcher) Flights(ctx context.Context, q search.FlightQuery) (*search.FlightsResponse, error) {
	f.flightQueries = append(f.flightQueries, q)
	return f.flights, f.flightsErr
}

func (f *fakeSearcher) Hotels(ctx context.Context, q search.HotelQuery) (*search.HotelsResponse, error) {
	f.hotelQueries = append(f.hotelQueries, q)
	return f.hotels, f.hotelsErr
}

type fakeResolver map[string]string

func (r fakeResolver) ResolveCode(ctx context.Context, city string) (string, error) {
	if city == "broken" {
		return "", errors.New("geocoder down")
	}
	code, ok := r[city]
	if !ok {
		return "", location.ErrNotFound
	}
	return code, nil
}

var (
	start = time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	end   = time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC)
)

func newService(t *testing.T, s Searcher) *Service {
	return NewService(s, fakeResolver{"New York": "JFK", "Lisbon": "LIS"}, time.Second, logger.NewTestLogger(t))
}

func TestResolveCode(t *testing.T) {
	svc := newService(t, &fakeSearcher{})

	code, err := svc.ResolveCode(context.Background(), "Lisbon")
	require.NoError(t, err)
	assert.Equal(t, "LIS", code)

	_, err = svc.ResolveCode(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrUnknownLocation)

	_, err = svc.ResolveCode(context.Background(), "broken")
	assert.ErrorIs(t, err, ErrOfferUnavailable)
	assert.NotErrorIs(t, err, ErrUnknownLocation)
}

func TestOutboundFlight_PrefersBestFlights(t *testing.T) {
	fs := &fakeSearcher{flights: &search.FlightsResponse{
		BestFlights: []search.Itinerary{{
			Price: 410.5, DepartureToken: "tok", TotalDuration: 425,
			Flights: []search.Segment{{
				DepartureAirport: search.Airport{Name: "JFK Intl", ID: "JFK", Time: "2024-10-10 18:00"},
				ArrivalAirport:   search.Airport{Name: "Lisbon", ID: "LIS", Time: "2024-10-11 06:05"},
				Airline:          "TAP", FlightNumber: "TP 210", Duration: 425,
			}},
		}},
		OtherFlights: []search.Itinerary{{Price: 99, DepartureToken: "cheap"}},
	}}
	svc := newService(t, fs)

	got, err := svc.OutboundFlight(context.Background(), "JFK", "LIS", start, end)
	require.NoError(t, err)
	assert.Equal(t, types.Cents(41050), got.Price)
	assert.Equal(t, "tok", got.DepartureToken)
	require.Len(t, got.Legs, 1)
	assert.Equal(t, "LIS", got.Legs[0].ArrivalAirport.Code)
	assert.Equal(t, "TAP", got.Legs[0].Airline)

	require.Len(t, fs.flightQueries, 1)
	assert.Empty(t, fs.flightQueries[0].DepartureToken)
	assert.Equal(t, start, fs.flightQueries[0].OutboundDate)
	assert.Equal(t, end, fs.flightQueries[0].ReturnDate)
}

func TestOutboundFlight_FallsBackToOtherFlights(t *testing.T) {
	svc := newService(t, &fakeSearcher{flights: &search.FlightsResponse{
		OtherFlights: []search.Itinerary{{Price: 300, DepartureToken: "t2"}},
	}})
	got, err := svc.OutboundFlight(context.Background(), "JFK", "LIS", start, end)
	require.NoError(t, err)
	assert.Equal(t, types.USD(300), got.Price)
}

func TestOutboundFlight_Unavailable(t *testing.T) {
	tests := []struct {
		name string
		fs   *fakeSearcher
	}{
		{"call error", &fakeSearcher{flightsErr: search.ErrUpstream}},
		{"no offers", &fakeSearcher{flights: &search.FlightsResponse{}}},
		{"no token", &fakeSearcher{flights: &search.FlightsResponse{BestFlights: []search.Itinerary{{Price: 10}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newService(t, tt.fs).OutboundFlight(context.Background(), "JFK", "LIS", start, end)
			assert.ErrorIs(t, err, ErrOfferUnavailable)
		})
	}
}

func TestInboundFlight(t *testing.T) {
	fs := &fakeSearcher{flights: &search.FlightsResponse{OtherFlights: []search.Itinerary{{Price: 390}}}}
	svc := newService(t, fs)

	got, err := svc.InboundFlight(context.Background(), "JFK", "LIS", start, end, "tok")
	require.NoError(t, err)
	assert.Equal(t, types.USD(390), got.Price)
	assert.Equal(t, "tok", fs.flightQueries[0].DepartureToken)

	_, err = svc.InboundFlight(context.Background(), "JFK", "LIS", start, end, "")
	assert.ErrorIs(t, err, ErrOfferUnavailable)
}

func hotels(rates ...float64) *search.HotelsResponse {
	resp := &search.HotelsResponse{}
	names := []string{"A", "B", "C", "D", "E"}
	for i, r := range rates {
		resp.Properties = append(resp.Properties, search.Property{
			Name:         names[i],
			RatePerNight: search.Rate{ExtractedLowest: r},
		})
	}
	return resp
}

func TestHotel_MostExpensiveAffordable(t *testing.T) {
	fs := &fakeSearcher{hotels: hotels(50, 80, 150, 90)}
	svc := newService(t, fs)

	// ceiling 450 over 5 nights -> 90/night fits exactly, scanned first from the end.
	got, err := svc.Hotel(context.Background(), "Lisbon", start, end, 5, types.USD(450))
	require.NoError(t, err)
	assert.Equal(t, "D", got.Name)
	assert.Equal(t, types.USD(90), got.NightlyRate)

	require.Len(t, fs.hotelQueries, 1)
	assert.Equal(t, "Lisbon", fs.hotelQueries[0].Query)
	assert.Equal(t, 90, fs.hotelQueries[0].MaxPrice)
}

func TestHotel_SkipsUnaffordableFromTheEnd(t *testing.T) {
	svc := newService(t, &fakeSearcher{hotels: hotels(50, 80, 150, 120)})

	got, err := svc.Hotel(context.Background(), "Lisbon", start, end, 5, types.USD(600))
	require.NoError(t, err)
	assert.Equal(t, "D", got.Name)

	got, err = svc.Hotel(context.Background(), "Lisbon", start, end, 5, types.USD(420))
	require.NoError(t, err)
	assert.Equal(t, "B", got.Name)
}

func TestHotel_SkipsUnpricedProperties(t *testing.T) {
	svc := newService(t, &fakeSearcher{hotels: hotels(60, 0)})
	got, err := svc.Hotel(context.Background(), "Lisbon", start, end, 5, types.USD(1000))
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)
}

func TestHotel_NoneAffordable(t *testing.T) {
	svc := newService(t, &fakeSearcher{hotels: hotels(200, 300)})
	_, err := svc.Hotel(context.Background(), "Lisbon", start, end, 5, types.USD(500))
	assert.ErrorIs(t, err, ErrNoAffordableOffer)
}

func TestHotel_Unavailable(t *testing.T) {
	_, err := newService(t, &fakeSearcher{hotelsErr: search.ErrDecode}).
		Hotel(context.Background(), "Lisbon", start, end, 5, types.USD(500))
	assert.ErrorIs(t, err, ErrOfferUnavailable)

}

func TestHotel_EmptyResultIsNotAffordable(t *testing.T) {
	_, err := newService(t, &fakeSearcher{hotels: &search.HotelsResponse{}}).
		Hotel(context.Background(), "Lisbon", start, end, 5, types.USD(500))
	assert.ErrorIs(t, err, ErrNoAffordableOffer)
	assert.NotErrorIs(t, err, ErrOfferUnavailable)
}

func TestHotel_PriceHintRoundsUp(t *testing.T) {
	fs := &fakeSearcher{hotels: hotels(120.30)}
	got, err := newService(t, fs).Hotel(context.Background(), "Lisbon", start, end, 5, types.USD(601.99))
	require.NoError(t, err)
	assert.Equal(t, types.USD(120.30), got.NightlyRate)
	assert.Equal(t, 121, fs.hotelQueries[0].MaxPrice)
}

func TestHotel_ZeroNightsNoPriceHint(t *testing.T) {
	fs := &fakeSearcher{hotels: hotels(80)}
	_, err := newService(t, fs).Hotel(context.Background(), "Lisbon", start, start, 0, types.USD(10))
	require.NoError(t, err)
	assert.Zero(t, fs.hotelQueries[0].MaxPrice)
}

func TestOutboundFlight_TimeoutAgainstSerpAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client := search.NewClient(config.SerpAPIConfig{APIKey: "k", BaseURL: srv.URL})
	svc := NewService(client, fakeResolver{}, 20*time.Millisecond, logger.NewTestLogger(t))

	_, err := svc.OutboundFlight(context.Background(), "JFK", "LIS", start, end)
	assert.ErrorIs(t, err, ErrOfferUnavailable)
}
