// README: Offer lookup adapter over SerpAPI flights/hotels and the airport code resolver.
package offer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tripplanner/internal/logger"
	"tripplanner/internal/modules/location"
	"tripplanner/internal/search"
	"tripplanner/internal/types"
)

var (
	ErrUnknownLocation   = errors.New("unknown location")
	ErrOfferUnavailable  = errors.New("offer unavailable")
	ErrNoAffordableOffer = errors.New("no affordable offer")
)

// Searcher is the priced-offer capability.
type Searcher interface {
	Flights(ctx context.Context, q search.FlightQuery) (*search.FlightsResponse, error)
	Hotels(ctx context.Context, q search.HotelQuery) (*search.HotelsResponse, error)
}

type CodeResolver interface {
	ResolveCode(ctx context.Context, city string) (string, error)
}

type Service struct {
	searcher  Searcher
	locations CodeResolver
	timeout   time.Duration
	log       logger.Logger
}

func NewService(searcher Searcher, locations CodeResolver, timeout time.Duration, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{searcher: searcher, locations: locations, timeout: timeout, log: log}
}

func (s *Service) ResolveCode(ctx context.Context, city string) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	code, err := s.locations.ResolveCode(ctx, city)
	if err != nil {
		if errors.Is(err, location.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrUnknownLocation, city)
		}
		return "", fmt.Errorf("%w: resolve %s: %v", ErrOfferUnavailable, city, err)
	}
	return code, nil
}

// OutboundFlight returns the top-ranked round-trip option; its DepartureToken opens the return leg.
func (s *Service) OutboundFlight(ctx context.Context, originCode, destCode string, start, end time.Time) (FlightOffer, error) {
	it, err := s.firstFlight(ctx, search.FlightQuery{
		DepartureID:  originCode,
		ArrivalID:    destCode,
		OutboundDate: start,
		ReturnDate:   end,
	})
	if err != nil {
		return FlightOffer{}, err
	}
	if it.DepartureToken == "" {
		return FlightOffer{}, fmt.Errorf("%w: outbound %s->%s has no departure token", ErrOfferUnavailable, originCode, destCode)
	}
	return toFlightOffer(it), nil
}

func (s *Service) InboundFlight(ctx context.Context, originCode, destCode string, start, end time.Time, departureToken string) (FlightOffer, error) {
	if departureToken == "" {
		return FlightOffer{}, fmt.Errorf("%w: inbound lookup needs a departure token", ErrOfferUnavailable)
	}
	it, err := s.firstFlight(ctx, search.FlightQuery{
		DepartureID:    originCode,
		ArrivalID:      destCode,
		OutboundDate:   start,
		ReturnDate:     end,
		DepartureToken: departureToken,
	})
	if err != nil {
		return FlightOffer{}, err
	}
	return toFlightOffer(it), nil
}

func (s *Service) firstFlight(ctx context.Context, q search.FlightQuery) (search.Itinerary, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.searcher.Flights(ctx, q)
	if err != nil {
		return search.Itinerary{}, fmt.Errorf("%w: flights %s->%s: %v", ErrOfferUnavailable, q.DepartureID, q.ArrivalID, err)
	}
	it, ok := resp.First()
	if !ok {
		return search.Itinerary{}, fmt.Errorf("%w: no flights %s->%s", ErrOfferUnavailable, q.DepartureID, q.ArrivalID)
	}
	return it, nil
}

// Hotel returns the most expensive property whose stay fits under ceiling.
// Properties come back roughly cheapest-first, so they are scanned from the end.
func (s *Service) Hotel(ctx context.Context, destination string, start, end time.Time, duration int, ceiling types.Money) (HotelOffer, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	q := search.HotelQuery{Query: destination, CheckIn: start, CheckOut: end}
	if duration > 0 {
		q.MaxPrice = maxPriceHint(ceiling, duration)
	}

	resp, err := s.searcher.Hotels(ctx, q)
	if err != nil {
		return HotelOffer{}, fmt.Errorf("%w: hotels in %s: %v", ErrOfferUnavailable, destination, err)
	}
	if len(resp.Properties) == 0 {
		return HotelOffer{}, fmt.Errorf("%w: no hotels in %s", ErrNoAffordableOffer, destination)
	}

	for i := len(resp.Properties) - 1; i >= 0; i-- {
		p := resp.Properties[i]
		if p.RatePerNight.ExtractedLowest <= 0 {
			continue
		}
		nightly := types.USD(p.RatePerNight.ExtractedLowest)
		if nightly.Mul(duration).LessOrEqual(ceiling) {
			return HotelOffer{
				Name:         p.Name,
				CheckInTime:  p.CheckInTime,
				CheckOutTime: p.CheckOutTime,
				Link:         p.Link,
				NightlyRate:  nightly,
				Rating:       p.OverallRating,
			}, nil
		}
	}
	return HotelOffer{}, fmt.Errorf("%w: %s for %d nights under %s", ErrNoAffordableOffer, destination, duration, ceiling)
}

// maxPriceHint is the nightly ceiling in whole dollars, rounded up so no rate under the ceiling is filtered out.
func maxPriceHint(ceiling types.Money, nights int) int {
	perNight := ceiling.Amount / int64(nights)
	return int((perNight + 99) / 100)
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func toFlightOffer(it search.Itinerary) FlightOffer {
	legs := make([]FlightLeg, 0, len(it.Flights))
	for _, f := range it.Flights {
		legs = append(legs, FlightLeg{
			DepartureAirport: Airport{Name: f.DepartureAirport.Name, Code: f.DepartureAirport.ID, Time: f.DepartureAirport.Time},
			ArrivalAirport:   Airport{Name: f.ArrivalAirport.Name, Code: f.ArrivalAirport.ID, Time: f.ArrivalAirport.Time},
			Airline:          f.Airline,
			AirlineLogo:      f.AirlineLogo,
			FlightNumber:     f.FlightNumber,
			Duration:         f.Duration,
		})
	}
	return FlightOffer{
		Price:          types.USD(it.Price),
		Legs:           legs,
		TotalDuration:  it.TotalDuration,
		AirlineLogo:    it.AirlineLogo,
		DepartureToken: it.DepartureToken,
	}
}
