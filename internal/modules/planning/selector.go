// README: Trip option selector; prices each destination and keeps the ones within budget.
package planning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"tripplanner/internal/logger"
	"tripplanner/internal/metrics"
	"tripplanner/internal/modules/offer"
	"tripplanner/internal/modules/preference"
	"tripplanner/internal/types"
)

var (
	ErrBudgetExceeded     = errors.New("budget exceeded")
	ErrNoAffordableOption = errors.New("no affordable option")
)

// OfferLookup is the subset of offer.Service the selector needs.
type OfferLookup interface {
	ResolveCode(ctx context.Context, city string) (string, error)
	OutboundFlight(ctx context.Context, originCode, destCode string, start, end time.Time) (offer.FlightOffer, error)
	InboundFlight(ctx context.Context, originCode, destCode string, start, end time.Time, departureToken string) (offer.FlightOffer, error)
	Hotel(ctx context.Context, destination string, start, end time.Time, duration int, ceiling types.Money) (offer.HotelOffer, error)
}

// Result keeps options and skipped destinations in input order.
type Result struct {
	Options []TravelOption
	Skipped []SkippedDestination
}

type Selector struct {
	offers      OfferLookup
	maxParallel int
	log         logger.Logger
}

// NewSelector builds a selector. maxParallel <= 1 prices destinations one after another.
func NewSelector(offers OfferLookup, maxParallel int, log logger.Logger) *Selector {
	if maxParallel < 1 {
		maxParallel = 1
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Selector{offers: offers, maxParallel: maxParallel, log: log}
}

// slot is the per-destination outcome; exactly one of option or skipped is set.
type slot struct {
	option  *TravelOption
	skipped *SkippedDestination
}

// Select prices every destination and returns those within budget.
// It fails with offer.ErrUnknownLocation when the origin has no code and with
// ErrNoAffordableOption when nothing fits.
func (s *Selector) Select(ctx context.Context, prefs preference.TripPreferences, destinations []string) (Result, error) {
	originCode, err := s.offers.ResolveCode(ctx, prefs.Origin)
	if err != nil {
		s.log.Warn("origin could not be resolved", map[string]interface{}{"origin": prefs.Origin, "error": err.Error()})
		return Result{}, err
	}

	slots := make([]slot, len(destinations))
	if s.maxParallel == 1 {
		for i, dest := range destinations {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
			slots[i] = s.evaluate(ctx, prefs, originCode, dest)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.maxParallel)
		for i, dest := range destinations {
			g.Go(func() error {
				slots[i] = s.evaluate(gctx, prefs, originCode, dest)
				return nil
			})
		}
		_ = g.Wait()
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
	}

	var res Result
	for _, sl := range slots {
		switch {
		case sl.option != nil:
			res.Options = append(res.Options, *sl.option)
		case sl.skipped != nil:
			res.Skipped = append(res.Skipped, *sl.skipped)
		}
	}
	if len(res.Options) == 0 {
		return res, fmt.Errorf("%w: none of %d destinations fit %s", ErrNoAffordableOption, len(destinations), prefs.Budget)
	}
	return res, nil
}

func (s *Selector) evaluate(ctx context.Context, prefs preference.TripPreferences, originCode, dest string) slot {
	opt, err := s.priceDestination(ctx, prefs, originCode, dest)
	if err != nil {
		reason := skipReason(err)
		metrics.DestinationsSkipped.WithLabelValues(reason).Inc()
		s.log.Info("destination skipped", map[string]interface{}{
			"destination": dest, "reason": reason, "error": err.Error(),
		})
		return slot{skipped: &SkippedDestination{Destination: dest, Reason: reason}}
	}
	return slot{option: &opt}
}

func (s *Selector) priceDestination(ctx context.Context, prefs preference.TripPreferences, originCode, dest string) (TravelOption, error) {
	destCode, err := s.offers.ResolveCode(ctx, dest)
	if err != nil {
		return TravelOption{}, err
	}

	outbound, err := s.offers.OutboundFlight(ctx, originCode, destCode, prefs.StartDate, prefs.EndDate)
	if err != nil {
		return TravelOption{}, err
	}
	inbound, err := s.offers.InboundFlight(ctx, originCode, destCode, prefs.StartDate, prefs.EndDate, outbound.DepartureToken)
	if err != nil {
		return TravelOption{}, err
	}

	flightCost := outbound.Price.Add(inbound.Price)
	if flightCost.Amount >= prefs.Budget.Amount {
		return TravelOption{}, fmt.Errorf("%w: flights to %s cost %s of %s", ErrBudgetExceeded, dest, flightCost, prefs.Budget)
	}

	duration := prefs.Duration()
	hotel, err := s.offers.Hotel(ctx, dest, prefs.StartDate, prefs.EndDate, duration, prefs.Budget.Sub(flightCost))
	if err != nil {
		return TravelOption{}, err
	}

	return TravelOption{
		Destination:    dest,
		OutboundFlight: outbound,
		InboundFlight:  inbound,
		Hotel:          hotel,
		TotalCost:      flightCost.Add(hotel.NightlyRate.Mul(duration)),
	}, nil
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, ErrBudgetExceeded):
		return ReasonBudgetExceeded
	case errors.Is(err, offer.ErrNoAffordableOffer):
		return ReasonNoAffordableOffer
	case errors.Is(err, offer.ErrUnknownLocation):
		return ReasonUnknownLocation
	default:
		return ReasonOfferUnavailable
	}
}
