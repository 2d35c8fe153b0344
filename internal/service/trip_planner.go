// README: Trip planner orchestration: preferences -> suggestions -> priced options -> itinerary -> delivery.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tripplanner/internal/logger"
	"tripplanner/internal/metrics"
	"tripplanner/internal/modules/delivery"
	"tripplanner/internal/modules/itinerary"
	"tripplanner/internal/modules/planning"
	"tripplanner/internal/modules/preference"
	"tripplanner/internal/modules/session"
)

// ErrNothingToDeliver means the session has no generated itinerary yet.
var ErrNothingToDeliver = errors.New("nothing to deliver")

const (
	planOutcomeSuccess      = "success"
	planOutcomeInvalid      = "invalid"
	planOutcomeNoAffordable = "no_affordable_option"
	planOutcomeError        = "error"
)

type Suggester interface {
	Suggest(ctx context.Context, prefs preference.TripPreferences) ([]string, error)
}

type OptionSelector interface {
	Select(ctx context.Context, prefs preference.TripPreferences, destinations []string) (planning.Result, error)
}

type PlanGenerator interface {
	Generate(ctx context.Context, prefs preference.TripPreferences, options []planning.TravelOption, index int) (itinerary.Plan, error)
}

type Deliverer interface {
	Deliver(ctx context.Context, to string, p delivery.Plan) error
}

type TripPlannerDeps struct {
	Suggestions   Suggester
	Selector      OptionSelector
	Generator     PlanGenerator
	Delivery      Deliverer
	Sessions      session.Store
	DefaultOrigin string
	Logger        logger.Logger
}

// TripPlanner orchestrates one planning conversation per session.
type TripPlanner struct {
	suggestions   Suggester
	selector      OptionSelector
	generator     PlanGenerator
	delivery      Deliverer
	sessions      session.Store
	defaultOrigin string
	log           logger.Logger
	tracer        trace.Tracer
}

func NewTripPlanner(deps TripPlannerDeps) *TripPlanner {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &TripPlanner{
		suggestions:   deps.Suggestions,
		selector:      deps.Selector,
		generator:     deps.Generator,
		delivery:      deps.Delivery,
		sessions:      deps.Sessions,
		defaultOrigin: deps.DefaultOrigin,
		log:           log,
		tracer:        otel.Tracer("tripplanner/service"),
	}
}

// PlanTrip validates preferences, asks for destinations and keeps the affordable ones in a new session.
// No session is stored when nothing fits the budget.
func (p *TripPlanner) PlanTrip(ctx context.Context, raw preference.RawPreferences) (sess *session.Session, err error) {
	ctx, span := p.tracer.Start(ctx, "TripPlanner.PlanTrip")
	defer func() { endSpan(span, err) }()

	prefs, err := preference.Parse(raw, p.defaultOrigin)
	if err != nil {
		metrics.Plans.WithLabelValues(planOutcomeInvalid).Inc()
		return nil, err
	}
	span.SetAttributes(
		attribute.String("trip.type", prefs.TripType),
		attribute.String("trip.origin", prefs.Origin),
		attribute.Int("trip.duration_days", prefs.Duration()),
	)

	destinations, err := p.suggestions.Suggest(ctx, prefs)
	if err != nil {
		metrics.Plans.WithLabelValues(planOutcomeError).Inc()
		return nil, err
	}

	res, err := p.selector.Select(ctx, prefs, destinations)
	if err != nil {
		outcome := planOutcomeError
		if errors.Is(err, planning.ErrNoAffordableOption) {
			outcome = planOutcomeNoAffordable
		}
		metrics.Plans.WithLabelValues(outcome).Inc()
		p.log.Info("planning finished without options", map[string]interface{}{
			"trip_type": prefs.TripType, "destinations": len(destinations), "skipped": len(res.Skipped), "error": err.Error(),
		})
		return nil, err
	}

	sess = session.New(prefs, destinations, res)
	if err := p.sessions.Create(ctx, sess); err != nil {
		metrics.Plans.WithLabelValues(planOutcomeError).Inc()
		return nil, fmt.Errorf("store session: %w", err)
	}
	metrics.Plans.WithLabelValues(planOutcomeSuccess).Inc()
	span.SetAttributes(attribute.String("session.id", sess.ID), attribute.Int("trip.options", len(res.Options)))

	p.log.Info("trip planned", map[string]interface{}{
		"session_id": sess.ID, "options": len(res.Options), "skipped": len(res.Skipped),
	})
	return sess, nil
}

// SelectOption generates the itinerary and images for one option of the session and records the choice.
func (p *TripPlanner) SelectOption(ctx context.Context, sessionID string, index int) (plan itinerary.Plan, err error) {
	ctx, span := p.tracer.Start(ctx, "TripPlanner.SelectOption",
		trace.WithAttributes(attribute.String("session.id", sessionID), attribute.Int("selection.index", index)))
	defer func() { endSpan(span, err) }()

	sess, err := p.sessions.Get(ctx, sessionID)
	if err != nil {
		return itinerary.Plan{}, err
	}

	plan, err = p.generator.Generate(ctx, sess.Preferences, sess.Options, index)
	if err != nil {
		return itinerary.Plan{}, err
	}

	sess.Select(index, plan.Itinerary, plan.Images)
	if err := p.sessions.Save(ctx, sess); err != nil {
		return itinerary.Plan{}, fmt.Errorf("store selection: %w", err)
	}
	return plan, nil
}

// Deliver emails the generated plan of the session to the given address.
func (p *TripPlanner) Deliver(ctx context.Context, sessionID, email string) (err error) {
	ctx, span := p.tracer.Start(ctx, "TripPlanner.Deliver", trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer func() { endSpan(span, err) }()

	sess, err := p.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	opt, ok := sess.SelectedOption()
	if !ok || !sess.HasPlan() {
		return fmt.Errorf("%w: session %s has no itinerary", ErrNothingToDeliver, sessionID)
	}

	return p.delivery.Deliver(ctx, email, delivery.Plan{
		Destination: opt.Destination,
		TripType:    sess.Preferences.TripType,
		StartDate:   sess.Preferences.StartDate,
		EndDate:     sess.Preferences.EndDate,
		TotalCost:   opt.TotalCost,
		HotelName:   opt.Hotel.Name,
		Itinerary:   sess.Itinerary,
		Images:      sess.Images,
	})
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
