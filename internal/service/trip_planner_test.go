package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripplanner/internal/logger"
	"tripplanner/internal/modules/delivery"
	"tripplanner/internal/modules/itinerary"
	"tripplanner/internal/modules/planning"
	"tripplanner/internal/modules/preference"
	"tripplanner/internal/modules/session"
	"tripplanner/internal/modules/suggestion"
	"tripplanner/internal/types"
)

type stubSuggester struct {
	destinations []string
	err          error
}

func (s stubSuggester) Suggest(ctx context.Context, prefs preference.TripPreferences) ([]string, error) {
	return s.destinations, s.err
}

type stubSelector struct {
	res planning.Result
	err error
	got []string
}

func (s *stubSelector) Select(ctx context.Context, prefs preference.TripPreferences, destinations []string) (planning.Result, error) {
	s.got = destinations
	return s.res, s.err
}

type stubGenerator struct {
	calls int
}

func (g *stubGenerator) Generate(ctx context.Context, prefs preference.TripPreferences, options []planning.TravelOption, index int) (itinerary.Plan, error) {
	g.calls++
	if index < 0 || index >= len(options) {
		return itinerary.Plan{}, itinerary.ErrSelectionOutOfRange
	}
	return itinerary.Plan{
		Itinerary: "Day 1 in " + options[index].Destination,
		Images:    []string{"1", "2", "3", "4"},
	}, nil
}

type stubDeliverer struct {
	to   string
	plan delivery.Plan
	err  error
}

func (d *stubDeliverer) Deliver(ctx context.Context, to string, p delivery.Plan) error {
	d.to, d.plan = to, p
	return d.err
}

var validRaw = preference.RawPreferences{StartDate: "2024-10-10", EndDate: "2024-10-15", Budget: 1000, TripType: "city"}

type countingStore struct {
	*session.MemoryStore
	created int
}

func (c *countingStore) Create(ctx context.Context, s *session.Session) error {
	c.created++
	return c.MemoryStore.Create(ctx, s)
}

type fixture struct {
	planner   *TripPlanner
	selector  *stubSelector
	generator *stubGenerator
	deliverer *stubDeliverer
	sessions  *countingStore
}

func newFixture(t *testing.T, sugg Suggester) *fixture {
	f := &fixture{
		selector: &stubSelector{res: planning.Result{
			Options: []planning.TravelOption{{Destination: "CityB", TotalCost: types.USD(800)}},
			Skipped: []planning.SkippedDestination{{Destination: "CityA", Reason: planning.ReasonBudgetExceeded}},
		}},
		generator: &stubGenerator{},
		deliverer: &stubDeliverer{},
		sessions:  &countingStore{MemoryStore: session.NewMemoryStore(time.Hour)},
	}
	f.planner = NewTripPlanner(TripPlannerDeps{
		Suggestions:   sugg,
		Selector:      f.selector,
		Generator:     f.generator,
		Delivery:      f.deliverer,
		Sessions:      f.sessions,
		DefaultOrigin: "New York",
		Logger:        logger.NewTestLogger(t),
	})
	return f
}

func TestPlanTrip(t *testing.T) {
	f := newFixture(t, stubSuggester{destinations: []string{"CityA", "CityB"}})

	sess, err := f.planner.PlanTrip(context.Background(), validRaw)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "New York", sess.Preferences.Origin)
	assert.Equal(t, []string{"CityA", "CityB"}, f.selector.got)
	require.Len(t, sess.Options, 1)
	assert.Len(t, sess.Skipped, 1)

	stored, err := f.sessions.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, stored.ID)
	assert.Equal(t, 1, f.sessions.created)
}

func TestPlanTrip_Failures(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		f := newFixture(t, stubSuggester{destinations: []string{"X"}})
		raw := validRaw
		raw.EndDate = "2024-10-01"
		_, err := f.planner.PlanTrip(context.Background(), raw)
		assert.ErrorIs(t, err, preference.ErrValidation)
	})

	t.Run("suggestions unavailable", func(t *testing.T) {
		f := newFixture(t, stubSuggester{err: suggestion.ErrSuggestionUnavailable})
		_, err := f.planner.PlanTrip(context.Background(), validRaw)
		assert.ErrorIs(t, err, suggestion.ErrSuggestionUnavailable)
	})

	t.Run("nothing affordable keeps no session", func(t *testing.T) {
		f := newFixture(t, stubSuggester{destinations: []string{"CityA"}})
		f.selector.res = planning.Result{Skipped: []planning.SkippedDestination{{Destination: "CityA", Reason: planning.ReasonBudgetExceeded}}}
		f.selector.err = planning.ErrNoAffordableOption

		sess, err := f.planner.PlanTrip(context.Background(), validRaw)
		assert.ErrorIs(t, err, planning.ErrNoAffordableOption)
		assert.Nil(t, sess)
		assert.Zero(t, f.sessions.created)
	})
}

func TestSelectOption(t *testing.T) {
	f := newFixture(t, stubSuggester{destinations: []string{"CityB"}})
	sess, err := f.planner.PlanTrip(context.Background(), validRaw)
	require.NoError(t, err)

	plan, err := f.planner.SelectOption(context.Background(), sess.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "Day 1 in CityB", plan.Itinerary)
	assert.Len(t, plan.Images, 4)

	stored, err := f.sessions.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasPlan())
	assert.Equal(t, plan.Images, stored.Images)
}

func TestSelectOption_Errors(t *testing.T) {
	f := newFixture(t, stubSuggester{destinations: []string{"CityB"}})
	sess, err := f.planner.PlanTrip(context.Background(), validRaw)
	require.NoError(t, err)

	_, err = f.planner.SelectOption(context.Background(), sess.ID, 1)
	assert.ErrorIs(t, err, itinerary.ErrSelectionOutOfRange)

	stored, err := f.sessions.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.False(t, stored.HasPlan())

	_, err = f.planner.SelectOption(context.Background(), "no-such-session", 0)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestDeliver(t *testing.T) {
	f := newFixture(t, stubSuggester{destinations: []string{"CityB"}})
	sess, err := f.planner.PlanTrip(context.Background(), validRaw)
	require.NoError(t, err)

	err = f.planner.Deliver(context.Background(), sess.ID, "traveler@example.com")
	assert.ErrorIs(t, err, ErrNothingToDeliver)

	_, err = f.planner.SelectOption(context.Background(), sess.ID, 0)
	require.NoError(t, err)

	require.NoError(t, f.planner.Deliver(context.Background(), sess.ID, "traveler@example.com"))
	assert.Equal(t, "traveler@example.com", f.deliverer.to)
	assert.Equal(t, "CityB", f.deliverer.plan.Destination)
	assert.Equal(t, types.USD(800), f.deliverer.plan.TotalCost)
	assert.Equal(t, "Day 1 in CityB", f.deliverer.plan.Itinerary)
	assert.Equal(t, "city", f.deliverer.plan.TripType)
}

func TestDeliver_Errors(t *testing.T) {
	f := newFixture(t, stubSuggester{destinations: []string{"CityB"}})

	err := f.planner.Deliver(context.Background(), "missing", "traveler@example.com")
	assert.ErrorIs(t, err, session.ErrNotFound)

	sess, err := f.planner.PlanTrip(context.Background(), validRaw)
	require.NoError(t, err)
	_, err = f.planner.SelectOption(context.Background(), sess.ID, 0)
	require.NoError(t, err)

	f.deliverer.err = delivery.ErrSendFailed
	err = f.planner.Deliver(context.Background(), sess.ID, "traveler@example.com")
	assert.True(t, errors.Is(err, delivery.ErrSendFailed))
}
