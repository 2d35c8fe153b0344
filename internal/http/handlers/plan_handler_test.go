package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripplanner/internal/http/handlers"
	"tripplanner/internal/modules/delivery"
	"tripplanner/internal/modules/itinerary"
	"tripplanner/internal/modules/offer"
	"tripplanner/internal/modules/planning"
	"tripplanner/internal/modules/preference"
	"tripplanner/internal/modules/session"
	"tripplanner/internal/modules/suggestion"
	"tripplanner/internal/service"
	"tripplanner/internal/types"
)

type stubPlanner struct {
	raw      preference.RawPreferences
	planErr  error
	selectID string
	index    int
	planOut  itinerary.Plan
	selErr   error
	email    string
	delErr   error
}

func (s *stubPlanner) PlanTrip(ctx context.Context, raw preference.RawPreferences) (*session.Session, error) {
	s.raw = raw
	if s.planErr != nil {
		return nil, s.planErr
	}
	return &session.Session{
		ID:      "sess-1",
		Options: []planning.TravelOption{{Destination: "CityB", TotalCost: types.USD(800)}},
	}, nil
}

func (s *stubPlanner) SelectOption(ctx context.Context, sessionID string, index int) (itinerary.Plan, error) {
	s.selectID, s.index = sessionID, index
	return s.planOut, s.selErr
}

func (s *stubPlanner) Deliver(ctx context.Context, sessionID, email string) error {
	s.selectID, s.email = sessionID, email
	return s.delErr
}

func buildTestRouter(p handlers.Planner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewPlanHandler(p)
	r.POST("/api/travel_options", h.TravelOptions)
	r.POST("/api/travel_plans", h.TravelPlans)
	r.POST("/api/deliveries", h.Deliveries)
	return r
}

func doRequest(r *gin.Engine, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTravelOptions(t *testing.T) {
	p := &stubPlanner{}
	r := buildTestRouter(p)

	w := doRequest(r, "/api/travel_options", `{"start_date":"2024-10-10","end_date":"2024-10-15","budget":"1000","trip_type":"city"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "sess-1", w.Header().Get(handlers.SessionIDHeader))
	assert.Equal(t, 1000.0, p.raw.Budget)
	assert.Equal(t, "city", p.raw.TripType)

	var resp struct {
		SessionID string            `json:"session_id"`
		Options   []json.RawMessage `json:"options"`
		Skipped   []json.RawMessage `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "sess-1", resp.SessionID)
	assert.Len(t, resp.Options, 1)
	assert.NotNil(t, resp.Skipped)
}

func TestTravelOptions_NumericBudget(t *testing.T) {
	p := &stubPlanner{}
	w := doRequest(buildTestRouter(p), "/api/travel_options", map[string]any{
		"start_date": "2024-10-10", "end_date": "2024-10-15", "budget": 1250.5, "trip_type": "beach", "origin": "Boston",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1250.5, p.raw.Budget)
	assert.Equal(t, "Boston", p.raw.Origin)
}

func TestTravelOptions_BudgetRequired(t *testing.T) {
	for name, body := range map[string]string{
		"missing": `{"start_date":"2024-10-10","end_date":"2024-10-15","trip_type":"city"}`,
		"null":    `{"start_date":"2024-10-10","end_date":"2024-10-15","budget":null,"trip_type":"city"}`,
		"blank":   `{"start_date":"2024-10-10","end_date":"2024-10-15","budget":"  ","trip_type":"city"}`,
	} {
		t.Run(name, func(t *testing.T) {
			p := &stubPlanner{}
			w := doRequest(buildTestRouter(p), "/api/travel_options", body, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, p.raw.TripType, "planner must not be called")
		})
	}

	p := &stubPlanner{}
	w := doRequest(buildTestRouter(p), "/api/travel_options", `{"start_date":"2024-10-10","end_date":"2024-10-15","budget":0,"trip_type":"city"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, p.raw.Budget)
}

func TestTravelOptions_Errors(t *testing.T) {
	valid := `{"start_date":"2024-10-10","end_date":"2024-10-15","budget":1000,"trip_type":"city"}`
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"malformed json", `{"budget":`, nil, http.StatusBadRequest},
		{"budget not numeric", `{"budget":"lots"}`, nil, http.StatusBadRequest},
		{"validation", valid, fmt.Errorf("%w: end_date before start_date", preference.ErrValidation), http.StatusBadRequest},
		{"unknown origin", valid, fmt.Errorf("%w: Atlantis", offer.ErrUnknownLocation), http.StatusBadRequest},
		{"nothing affordable", valid, planning.ErrNoAffordableOption, http.StatusNotFound},
		{"suggestions down", valid, suggestion.ErrSuggestionUnavailable, http.StatusBadGateway},
		{"unexpected", valid, fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(buildTestRouter(&stubPlanner{planErr: tt.err}), "/api/travel_options", tt.body, nil)
			assert.Equal(t, tt.want, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestTravelPlans(t *testing.T) {
	p := &stubPlanner{planOut: itinerary.Plan{Itinerary: "Day 1", Images: []string{"a", "b", "c", "d"}}}
	r := buildTestRouter(p)

	w := doRequest(r, "/api/travel_plans", map[string]any{"session_id": "sess-1", "trip_selection_idx": 0}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sess-1", p.selectID)
	assert.Equal(t, 0, p.index)
	assert.JSONEq(t, `{"itinerary":"Day 1","images":["a","b","c","d"]}`, w.Body.String())

	w = doRequest(r, "/api/travel_plans", map[string]any{"trip_selection_idx": 2}, map[string]string{handlers.SessionIDHeader: "sess-2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sess-2", p.selectID)
	assert.Equal(t, 2, p.index)
}

func TestTravelPlans_Errors(t *testing.T) {
	tests := []struct {
		name string
		body any
		err  error
		want int
	}{
		{"missing index", map[string]any{"session_id": "s"}, nil, http.StatusBadRequest},
		{"missing session", map[string]any{"trip_selection_idx": 0}, nil, http.StatusBadRequest},
		{"out of range", map[string]any{"session_id": "s", "trip_selection_idx": 9}, itinerary.ErrSelectionOutOfRange, http.StatusBadRequest},
		{"session gone", map[string]any{"session_id": "s", "trip_selection_idx": 0}, session.ErrNotFound, http.StatusNotFound},
		{"itinerary failed", map[string]any{"session_id": "s", "trip_selection_idx": 0}, itinerary.ErrItineraryUnavailable, http.StatusNotFound},
		{"images failed", map[string]any{"session_id": "s", "trip_selection_idx": 0}, itinerary.ErrIllustrationUnavailable, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(buildTestRouter(&stubPlanner{selErr: tt.err}), "/api/travel_plans", tt.body, nil)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestDeliveries(t *testing.T) {
	p := &stubPlanner{}
	w := doRequest(buildTestRouter(p), "/api/deliveries", map[string]any{"session_id": "sess-1", "email": "traveler@example.com"}, nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"status":"queued"}`, w.Body.String())
	assert.Equal(t, "traveler@example.com", p.email)

	tests := []struct {
		name string
		body any
		err  error
		want int
	}{
		{"bad email", map[string]any{"session_id": "s", "email": "nope"}, nil, http.StatusBadRequest},
		{"no session id", map[string]any{"email": "a@b.co"}, nil, http.StatusBadRequest},
		{"session gone", map[string]any{"session_id": "s", "email": "a@b.co"}, session.ErrNotFound, http.StatusNotFound},
		{"nothing yet", map[string]any{"session_id": "s", "email": "a@b.co"}, service.ErrNothingToDeliver, http.StatusConflict},
		{"ses down", map[string]any{"session_id": "s", "email": "a@b.co"}, delivery.ErrSendFailed, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(buildTestRouter(&stubPlanner{delErr: tt.err}), "/api/deliveries", tt.body, nil)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
