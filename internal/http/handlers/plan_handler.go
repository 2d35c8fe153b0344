// README: Trip planning handlers: travel options, travel plans and deliveries.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tripplanner/internal/modules/itinerary"
	"tripplanner/internal/modules/planning"
	"tripplanner/internal/modules/preference"
	"tripplanner/internal/modules/session"
)

const SessionIDHeader = "X-Session-ID"

// Planner is the orchestrator surface the handlers need.
type Planner interface {
	PlanTrip(ctx context.Context, raw preference.RawPreferences) (*session.Session, error)
	SelectOption(ctx context.Context, sessionID string, index int) (itinerary.Plan, error)
	Deliver(ctx context.Context, sessionID, email string) error
}

type PlanHandler struct {
	planner Planner
}

func NewPlanHandler(planner Planner) *PlanHandler {
	return &PlanHandler{planner: planner}
}

// flexNumber accepts a JSON number or a numeric string; the web form posts the budget as text.
// A blank string is rejected like any other non-number.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return errors.New("empty number")
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", s)
		}
		*n = flexNumber(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = flexNumber(v)
	return nil
}

type travelOptionsReq struct {
	StartDate string      `json:"start_date"`
	EndDate   string      `json:"end_date"`
	Budget    *flexNumber `json:"budget"`
	TripType  string      `json:"trip_type"`
	Origin    string      `json:"origin"`
}

type travelOptionsResp struct {
	SessionID string                        `json:"session_id"`
	Options   []planning.TravelOption       `json:"options"`
	Skipped   []planning.SkippedDestination `json:"skipped"`
}

// TravelOptions handles POST /api/travel_options.
func (h *PlanHandler) TravelOptions(c *gin.Context) {
	var req travelOptionsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Budget == nil {
		writeError(c, http.StatusBadRequest, "budget is required")
		return
	}

	sess, err := h.planner.PlanTrip(c.Request.Context(), preference.RawPreferences{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Budget:    float64(*req.Budget),
		TripType:  req.TripType,
		Origin:    req.Origin,
	})
	if err != nil {
		writePlanError(c, err)
		return
	}

	resp := travelOptionsResp{SessionID: sess.ID, Options: sess.Options, Skipped: sess.Skipped}
	if resp.Skipped == nil {
		resp.Skipped = []planning.SkippedDestination{}
	}
	c.Header(SessionIDHeader, sess.ID)
	writeJSON(c, http.StatusOK, resp)
}

type travelPlansReq struct {
	SessionID string `json:"session_id"`
	Index     *int   `json:"trip_selection_idx" binding:"required"`
}

// TravelPlans handles POST /api/travel_plans.
func (h *PlanHandler) TravelPlans(c *gin.Context) {
	var req travelPlansReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json or missing trip_selection_idx")
		return
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = strings.TrimSpace(c.GetHeader(SessionIDHeader))
	}
	if sessionID == "" {
		writeError(c, http.StatusBadRequest, "missing session_id")
		return
	}

	plan, err := h.planner.SelectOption(c.Request.Context(), sessionID, *req.Index)
	if err != nil {
		writePlanError(c, err)
		return
	}
	c.Header(SessionIDHeader, sessionID)
	writeJSON(c, http.StatusOK, plan)
}

type deliveryReq struct {
	SessionID string `json:"session_id" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
}

// Deliveries handles POST /api/deliveries.
func (h *PlanHandler) Deliveries(c *gin.Context) {
	var req deliveryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "missing session_id or invalid email")
		return
	}

	if err := h.planner.Deliver(c.Request.Context(), req.SessionID, req.Email); err != nil {
		writePlanError(c, err)
		return
	}
	writeJSON(c, http.StatusAccepted, gin.H{"status": "queued"})
}
