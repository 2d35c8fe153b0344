// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripplanner/internal/modules/delivery"
	"tripplanner/internal/modules/itinerary"
	"tripplanner/internal/modules/offer"
	"tripplanner/internal/modules/planning"
	"tripplanner/internal/modules/preference"
	"tripplanner/internal/modules/session"
	"tripplanner/internal/modules/suggestion"
	"tripplanner/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writePlanError maps planner errors to a status. The message of client errors is passed through;
// anything unexpected becomes a bare 500.
func writePlanError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, preference.ErrValidation),
		errors.Is(err, offer.ErrUnknownLocation),
		errors.Is(err, itinerary.ErrSelectionOutOfRange),
		errors.Is(err, delivery.ErrInvalidEmail):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, planning.ErrNoAffordableOption),
		errors.Is(err, itinerary.ErrItineraryUnavailable),
		errors.Is(err, itinerary.ErrIllustrationUnavailable):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNothingToDeliver):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, suggestion.ErrSuggestionUnavailable),
		errors.Is(err, offer.ErrOfferUnavailable),
		errors.Is(err, delivery.ErrSendFailed):
		writeError(c, http.StatusBadGateway, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
