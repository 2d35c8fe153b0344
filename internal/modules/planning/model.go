// README: Travel options and skipped destinations produced by the selector.
package planning

import (
	"tripplanner/internal/modules/offer"
	"tripplanner/internal/types"
)

// TravelOption is one affordable destination. TotalCost is exactly
// outbound + inbound + nightly rate x nights and never exceeds the budget.
type TravelOption struct {
	Destination    string            `json:"destination"`
	OutboundFlight offer.FlightOffer `json:"outbound_flight"`
	InboundFlight  offer.FlightOffer `json:"inbound_flight"`
	Hotel          offer.HotelOffer  `json:"hotel"`
	TotalCost      types.Money       `json:"total_cost"`
}

const (
	ReasonBudgetExceeded    = "budget_exceeded"
	ReasonNoAffordableOffer = "no_affordable_offer"
	ReasonUnknownLocation   = "unknown_location"
	ReasonOfferUnavailable  = "offer_unavailable"
)

// SkippedDestination records why a suggested destination produced no option.
type SkippedDestination struct {
	Destination string `json:"destination"`
	Reason      string `json:"reason"`
}
