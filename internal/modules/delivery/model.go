// README: Email delivery of a generated trip plan.
package delivery

import (
	"time"

	"tripplanner/internal/types"
)

// Plan is everything the email summarises.
type Plan struct {
	Destination string
	TripType    string
	StartDate   time.Time
	EndDate     time.Time
	TotalCost   types.Money
	HotelName   string
	Itinerary   string
	Images      []string
}

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}
