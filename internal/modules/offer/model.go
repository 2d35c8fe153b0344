// README: Priced flight and hotel offers returned by the lookup adapter.
package offer

import "tripplanner/internal/types"

type Airport struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Time string `json:"time"`
}

type FlightLeg struct {
	DepartureAirport Airport `json:"departure_airport"`
	ArrivalAirport   Airport `json:"arrival_airport"`
	Airline          string  `json:"airline"`
	AirlineLogo      string  `json:"airline_logo,omitempty"`
	FlightNumber     string  `json:"flight_number,omitempty"`
	Duration         int     `json:"duration"`
}

// FlightOffer is one priced itinerary for a single direction of the trip.
type FlightOffer struct {
	Price          types.Money `json:"price"`
	Legs           []FlightLeg `json:"flights"`
	TotalDuration  int         `json:"total_duration"`
	AirlineLogo    string      `json:"airline_logo,omitempty"`
	DepartureToken string      `json:"-"`
}

type HotelOffer struct {
	Name         string      `json:"name"`
	CheckInTime  string      `json:"check_in_time,omitempty"`
	CheckOutTime string      `json:"check_out_time,omitempty"`
	Link         string      `json:"link,omitempty"`
	NightlyRate  types.Money `json:"rate_per_night"`
	Rating       float64     `json:"rating,omitempty"`
}
