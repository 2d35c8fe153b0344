package search

// Airport is one end of a flight segment as reported by google_flights.
type Airport struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Time string `json:"time"`
}

// Segment is a single flown leg inside an itinerary.
type Segment struct {
	DepartureAirport Airport `json:"departure_airport"`
	ArrivalAirport   Airport `json:"arrival_airport"`
	Duration         int     `json:"duration"`
	Airplane         string  `json:"airplane,omitempty"`
	Airline          string  `json:"airline"`
	AirlineLogo      string  `json:"airline_logo"`
	TravelClass      string  `json:"travel_class,omitempty"`
	FlightNumber     string  `json:"flight_number"`
}

// Itinerary is one priced flight option. Price is the whole round trip on the outbound query.
type Itinerary struct {
	Flights        []Segment `json:"flights"`
	TotalDuration  int       `json:"total_duration"`
	Price          float64   `json:"price"`
	Type           string    `json:"type,omitempty"`
	AirlineLogo    string    `json:"airline_logo,omitempty"`
	DepartureToken string    `json:"departure_token,omitempty"`
}

type FlightsResponse struct {
	BestFlights  []Itinerary `json:"best_flights"`
	OtherFlights []Itinerary `json:"other_flights"`
	Error        string      `json:"error,omitempty"`
}

// First returns the top-ranked itinerary: best_flights before other_flights.
func (r *FlightsResponse) First() (Itinerary, bool) {
	if len(r.BestFlights) > 0 {
		return r.BestFlights[0], true
	}
	if len(r.OtherFlights) > 0 {
		return r.OtherFlights[0], true
	}
	return Itinerary{}, false
}

type Rate struct {
	Lowest          string  `json:"lowest"`
	ExtractedLowest float64 `json:"extracted_lowest"`
}

type Property struct {
	Type          string  `json:"type,omitempty"`
	Name          string  `json:"name"`
	Link          string  `json:"link,omitempty"`
	CheckInTime   string  `json:"check_in_time,omitempty"`
	CheckOutTime  string  `json:"check_out_time,omitempty"`
	RatePerNight  Rate    `json:"rate_per_night"`
	OverallRating float64 `json:"overall_rating,omitempty"`
}

type HotelsResponse struct {
	Properties []Property `json:"properties"`
	Error      string     `json:"error,omitempty"`
}
