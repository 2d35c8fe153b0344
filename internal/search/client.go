// README: SerpAPI client for the google_flights and google_hotels engines.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tripplanner/internal/config"
	"tripplanner/internal/metrics"
)

const (
	defaultBaseURL = "https://serpapi.com/search.json"
	dateLayout     = "2006-01-02"

	engineFlights = "google_flights"
	engineHotels  = "google_hotels"

	flightTypeRoundTrip = "1"
)

var (
	// ErrUpstream covers transport failures, non-200 answers and error bodies.
	ErrUpstream = errors.New("search: upstream failure")
	// ErrDecode is returned when the body is not the expected JSON document.
	ErrDecode = errors.New("search: undecodable response")
)

type Client struct {
	apiKey     string
	baseURL    string
	currency   string
	httpClient *http.Client
}

func NewClient(cfg config.SerpAPIConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "USD"
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		currency:   currency,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// FlightQuery describes a round-trip google_flights lookup. A DepartureToken switches the
// query to the return leg of the outbound option it was issued for.
type FlightQuery struct {
	DepartureID    string
	ArrivalID      string
	OutboundDate   time.Time
	ReturnDate     time.Time
	DepartureToken string
}

func (c *Client) Flights(ctx context.Context, q FlightQuery) (out *FlightsResponse, err error) {
	capability := "serpapi_flights_outbound"
	if q.DepartureToken != "" {
		capability = "serpapi_flights_inbound"
	}
	defer metrics.ObserveCall(capability, time.Now(), &err)

	params := url.Values{}
	params.Set("engine", engineFlights)
	params.Set("departure_id", q.DepartureID)
	params.Set("arrival_id", q.ArrivalID)
	params.Set("outbound_date", q.OutboundDate.Format(dateLayout))
	params.Set("return_date", q.ReturnDate.Format(dateLayout))
	params.Set("type", flightTypeRoundTrip)
	params.Set("currency", c.currency)
	params.Set("hl", "en")
	if q.DepartureToken != "" {
		params.Set("departure_token", q.DepartureToken)
	}

	var resp FlightsResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, resp.Error)
	}
	return &resp, nil
}

// HotelQuery is a google_hotels lookup. MaxPrice is a per-night hint; 0 leaves it unset.
type HotelQuery struct {
	Query    string
	CheckIn  time.Time
	CheckOut time.Time
	MaxPrice int
}

func (c *Client) Hotels(ctx context.Context, q HotelQuery) (out *HotelsResponse, err error) {
	defer metrics.ObserveCall("serpapi_hotels", time.Now(), &err)

	params := url.Values{}
	params.Set("engine", engineHotels)
	params.Set("q", q.Query)
	params.Set("check_in_date", q.CheckIn.Format(dateLayout))
	params.Set("check_out_date", q.CheckOut.Format(dateLayout))
	params.Set("currency", c.currency)
	params.Set("hl", "en")
	if q.MaxPrice > 0 {
		params.Set("max_price", strconv.Itoa(q.MaxPrice))
	}

	var resp HotelsResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, resp.Error)
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// the request URL carries api_key; keep only the transport cause
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("%w: %s: %v", ErrUpstream, params.Get("engine"), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned status %d", ErrUpstream, params.Get("engine"), resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}
