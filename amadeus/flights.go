package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// FlightSearchParams mirrors the Flight Offers Search query surface the
// frontend exposes.
type FlightSearchParams struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Adults        int
	TravelClass   string
	NonStop       bool
	CurrencyCode  string
	Max           int
}

type FlightSegment struct {
	Departure struct {
		IataCode string `json:"iataCode"`
		Terminal string `json:"terminal,omitempty"`
		At       string `json:"at"`
	} `json:"departure"`
	Arrival struct {
		IataCode string `json:"iataCode"`
		Terminal string `json:"terminal,omitempty"`
		At       string `json:"at"`
	} `json:"arrival"`
	CarrierCode   string          `json:"carrierCode"`
	Number        string          `json:"number"`
	Aircraft      json.RawMessage `json:"aircraft,omitempty"`
	Duration      string          `json:"duration"`
	NumberOfStops int             `json:"numberOfStops"`
}

type FlightItinerary struct {
	Duration string          `json:"duration"`
	Segments []FlightSegment `json:"segments"`
}

type FlightOffer struct {
	ID    string `json:"id"`
	Price struct {
		Total    string `json:"total"`
		Currency string `json:"currency"`
	} `json:"price"`
	Itineraries           []FlightItinerary `json:"itineraries"`
	NumberOfBookableSeats int               `json:"numberOfBookableSeats"`
	TravelerPricings      json.RawMessage   `json:"travelerPricings,omitempty"`
}

// SearchFlightOffers calls the Flight Offers Search API.
func (c *Client) SearchFlightOffers(ctx context.Context, p FlightSearchParams) ([]FlightOffer, error) {
	q := url.Values{}
	q.Set("originLocationCode", p.Origin)
	q.Set("destinationLocationCode", p.Destination)
	q.Set("departureDate", p.DepartureDate)
	q.Set("adults", fmt.Sprint(p.Adults))
	q.Set("currencyCode", p.CurrencyCode)
	q.Set("max", fmt.Sprint(p.Max))
	if p.ReturnDate != "" {
		q.Set("returnDate", p.ReturnDate)
	}
	if p.TravelClass != "" {
		q.Set("travelClass", p.TravelClass)
	}
	if p.NonStop {
		q.Set("nonStop", "true")
	}

	body, err := c.get(ctx, "/v2/shopping/flight-offers?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []FlightOffer `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse flight offers: %w", err)
	}
	return resp.Data, nil
}

// SearchLocations looks up airports and cities by keyword.
func (c *Client) SearchLocations(ctx context.Context, keyword, subType string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("keyword", keyword)
	q.Set("subType", subType)

	body, err := c.get(ctx, "/v1/reference-data/locations?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse locations: %w", err)
	}
	return resp.Data, nil
}
