package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// HotelListing is one entry of the by-city hotel list.
type HotelListing struct {
	HotelID string `json:"hotelId"`
	Name    string `json:"name"`
	GeoCode struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"geoCode"`
	Address json.RawMessage `json:"address,omitempty"`
}

// HotelOffer is one hotel's offer block from the offer search.
type HotelOffer struct {
	Hotel struct {
		HotelID  string          `json:"hotelId"`
		Name     string          `json:"name"`
		CityCode string          `json:"cityCode,omitempty"`
		Address  json.RawMessage `json:"address,omitempty"`
	} `json:"hotel"`
	Available bool            `json:"available"`
	Offers    json.RawMessage `json:"offers,omitempty"`
}

// HotelOffersParams drives one offer-search call for a set of hotel
// ids. Callers chunk large id lists themselves.
type HotelOffersParams struct {
	HotelIDs     []string
	CheckInDate  string
	CheckOutDate string
	Adults       int
	RoomQuantity int
	PriceRange   string
	Ratings      []string
	Currency     string
	BoardType    string
}

// ListHotelsByCity returns the hotel directory for an IATA city code.
func (c *Client) ListHotelsByCity(ctx context.Context, cityCode string) ([]HotelListing, error) {
	q := url.Values{}
	q.Set("cityCode", cityCode)

	body, err := c.get(ctx, "/v1/reference-data/locations/hotels/by-city?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []HotelListing `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse hotel list: %w", err)
	}
	return resp.Data, nil
}

// SearchHotelOffers fetches offers for the given hotel ids.
func (c *Client) SearchHotelOffers(ctx context.Context, p HotelOffersParams) ([]HotelOffer, error) {
	q := url.Values{}
	q.Set("hotelIds", strings.Join(p.HotelIDs, ","))
	q.Set("checkInDate", p.CheckInDate)
	q.Set("checkOutDate", p.CheckOutDate)
	q.Set("adults", fmt.Sprint(p.Adults))
	if p.RoomQuantity > 0 {
		q.Set("roomQuantity", fmt.Sprint(p.RoomQuantity))
	}
	if p.PriceRange != "" {
		q.Set("priceRange", p.PriceRange)
	}
	if len(p.Ratings) > 0 {
		q.Set("ratings", strings.Join(p.Ratings, ","))
	}
	if p.Currency != "" {
		q.Set("currency", p.Currency)
	}
	if p.BoardType != "" {
		q.Set("boardType", p.BoardType)
	}

	body, err := c.get(ctx, "/v3/shopping/hotel-offers?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []HotelOffer `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse hotel offers: %w", err)
	}
	return resp.Data, nil
}
