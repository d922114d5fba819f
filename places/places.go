package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"oneclick/utils"

	"github.com/julienschmidt/httprouter"
)

const (
	geocodeURL    = "https://maps.googleapis.com/maps/api/geocode/json"
	placesURL     = "https://places.googleapis.com/v1"
	searchMask    = "places.id,places.displayName,places.formattedAddress,places.rating,places.priceLevel,places.location,places.types,places.photos"
	detailsMask   = "id,displayName,formattedAddress,rating,websiteUri,nationalPhoneNumber,priceLevel,regularOpeningHours,reviews,photos,editorialSummary"
	maxResults    = 20
	searchTimeout = 15 * time.Second
)

// Place is the trimmed shape the frontend consumes, for both search
// results and detail lookups.
type Place struct {
	PlaceID          string          `json:"place_id"`
	Name             string          `json:"name"`
	FormattedAddress string          `json:"formatted_address"`
	Rating           float64         `json:"rating,omitempty"`
	PriceLevel       *int            `json:"price_level,omitempty"`
	Geometry         *Geometry       `json:"geometry,omitempty"`
	Phone            string          `json:"formatted_phone_number,omitempty"`
	Website          string          `json:"website,omitempty"`
	OpeningHours     *OpeningHours   `json:"opening_hours,omitempty"`
	Reviews          json.RawMessage `json:"reviews,omitempty"`
	Photos           json.RawMessage `json:"photos,omitempty"`
	Description      string          `json:"description,omitempty"`
}

type Geometry struct {
	Location LatLng `json:"location"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type OpeningHours struct {
	OpenNow     bool     `json:"open_now"`
	WeekdayText []string `json:"weekday_text"`
}

type googlePlace struct {
	ID          string `json:"id"`
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress string  `json:"formattedAddress"`
	Rating           float64 `json:"rating"`
	PriceLevel       string  `json:"priceLevel"`
	Location         *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	WebsiteURI          string `json:"websiteUri"`
	NationalPhoneNumber string `json:"nationalPhoneNumber"`
	RegularOpeningHours *struct {
		OpenNow             bool     `json:"openNow"`
		WeekdayDescriptions []string `json:"weekdayDescriptions"`
	} `json:"regularOpeningHours"`
	Reviews          json.RawMessage `json:"reviews"`
	Photos           json.RawMessage `json:"photos"`
	EditorialSummary *struct {
		Text string `json:"text"`
	} `json:"editorialSummary"`
}

type viewport struct {
	Northeast struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"northeast"`
	Southwest struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"southwest"`
}

type upstreamError struct {
	StatusCode int
	Body       string
}

func (e *upstreamError) Error() string {
	return fmt.Sprintf("places upstream status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	apiKey     string
	geocodeURL string
	placesURL  string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		apiKey:     os.Getenv("GOOGLE_API_KEY"),
		geocodeURL: geocodeURL,
		placesURL:  placesURL,
		httpClient: &http.Client{Timeout: searchTimeout},
	}
}

// NewClientForBase points both Google endpoints at baseURL.
func NewClientForBase(baseURL, apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		geocodeURL: baseURL + "/maps/api/geocode/json",
		placesURL:  baseURL + "/v1",
		httpClient: &http.Client{Timeout: searchTimeout},
	}
}

// geocodeViewport resolves a free-text location to its bounding box so
// text search can be biased to it. Returns nil when the location does
// not resolve.
func (c *Client) geocodeViewport(ctx context.Context, location string) (*viewport, error) {
	u := c.geocodeURL + "?address=" + url.QueryEscape(location) + "&key=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Status  string `json:"status"`
		Results []struct {
			Geometry struct {
				Viewport viewport `json:"viewport"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Status != "OK" || len(payload.Results) == 0 {
		return nil, nil
	}
	return &payload.Results[0].Geometry.Viewport, nil
}

func (c *Client) searchText(ctx context.Context, query string, vp *viewport) ([]googlePlace, error) {
	body := map[string]interface{}{
		"textQuery":      query,
		"languageCode":   "en",
		"maxResultCount": maxResults,
		"locationBias": map[string]interface{}{
			"rectangle": map[string]interface{}{
				"low":  map[string]float64{"latitude": vp.Southwest.Lat, "longitude": vp.Southwest.Lng},
				"high": map[string]float64{"latitude": vp.Northeast.Lat, "longitude": vp.Northeast.Lng},
			},
		},
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.placesURL+"/places:searchText", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", searchMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &upstreamError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var payload struct {
		Places []googlePlace `json:"places"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return payload.Places, nil
}

func (c *Client) details(ctx context.Context, placeID string) (*googlePlace, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.placesURL+"/places/"+url.PathEscape(placeID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", detailsMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &upstreamError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var place googlePlace
	if err := json.Unmarshal(data, &place); err != nil {
		return nil, err
	}
	return &place, nil
}

func priceLevelNumber(level string) *int {
	if level == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(level, "PRICE_LEVEL_"))
	if err != nil {
		return nil
	}
	return &n
}

func transformSearchResult(gp googlePlace) Place {
	place := Place{
		PlaceID:          gp.ID,
		Name:             gp.DisplayName.Text,
		FormattedAddress: gp.FormattedAddress,
		Rating:           gp.Rating,
		PriceLevel:       priceLevelNumber(gp.PriceLevel),
		Photos:           gp.Photos,
	}
	if place.Name == "" {
		place.Name = "Unknown Name"
	}
	if place.FormattedAddress == "" {
		place.FormattedAddress = "Address not available"
	}
	if gp.Location != nil {
		place.Geometry = &Geometry{Location: LatLng{Lat: gp.Location.Latitude, Lng: gp.Location.Longitude}}
	}
	return place
}

func transformDetails(gp *googlePlace) Place {
	place := transformSearchResult(*gp)
	place.Geometry = nil
	place.Phone = gp.NationalPhoneNumber
	place.Website = gp.WebsiteURI
	place.Reviews = gp.Reviews
	if gp.RegularOpeningHours != nil {
		place.OpeningHours = &OpeningHours{
			OpenNow:     gp.RegularOpeningHours.OpenNow,
			WeekdayText: gp.RegularOpeningHours.WeekdayDescriptions,
		}
	}
	if gp.EditorialSummary != nil {
		place.Description = gp.EditorialSummary.Text
	}
	return place
}

// buildSearchQuery mentions the location explicitly so text search
// stays anchored even when the bias rectangle is loose.
func buildSearchQuery(keyword, placeType, location string) string {
	switch placeType {
	case "attraction":
		if keyword != "" {
			return keyword + " attractions in " + location
		}
		return "attractions in " + location
	case "restaurant":
		if keyword != "" {
			return keyword + " restaurants in " + location
		}
		return "restaurants in " + location
	}
	return keyword
}

// filterByLocation keeps only places whose address mentions the
// searched location, since locationBias is a hint rather than a fence.
func filterByLocation(results []Place, location string) []Place {
	needle := strings.ToLower(location)
	filtered := make([]Place, 0, len(results))
	for _, place := range results {
		if strings.Contains(strings.ToLower(place.FormattedAddress), needle) {
			filtered = append(filtered, place)
		}
	}
	return filtered
}

type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

func respondUpstream(w http.ResponseWriter, err error) {
	if up, ok := err.(*upstreamError); ok {
		utils.RespondWithJSON(w, up.StatusCode, utils.M{"status": "ERROR", "error": up.Body})
		return
	}
	utils.RespondWithJSON(w, http.StatusInternalServerError, utils.M{"status": "ERROR", "error": err.Error()})
}

// GET /api/places
func (h *Handler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()

	location := q.Get("location")
	if location == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Location is required")
		return
	}
	placeType := q.Get("type")
	if placeType == "" {
		placeType = "attraction"
	}

	vp, err := h.client.geocodeViewport(r.Context(), location)
	if err != nil {
		log.Printf("Error geocoding %q: %v", location, err)
		respondUpstream(w, err)
		return
	}
	if vp == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Location not found")
		return
	}

	query := buildSearchQuery(q.Get("keyword"), placeType, location)
	log.Printf("Searching for %q in location %q", query, location)

	raw, err := h.client.searchText(r.Context(), query, vp)
	if err != nil {
		log.Printf("Error fetching places: %v", err)
		respondUpstream(w, err)
		return
	}

	results := make([]Place, 0, len(raw))
	for _, gp := range raw {
		results = append(results, transformSearchResult(gp))
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"status":  "OK",
		"results": filterByLocation(results, location),
		"query":   query,
	})
}

// GET /api/places/:id
func (h *Handler) Details(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	placeID := ps.ByName("id")
	log.Printf("Getting details for place ID: %s", placeID)

	gp, err := h.client.details(r.Context(), placeID)
	if err != nil {
		log.Printf("Error fetching place details: %v", err)
		respondUpstream(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"status": "OK",
		"result": transformDetails(gp),
	})
}
