package flights

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"oneclick/amadeus"
	"oneclick/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	client *amadeus.Client
}

func NewHandler(client *amadeus.Client) *Handler {
	return &Handler{client: client}
}

// respondUpstreamError propagates the upstream status code when the
// failure came from Amadeus, otherwise reports a generic 500.
func respondUpstreamError(w http.ResponseWriter, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	var apiErr *amadeus.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.StatusCode
		if len(apiErr.Errors) > 0 && apiErr.Errors[0].Detail != "" {
			message = apiErr.Errors[0].Detail
		}
	}
	utils.RespondWithJSON(w, status, utils.M{"status": "ERROR", "error": message})
}

// GET /api/flights/search
func (h *Handler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()

	origin := q.Get("originLocationCode")
	destination := q.Get("destinationLocationCode")
	departureDate := q.Get("departureDate")
	if origin == "" || destination == "" || departureDate == "" {
		utils.RespondWithError(w, http.StatusBadRequest,
			"Missing required parameters: originLocationCode, destinationLocationCode, and departureDate are required.")
		return
	}

	adults, _ := strconv.Atoi(q.Get("adults"))
	if adults == 0 {
		adults = 1
	}
	max, _ := strconv.Atoi(q.Get("max"))
	if max == 0 {
		max = 20
	}
	currency := q.Get("currencyCode")
	if currency == "" {
		currency = "USD"
	}
	travelClass := q.Get("travelClass")
	if travelClass == "" {
		travelClass = "ECONOMY"
	}

	offers, err := h.client.SearchFlightOffers(r.Context(), amadeus.FlightSearchParams{
		Origin:        origin,
		Destination:   destination,
		DepartureDate: departureDate,
		ReturnDate:    q.Get("returnDate"),
		Adults:        adults,
		TravelClass:   travelClass,
		NonStop:       q.Get("nonStop") == "true",
		CurrencyCode:  currency,
		Max:           max,
	})
	if err != nil {
		log.Printf("Error searching flights: %v", err)
		respondUpstreamError(w, err, "An error occurred while searching for flights")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"status":  "OK",
		"results": offers,
		"meta": utils.M{
			"count":    len(offers),
			"currency": currency,
		},
	})
}

// GET /api/flights/locations/search
func (h *Handler) SearchLocations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Keyword parameter is required")
		return
	}
	subType := r.URL.Query().Get("subType")
	if subType == "" {
		subType = "AIRPORT,CITY"
	}

	locations, err := h.client.SearchLocations(r.Context(), keyword, subType)
	if err != nil {
		log.Printf("Error searching locations: %v", err)
		respondUpstreamError(w, err, "An error occurred while searching for locations")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"status":  "OK",
		"results": locations,
	})
}
