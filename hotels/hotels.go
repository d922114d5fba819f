package hotels

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"oneclick/amadeus"
	"oneclick/utils"

	"github.com/julienschmidt/httprouter"
)

// Offer-search chunks stay small so one bad property id poisons as few
// siblings as possible.
const batchSize = 10

// Amadeus hotel error codes observed in offer searches.
var fatalErrorCodes = map[int]bool{
	1351: true, // VERIFY CHAIN/REP CODE
	1257: true, // INVALID PROPERTY CODE
	4070: true, // UNABLE TO PROCESS
}

var ignorableErrorCodes = map[int]bool{
	3664:  true, // NO ROOMS AVAILABLE
	3289:  true, // RATE NOT AVAILABLE
	2827:  true, // HOTEL PROPERTY LOCKED
	10604: true, // INVALID OR MISSING DATA
}

// failedHotels tallies hotel ids a chunk could not return offers for,
// by failure class. None of these abort the overall search.
type failedHotels struct {
	Fatal     []string `json:"fatal"`
	Temporary []string `json:"temporary"`
	Ignorable []string `json:"ignorable"`
}

// enrichedHotel is the offer's hotel block plus location data from the
// directory listing, which the offer search does not return.
type enrichedHotel struct {
	HotelID   string          `json:"hotelId"`
	Name      string          `json:"name"`
	CityCode  string          `json:"cityCode,omitempty"`
	Address   json.RawMessage `json:"address,omitempty"`
	Latitude  *float64        `json:"latitude"`
	Longitude *float64        `json:"longitude"`
}

type hotelResult struct {
	Hotel     enrichedHotel   `json:"hotel"`
	Available bool            `json:"available"`
	Offers    json.RawMessage `json:"offers,omitempty"`
}

// mergeListingData copies geo and address data from the directory
// listings onto each offer.
func mergeListingData(offers []amadeus.HotelOffer, listings []amadeus.HotelListing) []hotelResult {
	byID := make(map[string]amadeus.HotelListing, len(listings))
	for _, listing := range listings {
		byID[listing.HotelID] = listing
	}

	results := make([]hotelResult, 0, len(offers))
	for _, offer := range offers {
		result := hotelResult{
			Hotel: enrichedHotel{
				HotelID:  offer.Hotel.HotelID,
				Name:     offer.Hotel.Name,
				CityCode: offer.Hotel.CityCode,
				Address:  offer.Hotel.Address,
			},
			Available: offer.Available,
			Offers:    offer.Offers,
		}
		if listing, ok := byID[offer.Hotel.HotelID]; ok {
			lat, lng := listing.GeoCode.Latitude, listing.GeoCode.Longitude
			result.Hotel.Latitude = &lat
			result.Hotel.Longitude = &lng
			if len(listing.Address) > 0 {
				result.Hotel.Address = listing.Address
			}
		}
		results = append(results, result)
	}
	return results
}

// categorizeErrors splits the hotel ids named by an error list into
// fatal, ignorable and unmapped sets, deduplicated.
func categorizeErrors(details []amadeus.ErrorDetail) (fatal, ignorable, unmapped []string) {
	seenFatal := map[string]bool{}
	seenIgnorable := map[string]bool{}
	seenUnmapped := map[string]bool{}

	for _, detail := range details {
		ids := hotelIDsFromParameter(detail.Source.Parameter)
		for _, id := range ids {
			switch {
			case fatalErrorCodes[detail.Code]:
				if !seenFatal[id] {
					seenFatal[id] = true
					fatal = append(fatal, id)
				}
			case ignorableErrorCodes[detail.Code]:
				if !seenIgnorable[id] {
					seenIgnorable[id] = true
					ignorable = append(ignorable, id)
				}
			default:
				if !seenUnmapped[id] {
					seenUnmapped[id] = true
					unmapped = append(unmapped, id)
				}
			}
		}
	}
	return fatal, ignorable, unmapped
}

func hotelIDsFromParameter(parameter string) []string {
	parameter = strings.TrimPrefix(parameter, "hotelIds=")
	if parameter == "" {
		return nil
	}
	return strings.Split(parameter, ",")
}

func chunkIDs(ids []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

type Handler struct {
	client *amadeus.Client
}

func NewHandler(client *amadeus.Client) *Handler {
	return &Handler{client: client}
}

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

// GET /api/hotels/search/city
func (h *Handler) SearchByCity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()

	cityCode := q.Get("cityCode")
	if cityCode == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required parameter: cityCode is required.")
		return
	}

	listings, err := h.client.ListHotelsByCity(r.Context(), cityCode)
	if err != nil {
		log.Printf("Error searching hotels by city: %v", err)
		respondUpstreamError(w, err, "An error occurred while searching for hotels")
		return
	}
	log.Printf("Found %d hotels in %s", len(listings), cityCode)

	checkInDate := q.Get("checkInDate")
	checkOutDate := q.Get("checkOutDate")
	if checkInDate == "" || checkOutDate == "" {
		// Without dates there is nothing to price; return the directory.
		utils.RespondWithJSON(w, http.StatusOK, utils.M{
			"status":  "OK",
			"results": listings,
			"meta":    utils.M{"count": len(listings), "cityCode": cityCode},
		})
		return
	}

	adults, _ := strconv.Atoi(q.Get("adults"))
	if adults == 0 {
		adults = 1
	}
	var ratings []string
	if raw := q.Get("ratings"); raw != "" {
		ratings = strings.Split(raw, ",")
	}

	allIDs := make([]string, 0, len(listings))
	for _, listing := range listings {
		allIDs = append(allIDs, listing.HotelID)
	}

	var offers []amadeus.HotelOffer
	failed := failedHotels{Fatal: []string{}, Temporary: []string{}, Ignorable: []string{}}

	for _, batch := range chunkIDs(allIDs, batchSize) {
		batchOffers, err := h.client.SearchHotelOffers(r.Context(), amadeus.HotelOffersParams{
			HotelIDs:     batch,
			CheckInDate:  checkInDate,
			CheckOutDate: checkOutDate,
			Adults:       adults,
			PriceRange:   q.Get("priceRange"),
			Ratings:      ratings,
		})
		if err != nil {
			// A failed chunk contributes to the failure tallies and
			// never aborts its siblings.
			var apiErr *amadeus.APIError
			if errors.As(err, &apiErr) {
				fatal, ignorable, unmapped := categorizeErrors(apiErr.Errors)
				log.Printf("Batch processing errors: fatal=%v ignorable=%v unmapped=%v", fatal, ignorable, unmapped)
				failed.Fatal = append(failed.Fatal, fatal...)
				failed.Ignorable = append(failed.Ignorable, ignorable...)
				failed.Temporary = append(failed.Temporary, unmapped...)
			} else {
				log.Printf("Unexpected batch error: %v", err)
				failed.Temporary = append(failed.Temporary, batch...)
			}
			continue
		}
		offers = append(offers, batchOffers...)
	}

	results := mergeListingData(offers, listings)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"status":  "OK",
		"results": results,
		"meta": utils.M{
			"count":        len(results),
			"cityCode":     cityCode,
			"failedHotels": failed,
		},
	})
}

// GET /api/hotels/offers
func (h *Handler) SearchOffers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()

	hotelIDs := q.Get("hotelIds")
	if hotelIDs == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Hotel IDs are required")
		return
	}
	checkInDate := q.Get("checkInDate")
	checkOutDate := q.Get("checkOutDate")
	if checkInDate == "" || checkOutDate == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Check-in and check-out dates are required")
		return
	}

	adults, _ := strconv.Atoi(q.Get("adults"))
	if adults == 0 {
		adults = 1
	}
	roomQuantity, _ := strconv.Atoi(q.Get("roomQuantity"))
	if roomQuantity == 0 {
		roomQuantity = 1
	}
	currency := q.Get("currency")
	if currency == "" {
		currency = "USD"
	}

	offers, err := h.client.SearchHotelOffers(r.Context(), amadeus.HotelOffersParams{
		HotelIDs:     strings.Split(hotelIDs, ","),
		CheckInDate:  checkInDate,
		CheckOutDate: checkOutDate,
		Adults:       adults,
		RoomQuantity: roomQuantity,
		PriceRange:   q.Get("priceRange"),
		Currency:     currency,
		BoardType:    q.Get("boardType"),
	})
	if err != nil {
		log.Printf("Error searching hotel offers: %v", err)
		respondUpstreamError(w, err, "An error occurred while searching for hotel offers")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"status":  "OK",
		"results": offers,
		"meta":    utils.M{"count": len(offers)},
	})
}
