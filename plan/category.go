package plan

import (
	"errors"
	"fmt"
	"strings"

	"oneclick/models"
)

// Canonical storage keys for the four itinerary collections.
const (
	KeyAttractions = "attractions"
	KeyRestaurants = "restaurants"
	KeyHotels      = "hotels"
	KeyFlights     = "flights"
)

var ErrUnknownCategory = errors.New("unknown category")

// ResolveCategoryKey normalizes a category token ("attraction",
// "attractions", "hotel", ...) to its canonical plural storage key, so
// callers never have to pre-validate spelling.
func ResolveCategoryKey(category string) (string, error) {
	c := strings.ToLower(strings.TrimSpace(category))
	c = strings.TrimSuffix(c, "s")
	key := c + "s"
	switch key {
	case KeyAttractions, KeyRestaurants, KeyHotels, KeyFlights:
		return key, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownCategory, category)
}

// CategoryItems returns the collection for a canonical key within p.
// The pointer lets mutations write back into the plan.
func CategoryItems(p *models.PlanRecord, key string) *[]models.PlanItem {
	switch key {
	case KeyAttractions:
		return &p.Attractions
	case KeyRestaurants:
		return &p.Restaurants
	case KeyHotels:
		return &p.Hotels
	case KeyFlights:
		return &p.Flights
	}
	return nil
}
