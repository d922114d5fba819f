package plan

import (
	"strings"

	"oneclick/models"
)

// IsDuplicate reports whether candidate already exists in items. For
// every category a matching id is a duplicate. Flights are also
// duplicates when airline, flight number and the calendar date of the
// departure all match: external searches reissue fresh ids for what is
// operationally the same flight.
func IsDuplicate(items []models.PlanItem, candidate models.PlanItem, key string) bool {
	for _, item := range items {
		if item.ID == candidate.ID {
			return true
		}
		if key == KeyFlights &&
			item.Airline == candidate.Airline &&
			item.FlightNumber == candidate.FlightNumber &&
			departureDate(item.DepartureTime) == departureDate(candidate.DepartureTime) {
			return true
		}
	}
	return false
}

// departureDate truncates a timestamp to its literal YYYY-MM-DD part.
// The comparison deliberately uses the date as written, with no
// timezone normalization, matching how the timestamps are stored.
func departureDate(ts string) string {
	if i := strings.IndexAny(ts, "T "); i >= 0 {
		return ts[:i]
	}
	return ts
}
