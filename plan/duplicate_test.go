package plan

import (
	"testing"

	"oneclick/models"

	"github.com/stretchr/testify/require"
)

func TestIsDuplicateByID(t *testing.T) {
	items := []models.PlanItem{{ID: "a1", Name: "Senso-ji"}}

	require.True(t, IsDuplicate(items, models.PlanItem{ID: "a1"}, KeyAttractions))
	require.False(t, IsDuplicate(items, models.PlanItem{ID: "a2"}, KeyAttractions))
}

func TestIsDuplicateFlightDateLiteral(t *testing.T) {
	items := []models.PlanItem{{
		ID:            "flight-1",
		Airline:       "ANA",
		FlightNumber:  "105",
		DepartureTime: "2026-09-01T10:30:00",
	}}

	// different id, same airline/number/date
	require.True(t, IsDuplicate(items, models.PlanItem{
		ID:            "flight-2",
		Airline:       "ANA",
		FlightNumber:  "105",
		DepartureTime: "2026-09-01 22:15:00",
	}, KeyFlights))

	// different calendar date
	require.False(t, IsDuplicate(items, models.PlanItem{
		ID:            "flight-2",
		Airline:       "ANA",
		FlightNumber:  "105",
		DepartureTime: "2026-09-02T10:30:00",
	}, KeyFlights))

	// different airline
	require.False(t, IsDuplicate(items, models.PlanItem{
		ID:            "flight-2",
		Airline:       "JAL",
		FlightNumber:  "105",
		DepartureTime: "2026-09-01T10:30:00",
	}, KeyFlights))
}

func TestFlightRuleOnlyAppliesToFlights(t *testing.T) {
	items := []models.PlanItem{{
		ID:            "h1",
		Airline:       "ANA",
		FlightNumber:  "105",
		DepartureTime: "2026-09-01T10:30:00",
	}}

	require.False(t, IsDuplicate(items, models.PlanItem{
		ID:            "h2",
		Airline:       "ANA",
		FlightNumber:  "105",
		DepartureTime: "2026-09-01T10:30:00",
	}, KeyHotels))
}

func TestDepartureDateLiteralComparison(t *testing.T) {
	// dates are compared exactly as written, no timezone math
	require.Equal(t, "2026-09-01", departureDate("2026-09-01T23:30:00Z"))
	require.Equal(t, "2026-09-01", departureDate("2026-09-01 23:30:00"))
	require.Equal(t, "2026-09-01", departureDate("2026-09-01"))
	require.Equal(t, "", departureDate(""))
}
