package plan

import (
	"testing"

	"oneclick/models"

	"github.com/stretchr/testify/require"
)

func TestResolveCategoryKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"attraction", KeyAttractions},
		{"attractions", KeyAttractions},
		{"Attraction", KeyAttractions},
		{"RESTAURANTS", KeyRestaurants},
		{"hotel", KeyHotels},
		{"hotels", KeyHotels},
		{"flight", KeyFlights},
		{" flights ", KeyFlights},
	}
	for _, tc := range cases {
		got, err := ResolveCategoryKey(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
}

func TestResolveCategoryKeyUnknown(t *testing.T) {
	for _, in := range []string{"museum", "museums", "", "plan"} {
		_, err := ResolveCategoryKey(in)
		require.ErrorIs(t, err, ErrUnknownCategory, in)
	}
}

func TestCategoryItemsWritesBack(t *testing.T) {
	p := &models.PlanRecord{}

	items := CategoryItems(p, KeyHotels)
	*items = append(*items, models.PlanItem{ID: "h1"})

	require.Len(t, p.Hotels, 1)
	require.Empty(t, p.Attractions)
}
