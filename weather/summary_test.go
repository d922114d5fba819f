package weather

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyPriority(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"light rain", "rain"},
		{"rain and clouds", "rain"},
		{"scattered clouds", "cloudy"},
		{"clear sky", "clear"},
		{"thunderstorm", "storm"},
		{"mist", "other"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, classify(tc.in), tc.in)
	}
}

func TestSampleDate(t *testing.T) {
	date, hour, ok := sampleDate("2026-09-01 15:00:00")
	require.True(t, ok)
	require.Equal(t, "2026-09-01", date)
	require.Equal(t, 15, hour)

	_, _, ok = sampleDate("2026-09-01")
	require.False(t, ok)
}

func TestSummarizeDominantByFrequency(t *testing.T) {
	// two clear samples against one rain in the same morning: frequency
	// wins over classification priority
	summary := Summarize([]Sample{
		{Datetime: "2026-09-01 06:00:00", Weather: "light rain"},
		{Datetime: "2026-09-01 09:00:00", Weather: "clear sky"},
		{Datetime: "2026-09-01 11:00:00", Weather: "clear sky"},
	})

	require.Equal(t, "clear", summary.BlockForecast["2026-09-01"]["morning"])
	require.Equal(t, "clear", summary.DailyWeather["2026-09-01"])
	require.Empty(t, summary.RainDays)
}

func TestSummarizeFrequencyTieFirstSeenWins(t *testing.T) {
	summary := Summarize([]Sample{
		{Datetime: "2026-09-01 06:00:00", Weather: "scattered clouds"},
		{Datetime: "2026-09-01 09:00:00", Weather: "clear sky"},
	})

	require.Equal(t, "cloudy", summary.BlockForecast["2026-09-01"]["morning"])
}

func TestSummarizeTimeBlocks(t *testing.T) {
	summary := Summarize([]Sample{
		{Datetime: "2026-09-01 06:00:00", Weather: "clear sky"},
		{Datetime: "2026-09-01 12:00:00", Weather: "light rain"},
		{Datetime: "2026-09-01 18:00:00", Weather: "scattered clouds"},
		// night samples fall outside every block
		{Datetime: "2026-09-01 03:00:00", Weather: "thunderstorm"},
		{Datetime: "2026-09-01 23:00:00", Weather: "thunderstorm"},
	})

	day := summary.BlockForecast["2026-09-01"]
	require.Equal(t, "clear", day["morning"])
	require.Equal(t, "rain", day["afternoon"])
	require.Equal(t, "cloudy", day["evening"])
	require.Len(t, day, 3)
}

func TestSummarizeDayPrecedence(t *testing.T) {
	// a single rainy block outweighs clear blocks for the day summary
	summary := Summarize([]Sample{
		{Datetime: "2026-09-01 08:00:00", Weather: "clear sky"},
		{Datetime: "2026-09-01 14:00:00", Weather: "light rain"},
		{Datetime: "2026-09-01 19:00:00", Weather: "clear sky"},
	})

	require.Equal(t, "rain", summary.DailyWeather["2026-09-01"])
	require.Equal(t, []string{"2026-09-01"}, summary.RainDays)
}

func TestSummarizeRainDaysSorted(t *testing.T) {
	summary := Summarize([]Sample{
		{Datetime: "2026-09-03 09:00:00", Weather: "heavy rain"},
		{Datetime: "2026-09-01 09:00:00", Weather: "light rain"},
		{Datetime: "2026-09-02 09:00:00", Weather: "clear sky"},
	})

	require.Equal(t, []string{"2026-09-01", "2026-09-03"}, summary.RainDays)
	require.Equal(t, "clear", summary.DailyWeather["2026-09-02"])
}

func TestSummarizeUncoveredDaysAbsent(t *testing.T) {
	summary := Summarize([]Sample{
		{Datetime: "2026-09-01 09:00:00", Weather: "clear sky"},
	})

	_, covered := summary.DailyWeather["2026-09-02"]
	require.False(t, covered, "days without samples must be absent, not defaulted")
}

func TestSummarizePassthroughForecast(t *testing.T) {
	in := []Sample{
		{Datetime: "2026-09-01 03:00:00", RainVolume: 1.2, Temp: 18.5, Weather: "light rain"},
	}
	summary := Summarize(in)

	require.Equal(t, in, summary.Forecast, "raw samples pass through untouched, night included")
}

func TestSummarizeEmptyInput(t *testing.T) {
	summary := Summarize(nil)

	require.Empty(t, summary.RainDays)
	require.Empty(t, summary.DailyWeather)
	require.Empty(t, summary.BlockForecast)
}
