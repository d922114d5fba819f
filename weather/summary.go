package weather

import (
	"sort"
	"strconv"
	"strings"
)

// Sample is one 3-hour forecast entry as returned by the provider.
type Sample struct {
	Datetime   string  `json:"datetime"`
	RainVolume float64 `json:"rainVolume"`
	Temp       float64 `json:"temp"`
	Weather    string  `json:"weather"`
}

// Summary aggregates samples into per-day and per-time-block dominant
// conditions. Days the provider did not cover are simply absent, so
// callers can diff the requested date span against the returned keys.
type Summary struct {
	Forecast      []Sample                     `json:"forecast"`
	RainDays      []string                     `json:"rainDays"`
	DailyWeather  map[string]string            `json:"dailyWeather"`
	BlockForecast map[string]map[string]string `json:"blockForecast"`
}

type block struct {
	name       string
	start, end int // hour range [start, end)
}

// Samples outside all three blocks (night) are dropped from
// aggregation but stay in the raw forecast passthrough.
var blocks = []block{
	{"morning", 6, 12},
	{"afternoon", 12, 17},
	{"evening", 17, 22},
}

// bucket accumulates one (date, block) cell. Conditions are counted
// alongside the order they were first seen, so the dominant pick can
// break frequency ties in favor of the earliest.
type bucket struct {
	rainVolume float64
	counts     map[string]int
	order      []string
}

func (b *bucket) count(condition string) {
	if _, seen := b.counts[condition]; !seen {
		b.order = append(b.order, condition)
	}
	b.counts[condition]++
}

func (b *bucket) dominant() string {
	best := ""
	bestCount := 0
	for _, condition := range b.order {
		if b.counts[condition] > bestCount {
			best = condition
			bestCount = b.counts[condition]
		}
	}
	return best
}

// classify maps a free-text description to one category. The substring
// checks run in a fixed priority order: a description mentioning both
// rain and clouds counts as rain.
func classify(description string) string {
	switch {
	case strings.Contains(description, "rain"):
		return "rain"
	case strings.Contains(description, "cloud"):
		return "cloudy"
	case strings.Contains(description, "clear"):
		return "clear"
	case strings.Contains(description, "storm"):
		return "storm"
	default:
		return "other"
	}
}

// sampleDate splits "YYYY-MM-DD HH:MM:SS" into its date and hour.
func sampleDate(datetime string) (string, int, bool) {
	parts := strings.SplitN(datetime, " ", 2)
	if len(parts) != 2 {
		return "", 0, false
	}
	hourStr, _, _ := strings.Cut(parts[1], ":")
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return "", 0, false
	}
	return parts[0], hour, true
}

// Summarize reduces 3-hour samples to dominant conditions per time
// block and per day. Daily summaries use a fixed precedence: any rainy
// block makes the day rainy, then storm, cloudy, clear, other.
func Summarize(forecast []Sample) Summary {
	cells := map[string]map[string]*bucket{}

	for _, sample := range forecast {
		date, hour, ok := sampleDate(sample.Datetime)
		if !ok {
			continue
		}
		for _, blk := range blocks {
			if hour < blk.start || hour >= blk.end {
				continue
			}
			day := cells[date]
			if day == nil {
				day = map[string]*bucket{}
				cells[date] = day
			}
			cell := day[blk.name]
			if cell == nil {
				cell = &bucket{counts: map[string]int{}}
				day[blk.name] = cell
			}
			cell.rainVolume += sample.RainVolume
			cell.count(classify(sample.Weather))
		}
	}

	blockForecast := map[string]map[string]string{}
	dailyWeather := map[string]string{}
	rainDays := []string{}

	for date, day := range cells {
		blockForecast[date] = map[string]string{}
		for name, cell := range day {
			blockForecast[date][name] = cell.dominant()
		}

		dailyWeather[date] = daySummary(blockForecast[date])
		if dailyWeather[date] == "rain" {
			rainDays = append(rainDays, date)
		}
	}
	sort.Strings(rainDays)

	return Summary{
		Forecast:      forecast,
		RainDays:      rainDays,
		DailyWeather:  dailyWeather,
		BlockForecast: blockForecast,
	}
}

func daySummary(blockConditions map[string]string) string {
	for _, condition := range []string{"rain", "storm", "cloudy", "clear"} {
		for _, got := range blockConditions {
			if got == condition {
				return condition
			}
		}
	}
	return "other"
}
