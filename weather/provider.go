package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Provider fetches a multi-day forecast for a city. Implementations
// typically cap coverage at around five days; Summarize tolerates the
// gap by omitting uncovered dates.
type Provider interface {
	GetForecast(ctx context.Context, city string) ([]Sample, error)
}

// OpenWeatherClient calls the OpenWeatherMap 5-day/3-hour forecast API.
type OpenWeatherClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewOpenWeatherClient() *OpenWeatherClient {
	return &OpenWeatherClient{
		apiKey:  os.Getenv("WEATHER_API_KEY"),
		baseURL: "https://api.openweathermap.org",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type openWeatherResponse struct {
	List []struct {
		DtTxt string `json:"dt_txt"`
		Rain  struct {
			ThreeH float64 `json:"3h"`
		} `json:"rain"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"list"`
}

func (c *OpenWeatherClient) GetForecast(ctx context.Context, city string) ([]Sample, error) {
	endpoint := fmt.Sprintf("%s/data/2.5/forecast?q=%s&units=metric&appid=%s",
		c.baseURL, url.QueryEscape(city), c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather api error (%d): %s", resp.StatusCode, string(body))
	}

	var parsed openWeatherResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse forecast: %w", err)
	}

	samples := make([]Sample, 0, len(parsed.List))
	for _, entry := range parsed.List {
		description := ""
		if len(entry.Weather) > 0 {
			description = strings.ToLower(entry.Weather[0].Description)
		}
		samples = append(samples, Sample{
			Datetime:   entry.DtTxt,
			RainVolume: entry.Rain.ThreeH,
			Temp:       entry.Main.Temp,
			Weather:    description,
		})
	}
	return samples, nil
}
