package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wayfare/internal/ratelimit"
)

const weatherProviderName = "weather"

// WeatherReport is the decoded, already-defaulted weather payload.
type WeatherReport struct {
	CityName    string
	Temperature float64
	FeelsLike   float64
	Description string
	Humidity    int
	WindSpeed   string
}

// WeatherClient wraps the live-weather REST endpoint (key in query string,
// no bearer token).
type WeatherClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *ratelimit.ProviderLimiter
}

func NewWeatherClient(baseURL, apiKey string, timeout time.Duration, limiter *ratelimit.ProviderLimiter) *WeatherClient {
	return &WeatherClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}
}

// Lookup fetches current conditions for a city.
func (c *WeatherClient) Lookup(ctx context.Context, city string) (*WeatherReport, error) {
	if city == "" {
		return nil, NewError(weatherProviderName, KindValidation, fmt.Errorf("city is required"))
	}
	if err := c.limiter.Wait(ctx, weatherProviderName); err != nil {
		return nil, NewError(weatherProviderName, KindNetwork, err)
	}

	params := url.Values{}
	params.Set("city", city)
	params.Set("key", c.apiKey)
	params.Set("extensions", "base")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v3/weather/weatherInfo?"+params.Encode(), nil)
	if err != nil {
		return nil, NewError(weatherProviderName, KindNetwork, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewError(weatherProviderName, KindNetwork, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, NewError(weatherProviderName, KindProvider,
			fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 200)))
	}

	var payload struct {
		Status string `json:"status"`
		Lives  []struct {
			City        string `json:"city"`
			Weather     string `json:"weather"`
			Temperature string `json:"temperature"`
			Humidity    string `json:"humidity"`
			WindPower   string `json:"windpower"`
		} `json:"lives"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, NewError(weatherProviderName, KindParse,
			fmt.Errorf("failed to parse weather response: %w", err))
	}
	if payload.Status != "1" || len(payload.Lives) == 0 {
		return nil, NewError(weatherProviderName, KindProvider,
			fmt.Errorf("no weather data for %q", city))
	}

	live := payload.Lives[0]
	temp, _ := strconv.ParseFloat(live.Temperature, 64)
	humidity, _ := strconv.Atoi(live.Humidity)

	return &WeatherReport{
		CityName:    live.City,
		Temperature: temp,
		FeelsLike:   temp,
		Description: live.Weather,
		Humidity:    humidity,
		WindSpeed:   live.WindPower,
	}, nil
}
