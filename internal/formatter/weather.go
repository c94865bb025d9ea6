package formatter

import (
	"fmt"
	"strings"

	"wayfare/internal/providers"
)

// WeatherView is the get_weather data object.
type WeatherView struct {
	CityName    string  `json:"city_name"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Description string  `json:"description"`
	Humidity    int     `json:"humidity"`
	WindSpeed   string  `json:"wind_speed"`
	Icon        string  `json:"icon"`
}

// WeatherIcon picks a display icon from the condition text. Earlier
// substrings win, so "sunny with rain later" maps to sunny.
func WeatherIcon(description string) string {
	d := strings.ToLower(description)
	switch {
	case strings.Contains(d, "sun") || strings.Contains(d, "clear"):
		return "sunny"
	case strings.Contains(d, "cloud"):
		return "cloudy"
	case strings.Contains(d, "rain"):
		return "rainy"
	case strings.Contains(d, "snow"):
		return "snowy"
	default:
		return "sunny"
	}
}

// WeatherEnvelope renders the get_weather path for a successful lookup.
func (f *Formatter) WeatherEnvelope(report *providers.WeatherReport) Envelope {
	view := WeatherView{
		CityName:    report.CityName,
		Temperature: report.Temperature,
		FeelsLike:   report.FeelsLike,
		Description: report.Description,
		Humidity:    report.Humidity,
		WindSpeed:   report.WindSpeed,
		Icon:        WeatherIcon(report.Description),
	}
	content := fmt.Sprintf("Current weather in %s: %s, %.0f°C.",
		report.CityName, report.Description, report.Temperature)
	return Envelope{Action: ActionGetWeather, Content: content, Data: view}
}

// WeatherErrorEnvelope is the get_weather path when the lookup failed or
// returned nothing. Data is null here, not an empty object.
func (f *Formatter) WeatherErrorEnvelope(city string) Envelope {
	return Envelope{
		Action:  ActionGetWeather,
		Content: fmt.Sprintf("Sorry, I couldn't get the weather for %s right now.", city),
		Data:    nil,
	}
}

// SuggestionEnvelope wraps free-form advisory text. The disclosure suffix is
// appended exactly once when the text came from a language model.
func (f *Formatter) SuggestionEnvelope(text string, aiGenerated bool) Envelope {
	if aiGenerated {
		text += "\n\nThis suggestion was generated with AI assistance."
	}
	return Envelope{Action: ActionSuggestion, Content: text, Data: nil}
}
