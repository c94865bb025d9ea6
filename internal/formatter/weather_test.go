package formatter

import (
	"strings"
	"testing"

	"wayfare/internal/providers"
	"wayfare/pkg/logger"
)

func TestWeatherIcon(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"Sunny", "sunny"},
		{"clear sky", "sunny"},
		{"scattered clouds", "cloudy"},
		{"light rain", "rainy"},
		{"heavy snow", "snowy"},
		// Earlier substrings win over later ones.
		{"sunny with rain later", "sunny"},
		{"cloudy with snow", "cloudy"},
		{"fog", "sunny"},
	}
	for _, tt := range tests {
		if got := WeatherIcon(tt.desc); got != tt.want {
			t.Errorf("WeatherIcon(%q) = %q, want %q", tt.desc, got, tt.want)
		}
	}
}

func TestWeatherEnvelope(t *testing.T) {
	f := New(logger.NewNop())

	env := f.WeatherEnvelope(&providers.WeatherReport{
		CityName:    "Paris",
		Temperature: 21,
		FeelsLike:   21,
		Description: "clear sky",
		Humidity:    40,
		WindSpeed:   "3",
	})
	if env.Action != ActionGetWeather {
		t.Errorf("action = %q", env.Action)
	}
	view, ok := env.Data.(WeatherView)
	if !ok {
		t.Fatalf("data type = %T", env.Data)
	}
	if view.Icon != "sunny" {
		t.Errorf("icon = %q", view.Icon)
	}
	if !strings.Contains(env.Content, "Paris") || !strings.Contains(env.Content, "21") {
		t.Errorf("content = %q", env.Content)
	}
}

func TestWeatherErrorEnvelope(t *testing.T) {
	f := New(logger.NewNop())
	env := f.WeatherErrorEnvelope("Atlantis")
	if env.Data != nil {
		t.Errorf("error envelope data = %#v, want null", env.Data)
	}
	if !strings.Contains(env.Content, "Atlantis") {
		t.Errorf("content = %q", env.Content)
	}
}

func TestSuggestionEnvelope(t *testing.T) {
	f := New(logger.NewNop())

	plain := f.SuggestionEnvelope("Pack an umbrella.", false)
	if plain.Data != nil {
		t.Error("suggestion data must be null")
	}
	if strings.Contains(plain.Content, "AI") {
		t.Errorf("unexpected disclosure on non-AI text: %q", plain.Content)
	}

	tagged := f.SuggestionEnvelope("Pack an umbrella.", true)
	if !strings.Contains(tagged.Content, "generated with AI assistance") {
		t.Errorf("missing disclosure: %q", tagged.Content)
	}
}
