package intent

import (
	"errors"
	"testing"
	"time"
)

func fixedRouter() *Router {
	return &Router{now: func() time.Time {
		return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	}}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		utterance string
		want      Type
	}{
		{"Find me a flight to Paris", Flights},
		{"I need a hotel in Rome", Hotels},
		{"What's the weather in Tokyo?", Weather},
		{"Top attractions in Barcelona", Attractions},
		{"Where should I eat in Lyon?", Restaurants},
		{"Plan my trip to Kyoto", Guides},
		{"Best time to visit Iceland", Seasonal},
		{"How do I use the metro in Berlin?", Transportation},
		{"Where to stay in Lisbon", Accommodation},
		{"Tell me about museum etiquette in Vienna", Culture},
		{"What to buy in Marrakech", Shopping},
		{"Best bars in Dublin", Nightlife},
		{"Tell me something interesting", General},
		// Booking intents win over informational keywords.
		{"Hotel near the best museum in Paris", Hotels},
	}
	for _, tt := range tests {
		if got := classify(tt.utterance); got != tt.want {
			t.Errorf("classify(%q) = %q, want %q", tt.utterance, got, tt.want)
		}
	}
}

func TestRoute_Flights(t *testing.T) {
	r := fixedRouter()

	resolved, spec, err := r.Route("Find flights from London to Paris on 2026-09-10", Context{})
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if resolved != Flights || spec.Provider != ProviderFlights {
		t.Errorf("resolved = %q, provider = %q", resolved, spec.Provider)
	}
	if spec.Origin != "LON" || spec.Destination != "PAR" {
		t.Errorf("route = %s-%s, want LON-PAR", spec.Origin, spec.Destination)
	}
	if spec.StartDate != "2026-09-10" {
		t.Errorf("start date = %q", spec.StartDate)
	}
	if spec.EndDate != "2026-09-13" {
		t.Errorf("end date = %q, want start+3d default", spec.EndDate)
	}
	if spec.Adults != 1 {
		t.Errorf("adults = %d, want default 1", spec.Adults)
	}
}

func TestRoute_FlightsMissingOrigin(t *testing.T) {
	r := fixedRouter()
	resolved, _, err := r.Route("I want to fly to Paris", Context{})
	if resolved != Flights {
		t.Errorf("resolved = %q", resolved)
	}
	if !errors.Is(err, ErrMissingLocation) {
		t.Errorf("err = %v, want ErrMissingLocation", err)
	}
}

func TestRoute_ContextFallbacks(t *testing.T) {
	r := fixedRouter()
	convCtx := Context{Origin: "Tokyo", Location: "Singapore", Adults: 2}

	_, spec, err := r.Route("book me a flight please", convCtx)
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if spec.Origin != "TYO" || spec.Destination != "SIN" {
		t.Errorf("route = %s-%s, want TYO-SIN from context", spec.Origin, spec.Destination)
	}
	if spec.Adults != 2 {
		t.Errorf("adults = %d", spec.Adults)
	}
	// No dates anywhere: default window one week out.
	if spec.StartDate != "2026-09-08" || spec.EndDate != "2026-09-11" {
		t.Errorf("dates = %s / %s", spec.StartDate, spec.EndDate)
	}
}

func TestRoute_Hotels(t *testing.T) {
	r := fixedRouter()
	_, spec, err := r.Route("Find a hotel in New York", Context{})
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if spec.Provider != ProviderHotels || spec.Location != "NYC" {
		t.Errorf("provider = %q, location = %q", spec.Provider, spec.Location)
	}
}

func TestRoute_WeatherMissingLocation(t *testing.T) {
	r := fixedRouter()
	resolved, _, err := r.Route("what's the weather like?", Context{})
	if resolved != Weather {
		t.Errorf("resolved = %q", resolved)
	}
	if !errors.Is(err, ErrMissingLocation) {
		t.Errorf("err = %v, want ErrMissingLocation", err)
	}
}

func TestRoute_InfoIntentBuildsSearchQuery(t *testing.T) {
	r := fixedRouter()
	resolved, spec, err := r.Route("what are the top attractions in Barcelona?", Context{})
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if resolved != Attractions || spec.Provider != ProviderWebSearch {
		t.Errorf("resolved = %q, provider = %q", resolved, spec.Provider)
	}
	if spec.Query != "top attractions in Barcelona" {
		t.Errorf("query = %q", spec.Query)
	}
	if spec.PlaceCategory != "tourist attractions" {
		t.Errorf("place category = %q", spec.PlaceCategory)
	}
}

func TestLocationCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"London", "LON"},
		{"new york", "NYC"},
		{"CDG", "CDG"},
		{"", ""},
		{"Oslo", "OSLO"},
	}
	for _, tt := range tests {
		if got := locationCode(tt.in); got != tt.want {
			t.Errorf("locationCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
