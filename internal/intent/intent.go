package intent

// Type is the fixed set of intents the router can resolve.
type Type string

const (
	General        Type = "general"
	Attractions    Type = "attractions"
	Restaurants    Type = "restaurants"
	Guides         Type = "guides"
	Seasonal       Type = "seasonal"
	Transportation Type = "transportation"
	Accommodation  Type = "accommodation"
	Culture        Type = "culture"
	Shopping       Type = "shopping"
	Nightlife      Type = "nightlife"
	Flights        Type = "flights"
	Hotels         Type = "hotels"
	Weather        Type = "weather"
)

// Provider names which gateway capability a resolved intent dispatches to.
type Provider string

const (
	ProviderFlights   Provider = "flights"
	ProviderHotels    Provider = "hotels"
	ProviderWeather   Provider = "weather"
	ProviderWebSearch Provider = "websearch"
)

// Context carries conversation state from prior turns and user-stated
// preferences.
type Context struct {
	Location  string
	Origin    string
	StartDate string // YYYY-MM-DD
	EndDate   string
	Adults    int
	Budget    float64
}

// CallSpec is the normalized parameter set for the provider call a routed
// utterance maps to. Only the fields relevant to the chosen provider are set.
type CallSpec struct {
	Provider    Provider
	Location    string
	Origin      string // IATA, flights only
	Destination string // IATA, flights only
	StartDate   string
	EndDate     string
	Adults      int
	Budget      float64 // nightly price ceiling, hotels only
	Query       string  // websearch only
	// PlaceCategory seeds the optional Places lookup for info intents.
	PlaceCategory string
}
