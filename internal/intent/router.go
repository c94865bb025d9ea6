package intent

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// ErrMissingLocation is returned when an intent needs a location and none
// could be extracted. The caller should re-prompt the user, never guess.
var ErrMissingLocation = errors.New("location could not be determined")

// keywordRule maps trigger words to an intent. Rules are checked in order;
// the first hit wins, so the booking-style intents sit before the
// informational ones.
type keywordRule struct {
	intent   Type
	keywords []string
}

var rules = []keywordRule{
	{Flights, []string{"flight", "fly ", "flying", "plane", "airfare", "air ticket"}},
	{Hotels, []string{"hotel", "hostel", "resort", "book a room"}},
	{Weather, []string{"weather", "temperature", "forecast", "raining", "sunny", "humid"}},
	{Attractions, []string{"attraction", "sightseeing", "things to do", "places to visit", "must see", "landmark"}},
	{Restaurants, []string{"restaurant", "food", "eat", "dining", "cuisine", "where to have"}},
	{Guides, []string{"itinerary", "travel guide", "plan my trip", "day trip", "guide"}},
	{Seasonal, []string{"best time", "season", "when to visit", "when should i go"}},
	{Transportation, []string{"transport", "getting around", "metro", "subway", "bus", "train", "taxi"}},
	{Accommodation, []string{"accommodation", "where to stay", "lodging", "airbnb"}},
	{Culture, []string{"culture", "custom", "tradition", "etiquette", "history", "museum"}},
	{Shopping, []string{"shopping", "market", "souvenir", "mall", "what to buy"}},
	{Nightlife, []string{"nightlife", "bar", "club", "night out", "party"}},
}

// placeCategories seed the optional Places lookup for info intents.
var placeCategories = map[Type]string{
	Attractions: "tourist attractions",
	Restaurants: "restaurants",
	Culture:     "museums and cultural sites",
	Shopping:    "shopping markets",
	Nightlife:   "night clubs and bars",
}

var (
	isoDateRe   = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	iataRe      = regexp.MustCompile(`\b([A-Z]{3})\b`)
	fromPlaceRe = regexp.MustCompile(`(?i)\bfrom\s+([a-z][a-z .'-]*?)(?:\s+(?:to|on|in|at|for|next|this)\b|[,.?!]|$)`)
	toPlaceRe   = regexp.MustCompile(`(?i)\b(?:to|in|at|for|visit(?:ing)?)\s+([a-z][a-z .'-]*?)(?:\s+(?:from|on|next|this|during|with|tomorrow|today)\b|[,.?!]|$)`)
)

// Router classifies a free-text utterance into an intent and a normalized
// provider call spec.
type Router struct {
	now func() time.Time
}

func NewRouter() *Router {
	return &Router{now: time.Now}
}

// Route resolves the utterance. When no keyword gives a strong signal the
// intent defaults to General and is served by web search + LLM advice.
func (r *Router) Route(utterance string, convCtx Context) (Type, CallSpec, error) {
	resolved := classify(utterance)

	spec := CallSpec{Adults: convCtx.Adults, Budget: convCtx.Budget}
	if spec.Adults <= 0 {
		spec.Adults = 1
	}

	location := extractLocation(utterance)
	if location == "" {
		location = convCtx.Location
	}
	spec.Location = location

	start, end := extractDates(utterance, convCtx, r.now())
	spec.StartDate = start
	spec.EndDate = end

	switch resolved {
	case Flights:
		spec.Provider = ProviderFlights
		spec.Destination = locationCode(location)
		origin := extractOrigin(utterance)
		if origin == "" {
			origin = convCtx.Origin
		}
		spec.Origin = locationCode(origin)
		if spec.Origin == "" || spec.Destination == "" {
			return resolved, spec, ErrMissingLocation
		}
	case Hotels:
		spec.Provider = ProviderHotels
		spec.Location = locationCode(location)
		if spec.Location == "" {
			return resolved, spec, ErrMissingLocation
		}
	case Weather:
		spec.Provider = ProviderWeather
		if spec.Location == "" {
			return resolved, spec, ErrMissingLocation
		}
	default:
		spec.Provider = ProviderWebSearch
		spec.Query = buildSearchQuery(resolved, utterance, location)
		spec.PlaceCategory = placeCategories[resolved]
	}

	return resolved, spec, nil
}

func classify(utterance string) Type {
	lower := strings.ToLower(utterance)
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.intent
			}
		}
	}
	return General
}

// extractLocation pulls the destination city out of the utterance via the
// "to/in/at/for X" phrase patterns.
func extractLocation(utterance string) string {
	if m := toPlaceRe.FindStringSubmatch(utterance); m != nil {
		return cleanPlace(m[1])
	}
	return ""
}

func extractOrigin(utterance string) string {
	if m := fromPlaceRe.FindStringSubmatch(utterance); m != nil {
		return cleanPlace(m[1])
	}
	return ""
}

// cleanPlace trims filler words that the loose phrase regex can swallow.
func cleanPlace(s string) string {
	s = strings.TrimSpace(s)
	for _, stop := range []string{" next week", " next month", " tomorrow", " today", " please"} {
		s = strings.TrimSuffix(s, stop)
	}
	return titleCase(strings.TrimSpace(s))
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// extractDates resolves the travel window: explicit ISO dates in the
// utterance win, then context dates, then a default window one week out.
func extractDates(utterance string, convCtx Context, now time.Time) (string, string) {
	dates := isoDateRe.FindAllString(utterance, 2)

	start := convCtx.StartDate
	end := convCtx.EndDate
	if len(dates) > 0 {
		start = dates[0]
	}
	if len(dates) > 1 {
		end = dates[1]
	}
	if start == "" {
		start = now.AddDate(0, 0, 7).Format("2006-01-02")
	}
	if end == "" {
		end = mustAddDays(start, 3)
	}
	return start, end
}

func mustAddDays(date string, days int) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, days).Format("2006-01-02")
}

// locationCode resolves a place to the IATA code the booking provider
// expects. Explicit three-letter codes pass through; known cities are looked
// up; anything else is passed along as-is for the provider to reject.
func locationCode(place string) string {
	if place == "" {
		return ""
	}
	if iataRe.MatchString(place) && len(place) == 3 {
		return place
	}
	if code, ok := cityCodes[strings.ToLower(place)]; ok {
		return code
	}
	return strings.ToUpper(place)
}

// cityCodes maps common city names to booking city codes.
var cityCodes = map[string]string{
	"london":        "LON",
	"paris":         "PAR",
	"new york":      "NYC",
	"tokyo":         "TYO",
	"rome":          "ROM",
	"madrid":        "MAD",
	"barcelona":     "BCN",
	"berlin":        "BER",
	"frankfurt":     "FRA",
	"amsterdam":     "AMS",
	"istanbul":      "IST",
	"dubai":         "DXB",
	"singapore":     "SIN",
	"bangkok":       "BKK",
	"beijing":       "BJS",
	"shanghai":      "SHA",
	"hong kong":     "HKG",
	"seoul":         "SEL",
	"sydney":        "SYD",
	"los angeles":   "LAX",
	"san francisco": "SFO",
	"chicago":       "CHI",
}

func buildSearchQuery(t Type, utterance, location string) string {
	if location == "" {
		return utterance
	}
	switch t {
	case Attractions:
		return "top attractions in " + location
	case Restaurants:
		return "best restaurants in " + location
	case Guides:
		return location + " travel guide"
	case Seasonal:
		return "best time to visit " + location
	case Transportation:
		return "getting around " + location + " public transport"
	case Accommodation:
		return "best areas to stay in " + location
	case Culture:
		return location + " culture customs etiquette"
	case Shopping:
		return "best shopping in " + location
	case Nightlife:
		return location + " nightlife best bars clubs"
	default:
		return utterance
	}
}
