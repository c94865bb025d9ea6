// README: Chat pipeline orchestrator: route, fetch, enhance, format, persist.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"wayfare/internal/cache"
	"wayfare/internal/formatter"
	"wayfare/internal/intent"
	"wayfare/internal/maps"
	"wayfare/internal/modules/flight"
	"wayfare/internal/modules/history"
	"wayfare/internal/modules/hotel"
	"wayfare/internal/providers"
	"wayfare/pkg/logger"
	"wayfare/pkg/metrics"
)

// Provider capabilities the assistant consumes. Each is satisfied by the
// matching client in internal/providers; any of them may be nil when the
// deployment lacks credentials for that provider.
type FlightSearcher interface {
	SearchFlights(ctx context.Context, q providers.FlightQuery) ([]providers.FlightOffer, error)
}

type HotelSearcher interface {
	SearchHotels(ctx context.Context, q providers.HotelQuery) (*providers.HotelSearchResult, error)
}

type WeatherLookup interface {
	Lookup(ctx context.Context, city string) (*providers.WeatherReport, error)
}

type WebSearcher interface {
	Search(ctx context.Context, query string) (*providers.WebSearchResult, error)
}

type PlaceSearcher interface {
	SearchCity(ctx context.Context, city, category string, limit int) ([]maps.Place, error)
}

// Advisor is the language-model surface: gap filling, free-form suggestion
// text, and synthetic fallback offers.
type Advisor interface {
	EnhanceFlight(ctx context.Context, o *flight.Offer) bool
	EnhanceHotel(ctx context.Context, l *hotel.Listing) bool
	Suggest(ctx context.Context, prompt string) (string, error)
	SyntheticFlights(ctx context.Context, origin, destination, date, cabin string, count int) ([]flight.Offer, error)
}

type FlightStore interface {
	SaveBatch(ctx context.Context, offers []flight.Offer) (int, error)
}

type HotelStore interface {
	SaveBatch(ctx context.Context, listings []hotel.Listing) (int, error)
}

type HistoryStore interface {
	Append(ctx context.Context, rec history.Record) error
	Recent(ctx context.Context, limit int) ([]history.Record, error)
}

// Deps wires the assistant. Router, Formatter, Cache and Log are required;
// everything else degrades gracefully when nil.
type Deps struct {
	Router      *intent.Router
	Formatter   *formatter.Formatter
	Flights     FlightSearcher
	Hotels      HotelSearcher
	Weather     WeatherLookup
	WebSearch   WebSearcher
	Places      PlaceSearcher
	Advisor     Advisor
	FlightStore FlightStore
	HotelStore  HotelStore
	History     HistoryStore
	Cache       cache.Cache
	CacheTTL    time.Duration
	Metrics     *metrics.Metrics
	Log         logger.Logger
}

type Assistant struct {
	deps Deps
}

func NewAssistant(deps Deps) *Assistant {
	if deps.CacheTTL <= 0 {
		deps.CacheTTL = cache.DefaultTTL
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewNoOpCache()
	}
	return &Assistant{deps: deps}
}

// Chat resolves one utterance end to end and always returns a well-formed
// envelope; provider failures surface as apologetic envelopes, not errors.
func (a *Assistant) Chat(ctx context.Context, query string, convCtx intent.Context) (formatter.Envelope, error) {
	resolved, spec, err := a.deps.Router.Route(query, convCtx)
	a.countRequest(resolved)

	if errors.Is(err, intent.ErrMissingLocation) {
		return a.deps.Formatter.SuggestionEnvelope(rePrompt(resolved), false), nil
	}
	if err != nil {
		return formatter.Envelope{}, err
	}

	var env formatter.Envelope
	var resultCount int
	switch spec.Provider {
	case intent.ProviderFlights:
		env, resultCount = a.handleFlights(ctx, spec)
	case intent.ProviderHotels:
		env, resultCount = a.handleHotels(ctx, spec)
	case intent.ProviderWeather:
		env = a.handleWeather(ctx, query, resolved, spec)
		if env.Data != nil {
			resultCount = 1
		}
	default:
		env = a.handleSuggestion(ctx, query, resolved, spec)
	}

	a.appendHistory(ctx, query, resolved, spec.Location, resultCount)
	return env, nil
}

// History exposes recent searches for the history endpoint.
func (a *Assistant) History(ctx context.Context, limit int) ([]history.Record, error) {
	if a.deps.History == nil {
		return []history.Record{}, nil
	}
	return a.deps.History.Recent(ctx, limit)
}

func (a *Assistant) handleFlights(ctx context.Context, spec intent.CallSpec) (formatter.Envelope, int) {
	f := a.deps.Formatter
	if a.deps.Flights == nil {
		a.deps.Log.Warn("flight search requested but no provider configured")
		return f.FlightEnvelope(nil, spec.Origin, spec.Destination), 0
	}

	start := time.Now()
	raw, err := a.deps.Flights.SearchFlights(ctx, providers.FlightQuery{
		Origin:        spec.Origin,
		Destination:   spec.Destination,
		DepartureDate: spec.StartDate,
		ReturnDate:    spec.EndDate,
		Adults:        spec.Adults,
	})
	a.observeProvider("flights", start, err)
	if err != nil {
		a.deps.Log.Error("flight search failed", "origin", spec.Origin, "destination", spec.Destination, "error", err)
		return f.FlightEnvelope(nil, spec.Origin, spec.Destination), 0
	}

	offers := f.NormalizeFlights(raw)
	if len(offers) == 0 && a.deps.Advisor != nil {
		synthetic, err := a.deps.Advisor.SyntheticFlights(ctx, spec.Origin, spec.Destination, spec.StartDate, "", 3)
		if err != nil {
			a.deps.Log.Warn("synthetic flight generation failed", "error", err)
		} else {
			// Synthetic records are emitted but never persisted.
			for i := range synthetic {
				f.ApplyFlightDefaults(&synthetic[i])
			}
			return f.FlightEnvelope(synthetic, spec.Origin, spec.Destination), len(synthetic)
		}
	}

	for i := range offers {
		if a.deps.Advisor != nil && a.deps.Advisor.EnhanceFlight(ctx, &offers[i]) {
			a.countEnhanced()
		}
		f.ApplyFlightDefaults(&offers[i])
	}

	a.persistFlights(ctx, offers)
	return f.FlightEnvelope(offers, spec.Origin, spec.Destination), len(offers)
}

func (a *Assistant) handleHotels(ctx context.Context, spec intent.CallSpec) (formatter.Envelope, int) {
	f := a.deps.Formatter
	if a.deps.Hotels == nil {
		a.deps.Log.Warn("hotel search requested but no provider configured")
		return f.HotelEnvelope(nil, spec.Location), 0
	}

	start := time.Now()
	result, err := a.deps.Hotels.SearchHotels(ctx, providers.HotelQuery{
		CityCode: spec.Location,
		CheckIn:  spec.StartDate,
		CheckOut: spec.EndDate,
		Adults:   spec.Adults,
	})
	a.observeProvider("hotels", start, err)
	if err != nil {
		a.deps.Log.Error("hotel search failed", "city", spec.Location, "error", err)
		return f.HotelEnvelope(nil, spec.Location), 0
	}

	listings := f.NormalizeHotels(result, spec.Location, nightsBetween(spec.StartDate, spec.EndDate))
	listings = filterByBudget(listings, spec.Budget)
	for i := range listings {
		if a.deps.Advisor != nil && a.deps.Advisor.EnhanceHotel(ctx, &listings[i]) {
			a.countEnhanced()
		}
	}

	a.persistHotels(ctx, listings)
	return f.HotelEnvelope(listings, spec.Location), len(listings)
}

func (a *Assistant) handleWeather(ctx context.Context, query string, resolved intent.Type, spec intent.CallSpec) formatter.Envelope {
	f := a.deps.Formatter
	fp := cache.NewFingerprint(query, string(resolved), spec.Location)
	if env, ok := a.cachedEnvelope(ctx, fp); ok {
		return env
	}

	if a.deps.Weather == nil {
		a.deps.Log.Warn("weather requested but no provider configured")
		return f.WeatherErrorEnvelope(spec.Location)
	}

	start := time.Now()
	report, err := a.deps.Weather.Lookup(ctx, spec.Location)
	a.observeProvider("weather", start, err)
	if err != nil {
		a.deps.Log.Error("weather lookup failed", "city", spec.Location, "error", err)
		return f.WeatherErrorEnvelope(spec.Location)
	}

	env := f.WeatherEnvelope(report)
	a.storeEnvelope(ctx, fp, env)
	return env
}

// handleSuggestion serves every informational intent: web search context plus
// an optional places lookup feed the advisor, which writes the reply.
func (a *Assistant) handleSuggestion(ctx context.Context, query string, resolved intent.Type, spec intent.CallSpec) formatter.Envelope {
	f := a.deps.Formatter
	fp := cache.NewFingerprint(query, string(resolved), spec.Location)
	if env, ok := a.cachedEnvelope(ctx, fp); ok {
		return env
	}

	var searchResult *providers.WebSearchResult
	if a.deps.WebSearch != nil {
		start := time.Now()
		res, err := a.deps.WebSearch.Search(ctx, spec.Query)
		a.observeProvider("websearch", start, err)
		if err != nil {
			a.deps.Log.Warn("web search failed", "query", spec.Query, "error", err)
		} else {
			searchResult = res
		}
	}

	var places []maps.Place
	if a.deps.Places != nil && spec.PlaceCategory != "" && spec.Location != "" {
		start := time.Now()
		res, err := a.deps.Places.SearchCity(ctx, spec.Location, spec.PlaceCategory, 5)
		a.observeProvider("places", start, err)
		if err != nil {
			a.deps.Log.Warn("places lookup failed", "city", spec.Location, "error", err)
		} else {
			places = res
		}
	}

	if a.deps.Advisor != nil {
		text, err := a.deps.Advisor.Suggest(ctx, suggestionPrompt(query, searchResult, places))
		if err == nil && text != "" {
			env := f.SuggestionEnvelope(text, true)
			a.storeEnvelope(ctx, fp, env)
			return env
		}
		a.deps.Log.Warn("advisor suggestion failed", "error", err)
	}

	// No model available: summarize the raw search results directly.
	if text := summarizeSearch(searchResult, places); text != "" {
		env := f.SuggestionEnvelope(text, false)
		a.storeEnvelope(ctx, fp, env)
		return env
	}
	return f.SuggestionEnvelope(
		"Sorry, I couldn't find anything useful for that. Could you rephrase your question?", false)
}

func (a *Assistant) persistFlights(ctx context.Context, offers []flight.Offer) {
	if a.deps.FlightStore == nil || len(offers) == 0 {
		return
	}
	saved, err := a.deps.FlightStore.SaveBatch(ctx, offers)
	if err != nil {
		a.deps.Log.Error("flight batch save failed", "error", err)
		return
	}
	a.countPersisted(saved, len(offers)-saved)
}

func (a *Assistant) persistHotels(ctx context.Context, listings []hotel.Listing) {
	if a.deps.HotelStore == nil || len(listings) == 0 {
		return
	}
	saved, err := a.deps.HotelStore.SaveBatch(ctx, listings)
	if err != nil {
		a.deps.Log.Error("hotel batch save failed", "error", err)
		return
	}
	a.countPersisted(saved, len(listings)-saved)
}

func (a *Assistant) appendHistory(ctx context.Context, query string, resolved intent.Type, location string, resultCount int) {
	if a.deps.History == nil {
		return
	}
	rec := history.Record{
		Query:       query,
		Intent:      string(resolved),
		Location:    location,
		ResultCount: resultCount,
		CreatedAt:   time.Now().UTC(),
	}
	if err := a.deps.History.Append(ctx, rec); err != nil {
		a.deps.Log.Error("history append failed", "error", err)
	}
}

// cachedEnvelope round-trips an envelope through the fingerprint cache.
// Data survives as raw JSON, which re-marshals byte for byte.
func (a *Assistant) cachedEnvelope(ctx context.Context, fp cache.Fingerprint) (formatter.Envelope, bool) {
	payload, ok := a.deps.Cache.Get(ctx, fp)
	if !ok {
		a.countCache(false)
		return formatter.Envelope{}, false
	}

	var cached struct {
		Action  formatter.Action `json:"action"`
		Content string           `json:"content"`
		Data    json.RawMessage  `json:"data"`
	}
	if err := json.Unmarshal(payload, &cached); err != nil {
		a.countCache(false)
		return formatter.Envelope{}, false
	}
	a.countCache(true)

	env := formatter.Envelope{Action: cached.Action, Content: cached.Content}
	if len(cached.Data) > 0 && string(cached.Data) != "null" {
		env.Data = cached.Data
	}
	return env, true
}

func (a *Assistant) storeEnvelope(ctx context.Context, fp cache.Fingerprint, env formatter.Envelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		return
	}
	if err := a.deps.Cache.Set(ctx, fp, payload, a.deps.CacheTTL); err != nil {
		a.deps.Log.Warn("cache write failed", "error", err)
	}
}

func (a *Assistant) observeProvider(provider string, start time.Time, err error) {
	m := a.deps.Metrics
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(provider).Inc()
	m.ProviderLatency.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	if err != nil {
		kind := "unknown"
		var perr *providers.Error
		if errors.As(err, &perr) {
			kind = perr.Kind.String()
		}
		m.ProviderFailures.WithLabelValues(provider, kind).Inc()
	}
}

func (a *Assistant) countRequest(resolved intent.Type) {
	if a.deps.Metrics != nil {
		a.deps.Metrics.RequestsTotal.WithLabelValues(string(resolved)).Inc()
	}
}

func (a *Assistant) countEnhanced() {
	if a.deps.Metrics != nil {
		a.deps.Metrics.RecordsEnhanced.Inc()
	}
}

func (a *Assistant) countPersisted(saved, skipped int) {
	if a.deps.Metrics == nil {
		return
	}
	a.deps.Metrics.RecordsPersisted.Add(float64(saved))
	if skipped > 0 {
		a.deps.Metrics.DuplicatesSkipped.Add(float64(skipped))
	}
}

func (a *Assistant) countCache(hit bool) {
	if a.deps.Metrics == nil {
		return
	}
	if hit {
		a.deps.Metrics.CacheHits.Inc()
	} else {
		a.deps.Metrics.CacheMisses.Inc()
	}
}

// rePrompt asks the user for the one thing routing could not determine.
func rePrompt(resolved intent.Type) string {
	switch resolved {
	case intent.Flights:
		return "I'd love to find flights for you. Where are you flying from, and where to?"
	case intent.Hotels:
		return "I can look up hotels for you. Which city are you staying in?"
	case intent.Weather:
		return "Which city's weather would you like to know?"
	default:
		return "Could you tell me which destination you have in mind?"
	}
}

// filterByBudget drops listings priced above the stated nightly ceiling.
// Unpriced listings survive: an unknown price is not a known-too-expensive one.
func filterByBudget(listings []hotel.Listing, budget float64) []hotel.Listing {
	if budget <= 0 {
		return listings
	}
	kept := listings[:0]
	for _, l := range listings {
		if l.Price == 0 || l.Price <= budget {
			kept = append(kept, l)
		}
	}
	return kept
}

func nightsBetween(checkIn, checkOut string) int {
	in, err1 := time.Parse("2006-01-02", checkIn)
	out, err2 := time.Parse("2006-01-02", checkOut)
	if err1 != nil || err2 != nil {
		return 1
	}
	nights := int(out.Sub(in).Hours() / 24)
	if nights < 1 {
		return 1
	}
	return nights
}

func suggestionPrompt(query string, search *providers.WebSearchResult, places []maps.Place) string {
	var b strings.Builder
	b.WriteString(query)

	if search != nil {
		if kg := search.KnowledgeGraph; kg != nil && kg.Description != "" {
			fmt.Fprintf(&b, "\n\nBackground: %s", kg.Description)
		}
		if len(search.Organic) > 0 {
			b.WriteString("\n\nWeb search findings:")
			for i, r := range search.Organic {
				if i >= 5 {
					break
				}
				fmt.Fprintf(&b, "\n- %s: %s", r.Title, r.Snippet)
			}
		}
	}
	if len(places) > 0 {
		b.WriteString("\n\nHighly rated places:")
		for _, p := range places {
			fmt.Fprintf(&b, "\n- %s (%.1f stars, %d reviews), %s", p.Name, p.Rating, p.UserRatingsTotal, p.Address)
		}
	}
	return b.String()
}

// summarizeSearch is the no-model fallback: raw findings, plainly listed.
func summarizeSearch(search *providers.WebSearchResult, places []maps.Place) string {
	var parts []string
	if search != nil {
		if kg := search.KnowledgeGraph; kg != nil && kg.Description != "" {
			parts = append(parts, kg.Description)
		}
		for i, r := range search.Organic {
			if i >= 3 {
				break
			}
			parts = append(parts, fmt.Sprintf("%s: %s", r.Title, r.Snippet))
		}
	}
	for _, p := range places {
		parts = append(parts, fmt.Sprintf("%s (%.1f stars), %s", p.Name, p.Rating, p.Address))
	}
	return strings.Join(parts, "\n\n")
}
