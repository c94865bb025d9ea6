// README: Fills provider gaps with model-generated values, clearly tagged.
package enhancer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"wayfare/internal/ai"
	"wayfare/internal/modules/flight"
	"wayfare/internal/modules/hotel"
	"wayfare/pkg/logger"
)

const (
	// Factual gap-filling must stay conservative; free-form suggestion
	// text can roam.
	factualTemperature  = 0.2
	creativeTemperature = 0.8

	gapFillMaxTokens    = 512
	suggestionMaxTokens = 1024
)

// Enhancer asks a language model to fill fields the provider left absent.
// Every failure is swallowed: an enhancement that does not happen leaves
// the record exactly as it arrived, and the defaults layer covers the rest.
type Enhancer struct {
	ai  ai.Client
	log logger.Logger
}

func New(client ai.Client, log logger.Logger) *Enhancer {
	return &Enhancer{ai: client, log: log}
}

type flightPatch struct {
	AircraftCode        string   `json:"aircraft_code"`
	IncludedCheckedBags *int     `json:"included_checked_bags"`
	IncludedCabinBags   *int     `json:"included_cabin_bags"`
	Amenities           []string `json:"amenities"`
}

// EnhanceFlight fills the offer's missing fields in place and reports
// whether anything was filled. Filled field names land in AIFields and the
// record is tagged enhanced; fields the model declined stay missing so the
// defaults layer can finish the job.
func (e *Enhancer) EnhanceFlight(ctx context.Context, o *flight.Offer) bool {
	if e == nil || len(o.Missing) == 0 {
		return false
	}

	prompt := flightPrompt(o)
	raw, err := e.ai.Complete(ctx, prompt, ai.CompleteOptions{
		Temperature: factualTemperature,
		MaxTokens:   gapFillMaxTokens,
	})
	if err != nil {
		e.log.Warn("flight enhancement skipped", "offer_id", o.ID, "error", err)
		return false
	}

	var patch flightPatch
	if err := decodeFirstJSON(raw, &patch); err != nil {
		e.log.Warn("flight enhancement unparseable", "offer_id", o.ID, "error", err)
		return false
	}

	var filled []string
	if hasMissing(o.Missing, "aircraft_code") && patch.AircraftCode != "" {
		o.AircraftCode = patch.AircraftCode
		filled = append(filled, "aircraft_code")
	}
	if hasMissing(o.Missing, "included_checked_bags") && patch.IncludedCheckedBags != nil && *patch.IncludedCheckedBags >= 0 {
		o.IncludedCheckedBags = *patch.IncludedCheckedBags
		filled = append(filled, "included_checked_bags")
	}
	if hasMissing(o.Missing, "included_cabin_bags") && patch.IncludedCabinBags != nil && *patch.IncludedCabinBags >= 0 {
		o.IncludedCabinBags = *patch.IncludedCabinBags
		filled = append(filled, "included_cabin_bags")
	}
	if hasMissing(o.Missing, "amenities") && len(patch.Amenities) > 0 {
		o.Amenities = patch.Amenities
		filled = append(filled, "amenities")
	}

	if len(filled) == 0 {
		return false
	}
	o.AIEnhanced = true
	o.AIFields = append(o.AIFields, filled...)
	o.Missing = lo.Without(o.Missing, filled...)
	return true
}

// EnhanceHotel fills only the description. Ratings and prices are never
// invented.
func (e *Enhancer) EnhanceHotel(ctx context.Context, l *hotel.Listing) bool {
	if e == nil || !hasMissing(l.Missing, "desc") {
		return false
	}

	prompt := fmt.Sprintf(
		"Write a two-sentence factual hotel description for %q in %s. "+
			"Do not mention prices or ratings. Reply with JSON only: {\"desc\": \"...\"}",
		l.Name, l.Location)
	raw, err := e.ai.Complete(ctx, prompt, ai.CompleteOptions{
		Temperature: factualTemperature,
		MaxTokens:   gapFillMaxTokens,
	})
	if err != nil {
		e.log.Warn("hotel enhancement skipped", "hotel_id", l.ID, "error", err)
		return false
	}

	var patch struct {
		Desc string `json:"desc"`
	}
	if err := decodeFirstJSON(raw, &patch); err != nil || patch.Desc == "" {
		e.log.Warn("hotel enhancement unparseable", "hotel_id", l.ID, "error", err)
		return false
	}

	l.Desc = patch.Desc
	l.AIEnhanced = true
	l.Missing = lo.Without(l.Missing, "desc")
	return true
}

// Suggest produces free-form travel advice for utterances no provider
// handles.
func (e *Enhancer) Suggest(ctx context.Context, query string) (string, error) {
	prompt := fmt.Sprintf(
		"You are a concise travel-planning assistant. Answer the traveler's "+
			"question in at most four short paragraphs, with concrete "+
			"recommendations.\n\nQuestion: %s", query)
	return e.ai.Complete(ctx, prompt, ai.CompleteOptions{
		Temperature: creativeTemperature,
		MaxTokens:   suggestionMaxTokens,
	})
}

// SyntheticFlights generates plausible stand-in offers when a live search
// came back empty. Every field is model-generated, so the whole record is
// tagged and the records are never persisted.
func (e *Enhancer) SyntheticFlights(ctx context.Context, origin, destination, date, cabin string, count int) ([]flight.Offer, error) {
	if count <= 0 {
		count = 3
	}
	if cabin == "" {
		cabin = "ECONOMY"
	}

	prompt := fmt.Sprintf(
		"Generate %d plausible %s-class flight options from %s to %s on %s. "+
			"Reply with a JSON array only; each element has keys carrier_code "+
			"(IATA two-letter), flight_number, departure_time and arrival_time "+
			"(RFC 3339), duration (like \"7h 30m\"), stops, total_price, currency.",
		count, strings.ToLower(cabin), origin, destination, date)
	raw, err := e.ai.Complete(ctx, prompt, ai.CompleteOptions{
		Temperature: factualTemperature,
		MaxTokens:   suggestionMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	var items []struct {
		CarrierCode   string  `json:"carrier_code"`
		FlightNumber  string  `json:"flight_number"`
		DepartureTime string  `json:"departure_time"`
		ArrivalTime   string  `json:"arrival_time"`
		Duration      string  `json:"duration"`
		Stops         int     `json:"stops"`
		TotalPrice    float64 `json:"total_price"`
		Currency      string  `json:"currency"`
	}
	if err := decodeFirstJSONArray(raw, &items); err != nil {
		return nil, err
	}

	offers := make([]flight.Offer, 0, len(items))
	for i, it := range items {
		if it.CarrierCode == "" || it.TotalPrice <= 0 {
			continue
		}
		offers = append(offers, flight.Offer{
			ID:            fmt.Sprintf("synthetic-%s-%s-%d", origin, destination, i+1),
			DepartureIATA: origin,
			ArrivalIATA:   destination,
			DepartureTime: it.DepartureTime,
			ArrivalTime:   it.ArrivalTime,
			Duration:      it.Duration,
			Stops:         it.Stops,
			CarrierCode:   it.CarrierCode,
			FlightNumber:  it.FlightNumber,
			CabinClass:    strings.ToUpper(cabin),
			Currency:      it.Currency,
			TotalPrice:    it.TotalPrice,
			GrandTotal:    it.TotalPrice,
			AIEnhanced:    true,
			AIFields:      []string{"synthetic"},
			Missing:       []string{"aircraft_code", "included_checked_bags", "included_cabin_bags", "amenities"},
		})
	}
	return offers, nil
}

func flightPrompt(o *flight.Offer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A flight search result is missing fields: %s.\n", strings.Join(o.Missing, ", "))
	fmt.Fprintf(&b, "Flight %s%s from %s to %s, cabin class %s.\n",
		o.CarrierCode, o.FlightNumber, o.DepartureIATA, o.ArrivalIATA, o.CabinClass)
	b.WriteString("Use typical airline conventions: economy fares include 1-2 checked bags, ")
	b.WriteString("business and first fares include 2-3. ")
	b.WriteString("Reply with JSON only, keys aircraft_code, included_checked_bags, ")
	b.WriteString("included_cabin_bags, amenities. Omit keys you cannot infer.")
	return b.String()
}

// decodeFirstJSON extracts the first balanced JSON object from model output,
// which routinely arrives wrapped in prose or markdown fences.
func decodeFirstJSON(raw string, v interface{}) error {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return fmt.Errorf("no JSON object in model output")
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return json.Unmarshal([]byte(raw[start:i+1]), v)
			}
		}
	}
	return fmt.Errorf("unterminated JSON object in model output")
}

func decodeFirstJSONArray(raw string, v interface{}) error {
	start := strings.IndexByte(raw, '[')
	end := strings.LastIndexByte(raw, ']')
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON array in model output")
	}
	return json.Unmarshal([]byte(raw[start:end+1]), v)
}

func hasMissing(missing []string, name string) bool {
	return lo.Contains(missing, name)
}
