package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"wayfare/internal/modules/flight"
	"wayfare/internal/providers"
	"wayfare/pkg/logger"
)

// Formatter maps raw provider result sets to uniform response envelopes.
// The four action paths share no mutable state.
type Formatter struct {
	log logger.Logger
}

func New(log logger.Logger) *Formatter {
	return &Formatter{log: log}
}

type cabinDefaults struct {
	checkedBags int
	cabinBags   int
	amenities   []string
}

// cabinTiers is the three-tier default table keyed by cabin class alone.
// Unknown cabins fall through to the economy tier.
var cabinTiers = map[string]cabinDefaults{
	"FIRST": {
		checkedBags: 3,
		cabinBags:   2,
		amenities:   []string{"Priority boarding", "Lounge access", "Lie-flat seat", "Premium dining", "Amenity kit"},
	},
	"BUSINESS": {
		checkedBags: 3,
		cabinBags:   2,
		amenities:   []string{"Priority boarding", "Lounge access", "Extra legroom", "Premium meal"},
	},
	"ECONOMY": {
		checkedBags: 2,
		cabinBags:   1,
		amenities:   []string{"Seat selection", "In-flight snacks"},
	},
}

func tierFor(cabin string) cabinDefaults {
	switch strings.ToUpper(cabin) {
	case "FIRST":
		return cabinTiers["FIRST"]
	case "BUSINESS":
		return cabinTiers["BUSINESS"]
	default:
		return cabinTiers["ECONOMY"]
	}
}

// NormalizeFlights converts raw offers into the emitted shape, cheapest
// first. Offers missing their identity or route are logged and skipped;
// one bad record never fails the batch.
func (f *Formatter) NormalizeFlights(raw []providers.FlightOffer) []flight.Offer {
	offers := make([]flight.Offer, 0, len(raw))
	for _, r := range raw {
		o, err := normalizeFlight(r)
		if err != nil {
			f.log.Warn("skipping invalid flight offer", "id", r.ID, "error", err)
			continue
		}
		offers = append(offers, o)
	}

	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].TotalPrice < offers[j].TotalPrice
	})
	return offers
}

func normalizeFlight(r providers.FlightOffer) (flight.Offer, error) {
	if r.ID == "" {
		return flight.Offer{}, fmt.Errorf("offer has no id")
	}
	if len(r.Itineraries) == 0 || len(r.Itineraries[0].Segments) == 0 {
		return flight.Offer{}, fmt.Errorf("offer has no segments")
	}

	it := r.Itineraries[0]
	first := it.Segments[0]
	last := it.Segments[len(it.Segments)-1]

	o := flight.Offer{
		ID:                    r.ID,
		DepartureIATA:         first.Departure.IataCode,
		ArrivalIATA:           last.Arrival.IataCode,
		DepartureTime:         first.Departure.At,
		ArrivalTime:           last.Arrival.At,
		Duration:              FormatDuration(it.Duration),
		Stops:                 len(it.Segments) - 1,
		CarrierCode:           first.CarrierCode,
		FlightNumber:          first.Number,
		AircraftCode:          first.Aircraft.Code,
		Currency:              r.Price.Currency,
		TotalPrice:            parsePrice(r.Price.Total),
		BasePrice:             parsePrice(r.Price.Base),
		GrandTotal:            parsePrice(r.Price.GrandTotal),
		NumberOfBookableSeats: r.NumberOfBookableSeats,
		LastTicketingDate:     r.LastTicketingDate,
	}

	opCode := first.Operating.CarrierCode
	if opCode == "" {
		opCode = first.CarrierCode
	}
	o.OperatingCarrier = CarrierName(opCode)

	// Cabin class comes from the first traveler pricing's first fare detail.
	if len(r.TravelerPricings) > 0 && len(r.TravelerPricings[0].FareDetailsBySegment) > 0 {
		fd := r.TravelerPricings[0].FareDetailsBySegment[0]
		o.CabinClass = fd.Cabin
		if fd.IncludedCheckedBags != nil {
			o.IncludedCheckedBags = fd.IncludedCheckedBags.Quantity
		} else {
			o.Missing = append(o.Missing, "included_checked_bags")
		}
		if fd.IncludedCabinBags != nil {
			o.IncludedCabinBags = fd.IncludedCabinBags.Quantity
		} else {
			o.Missing = append(o.Missing, "included_cabin_bags")
		}
		o.Amenities = lo.Map(fd.Amenities, func(a providers.Amenity, _ int) string {
			return a.Description
		})
	} else {
		o.Missing = append(o.Missing, "cabin_class", "included_checked_bags", "included_cabin_bags")
	}

	// An absent field decodes to its zero value; the distinction between
	// absent and legitimately zero is drawn here, once, at the boundary.
	if o.AircraftCode == "" {
		o.Missing = append(o.Missing, "aircraft_code")
	}
	if len(o.Amenities) == 0 {
		o.Missing = append(o.Missing, "amenities")
	}
	return o, nil
}

// ApplyFlightDefaults fills any field still marked missing after
// enhancement. Baggage and amenity defaults are a pure function of cabin
// class only.
func (f *Formatter) ApplyFlightDefaults(o *flight.Offer) {
	if o.CabinClass == "" {
		o.CabinClass = "ECONOMY"
	}
	tier := tierFor(o.CabinClass)

	if hasMissing(o.Missing, "included_checked_bags") {
		o.IncludedCheckedBags = tier.checkedBags
	}
	if hasMissing(o.Missing, "included_cabin_bags") {
		o.IncludedCabinBags = tier.cabinBags
	}
	if hasMissing(o.Missing, "amenities") && len(o.Amenities) == 0 {
		o.Amenities = append([]string(nil), tier.amenities...)
	}
}

func hasMissing(missing []string, name string) bool {
	return lo.Contains(missing, name)
}

// FlightEnvelope renders the search_flights path. An empty result set gets
// an apologetic content string and an empty data list, never null.
func (f *Formatter) FlightEnvelope(offers []flight.Offer, origin, destination string) Envelope {
	if len(offers) == 0 {
		return Envelope{
			Action:  ActionSearchFlights,
			Content: "Sorry, no matching flights found.",
			Data:    []flight.Offer{},
		}
	}

	content := fmt.Sprintf("Found %d flights from %s to %s.", len(offers), origin, destination)
	if enhanced := lo.CountBy(offers, func(o flight.Offer) bool { return o.AIEnhanced }); enhanced > 0 {
		content += fmt.Sprintf(" %d of them include AI-generated details.", enhanced)
	}
	return Envelope{Action: ActionSearchFlights, Content: content, Data: offers}
}

func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
