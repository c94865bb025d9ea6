package formatter

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/samber/lo"

	"wayfare/internal/modules/hotel"
	"wayfare/internal/providers"
)

// NormalizeHotels joins the hotel list with its offer and sentiment sets by
// hotel id. Every listed hotel appears exactly once in the output; a hotel
// with no matching offer keeps a zero price, and one with no sentiment keeps
// a zero rating.
func (f *Formatter) NormalizeHotels(result *providers.HotelSearchResult, city string, nights int) []hotel.Listing {
	if nights <= 0 {
		nights = 1
	}

	listings := make([]hotel.Listing, 0, len(result.Hotels))
	for _, h := range result.Hotels {
		l := hotel.Listing{
			ID:       h.HotelID,
			Name:     h.Name,
			Location: city,
			Nights:   nights,
		}
		if h.Address.CityName != "" {
			l.Location = h.Address.CityName
		}

		if offer, ok := lo.Find(result.Offers, func(o providers.HotelOffer) bool {
			return o.HotelID == h.HotelID
		}); ok {
			l.Price = parseNightlyPrice(offer.Price.Total, nights)
			l.Desc = offer.Room.Description.Text
		}

		if sentiment, ok := lo.Find(result.Sentiments, func(s providers.HotelSentiment) bool {
			return s.HotelID == h.HotelID
		}); ok {
			l.Rating = RescaleRating(sentiment.OverallRating)
		}

		l.TotalPrice = roundMoney(l.Price * float64(nights))
		if l.Desc == "" {
			l.Missing = append(l.Missing, "desc")
		}
		l.Amenities = []string{}
		listings = append(listings, l)
	}

	// Hotels without a price sort last rather than looking free.
	sort.SliceStable(listings, func(i, j int) bool {
		if listings[i].Price == 0 {
			return false
		}
		if listings[j].Price == 0 {
			return true
		}
		return listings[i].Price < listings[j].Price
	})
	return listings
}

// RescaleRating maps a provider score on a 0..100 scale to 0..5 with one
// decimal place, so 80 becomes 4.0.
func RescaleRating(overall int) float64 {
	return math.Round(float64(overall)/20.0*10) / 10
}

// HotelEnvelope renders the search_hotels path.
func (f *Formatter) HotelEnvelope(listings []hotel.Listing, city string) Envelope {
	if len(listings) == 0 {
		return Envelope{
			Action:  ActionSearchHotels,
			Content: "Sorry, no matching hotels found.",
			Data:    []hotel.Listing{},
		}
	}

	content := fmt.Sprintf("Found %d hotels in %s.", len(listings), city)
	if enhanced := lo.CountBy(listings, func(l hotel.Listing) bool { return l.AIEnhanced }); enhanced > 0 {
		content += fmt.Sprintf(" %d of them include AI-generated details.", enhanced)
	}
	return Envelope{Action: ActionSearchHotels, Content: content, Data: listings}
}

func parseNightlyPrice(total string, nights int) float64 {
	v, err := strconv.ParseFloat(total, 64)
	if err != nil || nights <= 0 {
		return 0
	}
	return roundMoney(v / float64(nights))
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
