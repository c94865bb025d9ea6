package formatter

import (
	"testing"

	"wayfare/internal/modules/hotel"
	"wayfare/internal/providers"
	"wayfare/pkg/logger"
)

func TestRescaleRating(t *testing.T) {
	tests := []struct {
		overall int
		want    float64
	}{
		{80, 4.0},
		{0, 0.0},
		{100, 5.0},
		{73, 3.7},
		{85, 4.3},
	}
	for _, tt := range tests {
		if got := RescaleRating(tt.overall); got != tt.want {
			t.Errorf("RescaleRating(%d) = %v, want %v", tt.overall, got, tt.want)
		}
	}
}

func hotelFixture(id, name string) providers.Hotel {
	var h providers.Hotel
	h.HotelID = id
	h.Name = name
	h.Address.CityName = "Paris"
	return h
}

func offerFixture(hotelID, total string) providers.HotelOffer {
	var o providers.HotelOffer
	o.ID = "offer-" + hotelID
	o.HotelID = hotelID
	o.Price.Currency = "EUR"
	o.Price.Total = total
	o.Room.Description.Text = "Double room with city view"
	return o
}

func TestNormalizeHotels(t *testing.T) {
	f := New(logger.NewNop())

	result := &providers.HotelSearchResult{
		Hotels: []providers.Hotel{
			hotelFixture("h1", "Grand Hotel"),
			hotelFixture("h2", "Budget Inn"),
			hotelFixture("h3", "No Data Lodge"),
		},
		Offers: []providers.HotelOffer{
			offerFixture("h1", "600.00"),
			offerFixture("h2", "300.00"),
		},
		Sentiments: []providers.HotelSentiment{
			{HotelID: "h1", OverallRating: 80},
		},
	}

	listings := f.NormalizeHotels(result, "PAR", 3)
	if len(listings) != 3 {
		t.Fatalf("got %d listings, want every hotel exactly once", len(listings))
	}

	// Priced hotels come first, cheapest leading; the unmatched one sorts last.
	if listings[0].ID != "h2" || listings[1].ID != "h1" || listings[2].ID != "h3" {
		t.Errorf("order = %s, %s, %s", listings[0].ID, listings[1].ID, listings[2].ID)
	}

	grand := listings[1]
	if grand.Price != 200.00 {
		t.Errorf("nightly price = %v, want 600/3 nights", grand.Price)
	}
	if grand.TotalPrice != 600.00 {
		t.Errorf("total price = %v", grand.TotalPrice)
	}
	if grand.Rating != 4.0 {
		t.Errorf("rating = %v, want rescaled 4.0", grand.Rating)
	}
	if grand.Desc == "" {
		t.Error("desc should come from the offer room description")
	}
	if grand.Location != "Paris" {
		t.Errorf("location = %q", grand.Location)
	}

	bare := listings[2]
	if bare.Price != 0 || bare.Rating != 0 {
		t.Errorf("unmatched hotel should keep zero price and rating, got %v / %v", bare.Price, bare.Rating)
	}
	if !hasMissing(bare.Missing, "desc") {
		t.Error("unmatched hotel should mark desc missing")
	}
	if bare.Amenities == nil {
		t.Error("amenities must be an empty list, not null")
	}
}

func TestHotelEnvelope(t *testing.T) {
	f := New(logger.NewNop())

	empty := f.HotelEnvelope(nil, "PAR")
	if empty.Content != "Sorry, no matching hotels found." {
		t.Errorf("empty content = %q", empty.Content)
	}
	if data, ok := empty.Data.([]hotel.Listing); !ok || len(data) != 0 {
		t.Errorf("empty data = %#v", empty.Data)
	}

	env := f.HotelEnvelope([]hotel.Listing{{ID: "h1", AIEnhanced: true}}, "PAR")
	if env.Action != ActionSearchHotels {
		t.Errorf("action = %q", env.Action)
	}
	if env.Content != "Found 1 hotels in PAR. 1 of them include AI-generated details." {
		t.Errorf("content = %q", env.Content)
	}
}
