// README: Hotel listing model merging base attributes, offer price, and sentiment rating.
package hotel

// Listing is the aggregate record the UI consumes: one per hotel id, merging
// base attributes, the first matching offer, and the first matching
// sentiment (rescaled to a 0-5 display rating).
type Listing struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Location   string   `json:"location"`
	Rating     float64  `json:"rating"`
	Desc       string   `json:"desc"`
	Price      float64  `json:"price"`
	Nights     int      `json:"nights"`
	TotalPrice float64  `json:"total_price"`
	Amenities  []string `json:"amenities"`
	AIEnhanced bool     `json:"_ai_enhanced,omitempty"`

	Missing []string `json:"-"`
}
