// README: Flight offer model as emitted to the UI and persisted.
package flight

// Offer is one normalized flight result. Field names follow the envelope
// contract consumed by the UI.
type Offer struct {
	ID                    string   `json:"id"`
	DepartureIATA         string   `json:"departure_iata"`
	ArrivalIATA           string   `json:"arrival_iata"`
	DepartureTime         string   `json:"departure_time"`
	ArrivalTime           string   `json:"arrival_time"`
	Duration              string   `json:"duration"`
	Stops                 int      `json:"stops"`
	CarrierCode           string   `json:"carrier_code"`
	FlightNumber          string   `json:"flight_number"`
	AircraftCode          string   `json:"aircraft_code"`
	OperatingCarrier      string   `json:"operating_carrier"`
	CabinClass            string   `json:"cabin_class"`
	Currency              string   `json:"currency"`
	TotalPrice            float64  `json:"total_price"`
	BasePrice             float64  `json:"base_price"`
	GrandTotal            float64  `json:"grand_total"`
	NumberOfBookableSeats int      `json:"number_of_bookable_seats"`
	LastTicketingDate     string   `json:"last_ticketing_date"`
	IncludedCheckedBags   int      `json:"included_checked_bags"`
	IncludedCabinBags     int      `json:"included_cabin_bags"`
	Amenities             []string `json:"amenities"`
	AIEnhanced            bool     `json:"_ai_enhanced,omitempty"`
	AIFields              []string `json:"_ai_fields,omitempty"`

	// Missing lists field names the provider payload left absent, computed
	// at the gateway decode boundary. Consumed by the enhancer, never emitted.
	Missing []string `json:"-"`
}
