// README: Flight offer store backed by PostgreSQL.
package flight

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"wayfare/pkg/logger"
)

type Store struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewStore(db *pgxpool.Pool, log logger.Logger) *Store {
	return &Store{db: db, log: log}
}

// SaveBatch inserts offers, skipping ids that already exist. A failing record
// is skipped and logged; it never aborts its siblings. Returns how many rows
// were actually inserted.
func (s *Store) SaveBatch(ctx context.Context, offers []Offer) (int, error) {
	saved := 0
	for _, o := range offers {
		tag, err := s.db.Exec(ctx, `
			INSERT INTO flight_offers (
				id, departure_iata, arrival_iata, departure_time, arrival_time,
				duration, stops, carrier_code, flight_number, aircraft_code,
				operating_carrier, cabin_class, currency, total_price, base_price,
				grand_total, bookable_seats, last_ticketing_date,
				checked_bags, cabin_bags, amenities, ai_enhanced, ai_fields
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
				$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23
			)
			ON CONFLICT (id) DO NOTHING`,
			o.ID, o.DepartureIATA, o.ArrivalIATA, o.DepartureTime, o.ArrivalTime,
			o.Duration, o.Stops, o.CarrierCode, o.FlightNumber, o.AircraftCode,
			o.OperatingCarrier, o.CabinClass, o.Currency, o.TotalPrice, o.BasePrice,
			o.GrandTotal, o.NumberOfBookableSeats, o.LastTicketingDate,
			o.IncludedCheckedBags, o.IncludedCabinBags, o.Amenities, o.AIEnhanced, o.AIFields,
		)
		if err != nil {
			s.log.Error("flight offer insert failed", "id", o.ID, "error", err)
			continue
		}
		saved += int(tag.RowsAffected())
	}
	return saved, nil
}
