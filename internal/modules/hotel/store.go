// README: Hotel listing store backed by PostgreSQL.
package hotel

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

// SaveBatch inserts listings keyed by provider hotel id. Duplicates are
// skipped, failing records logged and skipped. Returns the inserted count.
func (s *Store) SaveBatch(ctx context.Context, listings []Listing) (int, error) {
	saved := 0
	for _, l := range listings {
		tag, err := s.db.Exec(ctx, `
			INSERT INTO hotel_listings (
				id, name, location, rating, description, price, nights,
				total_price, amenities, ai_enhanced
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO NOTHING`,
			l.ID, l.Name, l.Location, l.Rating, l.Desc, l.Price, l.Nights,
			l.TotalPrice, l.Amenities, l.AIEnhanced,
		)
		if err != nil {
			s.log.Error("hotel listing insert failed", "id", l.ID, "error", err)
			continue
		}
		saved += int(tag.RowsAffected())
	}
	return saved, nil
}
