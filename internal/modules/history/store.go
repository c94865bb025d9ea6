// README: Search history store backed by PostgreSQL (append-only).
package history

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, rec Record) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO search_history (query, intent, location, result_count, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		rec.Query, rec.Intent, rec.Location, rec.ResultCount, rec.CreatedAt,
	)
	return err
}

func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, query, intent, location, result_count, created_at
		FROM search_history
		ORDER BY id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var createdAt time.Time
		if err := rows.Scan(&r.ID, &r.Query, &r.Intent, &r.Location, &r.ResultCount, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt = createdAt
		records = append(records, r)
	}
	return records, rows.Err()
}
