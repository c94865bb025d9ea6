package hotel

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"wayfare/pkg/logger"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("WAYFARE_TEST_DSN")
	if dsn == "" {
		t.Skip("WAYFARE_TEST_DSN not set; skipping DB-backed store tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS hotel_listings (
			id TEXT PRIMARY KEY,
			name TEXT,
			location TEXT,
			rating DOUBLE PRECISION,
			description TEXT,
			price DOUBLE PRECISION,
			nights INT,
			total_price DOUBLE PRECISION,
			amenities TEXT[],
			ai_enhanced BOOLEAN
		)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(ctx, "TRUNCATE TABLE hotel_listings"); err != nil {
		t.Fatalf("truncate table: %v", err)
	}

	return NewStore(db, logger.NewNop())
}

func testListing(id string) Listing {
	return Listing{
		ID:         id,
		Name:       "Grand Hotel",
		Location:   "Paris",
		Rating:     4.0,
		Price:      200.00,
		Nights:     3,
		TotalPrice: 600.00,
		Amenities:  []string{},
	}
}

func TestSaveBatch_Idempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	batch := []Listing{testListing("h1"), testListing("h2")}

	saved, err := s.SaveBatch(ctx, batch)
	if err != nil {
		t.Fatalf("SaveBatch() error = %v", err)
	}
	if saved != 2 {
		t.Errorf("first save = %d, want 2", saved)
	}

	saved, err = s.SaveBatch(ctx, batch)
	if err != nil {
		t.Fatalf("SaveBatch() error = %v", err)
	}
	if saved != 0 {
		t.Errorf("second save = %d, want duplicates skipped", saved)
	}

	var count int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM hotel_listings").Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 2 {
		t.Errorf("row count = %d, want one record per id", count)
	}
}
