package flight

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
		CREATE TABLE IF NOT EXISTS flight_offers (
			id TEXT PRIMARY KEY,
			departure_iata TEXT,
			arrival_iata TEXT,
			departure_time TEXT,
			arrival_time TEXT,
			duration TEXT,
			stops INT,
			carrier_code TEXT,
			flight_number TEXT,
			aircraft_code TEXT,
			operating_carrier TEXT,
			cabin_class TEXT,
			currency TEXT,
			total_price DOUBLE PRECISION,
			base_price DOUBLE PRECISION,
			grand_total DOUBLE PRECISION,
			bookable_seats INT,
			last_ticketing_date TEXT,
			checked_bags INT,
			cabin_bags INT,
			amenities TEXT[],
			ai_enhanced BOOLEAN,
			ai_fields TEXT[]
		)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(ctx, "TRUNCATE TABLE flight_offers"); err != nil {
		t.Fatalf("truncate table: %v", err)
	}

	return NewStore(db, logger.NewNop())
}

func testOffer(id string) Offer {
	return Offer{
		ID:            id,
		DepartureIATA: "LON",
		ArrivalIATA:   "PAR",
		Duration:      "2h 15m",
		CarrierCode:   "BA",
		CabinClass:    "ECONOMY",
		Currency:      "EUR",
		TotalPrice:    120.00,
		Amenities:     []string{"Seat selection"},
	}
}

func TestSaveBatch_Idempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	batch := []Offer{testOffer("off-1"), testOffer("off-2")}

	saved, err := s.SaveBatch(ctx, batch)
	if err != nil {
		t.Fatalf("SaveBatch() error = %v", err)
	}
	if saved != 2 {
		t.Errorf("first save = %d, want 2", saved)
	}

	// Re-inserting the same ids must store nothing new.
	saved, err = s.SaveBatch(ctx, batch)
	if err != nil {
		t.Fatalf("SaveBatch() error = %v", err)
	}
	if saved != 0 {
		t.Errorf("second save = %d, want 0", saved)
	}

	var count int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM flight_offers").Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 2 {
		t.Errorf("row count = %d, want one record per id", count)
	}
}

func TestSaveBatch_PartialOverlap(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveBatch(ctx, []Offer{testOffer("off-1")}); err != nil {
		t.Fatalf("SaveBatch() error = %v", err)
	}

	saved, err := s.SaveBatch(ctx, []Offer{testOffer("off-1"), testOffer("off-3")})
	if err != nil {
		t.Fatalf("SaveBatch() error = %v", err)
	}
	if saved != 1 {
		t.Errorf("saved = %d, want only the new id counted", saved)
	}
}
