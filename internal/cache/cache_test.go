package cache

import (
	"context"
	"testing"
	"time"
)

func TestNewFingerprint_Normalization(t *testing.T) {
	a := NewFingerprint("Weather  in   Paris", "weather", "Paris")
	b := NewFingerprint("weather in paris", "WEATHER", "paris")
	if a != b {
		t.Error("cosmetic differences should produce the same fingerprint")
	}

	c := NewFingerprint("weather in paris", "weather", "london")
	if a == c {
		t.Error("different location must change the fingerprint")
	}

	d := NewFingerprint("weather in paris", "general", "paris")
	if a == d {
		t.Error("different intent must change the fingerprint")
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	fp := NewFingerprint("hotels in rome", "hotels", "ROM")

	if _, ok := c.Get(ctx, fp); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	if err := c.Set(ctx, fp, []byte(`{"action":"search_hotels"}`), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	payload, ok := c.Get(ctx, fp)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if string(payload) != `{"action":"search_hotels"}` {
		t.Errorf("payload = %s", payload)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	fp := NewFingerprint("q", "weather", "PAR")

	if err := c.Set(ctx, fp, []byte("x"), 20*time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(40 * time.Millisecond)

	if _, ok := c.Get(ctx, fp); ok {
		t.Error("expired entry must read as absent")
	}
}
