package providers

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTokenStore_RefreshAndReuse(t *testing.T) {
	fetches := 0
	store := NewTokenStore(func(context.Context) (string, time.Duration, error) {
		fetches++
		return "tok-1", 30 * time.Minute, nil
	})

	tok, err := store.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if tok != "tok-1" || fetches != 1 {
		t.Errorf("tok = %q, fetches = %d", tok, fetches)
	}

	// Second call inside the lifetime must reuse the cached token.
	if _, err := store.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if fetches != 1 {
		t.Errorf("fetches = %d, want cached reuse", fetches)
	}
}

func TestTokenStore_SafetyMargin(t *testing.T) {
	store := NewTokenStore(func(context.Context) (string, time.Duration, error) {
		return "tok", 90 * time.Second, nil
	})
	base := time.Now()
	store.now = func() time.Time { return base }

	if _, err := store.Token(context.Background()); err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if !store.IsValid() {
		t.Error("fresh token should be valid")
	}

	// 40s in: 50s of lifetime left, inside the 60s margin.
	store.now = func() time.Time { return base.Add(40 * time.Second) }
	if store.IsValid() {
		t.Error("token inside the safety margin must read as invalid")
	}
}

func TestTokenStore_Invalidate(t *testing.T) {
	fetches := 0
	store := NewTokenStore(func(context.Context) (string, time.Duration, error) {
		fetches++
		return "tok", time.Hour, nil
	})

	if _, err := store.Token(context.Background()); err != nil {
		t.Fatal(err)
	}
	store.Invalidate()
	if store.IsValid() {
		t.Error("invalidated token must not be valid")
	}
	if _, err := store.Token(context.Background()); err != nil {
		t.Fatal(err)
	}
	if fetches != 2 {
		t.Errorf("fetches = %d, want refetch after Invalidate", fetches)
	}
}

func TestTokenStore_SourceError(t *testing.T) {
	wantErr := errors.New("boom")
	store := NewTokenStore(func(context.Context) (string, time.Duration, error) {
		return "", 0, wantErr
	})
	if _, err := store.Token(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want source error", err)
	}
}
