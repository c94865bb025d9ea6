package providers

import (
	"context"
	"sync"
	"time"
)

// tokenSafetyMargin is how close to expiry a cached token is still trusted.
// A token inside the margin is refreshed before use.
const tokenSafetyMargin = 60 * time.Second

// TokenSource acquires a fresh bearer token and reports its lifetime.
type TokenSource func(ctx context.Context) (token string, expiresIn time.Duration, err error)

// TokenStore caches a bearer token and refreshes it when expired or
// near-expired. Concurrent refreshes are tolerated rather than serialized:
// tokens are idempotently replaceable, so a redundant fetch under racing
// requests is wasted work, not a correctness hazard.
type TokenStore struct {
	mu     sync.Mutex
	source TokenSource
	token  string
	expiry time.Time
	now    func() time.Time
}

func NewTokenStore(source TokenSource) *TokenStore {
	return &TokenStore{source: source, now: time.Now}
}

// Token returns a valid bearer token, refreshing first if needed.
func (s *TokenStore) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	valid := s.isValidLocked()
	token := s.token
	s.mu.Unlock()

	if valid {
		return token, nil
	}
	return s.refresh(ctx)
}

// Invalidate drops the cached token. Called after a 401 so the next
// Token call fetches a fresh one.
func (s *TokenStore) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.expiry = time.Time{}
	s.mu.Unlock()
}

// IsValid reports whether the cached token is usable without a refresh.
func (s *TokenStore) IsValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isValidLocked()
}

func (s *TokenStore) isValidLocked() bool {
	return s.token != "" && s.now().Add(tokenSafetyMargin).Before(s.expiry)
}

func (s *TokenStore) refresh(ctx context.Context) (string, error) {
	token, expiresIn, err := s.source(ctx)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.token = token
	s.expiry = s.now().Add(expiresIn)
	s.mu.Unlock()
	return token, nil
}
