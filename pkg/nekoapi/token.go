package nekoapi

import (
	"sync"

	errs "github.com/cacaonk0027/neekuro/pkg/errors"
)

// TokenSource supplies the API token for each request.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource that never changes.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token() string { return string(t) }

// TokenStore holds one replaceable token. It is created at startup and shared
// by every client that needs the current token. A TokenStore is safe for
// concurrent use.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewTokenStore returns a store holding token, which may be empty.
func NewTokenStore(token string) *TokenStore {
	return &TokenStore{token: token}
}

// SetToken replaces the stored token. An empty token is rejected.
func (s *TokenStore) SetToken(token string) error {
	if err := errs.ValidateRequired("token", token); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Token implements TokenSource.
func (s *TokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}
