package memstore

import (
	"context"
	"time"

	"github.com/protomem/medicall/internal/model"
)

type TokenStore struct{ s *Store }

func (ts *TokenStore) Revoke(_ context.Context, jti string, userID model.ID, expiresAt time.Time) error {
	ts.s.mu.Lock()
	defer ts.s.mu.Unlock()

	if _, ok := ts.s.revoked[jti]; ok {
		return nil
	}
	ts.s.revoked[jti] = model.RevokedToken{
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: ts.s.now(),
	}

	return nil
}

func (ts *TokenStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	ts.s.mu.RLock()
	defer ts.s.mu.RUnlock()

	_, ok := ts.s.revoked[jti]
	return ok, nil
}

func (ts *TokenStore) PurgeExpired(_ context.Context, now time.Time) (int, error) {
	ts.s.mu.Lock()
	defer ts.s.mu.Unlock()

	count := 0
	for jti, t := range ts.s.revoked {
		if t.ExpiresAt.Before(now) {
			delete(ts.s.revoked, jti)
			count++
		}
	}

	return count, nil
}
