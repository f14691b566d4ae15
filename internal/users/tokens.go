package users

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/sparkhaus/cleaning-booking/internal/model"
	"github.com/sparkhaus/cleaning-booking/internal/store"
)

// TokenRepo persists and validates refresh-token hashes.  Only the
// SHA-256 digest of a token ever reaches the store.
type TokenRepo struct{ docs store.Store }

func NewTokenRepo(docs store.Store) *TokenRepo { return &TokenRepo{docs: docs} }

// StoreRefresh inserts a refresh-token record.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID, tokenHash string, exp time.Time) error {
	t := model.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: exp,
		CreatedAt: time.Now().UTC(),
	}
	return r.docs.Put(ctx, store.RefreshTokens, t.ID, t)
}

// ValidateRefresh returns the owning user id if a non-revoked,
// non-expired token with this hash exists; otherwise model.ErrAuth.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (string, error) {
	t, err := r.byHash(ctx, tokenHash)
	if err != nil {
		return "", err
	}
	if t.RevokedAt != nil || time.Now().UTC().After(t.ExpiresAt) {
		return "", model.ErrAuth
	}
	return t.UserID, nil
}

// RevokeByHash marks a token as revoked.  Revoking an unknown hash
// reports model.ErrAuth so handlers can reject bogus logout attempts.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	t, err := r.byHash(ctx, tokenHash)
	if err != nil {
		return err
	}
	if t.RevokedAt == nil {
		now := time.Now().UTC()
		t.RevokedAt = &now
		return r.docs.Put(ctx, store.RefreshTokens, t.ID, t)
	}
	return nil
}

func (r *TokenRepo) byHash(ctx context.Context, tokenHash string) (model.RefreshToken, error) {
	docs, err := r.docs.Find(ctx, store.RefreshTokens, store.Filter{"token_hash": tokenHash})
	if err != nil {
		return model.RefreshToken{}, err
	}
	if len(docs) == 0 {
		return model.RefreshToken{}, model.ErrAuth
	}
	var t model.RefreshToken
	if err := json.Unmarshal(docs[0], &t); err != nil {
		return model.RefreshToken{}, err
	}
	return t, nil
}
