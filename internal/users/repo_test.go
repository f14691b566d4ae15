package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkhaus/cleaning-booking/internal/model"
	"github.com/sparkhaus/cleaning-booking/internal/store"
	"github.com/sparkhaus/cleaning-booking/internal/utils"
)

// bcrypt cost 4 keeps the hashing fast in tests.
const testCost = 4

func TestCreate_NormalizesEmailAndHashes(t *testing.T) {
	repo := NewRepo(store.NewMemoryStore())
	ctx := context.Background()

	u, err := repo.Create(ctx, "  Alice@Example.COM ", "s3cret", "Alice", "555-1111", model.RoleCustomer, testCost)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "s3cret", u.HashedPassword)
	assert.True(t, utils.VerifyPassword(u.HashedPassword, "s3cret"))

	// Duplicate emails are rejected regardless of case.
	_, err = repo.Create(ctx, "ALICE@example.com", "pw", "Other", "", model.RoleCustomer, testCost)
	assert.ErrorIs(t, err, model.ErrEmailExists)

	got, err := repo.ByEmail(ctx, "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestUpdateRole(t *testing.T) {
	repo := NewRepo(store.NewMemoryStore())
	ctx := context.Background()

	u, err := repo.Create(ctx, "bob@example.com", "pw", "Bob", "", model.RoleCustomer, testCost)
	require.NoError(t, err)

	got, err := repo.UpdateRole(ctx, u.ID, model.RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, model.RoleEmployee, got.Role)

	_, err = repo.UpdateRole(ctx, u.ID, "owner")
	assert.ErrorIs(t, err, model.ErrInvalidState)

	_, err = repo.UpdateRole(ctx, "missing", model.RoleAdmin)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDelete_ProtectsMainAdmin(t *testing.T) {
	repo := NewRepo(store.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, repo.SeedAdmin(ctx, "admin123", testCost))
	admin, err := repo.ByEmail(ctx, MainAdminEmail)
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Delete(ctx, admin.ID), model.ErrForbidden)

	u, err := repo.Create(ctx, "temp@example.com", "pw", "Temp", "", model.RoleCustomer, testCost)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, u.ID))
	_, err = repo.UserByID(ctx, u.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSeedAdmin_Idempotent(t *testing.T) {
	repo := NewRepo(store.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, repo.SeedAdmin(ctx, "admin123", testCost))
	require.NoError(t, repo.SeedAdmin(ctx, "admin123", testCost))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRefreshTokenLifecycle(t *testing.T) {
	tokens := NewTokenRepo(store.NewMemoryStore())
	ctx := context.Background()

	rt, err := utils.NewRefreshToken(7)
	require.NoError(t, err)
	hash := utils.HashRefreshRaw(rt.Raw)
	require.NoError(t, tokens.StoreRefresh(ctx, "u-1", hash, rt.Exp))

	userID, err := tokens.ValidateRefresh(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)

	// After revocation the same hash no longer validates.
	require.NoError(t, tokens.RevokeByHash(ctx, hash))
	_, err = tokens.ValidateRefresh(ctx, hash)
	assert.ErrorIs(t, err, model.ErrAuth)

	// Unknown and expired hashes are equally rejected.
	_, err = tokens.ValidateRefresh(ctx, utils.HashRefreshRaw("never-issued"))
	assert.ErrorIs(t, err, model.ErrAuth)

	expiredHash := utils.HashRefreshRaw("expired-token")
	require.NoError(t, tokens.StoreRefresh(ctx, "u-2", expiredHash, time.Now().UTC().Add(-time.Hour)))
	_, err = tokens.ValidateRefresh(ctx, expiredHash)
	assert.ErrorIs(t, err, model.ErrAuth)
}
