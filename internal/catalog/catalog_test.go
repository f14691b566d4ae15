package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkhaus/cleaning-booking/internal/model"
	"github.com/sparkhaus/cleaning-booking/internal/store"
)

func TestSeed_Idempotent(t *testing.T) {
	cat := New(store.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, cat.Seed(ctx))
	require.NoError(t, cat.Seed(ctx))

	svcs, err := cat.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, svcs, 3)

	rates := make(map[string]float64, len(svcs))
	for _, s := range svcs {
		rates[s.Name] = s.HourlyRate
	}
	assert.Equal(t, 25.0, rates["Basic House Cleaning"])
	assert.Equal(t, 35.0, rates["Deep Cleaning"])
	assert.Equal(t, 30.0, rates["Office Cleaning"])
}

func TestDeactivate_HidesFromLookupAndListing(t *testing.T) {
	cat := New(store.NewMemoryStore())
	ctx := context.Background()

	svc, err := cat.Create(ctx, Input{Name: "Window Cleaning", HourlyRate: 20.0, EstimatedDuration: 90})
	require.NoError(t, err)

	got, err := cat.ActiveService(ctx, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Window Cleaning", got.Name)

	require.NoError(t, cat.Deactivate(ctx, svc.ID))

	_, err = cat.ActiveService(ctx, svc.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	svcs, err := cat.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, svcs)

	assert.ErrorIs(t, cat.Deactivate(ctx, "missing"), model.ErrNotFound)
}

func TestUpdate(t *testing.T) {
	cat := New(store.NewMemoryStore())
	ctx := context.Background()

	svc, err := cat.Create(ctx, Input{Name: "Window Cleaning", HourlyRate: 20.0, EstimatedDuration: 90})
	require.NoError(t, err)

	got, err := cat.Update(ctx, svc.ID, Input{Name: "Window Cleaning", HourlyRate: 22.5, EstimatedDuration: 120})
	require.NoError(t, err)
	assert.Equal(t, 22.5, got.HourlyRate)
	assert.Equal(t, 120, got.EstimatedDuration)
	assert.True(t, got.IsActive, "update keeps the service active")

	_, err = cat.Update(ctx, "missing", Input{})
	assert.ErrorIs(t, err, model.ErrNotFound)
}
