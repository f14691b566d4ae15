package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Rate   float64 `json:"rate"`
	Active bool    `json:"active"`
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	in := doc{ID: "d1", Name: "alpha", Rate: 25.0, Active: true}
	require.NoError(t, s.Put(ctx, Services, "d1", in))

	var out doc
	require.NoError(t, s.Get(ctx, Services, "d1", &out))
	assert.Equal(t, in, out)

	// Put replaces the whole document.
	in.Rate = 30.0
	require.NoError(t, s.Put(ctx, Services, "d1", in))
	require.NoError(t, s.Get(ctx, Services, "d1", &out))
	assert.Equal(t, 30.0, out.Rate)

	require.NoError(t, s.Delete(ctx, Services, "d1"))
	assert.ErrorIs(t, s.Get(ctx, Services, "d1", &out), ErrNoDocument)
	assert.ErrorIs(t, s.Delete(ctx, Services, "d1"), ErrNoDocument)
}

func TestMemoryStore_CollectionsAreIsolated(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, Users, "x", doc{ID: "x"}))
	var out doc
	assert.ErrorIs(t, s.Get(ctx, Bookings, "x", &out), ErrNoDocument)
}

func TestMemoryStore_FindWithFilter(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, Services, "a", doc{ID: "a", Name: "basic", Rate: 25.0, Active: true}))
	require.NoError(t, s.Put(ctx, Services, "b", doc{ID: "b", Name: "deep", Rate: 35.0, Active: true}))
	require.NoError(t, s.Put(ctx, Services, "c", doc{ID: "c", Name: "office", Rate: 30.0, Active: false}))

	all, err := s.Find(ctx, Services, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := s.Find(ctx, Services, Filter{"active": true})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	// Numeric filter values compare after JSON normalization (float64).
	byRate, err := s.Find(ctx, Services, Filter{"rate": 35.0})
	require.NoError(t, err)
	require.Len(t, byRate, 1)
	var got doc
	require.NoError(t, json.Unmarshal(byRate[0], &got))
	assert.Equal(t, "b", got.ID)

	none, err := s.Find(ctx, Services, Filter{"name": "missing"})
	require.NoError(t, err)
	assert.Empty(t, none)

	n, err := s.Count(ctx, Services, Filter{"active": true})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
