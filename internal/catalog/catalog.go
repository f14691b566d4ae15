// Package catalog is the read-mostly service catalog: price and duration
// lookup by id for the booking flow, plus the admin-facing CRUD that
// maintains it.  Deletes are soft (is_active=false) so ids referenced by
// historical bookings keep resolving.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sparkhaus/cleaning-booking/internal/model"
	"github.com/sparkhaus/cleaning-booking/internal/store"
)

// Catalog provides service lookups and admin mutations over the document
// store.
type Catalog struct {
	docs store.Store
}

// New returns a Catalog bound to the given document store.
func New(docs store.Store) *Catalog { return &Catalog{docs: docs} }

// ActiveService returns the service with the given id if it exists and is
// bookable.  Inactive or unknown ids yield model.ErrNotFound, which is
// what the booking store reports to callers trying to book them.
func (c *Catalog) ActiveService(ctx context.Context, id string) (model.Service, error) {
	var svc model.Service
	if err := c.docs.Get(ctx, store.Services, id, &svc); err != nil {
		if err == store.ErrNoDocument {
			return model.Service{}, fmt.Errorf("service %s: %w", id, model.ErrNotFound)
		}
		return model.Service{}, err
	}
	if !svc.IsActive {
		return model.Service{}, fmt.Errorf("service %s inactive: %w", id, model.ErrNotFound)
	}
	return svc, nil
}

// ListActive returns every bookable service.
func (c *Catalog) ListActive(ctx context.Context) ([]model.Service, error) {
	docs, err := c.docs.Find(ctx, store.Services, store.Filter{"is_active": true})
	if err != nil {
		return nil, err
	}
	out := make([]model.Service, 0, len(docs))
	for _, raw := range docs {
		var svc model.Service
		if err := json.Unmarshal(raw, &svc); err != nil {
			return nil, err
		}
		out = append(out, svc)
	}
	return out, nil
}

// Input carries the admin-editable fields of a service.
type Input struct {
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	HourlyRate        float64 `json:"hourly_rate"`
	EstimatedDuration int     `json:"estimated_duration"`
	ImageURL          string  `json:"image_url"`
}

// Create adds a new active service to the catalog.
func (c *Catalog) Create(ctx context.Context, in Input) (model.Service, error) {
	svc := model.Service{
		ID:                uuid.NewString(),
		Name:              in.Name,
		Description:       in.Description,
		HourlyRate:        in.HourlyRate,
		EstimatedDuration: in.EstimatedDuration,
		ImageURL:          in.ImageURL,
		IsActive:          true,
		CreatedAt:         time.Now().UTC(),
	}
	if err := c.docs.Put(ctx, store.Services, svc.ID, svc); err != nil {
		return model.Service{}, err
	}
	return svc, nil
}

// Update overwrites the editable fields of an existing service.  Bookings
// made before the update keep their snapshotted name and rate.
func (c *Catalog) Update(ctx context.Context, id string, in Input) (model.Service, error) {
	var svc model.Service
	if err := c.docs.Get(ctx, store.Services, id, &svc); err != nil {
		if err == store.ErrNoDocument {
			return model.Service{}, fmt.Errorf("service %s: %w", id, model.ErrNotFound)
		}
		return model.Service{}, err
	}
	svc.Name = in.Name
	svc.Description = in.Description
	svc.HourlyRate = in.HourlyRate
	svc.EstimatedDuration = in.EstimatedDuration
	svc.ImageURL = in.ImageURL
	if err := c.docs.Put(ctx, store.Services, id, svc); err != nil {
		return model.Service{}, err
	}
	return svc, nil
}

// Deactivate soft-deletes a service so it can no longer be booked.
func (c *Catalog) Deactivate(ctx context.Context, id string) error {
	var svc model.Service
	if err := c.docs.Get(ctx, store.Services, id, &svc); err != nil {
		if err == store.ErrNoDocument {
			return fmt.Errorf("service %s: %w", id, model.ErrNotFound)
		}
		return err
	}
	svc.IsActive = false
	return c.docs.Put(ctx, store.Services, id, svc)
}

// Seed inserts the default service offerings when the catalog is empty.
// Safe to call on every startup.
func (c *Catalog) Seed(ctx context.Context) error {
	n, err := c.docs.Count(ctx, store.Services, nil)
	if err != nil || n > 0 {
		return err
	}
	defaults := []Input{
		{
			Name:              "Basic House Cleaning",
			Description:       "Standard cleaning service including dusting, vacuuming, mopping, and bathroom cleaning",
			HourlyRate:        25.0,
			EstimatedDuration: 180,
			ImageURL:          "https://images.unsplash.com/photo-1556910638-6cdac31d44dc",
		},
		{
			Name:              "Deep Cleaning",
			Description:       "Comprehensive cleaning service including all areas, appliances, and hard-to-reach places",
			HourlyRate:        35.0,
			EstimatedDuration: 300,
			ImageURL:          "https://images.unsplash.com/photo-1528255671579-01b9e182ed1d",
		},
		{
			Name:              "Office Cleaning",
			Description:       "Professional office cleaning service for workspaces, meeting rooms, and common areas",
			HourlyRate:        30.0,
			EstimatedDuration: 240,
			ImageURL:          "https://images.unsplash.com/photo-1644460187708-5e04f6b5ae75",
		},
	}
	for _, in := range defaults {
		if _, err := c.Create(ctx, in); err != nil {
			return err
		}
	}
	return nil
}
