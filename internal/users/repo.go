// Package users manages account documents and refresh-token records.
package users

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sparkhaus/cleaning-booking/internal/model"
	"github.com/sparkhaus/cleaning-booking/internal/store"
	"github.com/sparkhaus/cleaning-booking/internal/utils"
)

// MainAdminEmail is the seeded administrator account.  It cannot be
// deleted through the admin API.
const MainAdminEmail = "admin@cleaningservice.com"

type Repo struct{ docs store.Store }

func NewRepo(docs store.Store) *Repo { return &Repo{docs: docs} }

// Create inserts a new user with a bcrypt-hashed password and returns it.
func (r *Repo) Create(ctx context.Context, email, password, fullName, phone, role string, cost int) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := r.ByEmail(ctx, email); err == nil {
		return model.User{}, model.ErrEmailExists
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		ID:             uuid.NewString(),
		Email:          email,
		FullName:       fullName,
		Phone:          phone,
		Role:           role,
		HashedPassword: hash,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
	if err := r.docs.Put(ctx, store.Users, u.ID, u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// ByEmail fetches a user by normalized email.
func (r *Repo) ByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	docs, err := r.docs.Find(ctx, store.Users, store.Filter{"email": email})
	if err != nil {
		return model.User{}, err
	}
	if len(docs) == 0 {
		return model.User{}, fmt.Errorf("user %s: %w", email, model.ErrNotFound)
	}
	var u model.User
	if err := json.Unmarshal(docs[0], &u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// UserByID fetches a user by id.  Satisfies booking.Directory.
func (r *Repo) UserByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	if err := r.docs.Get(ctx, store.Users, id, &u); err != nil {
		if err == store.ErrNoDocument {
			return model.User{}, fmt.Errorf("user %s: %w", id, model.ErrNotFound)
		}
		return model.User{}, err
	}
	return u, nil
}

// List returns every user document.
func (r *Repo) List(ctx context.Context) ([]model.User, error) {
	docs, err := r.docs.Find(ctx, store.Users, nil)
	if err != nil {
		return nil, err
	}
	out := make([]model.User, 0, len(docs))
	for _, raw := range docs {
		var u model.User
		if err := json.Unmarshal(raw, &u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

// UpdateRole changes a user's role to one of the three known roles.
func (r *Repo) UpdateRole(ctx context.Context, id, role string) (model.User, error) {
	if !model.ValidRole(role) {
		return model.User{}, fmt.Errorf("unknown role %q: %w", role, model.ErrInvalidState)
	}
	u, err := r.UserByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	u.Role = role
	if err := r.docs.Put(ctx, store.Users, id, u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Delete removes a user account.  The seeded main admin is protected.
func (r *Repo) Delete(ctx context.Context, id string) error {
	u, err := r.UserByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Email == MainAdminEmail {
		return fmt.Errorf("main admin: %w", model.ErrForbidden)
	}
	if err := r.docs.Delete(ctx, store.Users, id); err != nil {
		if err == store.ErrNoDocument {
			return model.ErrNotFound
		}
		return err
	}
	return nil
}

// Count returns the number of user documents.
func (r *Repo) Count(ctx context.Context) (int, error) {
	return r.docs.Count(ctx, store.Users, nil)
}

// SeedAdmin creates the default admin account when no admin exists yet.
// Safe to call on every startup.
func (r *Repo) SeedAdmin(ctx context.Context, password string, cost int) error {
	docs, err := r.docs.Find(ctx, store.Users, store.Filter{"role": model.RoleAdmin})
	if err != nil || len(docs) > 0 {
		return err
	}
	_, err = r.Create(ctx, MainAdminEmail, password, "Admin User", "555-0123", model.RoleAdmin, cost)
	return err
}
