package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sparkhaus/cleaning-booking/internal/booking"
	"github.com/sparkhaus/cleaning-booking/internal/middleware"
	"github.com/sparkhaus/cleaning-booking/internal/model"
	"github.com/sparkhaus/cleaning-booking/internal/store"
)

// ReviewHandler lets customers rate completed bookings.
type ReviewHandler struct {
	Bookings *booking.Store
	Docs     store.Store
}

func NewReviewHandler(b *booking.Store, docs store.Store) *ReviewHandler {
	return &ReviewHandler{Bookings: b, Docs: docs}
}

type createReviewReq struct {
	BookingID string `json:"booking_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// Create handles POST /api/reviews.  Only the booking's owner may review
// it, and only once the booking is completed.
func (h *ReviewHandler) Create(c echo.Context) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReviewReq
	if err := c.Bind(&req); err != nil || req.BookingID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id required"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be 1-5"})
	}

	ctx := c.Request().Context()
	b, err := h.Bookings.Get(ctx, p, req.BookingID)
	if err != nil {
		return domainError(c, err)
	}
	if b.CustomerID != p.ID {
		return domainError(c, model.ErrForbidden)
	}
	if b.Status != model.StatusCompleted {
		return domainError(c, fmt.Errorf("review before completion: %w", model.ErrInvalidState))
	}

	rev := model.Review{
		ID:        uuid.NewString(),
		BookingID: b.ID,
		UserID:    p.ID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Docs.Put(ctx, store.Reviews, rev.ID, rev); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, rev)
}

// List handles GET /api/reviews.
func (h *ReviewHandler) List(c echo.Context) error {
	docs, err := h.Docs.Find(c.Request().Context(), store.Reviews, nil)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]model.Review, 0, len(docs))
	for _, raw := range docs {
		var r model.Review
		if err := json.Unmarshal(raw, &r); err != nil {
			return domainError(c, err)
		}
		out = append(out, r)
	}
	return c.JSON(http.StatusOK, out)
}
