package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sparkhaus/cleaning-booking/internal/booking"
	"github.com/sparkhaus/cleaning-booking/internal/middleware"
)

// BookingHandler serves the customer- and employee-facing booking
// endpoints.  Authentication and role checks happen in middleware; the
// booking store enforces ownership on mutations.
type BookingHandler struct {
	Bookings *booking.Store
}

func NewBookingHandler(b *booking.Store) *BookingHandler {
	return &BookingHandler{Bookings: b}
}

type createBookingReq struct {
	ServiceID           string  `json:"service_id"`
	BookingDate         string  `json:"booking_date"` // "2006-01-02"
	StartTime           string  `json:"start_time"`
	EndTime             string  `json:"end_time"`
	TotalHours          float64 `json:"total_hours"`
	Address             string  `json:"address"`
	SpecialInstructions string  `json:"special_instructions"`
}

// Create handles POST /api/bookings.  The booking enters pending and the
// amount is computed from the catalog snapshot; admins are notified over
// their live connections as a side effect of the store emitting
// new_booking.
func (h *BookingHandler) Create(c echo.Context) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ServiceID == "" || req.Address == "" || req.TotalHours <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service_id, address and positive total_hours required"})
	}
	date, err := time.Parse("2006-01-02", req.BookingDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking_date"})
	}

	b, err := h.Bookings.Create(c.Request().Context(), p, booking.CreateInput{
		ServiceID:           req.ServiceID,
		BookingDate:         date,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		TotalHours:          req.TotalHours,
		Address:             req.Address,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// List handles GET /api/bookings: the caller's own bookings.
func (h *BookingHandler) List(c echo.Context) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	out, err := h.Bookings.ListByCustomer(c.Request().Context(), p.ID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ListAssigned handles GET /api/employee/bookings: bookings assigned to
// the calling employee.
func (h *BookingHandler) ListAssigned(c echo.Context) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	out, err := h.Bookings.ListByEmployee(c.Request().Context(), p.ID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /api/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	b, err := h.Bookings.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Delete handles DELETE /api/bookings/:id.  Owners delete their own
// bookings; this same handler serves admins, whose principal passes the
// store's ownership check for any booking.
func (h *BookingHandler) Delete(c echo.Context) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Bookings.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "booking deleted"})
}
