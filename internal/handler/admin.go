package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sparkhaus/cleaning-booking/internal/booking"
	"github.com/sparkhaus/cleaning-booking/internal/middleware"
	"github.com/sparkhaus/cleaning-booking/internal/model"
	"github.com/sparkhaus/cleaning-booking/internal/users"
)

// AdminHandler serves the administrator queue: the full booking list,
// explicit status changes, employee assignment, and user management.  All
// routes are behind RequireRole(admin).
type AdminHandler struct {
	Bookings *booking.Store
	Users    *users.Repo
}

func NewAdminHandler(b *booking.Store, u *users.Repo) *AdminHandler {
	return &AdminHandler{Bookings: b, Users: u}
}

// ListBookings handles GET /api/admin/bookings.
func (h *AdminHandler) ListBookings(c echo.Context) error {
	out, err := h.Bookings.ListAll(c.Request().Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type statusReq struct {
	Status     string `json:"status"`
	EmployeeID string `json:"employee_id,omitempty"`
}

// SetStatus handles PUT /api/admin/bookings/:id/status.  Status and the
// optional employee assignment are applied in one write; when the new
// status is confirmed the owning customer is notified on their live
// connection.
func (h *AdminHandler) SetStatus(c echo.Context) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
	}
	b, err := h.Bookings.SetStatus(c.Request().Context(), p, c.Param("id"), model.Status(req.Status), req.EmployeeID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

type assignReq struct {
	EmployeeID string `json:"employee_id"`
}

// AssignEmployee handles PUT /api/admin/bookings/:id/assign.  Assignment
// confirms the booking as a side effect.
func (h *AdminHandler) AssignEmployee(c echo.Context) error {
	var req assignReq
	if err := c.Bind(&req); err != nil || req.EmployeeID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "employee_id required"})
	}
	b, err := h.Bookings.AssignEmployee(c.Request().Context(), c.Param("id"), req.EmployeeID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	list, err := h.Users.List(c.Request().Context())
	if err != nil {
		return domainError(c, err)
	}
	out := make([]userPart, 0, len(list))
	for _, u := range list {
		out = append(out, userPart{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: u.Role})
	}
	return c.JSON(http.StatusOK, out)
}

type roleReq struct {
	Role string `json:"role"`
}

// UpdateUserRole handles PUT /api/admin/users/:id/role.
func (h *AdminHandler) UpdateUserRole(c echo.Context) error {
	var req roleReq
	if err := c.Bind(&req); err != nil || req.Role == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role required"})
	}
	u, err := h.Users.UpdateRole(c.Request().Context(), c.Param("id"), req.Role)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, userPart{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: u.Role})
}

// DeleteUser handles DELETE /api/admin/users/:id.  The seeded main admin
// cannot be deleted.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	if err := h.Users.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}

type dashboardResp struct {
	TotalBookings   int     `json:"total_bookings"`
	TotalUsers      int     `json:"total_users"`
	TotalRevenue    float64 `json:"total_revenue"`
	PendingBookings int     `json:"pending_bookings"`
}

// Dashboard handles GET /api/admin/dashboard with queue-level aggregates.
// Revenue counts completed bookings only.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	bookings, err := h.Bookings.ListAll(ctx)
	if err != nil {
		return domainError(c, err)
	}
	userCount, err := h.Users.Count(ctx)
	if err != nil {
		return domainError(c, err)
	}

	resp := dashboardResp{TotalBookings: len(bookings), TotalUsers: userCount}
	for _, b := range bookings {
		switch b.Status {
		case model.StatusCompleted:
			resp.TotalRevenue += b.TotalAmount
		case model.StatusPending:
			resp.PendingBookings++
		}
	}
	return c.JSON(http.StatusOK, resp)
}
