package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sparkhaus/cleaning-booking/internal/model"
	"github.com/sparkhaus/cleaning-booking/internal/realtime"
)

// HealthHandler answers load-balancer probes.  Beyond liveness it reports
// whether the document store is reachable and how many websocket
// subscribers are currently connected per role.
type HealthHandler struct {
	DB       *sql.DB // nil when the store has no SQL backend (tests)
	Registry *realtime.Registry
}

func NewHealthHandler(db *sql.DB, reg *realtime.Registry) *HealthHandler {
	return &HealthHandler{DB: db, Registry: reg}
}

// Health handles GET /healthz.
func (h *HealthHandler) Health(c echo.Context) error {
	status := http.StatusOK
	dbState := "ok"
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			dbState = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	resp := echo.Map{
		"status": "ok",
		"store":  dbState,
	}
	if h.Registry != nil {
		resp["connections"] = echo.Map{
			"customer": h.Registry.Count(model.RoleCustomer),
			"employee": h.Registry.Count(model.RoleEmployee),
			"admin":    h.Registry.Count(model.RoleAdmin),
		}
	}
	if status != http.StatusOK {
		resp["status"] = "degraded"
	}
	return c.JSON(status, resp)
}
