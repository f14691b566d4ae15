package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sparkhaus/cleaning-booking/internal/catalog"
)

// CatalogHandler exposes the service catalog: a public active listing and
// admin-only mutations.
type CatalogHandler struct {
	Catalog *catalog.Catalog
}

func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{Catalog: cat}
}

// List handles GET /api/services.
func (h *CatalogHandler) List(c echo.Context) error {
	out, err := h.Catalog.ListActive(c.Request().Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /api/services (admin).
func (h *CatalogHandler) Create(c echo.Context) error {
	var in catalog.Input
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if in.Name == "" || in.HourlyRate <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and positive hourly_rate required"})
	}
	svc, err := h.Catalog.Create(c.Request().Context(), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, svc)
}

// Update handles PUT /api/services/:id (admin).
func (h *CatalogHandler) Update(c echo.Context) error {
	var in catalog.Input
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	svc, err := h.Catalog.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, svc)
}

// Delete handles DELETE /api/services/:id (admin).  Soft delete: the
// service stops being bookable but historical bookings keep resolving it.
func (h *CatalogHandler) Delete(c echo.Context) error {
	if err := h.Catalog.Deactivate(c.Request().Context(), c.Param("id")); err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "service deleted"})
}
