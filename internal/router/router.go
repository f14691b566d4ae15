package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/sparkhaus/cleaning-booking/internal/handler"    // import the handlers that implement business logic
	"github.com/sparkhaus/cleaning-booking/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/sparkhaus/cleaning-booking/internal/model"      // role names for route gating
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	// The health endpoint is used by load balancers and monitoring systems
	// to verify that the service is up and running.
	e.GET("/healthz", h.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /api/auth, while the profile endpoint is protected.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout accepts a JSON body containing a `refresh_token` and
	// invalidates that token; no access token is required.
	g.POST("/logout", a.Logout)

	me := e.Group("/api/auth")
	me.Use(middleware.JWTAuth(jwtSecret))
	me.GET("/me", a.Me)
}

// RegisterCatalog registers the public service listing and the admin-only
// catalog mutations.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, jwtSecret string) {
	// Guests browse the catalog before registering, so the listing is
	// intentionally unauthenticated.
	e.GET("/api/services", h.List)

	admin := e.Group("/api/services")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)
}

// RegisterBookings registers the customer and employee booking surface.
// Every route requires a valid access token; the booking store enforces
// per-record ownership beyond the role gate.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/api/bookings")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.POST("", h.Create, middleware.RequireRole(model.RoleCustomer))
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Delete)

	emp := e.Group("/api/employee")
	emp.Use(middleware.JWTAuth(jwtSecret))
	emp.Use(middleware.RequireRole(model.RoleEmployee))
	emp.GET("/bookings", h.ListAssigned)
}

// RegisterAdmin registers the admin queue and user management routes.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/api/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))
	g.GET("/bookings", h.ListBookings)
	g.PUT("/bookings/:id/status", h.SetStatus)
	g.PUT("/bookings/:id/assign", h.AssignEmployee)
	// Admin deletion reuses the booking handler; an admin principal passes
	// the store's ownership check for any booking.
	g.DELETE("/bookings/:id", b.Delete)
	g.GET("/users", h.ListUsers)
	g.PUT("/users/:id/role", h.UpdateUserRole)
	g.DELETE("/users/:id", h.DeleteUser)
	g.GET("/dashboard", h.Dashboard)
}

// RegisterPayments registers the checkout endpoints.  The publishable-key
// endpoint is public; session creation and lookup require authentication.
func RegisterPayments(e *echo.Echo, h *handler.PaymentHandler, jwtSecret string) {
	e.GET("/api/payments/stripe-config", h.Config)

	g := e.Group("/api/payments")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.POST("/create-checkout-session", h.CreateCheckoutSession)
	g.GET("/checkout-status/:session_id", h.CheckoutStatus)
}

// RegisterReviews registers review creation (authenticated) and the
// public review listing.
func RegisterReviews(e *echo.Echo, h *handler.ReviewHandler, jwtSecret string) {
	e.GET("/api/reviews", h.List)

	g := e.Group("/api/reviews")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.POST("", h.Create, middleware.RequireRole(model.RoleCustomer))
}

// RegisterWS registers the role-scoped websocket endpoints.  The
// handshake authenticates via a token query parameter before any
// connection is registered.
func RegisterWS(e *echo.Echo, h *handler.WSHandler) {
	e.GET("/ws/client/:id", h.Client)
	e.GET("/ws/employee/:id", h.Employee)
	e.GET("/ws/admin/:id", h.Admin)
}
