package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/sparkhaus/cleaning-booking/internal/config"
	"github.com/sparkhaus/cleaning-booking/internal/middleware"
	"github.com/sparkhaus/cleaning-booking/internal/model"
	"github.com/sparkhaus/cleaning-booking/internal/realtime"
)

// WSHandler upgrades authenticated websocket handshakes and registers the
// resulting connections with the registry.  One endpoint per role channel;
// a subscriber may only open the channel matching their own role and id.
type WSHandler struct {
	Cfg      config.Config
	Registry *realtime.Registry

	upgrader websocket.Upgrader
}

func NewWSHandler(cfg config.Config, reg *realtime.Registry) *WSHandler {
	return &WSHandler{
		Cfg:      cfg,
		Registry: reg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The browser client connects from the app origin; origin
			// enforcement belongs to the reverse proxy in front of us.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Client handles GET /ws/client/:id.
func (h *WSHandler) Client(c echo.Context) error { return h.serve(c, model.RoleCustomer) }

// Employee handles GET /ws/employee/:id.
func (h *WSHandler) Employee(c echo.Context) error { return h.serve(c, model.RoleEmployee) }

// Admin handles GET /ws/admin/:id.
func (h *WSHandler) Admin(c echo.Context) error { return h.serve(c, model.RoleAdmin) }

// serve authenticates the handshake before upgrading: the token comes as
// a query parameter because browsers cannot set headers on websocket
// dials.  The authenticated principal must match both the channel's role
// and the subscriber id in the path, otherwise the handshake is rejected
// and nothing is registered.
func (h *WSHandler) serve(c echo.Context, role string) error {
	p, err := middleware.ParseAccessToken(h.Cfg.JWTSecret, c.QueryParam("token"))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	subscriberID := c.Param("id")
	if p.Role != role || p.ID != subscriberID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		return nil
	}

	conn := realtime.NewWSConn(ws)
	h.Registry.Register(role, subscriberID, conn)

	// Read loop: the client sends nothing meaningful; reading keeps the
	// connection alive and detects disconnects.  Teardown is driven purely
	// by the transport erroring or closing.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	h.Registry.Unregister(role, subscriberID, conn)
	_ = ws.Close()
	return nil
}
