package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "errors"                // sentinel error values for principal extraction
    "net/http"              // HTTP status codes for responses
    "strings"               // string utilities for prefix checking and trimming

    "github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
    "github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers

    "github.com/sparkhaus/cleaning-booking/internal/model"
)

// ErrNoPrincipal is returned by CurrentPrincipal when the request carries
// no authenticated identity.
var ErrNoPrincipal = errors.New("no authenticated principal")

// ParseAccessToken validates a raw HS256 access token against the secret
// and returns the principal encoded in its claims.  It is shared by the
// HTTP middleware below and by the websocket handshake, which receives the
// token as a query parameter rather than a header.
func ParseAccessToken(secret, raw string) (model.Principal, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Type assert the signing method to HMAC; reject others.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, model.ErrAuth
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return model.Principal{}, model.ErrAuth
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return model.Principal{}, model.ErrAuth
    }
    sub, _ := claims["sub"].(string)
    role, _ := claims["role"].(string)
    if sub == "" || !model.ValidRole(role) {
        return model.Principal{}, model.ErrAuth
    }
    return model.Principal{ID: sub, Role: role}, nil
}

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the resulting principal into the request context.  The
// provided secret must match the one used when issuing tokens.  This
// middleware should wrap protected routes so that handlers can retrieve
// the caller via CurrentPrincipal.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // Read the Authorization header.  A valid header starts with
            // "Bearer " followed by the JWT.
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            p, err := ParseAccessToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            // Store the principal in the context for handlers and
            // downstream middleware.
            c.Set("principal", p)
            return next(c)
        }
    }
}

// CurrentPrincipal extracts the authenticated principal placed into the
// context by JWTAuth.
func CurrentPrincipal(c echo.Context) (model.Principal, error) {
    p, ok := c.Get("principal").(model.Principal)
    if !ok {
        return model.Principal{}, ErrNoPrincipal
    }
    return p, nil
}
