package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sparkhaus/cleaning-booking/internal/booking"
	"github.com/sparkhaus/cleaning-booking/internal/config"
	"github.com/sparkhaus/cleaning-booking/internal/middleware"
	"github.com/sparkhaus/cleaning-booking/internal/model"
	"github.com/sparkhaus/cleaning-booking/internal/payments"
	"github.com/sparkhaus/cleaning-booking/internal/store"
)

// PaymentHandler creates checkout sessions against the external payment
// gateway and looks up their status.  The gateway may be nil when no API
// key is configured; payment endpoints then answer 503.
type PaymentHandler struct {
	Cfg      config.Config
	Gateway  payments.Gateway
	Bookings *booking.Store
	Docs     store.Store
}

func NewPaymentHandler(cfg config.Config, gw payments.Gateway, b *booking.Store, docs store.Store) *PaymentHandler {
	return &PaymentHandler{Cfg: cfg, Gateway: gw, Bookings: b, Docs: docs}
}

type checkoutReq struct {
	BookingID string `json:"booking_id"`
	OriginURL string `json:"origin_url"`
}

// CreateCheckoutSession handles POST /api/payments/create-checkout-session.
// The session covers the booking's full snapshotted amount.  On success
// the session id is attached to the booking and a transaction record is
// written; a failure to persist the bookkeeping record is logged but does
// not void the session already created with the processor.
func (h *PaymentHandler) CreateCheckoutSession(c echo.Context) error {
	if h.Gateway == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "payments not configured"})
	}
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req checkoutReq
	if err := c.Bind(&req); err != nil || req.BookingID == "" || req.OriginURL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id and origin_url required"})
	}

	ctx := c.Request().Context()
	b, err := h.Bookings.Get(ctx, p, req.BookingID)
	if err != nil {
		return domainError(c, err)
	}

	sess, err := h.Gateway.CreateSession(ctx, payments.CreateSessionInput{
		Amount:      b.TotalAmount,
		Currency:    h.Cfg.Currency,
		ProductName: "Service Booking: " + b.ServiceName,
		SuccessURL:  req.OriginURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   req.OriginURL + "/payment-cancel",
		Metadata: map[string]string{
			"booking_id": b.ID,
			"user_id":    p.ID,
		},
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.Bookings.AttachPaymentSession(ctx, b.ID, sess.ID); err != nil {
		return domainError(c, err)
	}
	txn := model.PaymentTransaction{
		ID:            uuid.NewString(),
		BookingID:     b.ID,
		UserID:        p.ID,
		SessionID:     sess.ID,
		Amount:        b.TotalAmount,
		Currency:      h.Cfg.Currency,
		PaymentStatus: "pending",
		CreatedAt:     time.Now().UTC(),
	}
	if err := h.Docs.Put(ctx, store.Payments, txn.ID, txn); err != nil {
		log.Printf("payments: record transaction for booking %s: %v", b.ID, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"url": sess.URL, "session_id": sess.ID})
}

// CheckoutStatus handles GET /api/payments/checkout-status/:session_id.
// Status is fetched live from the processor, never from the local record.
func (h *PaymentHandler) CheckoutStatus(c echo.Context) error {
	if h.Gateway == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "payments not configured"})
	}
	st, err := h.Gateway.GetStatus(c.Request().Context(), c.Param("session_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"payment_status": st.PaymentStatus,
		"status":         st.Status,
		"amount_total":   st.AmountTotal,
		"currency":       st.Currency,
	})
}

// Config handles GET /api/payments/stripe-config, serving the
// publishable key the frontend embeds.
func (h *PaymentHandler) Config(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"publishable_key": h.Cfg.StripePublishableKey})
}
