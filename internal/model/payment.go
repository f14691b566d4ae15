package model

import "time"

// PaymentTransaction records a checkout session created against the
// external payment gateway, stored in the `payments` collection.  It is a
// bookkeeping record only; the authoritative payment status lives with the
// gateway and is fetched on demand.
type PaymentTransaction struct {
    ID            string            `json:"id"`
    BookingID     string            `json:"booking_id"`
    UserID        string            `json:"user_id"`
    SessionID     string            `json:"session_id"`
    Amount        float64           `json:"amount"`
    Currency      string            `json:"currency"`
    PaymentStatus string            `json:"payment_status"`
    Metadata      map[string]string `json:"metadata,omitempty"`
    CreatedAt     time.Time         `json:"created_at"`
}

// Review is a customer rating of a completed booking, stored in the
// `reviews` collection.  Reviews may only be created by the booking's
// owner and only once the booking is completed.
type Review struct {
    ID        string    `json:"id"`
    BookingID string    `json:"booking_id"`
    UserID    string    `json:"user_id"`
    Rating    int       `json:"rating"`
    Comment   string    `json:"comment"`
    CreatedAt time.Time `json:"created_at"`
}
