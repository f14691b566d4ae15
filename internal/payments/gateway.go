// Package payments integrates the external payment processor.  The core
// treats it as an opaque collaborator: create a checkout session for an
// amount, look a session up later.  Payment state is owned by the
// processor and fetched on demand, never cached as authoritative.
package payments

import "context"

// Session is the handle returned by the processor when a checkout session
// is created.  URL is where the customer completes payment.
type Session struct {
	ID  string
	URL string
}

// SessionStatus is the processor's view of a checkout session.
type SessionStatus struct {
	PaymentStatus string  // e.g. "unpaid", "paid"
	Status        string  // e.g. "open", "complete", "expired"
	AmountTotal   float64 // total in major currency units
	Currency      string
}

// CreateSessionInput carries everything the processor needs to open a
// checkout session for one booking.
type CreateSessionInput struct {
	Amount      float64 // major currency units
	Currency    string
	ProductName string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// Gateway is the contract consumed by the checkout handlers.
type Gateway interface {
	CreateSession(ctx context.Context, in CreateSessionInput) (Session, error)
	GetStatus(ctx context.Context, sessionID string) (SessionStatus, error)
}
