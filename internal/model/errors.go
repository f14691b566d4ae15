// Package model holds the domain value types shared across the service
// along with the sentinel errors that make up the error taxonomy.  These
// sentinel values let higher layers such as handlers distinguish between
// failure scenarios: ErrNotFound maps to 404, ErrForbidden to 403,
// ErrInvalidState to 409 and ErrAuth to 401.  All four are reported
// synchronously to the caller that attempted the operation; none is
// retried internally.
package model

import "errors"

var (
    // ErrNotFound is returned when a booking, service or employee id does
    // not resolve to a live document.
    ErrNotFound = errors.New("not found")

    // ErrForbidden is returned when the caller lacks the role or ownership
    // required for the requested mutation.
    ErrForbidden = errors.New("forbidden")

    // ErrInvalidState is returned when a status transition is not permitted
    // from the booking's current status.
    ErrInvalidState = errors.New("invalid state")

    // ErrAuth is returned on a bad or expired credential, both when opening
    // a live connection and when attempting a mutation.
    ErrAuth = errors.New("authentication failed")
)

var (
    // ErrEmailExists is returned when registering with an email that is
    // already taken.
    ErrEmailExists = errors.New("email already exists")
)
