// Package store provides the document store the rest of the service
// persists through.  Records are JSON documents addressed by (collection,
// id).  The contract is deliberately small: get, put, delete by id and an
// equality-filter find.  There are no transactions across collections;
// callers must tolerate a crash between two independent single-document
// writes.
package store

import (
    "context"
    "encoding/json"
    "errors"
)

// Collection names used by the service.
const (
    Users         = "users"
    Services      = "services"
    Bookings      = "bookings"
    Payments      = "payments"
    Reviews       = "reviews"
    RefreshTokens = "refresh_tokens"
)

// ErrNoDocument is returned by Get and Delete when no document exists
// under the requested id.
var ErrNoDocument = errors.New("no such document")

// Filter selects documents whose top-level fields equal the given values.
// A nil or empty filter matches every document in the collection.  Values
// are compared after JSON normalization, so numeric filter values should
// be float64 and everything else string or bool.
type Filter map[string]any

// Store is the persistence contract.  Implementations must be safe for
// concurrent use.
type Store interface {
    // Get unmarshals the document with the given id into out.  Returns
    // ErrNoDocument when the id does not resolve.
    Get(ctx context.Context, collection, id string, out any) error
    // Put marshals doc and stores it under id, replacing any previous
    // version of the document.
    Put(ctx context.Context, collection, id string, doc any) error
    // Delete removes the document with the given id.  Returns
    // ErrNoDocument when the id does not resolve.
    Delete(ctx context.Context, collection, id string) error
    // Find returns the raw JSON of every document in the collection that
    // matches the filter, in unspecified order.
    Find(ctx context.Context, collection string, filter Filter) ([]json.RawMessage, error)
    // Count returns the number of documents matching the filter.
    Count(ctx context.Context, collection string, filter Filter) (int, error)
}

// matches reports whether the decoded document fields satisfy the filter.
// Shared by the MySQL and in-memory implementations, which both filter in
// process after fetching the collection.
func matches(raw []byte, filter Filter) bool {
    if len(filter) == 0 {
        return true
    }
    var fields map[string]any
    if err := json.Unmarshal(raw, &fields); err != nil {
        return false
    }
    for k, want := range filter {
        if fields[k] != want {
            return false
        }
    }
    return true
}
