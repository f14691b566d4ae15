// Package realtime tracks live, authenticated push channels and fans
// booking lifecycle events out to them.  Delivery is best-effort and
// at-most-once per currently connected subscriber: there is no queue, no
// retry and no persistence of missed events.
package realtime

import (
	"log"
	"sync"
)

// Handle is a send-capable channel to one subscriber.  Send must be safe
// for concurrent use and should fail rather than block forever when the
// peer is stuck.
type Handle interface {
	Send(payload []byte) error
	Close() error
}

// connKey identifies a live connection slot.  At most one handle is live
// per key; a new connection for the same key replaces the previous one.
type connKey struct {
	role string
	id   string
}

// Registry is the single piece of mutable shared state touched by every
// connection-handling goroutine and by the dispatcher.  All access goes
// through one mutex so a handle is never written to concurrently with its
// own teardown.
type Registry struct {
	mu    sync.Mutex
	conns map[connKey]Handle
}

// NewRegistry returns an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[connKey]Handle)}
}

// Register stores the handle for (role, subscriberID), replacing and
// closing any previous handle registered under the same key.
func (r *Registry) Register(role, subscriberID string, h Handle) {
	k := connKey{role: role, id: subscriberID}
	r.mu.Lock()
	old := r.conns[k]
	r.conns[k] = h
	r.mu.Unlock()
	if old != nil {
		_ = old.Close()
		log.Printf("realtime: replaced %s connection for %s", role, subscriberID)
	}
}

// Unregister removes the entry for (role, subscriberID) if h is still the
// registered handle.  A connection that was already replaced unregisters
// as a no-op, so teardown of the old transport never evicts its
// replacement.  Never fails.
func (r *Registry) Unregister(role, subscriberID string, h Handle) {
	k := connKey{role: role, id: subscriberID}
	r.mu.Lock()
	if cur, ok := r.conns[k]; ok && (h == nil || cur == h) {
		delete(r.conns, k)
	}
	r.mu.Unlock()
}

// Deliver attempts a single send to one subscriber and reports success.
// A failed send is logged and the broken handle is dropped from the
// registry; it is never surfaced to the caller that triggered the event.
func (r *Registry) Deliver(role, subscriberID string, payload []byte) bool {
	k := connKey{role: role, id: subscriberID}
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.conns[k]
	if !ok {
		return false
	}
	if err := h.Send(payload); err != nil {
		log.Printf("realtime: deliver to %s/%s failed: %v", role, subscriberID, err)
		delete(r.conns, k)
		_ = h.Close()
		return false
	}
	return true
}

// DeliverToRole attempts delivery to every registered handle for the role.
// Each send is independent: one broken handle does not abort the rest.
// Returns the number of successful sends.
func (r *Registry) DeliverToRole(role string, payload []byte) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	delivered := 0
	for k, h := range r.conns {
		if k.role != role {
			continue
		}
		if err := h.Send(payload); err != nil {
			log.Printf("realtime: deliver to %s/%s failed: %v", role, k.id, err)
			delete(r.conns, k)
			_ = h.Close()
			continue
		}
		delivered++
	}
	return delivered
}

// Count returns the number of live connections for a role.
func (r *Registry) Count(role string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k := range r.conns {
		if k.role == role {
			n++
		}
	}
	return n
}
