package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sparkhaus/cleaning-booking/internal/model"
	"github.com/sparkhaus/cleaning-booking/internal/store"
)

// CatalogLookup resolves a service id to its active catalog entry.  It
// returns model.ErrNotFound when the id is unknown or the service has been
// deactivated.
type CatalogLookup interface {
	ActiveService(ctx context.Context, id string) (model.Service, error)
}

// Directory resolves user ids.  Used to verify that an assignee really
// carries the employee role and to name the customer in event payloads.
type Directory interface {
	UserByID(ctx context.Context, id string) (model.User, error)
}

// Store owns booking documents and enforces the state machine.  All
// mutations for one booking id are serialized through a per-id lock;
// different booking ids proceed concurrently with no coordination.
type Store struct {
	docs    store.Store
	catalog CatalogLookup
	users   Directory
	sink    EventSink

	mu    sync.Mutex
	locks map[string]*sync.Mutex // booking id -> its mutation lock
}

// NewStore wires a booking store over the given document store and
// collaborators.  sink receives one event per accepted transition; pass
// CombineSinks to fan out to more than one consumer.
func NewStore(docs store.Store, catalog CatalogLookup, users Directory, sink EventSink) *Store {
	if sink == nil {
		sink = SinkFunc(func(Event) {})
	}
	return &Store{
		docs:    docs,
		catalog: catalog,
		users:   users,
		sink:    sink,
		locks:   make(map[string]*sync.Mutex),
	}
}

// lock returns the mutation lock for a booking id, creating it on first
// use.  Locks are never removed; the map is bounded by the number of
// bookings ever touched by this process.
func (s *Store) lock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// CreateInput carries the customer-supplied fields of a new booking.
type CreateInput struct {
	ServiceID           string
	BookingDate         time.Time
	StartTime           string
	EndTime             string
	TotalHours          float64
	Address             string
	SpecialInstructions string
}

// Create makes a new booking in the pending status on behalf of the given
// customer.  The service name and hourly rate are snapshotted from the
// catalog and the total amount is computed here, exactly once; later
// catalog edits never change this booking.  Emits a new_booking event.
func (s *Store) Create(ctx context.Context, customer model.Principal, in CreateInput) (model.Booking, error) {
	svc, err := s.catalog.ActiveService(ctx, in.ServiceID)
	if err != nil {
		return model.Booking{}, err
	}

	b := model.Booking{
		ID:                  uuid.NewString(),
		CustomerID:          customer.ID,
		ServiceID:           svc.ID,
		ServiceName:         svc.Name,
		HourlyRate:          svc.HourlyRate,
		BookingDate:         in.BookingDate,
		StartTime:           in.StartTime,
		EndTime:             in.EndTime,
		TotalHours:          in.TotalHours,
		TotalAmount:         in.TotalHours * svc.HourlyRate,
		Status:              model.StatusPending,
		Address:             in.Address,
		SpecialInstructions: in.SpecialInstructions,
		CreatedAt:           time.Now().UTC(),
	}
	if err := s.docs.Put(ctx, store.Bookings, b.ID, b); err != nil {
		return model.Booking{}, err
	}

	ev := Event{
		Kind:        EventNewBooking,
		BookingID:   b.ID,
		CustomerID:  customer.ID,
		ServiceName: svc.Name,
		Amount:      b.TotalAmount,
	}
	// The customer's display name is informational only; a missing user
	// document must not fail the booking that was already written.
	if u, err := s.users.UserByID(ctx, customer.ID); err == nil {
		ev.CustomerName = u.FullName
	}
	s.sink.Publish(ev)
	return b, nil
}

// AssignEmployee sets the assigned employee and moves the booking to
// confirmed.  Reassigning an already-confirmed booking is permitted;
// assigning after completion is rejected with ErrInvalidState.  The target
// id must resolve to a user whose role is exactly employee, otherwise
// ErrNotFound.  Emits booking_confirmed addressed to the booking's owner.
func (s *Store) AssignEmployee(ctx context.Context, bookingID, employeeID string) (model.Booking, error) {
	emp, err := s.users.UserByID(ctx, employeeID)
	if err != nil {
		return model.Booking{}, err
	}
	if emp.Role != model.RoleEmployee {
		return model.Booking{}, fmt.Errorf("user %s: %w", employeeID, model.ErrNotFound)
	}

	l := s.lock(bookingID)
	l.Lock()
	defer l.Unlock()

	b, err := s.get(ctx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	if !model.CanTransition(b.Status, model.StatusConfirmed) {
		return model.Booking{}, fmt.Errorf("assign employee from %s: %w", b.Status, model.ErrInvalidState)
	}
	b.AssignedEmployeeID = emp.ID
	b.Status = model.StatusConfirmed
	if err := s.docs.Put(ctx, store.Bookings, b.ID, b); err != nil {
		return model.Booking{}, err
	}

	s.sink.Publish(Event{
		Kind:               EventBookingConfirmed,
		BookingID:          b.ID,
		CustomerID:         b.CustomerID,
		AssignedEmployeeID: emp.ID,
	})
	return b, nil
}

// SetStatus applies an explicit status change, optionally together with an
// employee assignment, in one atomic document write.  Only admins may call
// it.  Unknown statuses and transitions not present in the transition
// table are rejected with ErrInvalidState.  Emits booking_confirmed only
// when the new status is confirmed.
func (s *Store) SetStatus(ctx context.Context, requester model.Principal, bookingID string, status model.Status, employeeID string) (model.Booking, error) {
	if !requester.IsAdmin() {
		return model.Booking{}, model.ErrForbidden
	}
	if !model.ValidStatus(status) {
		return model.Booking{}, fmt.Errorf("unknown status %q: %w", status, model.ErrInvalidState)
	}

	var empID string
	if employeeID != "" {
		emp, err := s.users.UserByID(ctx, employeeID)
		if err != nil {
			return model.Booking{}, err
		}
		if emp.Role != model.RoleEmployee {
			return model.Booking{}, fmt.Errorf("user %s: %w", employeeID, model.ErrNotFound)
		}
		empID = emp.ID
	}

	l := s.lock(bookingID)
	l.Lock()
	defer l.Unlock()

	b, err := s.get(ctx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	if b.Status != status && !model.CanTransition(b.Status, status) {
		return model.Booking{}, fmt.Errorf("transition %s -> %s: %w", b.Status, status, model.ErrInvalidState)
	}
	b.Status = status
	if empID != "" {
		b.AssignedEmployeeID = empID
	}
	if err := s.docs.Put(ctx, store.Bookings, b.ID, b); err != nil {
		return model.Booking{}, err
	}

	if status == model.StatusConfirmed {
		s.sink.Publish(Event{
			Kind:               EventBookingConfirmed,
			BookingID:          b.ID,
			CustomerID:         b.CustomerID,
			AssignedEmployeeID: b.AssignedEmployeeID,
		})
	}
	return b, nil
}

// AttachPaymentSession records the external payment session handle on the
// booking.  Pure metadata write; the status is untouched and no event is
// emitted.
func (s *Store) AttachPaymentSession(ctx context.Context, bookingID, sessionID string) error {
	l := s.lock(bookingID)
	l.Lock()
	defer l.Unlock()

	b, err := s.get(ctx, bookingID)
	if err != nil {
		return err
	}
	b.PaymentSessionID = sessionID
	return s.docs.Put(ctx, store.Bookings, b.ID, b)
}

// Delete removes a booking unconditionally.  A customer may only delete
// their own booking; an admin may delete any.  Deletion is not a state
// transition, so it succeeds regardless of the booking's status.
func (s *Store) Delete(ctx context.Context, requester model.Principal, bookingID string) error {
	l := s.lock(bookingID)
	l.Lock()
	defer l.Unlock()

	b, err := s.get(ctx, bookingID)
	if err != nil {
		return err
	}
	if !requester.IsAdmin() && b.CustomerID != requester.ID {
		return model.ErrForbidden
	}
	if err := s.docs.Delete(ctx, store.Bookings, bookingID); err != nil {
		if err == store.ErrNoDocument {
			return model.ErrNotFound
		}
		return err
	}
	return nil
}

// Get returns a booking visible to the requester: its owner, an admin, or
// the employee assigned to it.
func (s *Store) Get(ctx context.Context, requester model.Principal, bookingID string) (model.Booking, error) {
	b, err := s.get(ctx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	if !requester.IsAdmin() && b.CustomerID != requester.ID && b.AssignedEmployeeID != requester.ID {
		return model.Booking{}, model.ErrForbidden
	}
	return b, nil
}

// ListByCustomer returns every booking owned by the given customer.
func (s *Store) ListByCustomer(ctx context.Context, customerID string) ([]model.Booking, error) {
	return s.list(ctx, store.Filter{"customer_id": customerID})
}

// ListByEmployee returns every booking assigned to the given employee.
func (s *Store) ListByEmployee(ctx context.Context, employeeID string) ([]model.Booking, error) {
	return s.list(ctx, store.Filter{"assigned_employee_id": employeeID})
}

// ListAll returns the whole booking queue.  Admin listing only; the
// handler layer gates access.
func (s *Store) ListAll(ctx context.Context) ([]model.Booking, error) {
	return s.list(ctx, nil)
}

func (s *Store) get(ctx context.Context, id string) (model.Booking, error) {
	var b model.Booking
	if err := s.docs.Get(ctx, store.Bookings, id, &b); err != nil {
		if err == store.ErrNoDocument {
			return model.Booking{}, fmt.Errorf("booking %s: %w", id, model.ErrNotFound)
		}
		return model.Booking{}, err
	}
	return b, nil
}

func (s *Store) list(ctx context.Context, filter store.Filter) ([]model.Booking, error) {
	docs, err := s.docs.Find(ctx, store.Bookings, filter)
	if err != nil {
		return nil, err
	}
	out := make([]model.Booking, 0, len(docs))
	for _, raw := range docs {
		var b model.Booking
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
