package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkhaus/cleaning-booking/internal/catalog"
	"github.com/sparkhaus/cleaning-booking/internal/model"
	"github.com/sparkhaus/cleaning-booking/internal/store"
	"github.com/sparkhaus/cleaning-booking/internal/users"
)

// recordingSink collects published events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingSink) Publish(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingSink) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

type fixture struct {
	docs     *store.MemoryStore
	catalog  *catalog.Catalog
	users    *users.Repo
	sink     *recordingSink
	bookings *Store

	customer model.Principal
	employee model.User
	admin    model.Principal
	service  model.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	docs := store.NewMemoryStore()
	cat := catalog.New(docs)
	repo := users.NewRepo(docs)
	sink := &recordingSink{}

	svc, err := cat.Create(ctx, catalog.Input{Name: "Basic House Cleaning", HourlyRate: 25.0, EstimatedDuration: 180})
	require.NoError(t, err)

	cust, err := repo.Create(ctx, "alice@example.com", "pw", "Alice Doe", "555-1111", model.RoleCustomer, 4)
	require.NoError(t, err)
	emp, err := repo.Create(ctx, "bob@example.com", "pw", "Bob Roe", "555-2222", model.RoleEmployee, 4)
	require.NoError(t, err)
	adm, err := repo.Create(ctx, "admin@example.com", "pw", "Admin", "555-3333", model.RoleAdmin, 4)
	require.NoError(t, err)

	return &fixture{
		docs:     docs,
		catalog:  cat,
		users:    repo,
		sink:     sink,
		bookings: NewStore(docs, cat, repo, sink),
		customer: cust.Principal(),
		employee: emp,
		admin:    adm.Principal(),
		service:  svc,
	}
}

func (f *fixture) create(t *testing.T, hours float64) model.Booking {
	t.Helper()
	b, err := f.bookings.Create(context.Background(), f.customer, CreateInput{
		ServiceID:   f.service.ID,
		BookingDate: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		StartTime:   "09:00",
		EndTime:     "11:00",
		TotalHours:  hours,
		Address:     "12 Main St",
	})
	require.NoError(t, err)
	return b
}

func TestCreate_SnapshotsAmountAndEmitsNewBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := f.create(t, 2.0)
	assert.Equal(t, 50.0, b.TotalAmount)
	assert.Equal(t, model.StatusPending, b.Status)
	assert.Equal(t, "Basic House Cleaning", b.ServiceName)
	assert.Equal(t, 25.0, b.HourlyRate)

	events := f.sink.all()
	require.Len(t, events, 1)
	assert.Equal(t, EventNewBooking, events[0].Kind)
	assert.Equal(t, b.ID, events[0].BookingID)
	assert.Equal(t, "Alice Doe", events[0].CustomerName)
	assert.Equal(t, 50.0, events[0].Amount)

	// A later rate change must not alter the stored booking.
	_, err := f.catalog.Update(ctx, f.service.ID, catalog.Input{Name: "Basic House Cleaning", HourlyRate: 99.0, EstimatedDuration: 180})
	require.NoError(t, err)

	got, err := f.bookings.Get(ctx, f.customer, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, got.TotalAmount)
	assert.Equal(t, 25.0, got.HourlyRate)
}

func TestCreate_UnknownOrInactiveService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.bookings.Create(ctx, f.customer, CreateInput{ServiceID: "nope", TotalHours: 1})
	assert.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, f.catalog.Deactivate(ctx, f.service.ID))
	_, err = f.bookings.Create(ctx, f.customer, CreateInput{ServiceID: f.service.ID, TotalHours: 1})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAssignEmployee_ConfirmsAndNotifiesOwner(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, 2.0)

	got, err := f.bookings.AssignEmployee(context.Background(), b.ID, f.employee.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, got.Status)
	assert.Equal(t, f.employee.ID, got.AssignedEmployeeID)

	events := f.sink.all()
	require.Len(t, events, 2) // new_booking + booking_confirmed
	confirmed := events[1]
	assert.Equal(t, EventBookingConfirmed, confirmed.Kind)
	assert.Equal(t, b.ID, confirmed.BookingID)
	assert.Equal(t, f.customer.ID, confirmed.CustomerID)
	assert.Equal(t, f.employee.ID, confirmed.AssignedEmployeeID)
}

func TestAssignEmployee_RejectsNonEmployeeRoles(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, 2.0)
	ctx := context.Background()

	for _, id := range []string{f.customer.ID, f.admin.ID, "unknown-id"} {
		_, err := f.bookings.AssignEmployee(ctx, b.ID, id)
		assert.ErrorIs(t, err, model.ErrNotFound, "id %s must not be assignable", id)
	}
}

func TestAssignEmployee_ReassignmentPolicy(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, 2.0)
	ctx := context.Background()

	other, err := f.users.Create(ctx, "carol@example.com", "pw", "Carol", "555-4444", model.RoleEmployee, 4)
	require.NoError(t, err)

	_, err = f.bookings.AssignEmployee(ctx, b.ID, f.employee.ID)
	require.NoError(t, err)

	// Reassignment while confirmed is permitted.
	got, err := f.bookings.AssignEmployee(ctx, b.ID, other.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.AssignedEmployeeID)

	// After completion it is rejected.
	_, err = f.bookings.SetStatus(ctx, f.admin, b.ID, model.StatusCompleted, "")
	require.NoError(t, err)
	_, err = f.bookings.AssignEmployee(ctx, b.ID, f.employee.ID)
	assert.ErrorIs(t, err, model.ErrInvalidState)
}

func TestSetStatus_Authorization(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, 2.0)
	ctx := context.Background()

	for _, p := range []model.Principal{f.customer, f.employee.Principal()} {
		_, err := f.bookings.SetStatus(ctx, p, b.ID, model.StatusConfirmed, "")
		assert.ErrorIs(t, err, model.ErrForbidden, "role %s must not set status", p.Role)
	}
}

func TestSetStatus_TransitionTable(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, 2.0)
	ctx := context.Background()

	// Unknown statuses are rejected outright.
	_, err := f.bookings.SetStatus(ctx, f.admin, b.ID, model.Status("cancelled"), "")
	assert.ErrorIs(t, err, model.ErrInvalidState)

	// completed is reachable only from confirmed, never from pending.
	_, err = f.bookings.SetStatus(ctx, f.admin, b.ID, model.StatusCompleted, "")
	assert.ErrorIs(t, err, model.ErrInvalidState)

	// Forward: pending -> confirmed -> completed.
	_, err = f.bookings.SetStatus(ctx, f.admin, b.ID, model.StatusConfirmed, "")
	require.NoError(t, err)
	_, err = f.bookings.SetStatus(ctx, f.admin, b.ID, model.StatusCompleted, "")
	require.NoError(t, err)

	// Backward moves are rejected from the terminal state.
	for _, s := range []model.Status{model.StatusPending, model.StatusConfirmed} {
		_, err = f.bookings.SetStatus(ctx, f.admin, b.ID, s, "")
		assert.ErrorIs(t, err, model.ErrInvalidState, "completed -> %s must be rejected", s)
	}
}

func TestSetStatus_EmitsOnlyOnConfirmed(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, 2.0)
	ctx := context.Background()

	_, err := f.bookings.SetStatus(ctx, f.admin, b.ID, model.StatusConfirmed, f.employee.ID)
	require.NoError(t, err)
	_, err = f.bookings.SetStatus(ctx, f.admin, b.ID, model.StatusCompleted, "")
	require.NoError(t, err)

	var confirmed []Event
	for _, ev := range f.sink.all() {
		if ev.Kind == EventBookingConfirmed {
			confirmed = append(confirmed, ev)
		}
	}
	require.Len(t, confirmed, 1)
	assert.Equal(t, f.employee.ID, confirmed[0].AssignedEmployeeID)

	// The employee assignment landed atomically with the status.
	got, err := f.bookings.Get(ctx, f.admin, b.ID)
	require.NoError(t, err)
	assert.Equal(t, f.employee.ID, got.AssignedEmployeeID)
	assert.Equal(t, model.StatusCompleted, got.Status)
}

func TestDelete_OwnershipRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stranger, err := f.users.Create(ctx, "eve@example.com", "pw", "Eve", "555-5555", model.RoleCustomer, 4)
	require.NoError(t, err)

	// A non-owning customer is rejected and the booking survives.
	b := f.create(t, 2.0)
	err = f.bookings.Delete(ctx, stranger.Principal(), b.ID)
	assert.ErrorIs(t, err, model.ErrForbidden)
	_, err = f.bookings.Get(ctx, f.customer, b.ID)
	require.NoError(t, err)

	// The owner may delete; the record becomes unresolvable.
	require.NoError(t, f.bookings.Delete(ctx, f.customer, b.ID))
	_, err = f.bookings.Get(ctx, f.customer, b.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	// An admin may delete any booking, regardless of status.
	b2 := f.create(t, 1.0)
	_, err = f.bookings.SetStatus(ctx, f.admin, b2.ID, model.StatusConfirmed, "")
	require.NoError(t, err)
	_, err = f.bookings.SetStatus(ctx, f.admin, b2.ID, model.StatusCompleted, "")
	require.NoError(t, err)
	require.NoError(t, f.bookings.Delete(ctx, f.admin, b2.ID))

	assert.ErrorIs(t, f.bookings.Delete(ctx, f.admin, "unknown"), model.ErrNotFound)
}

func TestAttachPaymentSession_MetadataOnly(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, 2.0)
	ctx := context.Background()

	before := len(f.sink.all())
	require.NoError(t, f.bookings.AttachPaymentSession(ctx, b.ID, "cs_test_123"))

	got, err := f.bookings.Get(ctx, f.customer, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", got.PaymentSessionID)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Len(t, f.sink.all(), before, "metadata write must not emit events")

	assert.ErrorIs(t, f.bookings.AttachPaymentSession(ctx, "unknown", "cs"), model.ErrNotFound)
}

func TestListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b1 := f.create(t, 1.0)
	b2 := f.create(t, 2.0)
	_, err := f.bookings.AssignEmployee(ctx, b1.ID, f.employee.ID)
	require.NoError(t, err)

	mine, err := f.bookings.ListByCustomer(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	assigned, err := f.bookings.ListByEmployee(ctx, f.employee.ID)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, b1.ID, assigned[0].ID)

	all, err := f.bookings.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	_ = b2
}
