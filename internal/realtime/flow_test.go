package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkhaus/cleaning-booking/internal/booking"
	"github.com/sparkhaus/cleaning-booking/internal/catalog"
	"github.com/sparkhaus/cleaning-booking/internal/model"
	"github.com/sparkhaus/cleaning-booking/internal/store"
	"github.com/sparkhaus/cleaning-booking/internal/users"
)

// End-to-end over the in-memory store: a booking mutation flows through
// the dispatcher onto the owner's live handle.
func TestBookingFlowReachesLiveSubscribers(t *testing.T) {
	ctx := context.Background()
	docs := store.NewMemoryStore()
	cat := catalog.New(docs)
	repo := users.NewRepo(docs)

	svc, err := cat.Create(ctx, catalog.Input{Name: "Basic House Cleaning", HourlyRate: 25.0, EstimatedDuration: 180})
	require.NoError(t, err)
	cust, err := repo.Create(ctx, "alice@example.com", "pw", "Alice Doe", "555-1111", model.RoleCustomer, 4)
	require.NoError(t, err)
	emp, err := repo.Create(ctx, "bob@example.com", "pw", "Bob Roe", "555-2222", model.RoleEmployee, 4)
	require.NoError(t, err)

	reg := NewRegistry()
	custConn, adminConn := &fakeHandle{}, &fakeHandle{}
	reg.Register(model.RoleCustomer, cust.ID, custConn)
	reg.Register(model.RoleAdmin, "a1", adminConn)

	bookings := booking.NewStore(docs, cat, repo, NewDispatcher(reg))

	b, err := bookings.Create(ctx, cust.Principal(), booking.CreateInput{
		ServiceID:   svc.ID,
		BookingDate: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		StartTime:   "09:00",
		EndTime:     "11:00",
		TotalHours:  2.0,
		Address:     "12 Main St",
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, b.TotalAmount)
	assert.Equal(t, model.StatusPending, b.Status)

	// Creation reaches the admin channel, not the customer.
	require.Len(t, adminConn.sent(), 1)
	assert.Empty(t, custConn.sent())
	newMsg := decodeMessage(t, adminConn.sent()[0])
	assert.Equal(t, "new_booking", newMsg.Type)
	assert.Equal(t, b.ID, newMsg.Data["id"])
	assert.Equal(t, 50.0, newMsg.Data["amount"])

	got, err := bookings.AssignEmployee(ctx, b.ID, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, got.Status)

	// Confirmation reaches exactly the owning customer's handle.
	require.Len(t, custConn.sent(), 1)
	confMsg := decodeMessage(t, custConn.sent()[0])
	assert.Equal(t, "booking_confirmed", confMsg.Type)
	assert.Equal(t, b.ID, confMsg.Data["id"])
	assert.Equal(t, emp.ID, confMsg.Data["assigned_employee_id"])
	assert.Len(t, adminConn.sent(), 1, "admins are not re-notified on confirmation")
}
