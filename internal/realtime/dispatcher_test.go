package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkhaus/cleaning-booking/internal/booking"
	"github.com/sparkhaus/cleaning-booking/internal/model"
)

func decodeMessage(t *testing.T, raw []byte) Message {
	t.Helper()
	var m Message
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestDispatch_NewBookingBroadcastsToAdmins(t *testing.T) {
	reg := NewRegistry()
	admin1, admin2 := &fakeHandle{}, &fakeHandle{}
	customer := &fakeHandle{}
	reg.Register(model.RoleAdmin, "a1", admin1)
	reg.Register(model.RoleAdmin, "a2", admin2)
	reg.Register(model.RoleCustomer, "c1", customer)

	NewDispatcher(reg).Publish(booking.Event{
		Kind:         booking.EventNewBooking,
		BookingID:    "b-1",
		CustomerID:   "c1",
		CustomerName: "Alice Doe",
		ServiceName:  "Deep Cleaning",
		Amount:       70.0,
	})

	for _, h := range []*fakeHandle{admin1, admin2} {
		require.Len(t, h.sent(), 1)
		m := decodeMessage(t, h.sent()[0])
		assert.Equal(t, "new_booking", m.Type)
		assert.Equal(t, "New booking: Deep Cleaning - $70.00", m.Message)
		assert.Equal(t, "b-1", m.Data["id"])
		assert.Equal(t, "Deep Cleaning", m.Data["service"])
		assert.Equal(t, "Alice Doe", m.Data["user"])
		assert.Equal(t, 70.0, m.Data["amount"])
	}
	assert.Empty(t, customer.sent(), "customers do not see new_booking")
}

func TestDispatch_ConfirmedGoesToOwnerOnly(t *testing.T) {
	reg := NewRegistry()
	owner, other, admin := &fakeHandle{}, &fakeHandle{}, &fakeHandle{}
	reg.Register(model.RoleCustomer, "c1", owner)
	reg.Register(model.RoleCustomer, "c2", other)
	reg.Register(model.RoleAdmin, "a1", admin)

	NewDispatcher(reg).Publish(booking.Event{
		Kind:               booking.EventBookingConfirmed,
		BookingID:          "b-1",
		CustomerID:         "c1",
		AssignedEmployeeID: "e-9",
	})

	require.Len(t, owner.sent(), 1)
	m := decodeMessage(t, owner.sent()[0])
	assert.Equal(t, "booking_confirmed", m.Type)
	assert.Equal(t, "Your booking #b-1 was confirmed", m.Message)
	assert.Equal(t, "b-1", m.Data["id"])
	assert.Equal(t, "e-9", m.Data["assigned_employee_id"])

	assert.Empty(t, other.sent())
	assert.Empty(t, admin.sent())
}

func TestDispatch_ConfirmedWithoutAssignee(t *testing.T) {
	reg := NewRegistry()
	owner := &fakeHandle{}
	reg.Register(model.RoleCustomer, "c1", owner)

	NewDispatcher(reg).Publish(booking.Event{
		Kind:       booking.EventBookingConfirmed,
		BookingID:  "b-2",
		CustomerID: "c1",
	})

	require.Len(t, owner.sent(), 1)
	m := decodeMessage(t, owner.sent()[0])
	_, present := m.Data["assigned_employee_id"]
	assert.False(t, present, "empty assignee is omitted from the payload")
}

func TestDispatch_OfflineOwnerIsSilent(t *testing.T) {
	// No connections registered at all; publishing must simply drop the
	// event without blocking or panicking.
	NewDispatcher(NewRegistry()).Publish(booking.Event{
		Kind:       booking.EventBookingConfirmed,
		BookingID:  "b-3",
		CustomerID: "c-offline",
	})
}

func TestDispatch_UnknownKindIsDropped(t *testing.T) {
	reg := NewRegistry()
	admin := &fakeHandle{}
	reg.Register(model.RoleAdmin, "a1", admin)

	NewDispatcher(reg).Publish(booking.Event{Kind: booking.EventKind("mystery"), BookingID: "b-4"})
	assert.Empty(t, admin.sent())
}
