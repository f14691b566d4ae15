// Package booking owns the booking lifecycle: creation, employee
// assignment, status transitions and deletion.  It is the only writer of
// booking documents; every other component sees bookings through read-only
// event payloads or listing calls.
package booking

// EventKind names a booking lifecycle event.
type EventKind string

const (
    // EventNewBooking fires when a customer creates a booking.  Routed to
    // every live admin connection.
    EventNewBooking EventKind = "new_booking"
    // EventBookingConfirmed fires when a booking reaches the confirmed
    // status.  Routed to the single customer who owns the booking.
    EventBookingConfirmed EventKind = "booking_confirmed"
)

// Event is the read-only projection handed to sinks on every accepted
// transition.  It carries the booking id plus the minimal fields the
// audience needs; it is produced and consumed within a single dispatch
// cycle and never persisted.
type Event struct {
    Kind               EventKind `json:"kind"`
    BookingID          string    `json:"booking_id"`
    CustomerID         string    `json:"customer_id"`
    CustomerName       string    `json:"customer_name,omitempty"`
    ServiceName        string    `json:"service_name,omitempty"`
    Amount             float64   `json:"amount,omitempty"`
    AssignedEmployeeID string    `json:"assigned_employee_id,omitempty"`
}

// EventSink consumes lifecycle events.  Publish must never fail and never
// block the mutation that produced the event; a sink that cannot deliver
// logs and drops.
type EventSink interface {
    Publish(ev Event)
}

// SinkFunc adapts a function to the EventSink interface.
type SinkFunc func(Event)

func (f SinkFunc) Publish(ev Event) { f(ev) }

// CombineSinks fans one event out to several sinks in order.
func CombineSinks(sinks ...EventSink) EventSink {
    return SinkFunc(func(ev Event) {
        for _, s := range sinks {
            s.Publish(ev)
        }
    })
}

// AsyncSink publishes on a fresh goroutine so sink latency (broker dials,
// slow websocket peers) never extends the mutation that produced the
// event.
func AsyncSink(s EventSink) EventSink {
    return SinkFunc(func(ev Event) { go s.Publish(ev) })
}
