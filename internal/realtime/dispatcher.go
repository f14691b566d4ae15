package realtime

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/sparkhaus/cleaning-booking/internal/booking"
	"github.com/sparkhaus/cleaning-booking/internal/model"
)

// Message is the wire format pushed to websocket subscribers.  The shape
// matches what the frontend expects: a type tag, a human-readable message
// and a data object with the minimal fields for that event kind.
type Message struct {
	Type    string         `json:"type"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

// route describes where an event kind goes and what the audience sees.
// audienceRole selects the role channel; when toOwner is true the event is
// delivered only to the booking's owning subscriber, otherwise it is
// broadcast to every live connection of the role.
type route struct {
	audienceRole string
	toOwner      bool
	build        func(ev booking.Event) Message
}

// routes is the full routing table.  Adding an event kind means adding a
// row here; delivery mechanics stay untouched.
var routes = map[booking.EventKind]route{
	booking.EventNewBooking: {
		audienceRole: model.RoleAdmin,
		build: func(ev booking.Event) Message {
			return Message{
				Type:    string(booking.EventNewBooking),
				Message: fmt.Sprintf("New booking: %s - $%.2f", ev.ServiceName, ev.Amount),
				Data: map[string]any{
					"id":      ev.BookingID,
					"service": ev.ServiceName,
					"user":    ev.CustomerName,
					"amount":  ev.Amount,
				},
			}
		},
	},
	booking.EventBookingConfirmed: {
		audienceRole: model.RoleCustomer,
		toOwner:      true,
		build: func(ev booking.Event) Message {
			data := map[string]any{"id": ev.BookingID}
			if ev.AssignedEmployeeID != "" {
				data["assigned_employee_id"] = ev.AssignedEmployeeID
			}
			return Message{
				Type:    string(booking.EventBookingConfirmed),
				Message: fmt.Sprintf("Your booking #%s was confirmed", ev.BookingID),
				Data:    data,
			}
		},
	},
}

// Dispatcher consumes lifecycle events from the booking store and routes
// them through the connection registry.  It implements booking.EventSink.
type Dispatcher struct {
	reg *Registry
}

// NewDispatcher returns a dispatcher fanning out through the registry.
func NewDispatcher(reg *Registry) *Dispatcher { return &Dispatcher{reg: reg} }

// Publish routes one event.  Events with no routing rule and payloads that
// fail to marshal are logged and dropped; a notification problem never
// propagates back to the booking mutation that produced it.
func (d *Dispatcher) Publish(ev booking.Event) {
	rt, ok := routes[ev.Kind]
	if !ok {
		log.Printf("realtime: no route for event kind %q", ev.Kind)
		return
	}
	payload, err := json.Marshal(rt.build(ev))
	if err != nil {
		log.Printf("realtime: marshal %s event: %v", ev.Kind, err)
		return
	}
	if rt.toOwner {
		d.reg.Deliver(rt.audienceRole, ev.CustomerID, payload)
		return
	}
	d.reg.DeliverToRole(rt.audienceRole, payload)
}
