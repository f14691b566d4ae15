package model

import "time"

// Status is the closed enumeration of booking lifecycle states.  The
// source of record for legal moves is the transition table below; any
// transition not listed there is rejected.  Note that cancellation is not
// a status: a cancelled booking is deleted outright.
type Status string

const (
    StatusPending   Status = "pending"   // initial state, entered at creation
    StatusConfirmed Status = "confirmed" // an employee was assigned or an admin confirmed
    StatusCompleted Status = "completed" // terminal, entered only by explicit admin action
)

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s Status) bool {
    return s == StatusPending || s == StatusConfirmed || s == StatusCompleted
}

// transitions lists every legal status move.  A booking reaches completed
// only from confirmed, never straight from pending.  Self-transitions for
// confirmed are allowed so that an already-confirmed booking can be
// reassigned to a different employee.  completed is terminal.
var transitions = map[Status][]Status{
    StatusPending:   {StatusConfirmed},
    StatusConfirmed: {StatusConfirmed, StatusCompleted},
    StatusCompleted: {},
}

// CanTransition reports whether a booking currently in `from` may move to
// `to`.  Unknown statuses never transition anywhere.
func CanTransition(from, to Status) bool {
    for _, next := range transitions[from] {
        if next == to {
            return true
        }
    }
    return false
}

// Booking represents a service booking document in the `bookings`
// collection.  ServiceName and HourlyRate are denormalized snapshots taken
// from the catalog at creation time, so later catalog edits never change
// historical bookings.  TotalAmount is computed exactly once, at creation,
// as TotalHours * HourlyRate and is never independently edited.
//
// Fields:
//  ID                  – document id (UUID string), immutable.
//  CustomerID          – owning customer's user id.
//  ServiceID           – catalog service id.
//  ServiceName         – service name snapshot at booking time.
//  HourlyRate          – hourly rate snapshot at booking time.
//  BookingDate         – date of the appointment.
//  StartTime, EndTime  – clock times of the appointment ("HH:MM").
//  TotalHours          – duration of the appointment in hours.
//  TotalAmount         – TotalHours * HourlyRate, fixed at creation.
//  Status              – current lifecycle state.
//  AssignedEmployeeID  – employee working the booking, empty until assigned.
//  Address             – free-text service address.
//  SpecialInstructions – free-text customer notes.
//  PaymentSessionID    – external payment session handle, empty until attached.
//  CreatedAt           – timestamp of creation (UTC).
type Booking struct {
    ID                  string    `json:"id"`
    CustomerID          string    `json:"customer_id"`
    ServiceID           string    `json:"service_id"`
    ServiceName         string    `json:"service_name"`
    HourlyRate          float64   `json:"hourly_rate"`
    BookingDate         time.Time `json:"booking_date"`
    StartTime           string    `json:"start_time"`
    EndTime             string    `json:"end_time"`
    TotalHours          float64   `json:"total_hours"`
    TotalAmount         float64   `json:"total_amount"`
    Status              Status    `json:"status"`
    AssignedEmployeeID  string    `json:"assigned_employee_id,omitempty"`
    Address             string    `json:"address"`
    SpecialInstructions string    `json:"special_instructions"`
    PaymentSessionID    string    `json:"payment_session_id,omitempty"`
    CreatedAt           time.Time `json:"created_at"`
}
