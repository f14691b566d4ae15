// Package queue defines message payloads exchanged over the message broker
// and the background consumer that drains them.  The broker feed mirrors
// every booking lifecycle event for offline consumers (audit log,
// analytics); it is not a delivery guarantee for live subscribers, which
// remain best-effort through the websocket registry.
package queue

import "github.com/sparkhaus/cleaning-booking/internal/booking"

// EventsQueueName is the durable queue carrying lifecycle events.
const EventsQueueName = "booking.events"

// FeedMessage is the broker representation of one lifecycle event.  It
// embeds the event payload unchanged and stamps the emission time so
// consumers do not need clock access to order their logs.
type FeedMessage struct {
	booking.Event
	EmittedAt string `json:"emitted_at"` // RFC 3339, UTC
}
