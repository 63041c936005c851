package ticket

import (
	"context"
	"time"
)

type EventType string

const (
	EventCreated  EventType = "created"
	EventAnswered EventType = "answered"
	EventUpdated  EventType = "updated"
	EventDeleted  EventType = "deleted"
)

// Event announces a change to one ticket.
type Event struct {
	Type     EventType `json:"type"`
	TicketID string    `json:"ticket_id"`
	At       time.Time `json:"at"`
}

func NewEvent(t EventType, ticketID string, at time.Time) Event {
	return Event{Type: t, TicketID: ticketID, At: at.UTC()}
}

// EventPublisher fans ticket events out to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
