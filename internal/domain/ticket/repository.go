package ticket

import (
	"context"
	"strconv"
)

// PartitionKey is the fixed partition every ticket row lives in.
const PartitionKey = "TicketInfo"

// Repository persists tickets keyed by ticket id.
// Get returns (nil, nil) for a missing or empty id.
type Repository interface {
	Upsert(ctx context.Context, t *Ticket) error
	Get(ctx context.Context, ticketID string) (*Ticket, error)
	ListByRequester(ctx context.Context, userPrincipalName string) ([]*Ticket, error)
	ListAll(ctx context.Context) ([]*Ticket, error)
	// Count includes soft-deleted tickets.
	Count(ctx context.Context) (int, error)
	SoftDelete(ctx context.Context, t *Ticket) error
}

// IDBase is added to the ticket count to form a new id.
const IDBase = 10000

// NextID derives the id of the next ticket from the current total count,
// deleted tickets included.
func NextID(count int) string {
	return strconv.Itoa(IDBase + count)
}
