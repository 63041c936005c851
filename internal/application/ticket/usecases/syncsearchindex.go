package usecases

import (
	"context"

	"github.com/faqplusplus/faqplusplus/internal/domain/ticket"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

// TicketIndexer writes the searchable projection of a ticket.
type TicketIndexer interface {
	Index(ctx context.Context, t *ticket.Ticket) error
}

// SyncSearchIndexUseCase re-indexes the ticket named by an event. Deleted
// tickets are indexed too so that searches filter them out.
type SyncSearchIndexUseCase struct {
	tickets ticket.Repository
	index   TicketIndexer
	logger  logger.Interface
}

func NewSyncSearchIndexUseCase(tickets ticket.Repository, index TicketIndexer, logger logger.Interface) *SyncSearchIndexUseCase {
	return &SyncSearchIndexUseCase{tickets: tickets, index: index, logger: logger}
}

func (uc *SyncSearchIndexUseCase) Execute(ctx context.Context, event ticket.Event) error {
	t, err := uc.tickets.Get(ctx, event.TicketID)
	if err != nil {
		uc.logger.Errorw("failed to load ticket for indexing", "ticket_id", event.TicketID, "event", event.Type, "error", err)
		return err
	}
	if t == nil {
		uc.logger.Warnw("indexed ticket no longer exists", "ticket_id", event.TicketID, "event", event.Type)
		return nil
	}

	if err := uc.index.Index(ctx, t); err != nil {
		uc.logger.Errorw("failed to index ticket", "ticket_id", t.TicketID(), "event", event.Type, "error", err)
		return err
	}
	uc.logger.Debugw("ticket indexed", "ticket_id", t.TicketID(), "event", event.Type)
	return nil
}
