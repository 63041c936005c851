package usecases

import (
	"context"

	"github.com/faqplusplus/faqplusplus/internal/domain/ticket"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

// AttachSMECardUseCase records where a ticket's expert card was posted so
// later answers can update it in place.
type AttachSMECardUseCase struct {
	tickets ticket.Repository
	logger  logger.Interface
}

func NewAttachSMECardUseCase(tickets ticket.Repository, logger logger.Interface) *AttachSMECardUseCase {
	return &AttachSMECardUseCase{tickets: tickets, logger: logger}
}

func (uc *AttachSMECardUseCase) Execute(ctx context.Context, t *ticket.Ticket, activityID, threadConversationID string) error {
	t.AttachSMECard(activityID, threadConversationID)
	if err := uc.tickets.Upsert(ctx, t); err != nil {
		uc.logger.Errorw("failed to save expert card reference", "ticket_id", t.TicketID(), "error", err)
		return err
	}
	return nil
}
