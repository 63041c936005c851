package usecases

import (
	"context"

	"github.com/faqplusplus/faqplusplus/internal/domain/ticket"
	"github.com/faqplusplus/faqplusplus/internal/shared/errors"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

type GetTicketUseCase struct {
	tickets ticket.Repository
	logger  logger.Interface
}

func NewGetTicketUseCase(tickets ticket.Repository, logger logger.Interface) *GetTicketUseCase {
	return &GetTicketUseCase{tickets: tickets, logger: logger}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, ticketID string) (*ticket.Ticket, error) {
	t, err := uc.tickets.Get(ctx, ticketID)
	if err != nil {
		uc.logger.Errorw("failed to get ticket", "ticket_id", ticketID, "error", err)
		return nil, err
	}
	if t == nil {
		return nil, errors.NewNotFoundError("ticket not found", ticketID)
	}
	return t, nil
}
