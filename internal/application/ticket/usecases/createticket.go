package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/faqplusplus/faqplusplus/internal/domain/ticket"
	"github.com/faqplusplus/faqplusplus/internal/shared/errors"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

type CreateTicketCommand struct {
	Title                   string
	Description             string
	LanguageCode            string
	Requester               ticket.Person
	RequesterConversationID string
	// Sender is the account that submitted the card; it becomes the last modifier.
	Sender                ticket.Person
	UserQuestion          string
	KnowledgeBaseAnswer   string
	KnowledgeBaseQuestion string
}

type CreateTicketUseCase struct {
	allocator IDAllocator
	events    ticket.EventPublisher
	observer  TicketObserver
	logger    logger.Interface
	now       func() time.Time
}

func NewCreateTicketUseCase(
	allocator IDAllocator,
	events ticket.EventPublisher,
	observer TicketObserver,
	logger logger.Interface,
) *CreateTicketUseCase {
	if observer == nil {
		observer = nopObserver{}
	}
	return &CreateTicketUseCase{
		allocator: allocator,
		events:    events,
		observer:  observer,
		logger:    logger,
		now:       time.Now,
	}
}

func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*ticket.Ticket, error) {
	if strings.TrimSpace(cmd.Title) == "" {
		return nil, errors.NewValidationError("title is required")
	}

	createdAt := uc.now()
	t, err := uc.allocator.Allocate(ctx, func(ticketID string) (*ticket.Ticket, error) {
		return ticket.NewTicket(ticket.NewTicketParams{
			TicketID:                ticketID,
			Title:                   strings.TrimSpace(cmd.Title),
			Description:             strings.TrimSpace(cmd.Description),
			LanguageCode:            cmd.LanguageCode,
			Requester:               cmd.Requester,
			RequesterConversationID: cmd.RequesterConversationID,
			LastModifiedBy:          cmd.Sender,
			UserQuestion:            cmd.UserQuestion,
			KnowledgeBaseAnswer:     cmd.KnowledgeBaseAnswer,
			KnowledgeBaseQuestion:   cmd.KnowledgeBaseQuestion,
			CreatedAt:               createdAt,
		})
	})
	if err != nil {
		uc.logger.Errorw("failed to create ticket", "requester", cmd.Requester.UserPrincipalName, "error", err)
		return nil, err
	}

	uc.logger.Infow("ticket created", "ticket_id", t.TicketID(), "language", t.LanguageCode())
	publishEvent(ctx, uc.events, uc.observer, uc.logger, ticket.EventCreated, t.TicketID(), createdAt)
	return t, nil
}
