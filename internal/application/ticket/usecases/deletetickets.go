package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/faqplusplus/faqplusplus/internal/domain/ticket"
	"github.com/faqplusplus/faqplusplus/internal/shared/errors"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

type DeleteTicketsCommand struct {
	TicketIDs []string
	// RequesterUserPrincipalName must own every ticket in TicketIDs.
	RequesterUserPrincipalName string
}

type DeleteTicketsUseCase struct {
	tickets  ticket.Repository
	events   ticket.EventPublisher
	observer TicketObserver
	logger   logger.Interface
	now      func() time.Time
}

func NewDeleteTicketsUseCase(
	tickets ticket.Repository,
	events ticket.EventPublisher,
	observer TicketObserver,
	logger logger.Interface,
) *DeleteTicketsUseCase {
	if observer == nil {
		observer = nopObserver{}
	}
	return &DeleteTicketsUseCase{
		tickets:  tickets,
		events:   events,
		observer: observer,
		logger:   logger,
		now:      time.Now,
	}
}

// Execute soft deletes the tickets. Ownership of all ids is checked before
// anything is deleted; unknown and already deleted ids are skipped.
func (uc *DeleteTicketsUseCase) Execute(ctx context.Context, cmd DeleteTicketsCommand) (int, error) {
	upn := strings.TrimSpace(cmd.RequesterUserPrincipalName)
	if upn == "" {
		return 0, errors.NewValidationError("user principal name is required")
	}
	if len(cmd.TicketIDs) == 0 {
		return 0, errors.NewValidationError("at least one ticket id is required")
	}

	targets := make([]*ticket.Ticket, 0, len(cmd.TicketIDs))
	for _, id := range cmd.TicketIDs {
		t, err := uc.tickets.Get(ctx, strings.TrimSpace(id))
		if err != nil {
			return 0, err
		}
		if t == nil || t.IsDeleted() {
			continue
		}
		if !strings.EqualFold(t.RequesterUserPrincipalName(), upn) {
			uc.logger.Warnw("ticket delete denied", "ticket_id", t.TicketID(), "requester", upn)
			return 0, errors.NewForbiddenError("ticket belongs to another user", t.TicketID())
		}
		targets = append(targets, t)
	}

	for _, t := range targets {
		if err := uc.tickets.SoftDelete(ctx, t); err != nil {
			uc.logger.Errorw("failed to delete ticket", "ticket_id", t.TicketID(), "error", err)
			return 0, err
		}
		publishEvent(ctx, uc.events, uc.observer, uc.logger, ticket.EventDeleted, t.TicketID(), uc.now())
	}

	uc.logger.Infow("tickets deleted", "requester", upn, "count", len(targets))
	return len(targets), nil
}
