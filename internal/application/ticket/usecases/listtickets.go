package usecases

import (
	"context"
	"sort"
	"strings"

	"github.com/faqplusplus/faqplusplus/internal/domain/ticket"
	"github.com/faqplusplus/faqplusplus/internal/shared/errors"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

type ListTicketsQuery struct {
	RequesterUserPrincipalName string
}

type ListTicketsUseCase struct {
	tickets ticket.Repository
	logger  logger.Interface
}

func NewListTicketsUseCase(tickets ticket.Repository, logger logger.Interface) *ListTicketsUseCase {
	return &ListTicketsUseCase{tickets: tickets, logger: logger}
}

// Execute returns the requester's active tickets, newest first.
func (uc *ListTicketsUseCase) Execute(ctx context.Context, query ListTicketsQuery) ([]*ticket.Ticket, error) {
	upn := strings.TrimSpace(query.RequesterUserPrincipalName)
	if upn == "" {
		return nil, errors.NewValidationError("user principal name is required")
	}

	tickets, err := uc.tickets.ListByRequester(ctx, upn)
	if err != nil {
		uc.logger.Errorw("failed to list tickets", "requester", upn, "error", err)
		return nil, err
	}

	active := make([]*ticket.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if !t.IsDeleted() {
			active = append(active, t)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].DateCreated().After(active[j].DateCreated())
	})
	return active, nil
}
