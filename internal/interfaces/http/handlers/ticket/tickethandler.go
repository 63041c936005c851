package ticket

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	ticketdto "github.com/faqplusplus/faqplusplus/internal/application/ticket/dto"
	"github.com/faqplusplus/faqplusplus/internal/application/ticket/usecases"
	domain "github.com/faqplusplus/faqplusplus/internal/domain/ticket"
	"github.com/faqplusplus/faqplusplus/internal/shared/constants"
	"github.com/faqplusplus/faqplusplus/internal/shared/errors"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
	"github.com/faqplusplus/faqplusplus/internal/shared/utils"
)

type ListTicketsExecutor interface {
	Execute(ctx context.Context, query usecases.ListTicketsQuery) ([]*domain.Ticket, error)
}

type DeleteTicketsExecutor interface {
	Execute(ctx context.Context, cmd usecases.DeleteTicketsCommand) (int, error)
}

// TicketHandler serves the requester's own tickets to the personal tab.
type TicketHandler struct {
	listTicketsUC   ListTicketsExecutor
	deleteTicketsUC DeleteTicketsExecutor
	logger          logger.Interface
}

func NewTicketHandler(
	listTicketsUC ListTicketsExecutor,
	deleteTicketsUC DeleteTicketsExecutor,
	logger logger.Interface,
) *TicketHandler {
	return &TicketHandler{
		listTicketsUC:   listTicketsUC,
		deleteTicketsUC: deleteTicketsUC,
		logger:          logger,
	}
}

// ListTickets handles GET /api/tickets
//
//	@Summary	List the caller's tickets
//	@Tags		tickets
//	@Produce	json
//	@Security	Bearer
//	@Success	200	{object}	utils.APIResponse{data=[]ticketdto.TicketDTO}
//	@Failure	401	{object}	utils.APIResponse
//	@Router		/api/tickets [get]
func (h *TicketHandler) ListTickets(c *gin.Context) {
	upn := c.GetString(constants.ContextKeyUPN)

	tickets, err := h.listTicketsUC.Execute(c.Request.Context(), usecases.ListTicketsQuery{
		RequesterUserPrincipalName: upn,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", ticketdto.ToTicketDTOs(tickets))
}

// DeleteTickets handles POST /api/tickets/delete
//
//	@Summary	Soft delete the caller's tickets
//	@Tags		tickets
//	@Accept		json
//	@Produce	json
//	@Security	Bearer
//	@Param		body	body		[]DeleteTicketRequest	true	"tickets to delete"
//	@Success	200		{object}	utils.APIResponse{data=DeleteTicketsResponse}
//	@Failure	400		{object}	utils.APIResponse
//	@Failure	403		{object}	utils.APIResponse
//	@Router		/api/tickets/delete [post]
func (h *TicketHandler) DeleteTickets(c *gin.Context) {
	var req []DeleteTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for delete tickets", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}
	for _, r := range req {
		if r.TicketID == "" {
			utils.ErrorResponseWithError(c, errors.NewValidationError("ticketId is required"))
			return
		}
	}

	deleted, err := h.deleteTicketsUC.Execute(c.Request.Context(), usecases.DeleteTicketsCommand{
		TicketIDs:                  ticketIDs(req),
		RequesterUserPrincipalName: c.GetString(constants.ContextKeyUPN),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Tickets deleted successfully", DeleteTicketsResponse{Deleted: deleted})
}
