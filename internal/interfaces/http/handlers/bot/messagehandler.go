package bot

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	appbot "github.com/faqplusplus/faqplusplus/internal/application/bot"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/botframework"
	"github.com/faqplusplus/faqplusplus/internal/interfaces/http/middleware"
	"github.com/faqplusplus/faqplusplus/internal/shared/constants"
	"github.com/faqplusplus/faqplusplus/internal/shared/errors"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
	"github.com/faqplusplus/faqplusplus/internal/shared/utils"
)

// TurnHandler processes one inbound activity.
type TurnHandler interface {
	Handle(ctx context.Context, a *botframework.Activity) (*appbot.InvokeResponse, error)
}

type MessageHandler struct {
	turns  TurnHandler
	logger logger.Interface
}

func NewMessageHandler(turns TurnHandler, logger logger.Interface) *MessageHandler {
	return &MessageHandler{
		turns:  turns,
		logger: logger,
	}
}

// Messages handles POST /api/messages
//
//	@Summary	Bot Framework activity endpoint
//	@Tags		bot
//	@Accept		json
//	@Produce	json
//	@Success	200
//	@Failure	400	{object}	utils.APIResponse
//	@Failure	401	{object}	utils.APIResponse
//	@Router		/api/messages [post]
func (h *MessageHandler) Messages(c *gin.Context) {
	var activity botframework.Activity
	if err := c.ShouldBindJSON(&activity); err != nil {
		h.logger.Warnw("invalid activity body", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid activity", err.Error()))
		return
	}

	// A channel token is only good for the service url it was issued for.
	if claimed := c.GetString(middleware.ContextKeyBotServiceURL); claimed != "" &&
		!strings.EqualFold(strings.TrimRight(claimed, "/"), strings.TrimRight(activity.ServiceURL, "/")) {
		h.logger.Warnw("activity service url does not match token", "service_url", activity.ServiceURL)
		utils.ErrorResponse(c, http.StatusUnauthorized, "service url does not match channel token")
		return
	}

	resp, err := h.turns.Handle(c.Request.Context(), &activity)
	if err != nil {
		h.logger.Errorw("failed to handle activity",
			"type", activity.Type,
			"activity_id", activity.ID,
			"request_id", c.GetString(constants.ContextKeyRequestID),
			"error", err,
		)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if resp == nil {
		c.Status(http.StatusOK)
		c.Writer.WriteHeaderNow()
		return
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	if resp.Body == nil {
		c.Status(status)
		c.Writer.WriteHeaderNow()
		return
	}
	c.JSON(status, resp.Body)
}
