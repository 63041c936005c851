package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/faqplusplus/faqplusplus/internal/infrastructure/botframework"
	"github.com/faqplusplus/faqplusplus/internal/shared/constants"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
	"github.com/faqplusplus/faqplusplus/internal/shared/utils"
)

// ContextKeyBotServiceURL holds the serviceurl claim of a validated channel token.
const ContextKeyBotServiceURL = "bot_service_url"

// ChannelTokenValidator validates the Authorization header sent by the Bot Framework.
type ChannelTokenValidator interface {
	ValidateAuthHeader(ctx context.Context, header string) (*botframework.BotClaims, error)
}

// RequireChannelAuth rejects activities whose token was not issued by the channel service.
func RequireChannelAuth(validator ChannelTokenValidator, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := validator.ValidateAuthHeader(c.Request.Context(), c.GetHeader(constants.HeaderAuthorization))
		if err != nil {
			log.Warnw("rejected bot activity", "client_ip", c.ClientIP(), "error", err)
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}
		c.Set(ContextKeyBotServiceURL, claims.ServiceURL)
		c.Next()
	}
}
