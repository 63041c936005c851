package routes

import (
	"github.com/gin-gonic/gin"

	bothandlers "github.com/faqplusplus/faqplusplus/internal/interfaces/http/handlers/bot"
	"github.com/faqplusplus/faqplusplus/internal/interfaces/http/middleware"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

type BotRouteConfig struct {
	MessageHandler *bothandlers.MessageHandler
	TokenValidator middleware.ChannelTokenValidator
	Logger         logger.Interface
}

// SetupBotRoutes registers the Bot Framework messaging endpoint. It is not
// rate limited: the channel service retries throttled deliveries.
func SetupBotRoutes(api *gin.RouterGroup, config *BotRouteConfig) {
	api.POST("/messages",
		middleware.RequireChannelAuth(config.TokenValidator, config.Logger),
		config.MessageHandler.Messages)
}
