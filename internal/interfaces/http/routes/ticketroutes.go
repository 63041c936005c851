package routes

import (
	"github.com/gin-gonic/gin"

	tickethandlers "github.com/faqplusplus/faqplusplus/internal/interfaces/http/handlers/ticket"
	"github.com/faqplusplus/faqplusplus/internal/interfaces/http/middleware"
)

type TicketRouteConfig struct {
	TicketHandler        *tickethandlers.TicketHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

func SetupTicketRoutes(api *gin.RouterGroup, config *TicketRouteConfig) {
	tickets := api.Group("/tickets")
	tickets.Use(config.AuthMiddleware.RequireAuth(), config.PermissionMiddleware.RequirePermission())
	{
		tickets.GET("", config.TicketHandler.ListTickets)
		tickets.POST("/delete", config.TicketHandler.DeleteTickets)
	}
}
