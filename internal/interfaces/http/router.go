package http

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/faqplusplus/faqplusplus/internal/interfaces/http/middleware"
	"github.com/faqplusplus/faqplusplus/internal/interfaces/http/routes"

	_ "github.com/faqplusplus/faqplusplus/docs"
)

// SetupRoutes configures all HTTP routes.
func (c *Container) SetupRoutes() {
	r := c.engine
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(c.log.Named("http"), c.metrics))
	r.Use(middleware.Recovery(c.log))
	r.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))

	r.GET("/health", c.hdlrs.healthHandler.Health)
	r.GET("/metrics", gin.WrapH(c.metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	routes.SetupBotRoutes(api, &routes.BotRouteConfig{
		MessageHandler: c.hdlrs.messageHandler,
		TokenValidator: c.tokenValidator,
		Logger:         c.log.Named("bot"),
	})

	admin := api.Group("")
	if c.rateLimiter != nil {
		admin.Use(c.rateLimiter.Limit())
	}
	routes.SetupConfigRoutes(admin, &routes.ConfigRouteConfig{
		ConfigHandler:        c.hdlrs.configHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})
	routes.SetupTicketRoutes(admin, &routes.TicketRouteConfig{
		TicketHandler:        c.hdlrs.ticketHandler,
		AuthMiddleware:       c.authMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})
}
