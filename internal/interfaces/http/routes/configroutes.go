package routes

import (
	"github.com/gin-gonic/gin"

	confighandlers "github.com/faqplusplus/faqplusplus/internal/interfaces/http/handlers/configuration"
	"github.com/faqplusplus/faqplusplus/internal/interfaces/http/middleware"
)

type ConfigRouteConfig struct {
	ConfigHandler        *confighandlers.ConfigHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupConfigRoutes registers the admin configuration API under /api/config.
func SetupConfigRoutes(api *gin.RouterGroup, config *ConfigRouteConfig) {
	cfg := api.Group("/config")
	cfg.Use(config.AuthMiddleware.RequireAuth(), config.PermissionMiddleware.RequirePermission())
	{
		cfg.GET("/teamid", config.ConfigHandler.GetTeamID)
		cfg.POST("/teamid", config.ConfigHandler.SaveTeamID)

		cfg.GET("/knowledgebaseid", config.ConfigHandler.GetKnowledgeBaseID)
		cfg.POST("/knowledgebaseid", config.ConfigHandler.SaveKnowledgeBaseID)

		cfg.GET("/welcomemessage", config.ConfigHandler.GetWelcomeMessage)
		cfg.POST("/welcomemessage", config.ConfigHandler.SaveWelcomeMessage)

		cfg.GET("/helptabtext", config.ConfigHandler.GetHelpTabText)
		cfg.GET("/helptabtext/html", config.ConfigHandler.GetHelpTabHTML)
		cfg.POST("/helptabtext", config.ConfigHandler.SaveHelpTabText)

		cfg.GET("/languages", config.ConfigHandler.ListLanguages)
		cfg.GET("/languages/:code", config.ConfigHandler.GetLanguageBinding)
		cfg.POST("/languages/:code", config.ConfigHandler.SaveLanguageBinding)

		cfg.GET("/supportedlanguages", config.ConfigHandler.GetSupportedLanguages)
		cfg.POST("/supportedlanguages", config.ConfigHandler.SaveSupportedLanguages)
	}
}
