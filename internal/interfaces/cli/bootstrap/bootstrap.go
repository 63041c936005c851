// Package bootstrap loads configuration, logging and the database for CLI commands.
package bootstrap

import (
	"fmt"
	"io"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/faqplusplus/faqplusplus/internal/infrastructure/config"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/database"
	"github.com/faqplusplus/faqplusplus/internal/shared/constants"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

// Environment prefers the ENV variable over the --env flag value.
func Environment(flag string) string {
	if v := os.Getenv("ENV"); v != "" {
		return v
	}
	return flag
}

// Load reads the configuration for env and initializes the process logger.
func Load(env string) (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Server.Mode = GinMode(env)
	if err := logger.Init(&cfg.Logger, cfg.Server.Mode == gin.DebugMode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger.NewLogger(), nil
}

// LoadWithDatabase is Load followed by opening the shared database connection.
// Callers close it with database.Close.
func LoadWithDatabase(env string) (*config.Config, logger.Interface, error) {
	cfg, log, err := Load(env)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return cfg, log, nil
}

// QuietGin stops gin from printing its route table and request lines.
func QuietGin(mode string) {
	gin.SetMode(mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}
}

func GinMode(environment string) string {
	switch environment {
	case constants.EnvProduction, "prod", "release":
		return gin.ReleaseMode
	case constants.EnvTest, "testing":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
