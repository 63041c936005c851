package http

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/faqplusplus/faqplusplus/internal/infrastructure/auth"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/blobstore"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/botframework"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/config"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/metrics"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/permission"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/pubsub"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/qnamaker"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/scheduler"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/search"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/tokencache"
	"github.com/faqplusplus/faqplusplus/internal/interfaces/http/middleware"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

// Container holds the infrastructure, use cases, handlers and background
// services of the server process and wires them together.
type Container struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	metrics        *metrics.Metrics
	knowledgeBases *qnamaker.Router
	projections    *blobstore.ProjectionStore
	ticketIndex    *search.TicketIndex
	kbIndex        *search.KnowledgeBaseIndex

	// Bot Framework
	tokenCache     *tokencache.Cache
	connector      *botframework.Connector
	tokenValidator *botframework.TokenValidator

	// Admin API auth
	jwtSvc               *auth.JWTService
	enforcer             *permission.Enforcer
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimiter          *middleware.RateLimiter

	schedulerManager *scheduler.SchedulerManager

	eventBus       pubsub.TicketEventBus
	eventBusCancel context.CancelFunc
	eventBusMu     sync.Mutex
}

// NewContainer creates a Container with all dependencies wired together.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Redis, repositories, knowledge bases, storage and search
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Bot Framework token cache, connector and channel auth
	c.initBotFramework()

	// Section 3: Admin JWT, casbin policies and middlewares
	if err := c.initAuth(); err != nil {
		return nil, err
	}

	// Section 4: Use cases and the publish job
	if err := c.initUseCases(); err != nil {
		return nil, err
	}

	// Section 5: Handlers
	c.initHandlers()

	return c, nil
}

// Engine returns the gin engine.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}
