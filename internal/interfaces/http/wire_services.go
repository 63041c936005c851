package http

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/faqplusplus/faqplusplus/internal/domain/ticket"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/auth"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/blobstore"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/botframework"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/cache"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/config"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/metrics"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/permission"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/pubsub"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/qnamaker"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/search"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/tokencache"
	"github.com/faqplusplus/faqplusplus/internal/interfaces/http/middleware"
	"github.com/faqplusplus/faqplusplus/internal/shared/goroutine"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

const (
	connectorTimeout  = 30 * time.Second
	adminTokenMinutes = 60
	apiRateLimit      = 300
	apiRateWindow     = time.Minute
	indexSyncTimeout  = 30 * time.Second
	tokenStorePrefix  = "faqplus:"
)

// ============================================================
// Section 1: Infrastructure
// ============================================================

func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	if cfg.Redis.Enabled {
		client, err := initRedis(cfg, log)
		if err != nil {
			return err
		}
		c.redis = client
	}

	c.metrics = metrics.New()
	c.repos = newRepositories(c.db, log)
	c.knowledgeBases = qnamaker.NewRouter(cfg.QnAMaker, log.Named("qnamaker"))

	projections, err := blobstore.Open(context.Background(), cfg.Storage, log.Named("blobstore"))
	if err != nil {
		return fmt.Errorf("failed to open projection storage: %w", err)
	}
	c.projections = projections

	if cfg.Elasticsearch.Enabled {
		es, err := search.NewClient(cfg.Elasticsearch)
		if err != nil {
			return fmt.Errorf("failed to create elasticsearch client: %w", err)
		}
		c.ticketIndex = search.NewTicketIndex(es, cfg.Elasticsearch.TicketIndex, log.Named("search"))
		c.kbIndex = search.NewKnowledgeBaseIndex(es, cfg.Elasticsearch.KnowledgeBaseIndex, log.Named("search"))
		log.Infow("elasticsearch search enabled", "addresses", cfg.Elasticsearch.Addresses)
	}

	if c.redis != nil {
		c.eventBus = pubsub.NewRedisTicketEventBus(c.redis, log.Named("events"))
	} else {
		c.eventBus = pubsub.NewLocalTicketEventBus(log.Named("events"))
	}
	return nil
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.GetAddr(), err)
	}
	log.Infow("Redis connection established successfully")

	return redisClient, nil
}

// ============================================================
// Section 2: Bot Framework
// ============================================================

func (c *Container) initBotFramework() {
	cfg := c.cfg
	log := c.log.Named("botframework")

	var store cache.TokenStore
	if c.redis != nil {
		store = cache.NewRedisTokenStore(c.redis, tokenStorePrefix)
	} else {
		store = cache.NewMemoryTokenStore()
	}
	c.tokenCache = tokencache.New(cfg.Bot.AppID, store, tokencache.ClientCredentialsFetcher(cfg.Bot), log)
	c.connector = botframework.NewConnector(c.tokenCache, connectorTimeout, log)
	c.tokenValidator = botframework.NewTokenValidator(botframework.ValidatorConfig{
		AppID:             cfg.Bot.AppID,
		OpenIDMetadataURL: cfg.Bot.OpenIDMetadataURL,
		Issuer:            cfg.Bot.TokenIssuer,
		SkipAuth:          cfg.Bot.SkipAuth,
	}, log)
	if c.tokenValidator.SkipsAuth() {
		log.Warnw("channel token validation is disabled")
	}
}

// ============================================================
// Section 3: Admin API auth
// ============================================================

func (c *Container) initAuth() error {
	cfg := c.cfg
	log := c.log

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, adminTokenMinutes)

	enforcer, err := permission.NewEnforcer(c.db, log.Named("permission"))
	if err != nil {
		return err
	}
	if err := enforcer.Seed(cfg.Auth.AdminUPNs); err != nil {
		return fmt.Errorf("failed to seed permission policies: %w", err)
	}
	c.enforcer = enforcer

	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, log)
	if c.redis != nil {
		c.rateLimiter = middleware.NewRateLimiter(c.redis, apiRateLimit, apiRateWindow, log)
	}
	return nil
}

// ============================================================
// Background services
// ============================================================

// StartBackground subscribes the search index to ticket events and, when
// withScheduler is set, starts the knowledge base publish schedule.
func (c *Container) StartBackground(withScheduler bool) {
	if c.ucs.syncSearchIndex != nil {
		c.startIndexSync()
	}
	if withScheduler && c.schedulerManager != nil {
		c.schedulerManager.Start()
	}
}

func (c *Container) startIndexSync() {
	c.eventBusMu.Lock()
	defer c.eventBusMu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	c.eventBusCancel = cancel

	syncUC := c.ucs.syncSearchIndex
	goroutine.SafeGo(c.log, "ticket-index-sync", func() {
		err := c.eventBus.Subscribe(ctx, func(event ticket.Event) {
			syncCtx, cancel := context.WithTimeout(ctx, indexSyncTimeout)
			defer cancel()
			_ = syncUC.Execute(syncCtx, event)
		})
		if err != nil && ctx.Err() == nil {
			c.log.Errorw("ticket event subscription stopped", "error", err)
		}
	})
}

// Shutdown stops background work and releases connections. The database is closed by the caller.
func (c *Container) Shutdown() {
	c.eventBusMu.Lock()
	if c.eventBusCancel != nil {
		c.eventBusCancel()
		c.eventBusCancel = nil
	}
	c.eventBusMu.Unlock()

	if c.schedulerManager != nil && c.schedulerManager.IsStarted() {
		if err := c.schedulerManager.Stop(); err != nil {
			c.log.Errorw("failed to stop scheduler", "error", err)
		}
	}

	if c.projections != nil {
		if err := c.projections.Close(); err != nil {
			c.log.Warnw("failed to close projection storage", "error", err)
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
