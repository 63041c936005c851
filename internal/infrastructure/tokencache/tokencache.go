// Package tokencache holds the bot's app-only access token for outbound
// Bot Framework calls.
package tokencache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/faqplusplus/faqplusplus/internal/infrastructure/cache"
	sharedConfig "github.com/faqplusplus/faqplusplus/internal/shared/config"
	apperrors "github.com/faqplusplus/faqplusplus/internal/shared/errors"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

// expirySkew renews tokens slightly before they lapse.
const expirySkew = 2 * time.Minute

// AuthenticationError is a failed token acquisition.
type AuthenticationError struct {
	Code    string
	Message string
	cause   error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed (%s): %s", e.Code, e.Message)
}

func (e *AuthenticationError) Unwrap() error {
	return e.cause
}

// AsAppError maps the failure to a 401 carrying the upstream code.
func (e *AuthenticationError) AsAppError() *apperrors.AppError {
	return apperrors.NewUnauthorizedError(e.Message, e.Code)
}

// Fetcher obtains a fresh token from the identity provider.
type Fetcher func(ctx context.Context) (*oauth2.Token, error)

// ClientCredentialsFetcher requests app-only tokens for the bot registration.
func ClientCredentialsFetcher(cfg sharedConfig.BotConfig) Fetcher {
	cc := &clientcredentials.Config{
		ClientID:     cfg.AppID,
		ClientSecret: cfg.AppPassword,
		TokenURL:     cfg.TokenURL,
		Scopes:       []string{cfg.TokenScope},
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	return cc.Token
}

// Cache guards the single app token entry of one bot registration.
// Reads share the lock; a refresh holds it exclusively so concurrent
// callers trigger at most one token request.
type Cache struct {
	mu      sync.RWMutex
	key     string
	store   cache.TokenStore
	fetch   Fetcher
	logger  logger.Interface
	nowFunc func() time.Time
}

func New(appID string, store cache.TokenStore, fetch Fetcher, logger logger.Interface) *Cache {
	return &Cache{
		key:     CacheKey(appID),
		store:   store,
		fetch:   fetch,
		logger:  logger,
		nowFunc: time.Now,
	}
}

// CacheKey is the store key of an app's token entry.
func CacheKey(appID string) string {
	return appID + "_AppTokenCache"
}

// AccessToken returns a valid token, refreshing it when missing or near expiry.
func (c *Cache) AccessToken(ctx context.Context) (string, error) {
	c.mu.RLock()
	token, err := c.store.Load(ctx, c.key)
	c.mu.RUnlock()
	if err != nil {
		c.logger.Warnw("failed to read token cache", "key", c.key, "error", err)
	} else if c.usable(token) {
		return token.AccessToken, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if token, err := c.store.Load(ctx, c.key); err == nil && c.usable(token) {
		return token.AccessToken, nil
	}

	fresh, err := c.fetch(ctx)
	if err != nil {
		return "", toAuthenticationError(err)
	}

	cached := &cache.CachedToken{AccessToken: fresh.AccessToken, TokenType: fresh.TokenType, Expiry: fresh.Expiry}
	if err := c.store.Save(ctx, c.key, cached); err != nil {
		c.logger.Warnw("failed to persist token cache", "key", c.key, "error", err)
	}
	return fresh.AccessToken, nil
}

// Invalidate drops the cached entry, e.g. after the connector rejected it.
func (c *Cache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Delete(ctx, c.key)
}

func (c *Cache) usable(token *cache.CachedToken) bool {
	if token == nil || token.AccessToken == "" {
		return false
	}
	if token.Expiry.IsZero() {
		return true
	}
	return c.nowFunc().Add(expirySkew).Before(token.Expiry)
}

func toAuthenticationError(err error) *AuthenticationError {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		code := retrieveErr.ErrorCode
		if code == "" && retrieveErr.Response != nil {
			code = retrieveErr.Response.Status
		}
		msg := retrieveErr.ErrorDescription
		if msg == "" {
			msg = "Unable to acquire an access token for the bot."
		}
		return &AuthenticationError{Code: code, Message: msg, cause: err}
	}
	return &AuthenticationError{Code: "token_request_failed", Message: "Unable to acquire an access token for the bot.", cause: err}
}
