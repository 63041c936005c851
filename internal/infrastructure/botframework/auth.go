package botframework

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/faqplusplus/faqplusplus/internal/shared/errors"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

const (
	keyRefreshInterval = 24 * time.Hour
	clockSkew          = 5 * time.Minute
	// unknownKeyRefreshInterval bounds how often an unseen kid may trigger a refetch.
	unknownKeyRefreshInterval = 5 * time.Minute
	// emptyKeyRetryInterval applies while no key set has ever loaded.
	emptyKeyRetryInterval = 10 * time.Second
)

type ValidatorConfig struct {
	AppID             string
	OpenIDMetadataURL string
	Issuer            string
	// SkipAuth disables validation for local emulator runs.
	SkipAuth bool
}

// BotClaims are the claims of a token issued by the Bot Framework channel service.
type BotClaims struct {
	ServiceURL string `json:"serviceurl"`
	jwt.RegisteredClaims
}

// TokenValidator checks inbound channel tokens against the published signing keys.
type TokenValidator struct {
	config     ValidatorConfig
	httpClient *http.Client
	logger     logger.Interface

	fetchGroup singleflight.Group

	mu          sync.RWMutex
	keys        map[string]*rsa.PublicKey
	fetchedAt   time.Time
	lastAttempt time.Time
	nowFunc     func() time.Time
}

func NewTokenValidator(cfg ValidatorConfig, logger logger.Interface) *TokenValidator {
	return &TokenValidator{
		config:     cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
		nowFunc:    time.Now,
	}
}

// SkipsAuth reports whether validation is disabled.
func (v *TokenValidator) SkipsAuth() bool {
	return v.config.SkipAuth
}

// ValidateAuthHeader validates the Authorization header of an inbound activity.
func (v *TokenValidator) ValidateAuthHeader(ctx context.Context, header string) (*BotClaims, error) {
	if v.config.SkipAuth {
		return &BotClaims{}, nil
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, apperrors.NewUnauthorizedError("missing bearer token")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.config.AppID),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
		jwt.WithTimeFunc(v.nowFunc),
	}
	if v.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), &BotClaims{}, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("token has no key id")
		}
		return v.key(ctx, kid)
	}, opts...)
	if err != nil {
		v.logger.Debugw("rejected channel token", "error", err)
		return nil, apperrors.NewUnauthorizedError("invalid channel token")
	}

	claims, ok := token.Claims.(*BotClaims)
	if !ok || !token.Valid {
		return nil, apperrors.NewUnauthorizedError("invalid channel token")
	}
	return claims, nil
}

// key looks up a signing key. A stale key set is refreshed; an unknown kid
// refreshes at most once per unknownKeyRefreshInterval. Concurrent refreshes
// share one fetch.
func (v *TokenValidator) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.RLock()
	k, ok := v.keys[kid]
	fresh := v.nowFunc().Sub(v.fetchedAt) < keyRefreshInterval
	v.mu.RUnlock()
	if ok && fresh {
		return k, nil
	}

	if err := v.refreshShared(ctx); err != nil {
		if ok {
			v.logger.Warnw("using stale channel signing key", "kid", kid, "error", err)
			return k, nil
		}
		return nil, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	if k, ok := v.keys[kid]; ok {
		return k, nil
	}
	return nil, fmt.Errorf("unknown signing key %q", kid)
}

func (v *TokenValidator) refreshShared(ctx context.Context) error {
	_, err, _ := v.fetchGroup.Do("keys", func() (interface{}, error) {
		v.mu.Lock()
		now := v.nowFunc()
		if !v.refreshDue(now) {
			v.mu.Unlock()
			return nil, nil
		}
		v.lastAttempt = now
		v.mu.Unlock()
		return nil, v.refresh(context.WithoutCancel(ctx))
	})
	return err
}

// refreshDue reports whether a fetch may start at now. Callers hold mu.
func (v *TokenValidator) refreshDue(now time.Time) bool {
	if v.lastAttempt.IsZero() {
		return true
	}
	interval := unknownKeyRefreshInterval
	if len(v.keys) == 0 {
		interval = emptyKeyRetryInterval
	}
	return now.Sub(v.lastAttempt) >= interval
}

type openIDMetadata struct {
	JWKSURI string `json:"jwks_uri"`
}

type jsonWebKey struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jsonWebKeySet struct {
	Keys []jsonWebKey `json:"keys"`
}

func (v *TokenValidator) refresh(ctx context.Context) error {
	var meta openIDMetadata
	if err := v.getJSON(ctx, v.config.OpenIDMetadataURL, &meta); err != nil {
		return fmt.Errorf("failed to load openid metadata: %w", err)
	}
	if meta.JWKSURI == "" {
		return fmt.Errorf("openid metadata has no jwks_uri")
	}

	var set jsonWebKeySet
	if err := v.getJSON(ctx, meta.JWKSURI, &set); err != nil {
		return fmt.Errorf("failed to load signing keys: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, jwk := range set.Keys {
		if jwk.Kty != "RSA" || jwk.Kid == "" {
			continue
		}
		pub, err := rsaPublicKey(jwk.N, jwk.E)
		if err != nil {
			v.logger.Warnw("skipping malformed signing key", "kid", jwk.Kid, "error", err)
			continue
		}
		keys[jwk.Kid] = pub
	}

	v.mu.Lock()
	v.keys = keys
	v.fetchedAt = v.nowFunc()
	v.mu.Unlock()

	v.logger.Infow("refreshed channel signing keys", "count", len(keys))
	return nil
}

func (v *TokenValidator) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func rsaPublicKey(n, e string) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, fmt.Errorf("modulus: %w", err)
	}
	eb, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, fmt.Errorf("exponent: %w", err)
	}
	if len(nb) == 0 || len(eb) == 0 {
		return nil, fmt.Errorf("empty key material")
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nb),
		E: int(new(big.Int).SetBytes(eb).Int64()),
	}, nil
}
