package anubis

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/basket-api/internal/domain/user"
	basecache "github.com/riskibarqy/basket-api/internal/platform/cache"
	"github.com/riskibarqy/basket-api/internal/platform/logging"
	"github.com/riskibarqy/basket-api/internal/platform/resilience"
	"github.com/riskibarqy/basket-api/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultIntrospectPath = "/v1/auth/introspect"
	defaultTimeout        = 5 * time.Second
	defaultCacheTTL       = 2 * time.Minute
	defaultCacheEntries   = 10000
	maxResponseBytes      = 1 << 20
)

var errAnubisTransient = crerr.New("anubis transient failure")

// PrincipalCache stores verified principals keyed by a token hash.
type PrincipalCache interface {
	Get(ctx context.Context, key string) (user.Principal, bool)
	Set(ctx context.Context, key string, principal user.Principal)
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	IntrospectPath string
	// AdminKey authenticates this service to the introspection endpoint.
	AdminKey string
	// AdminRole is the role that makes a principal an admin.
	AdminRole      string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
	// Cache defaults to an in-process cache with CacheTTL; a negative
	// CacheTTL disables caching.
	Cache    PrincipalCache
	CacheTTL time.Duration
	Logger   *logging.Logger
}

// Client verifies bearer tokens through Anubis token introspection.
type Client struct {
	httpClient    *http.Client
	introspectURL string
	adminKey      string
	adminRole     string
	cache         PrincipalCache
	breaker       *resilience.CircuitBreaker
	flight        resilience.SingleFlight[user.Principal]
	logger        *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	path := cfg.IntrospectPath
	if strings.TrimSpace(path) == "" {
		path = defaultIntrospectPath
	}

	cache := cfg.Cache
	if cache == nil {
		ttl := cfg.CacheTTL
		if ttl == 0 {
			ttl = defaultCacheTTL
		}
		if ttl > 0 {
			cache = newLocalPrincipalCache(basecache.NewStore(ttl), defaultCacheEntries)
		} else {
			cache = noopPrincipalCache{}
		}
	}

	breaker := resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker)
	if breaker != nil {
		breaker.OnStateChange(func(from, to resilience.CircuitState) {
			logger.Warn("anubis circuit breaker state changed", "from", from, "to", to)
		})
	}

	return &Client{
		httpClient:    httpClient,
		introspectURL: buildURL(cfg.BaseURL, path),
		adminKey:      strings.TrimSpace(cfg.AdminKey),
		adminRole:     strings.TrimSpace(cfg.AdminRole),
		cache:         cache,
		breaker:       breaker,
		logger:        logger,
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	key := hashToken(token)
	if principal, ok := c.cache.Get(ctx, key); ok {
		return principal, nil
	}

	// Concurrent requests carrying the same token share one introspection.
	principal, err, _ := c.flight.Do(key, func() (user.Principal, error) {
		var out user.Principal
		err := c.breaker.Execute(ctx, func(ctx context.Context) error {
			var err error
			out, err = c.introspect(ctx, token)
			return err
		}, isCircuitFailure)
		return out, err
	})
	if err != nil {
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			return user.Principal{}, fmt.Errorf("%w: anubis circuit is open", usecase.ErrDependencyUnavailable)
		}
		return user.Principal{}, err
	}

	c.cache.Set(ctx, key, principal)
	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	encoded, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return user.Principal{}, fmt.Errorf("marshal introspect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return user.Principal{}, fmt.Errorf("create introspect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, crerr.Mark(
			fmt.Errorf("%w: request introspection to anubis: %v", usecase.ErrDependencyUnavailable, err),
			errAnubisTransient,
		)
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxResponseBytes)); err != nil {
		return user.Principal{}, crerr.Mark(
			fmt.Errorf("%w: read introspect response: %v", usecase.ErrDependencyUnavailable, err),
			errAnubisTransient,
		)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		// Our admin key was rejected; the caller's token says nothing yet.
		c.logger.ErrorContext(ctx, "anubis rejected service credentials", "status_code", resp.StatusCode)
		return user.Principal{}, fmt.Errorf("%w: anubis rejected service credentials (status %d)", usecase.ErrDependencyUnavailable, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		c.logger.WarnContext(ctx, "anubis introspection failed", "status_code", resp.StatusCode)
		return user.Principal{}, crerr.Mark(
			fmt.Errorf("%w: anubis introspection failed with status %d", usecase.ErrDependencyUnavailable, resp.StatusCode),
			errAnubisTransient,
		)
	case resp.StatusCode != http.StatusOK:
		return user.Principal{}, fmt.Errorf("%w: anubis introspection failed with status %d", usecase.ErrDependencyUnavailable, resp.StatusCode)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(buf.B, &decoded); err != nil {
		return user.Principal{}, fmt.Errorf("%w: unmarshal introspect response: %v", usecase.ErrDependencyUnavailable, err)
	}

	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, fmt.Errorf("%w: introspection returned no user_id", usecase.ErrUnauthorized)
	}

	return user.Principal{
		UserID:  strings.TrimSpace(decoded.UserID),
		Email:   strings.TrimSpace(decoded.Email),
		IsAdmin: c.adminRole != "" && slices.Contains(decoded.Roles, c.adminRole),
	}, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active      bool     `json:"active"`
	UserID      string   `json:"user_id"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}
