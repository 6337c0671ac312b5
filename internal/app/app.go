package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/basket-api/external/anubis"
	"github.com/riskibarqy/basket-api/external/apibasketball"
	"github.com/riskibarqy/basket-api/internal/config"
	"github.com/riskibarqy/basket-api/internal/domain/country"
	"github.com/riskibarqy/basket-api/internal/domain/game"
	"github.com/riskibarqy/basket-api/internal/domain/league"
	"github.com/riskibarqy/basket-api/internal/domain/mirror"
	"github.com/riskibarqy/basket-api/internal/domain/team"
	"github.com/riskibarqy/basket-api/internal/domain/user"
	"github.com/riskibarqy/basket-api/internal/infrastructure/jwtauth"
	"github.com/riskibarqy/basket-api/internal/infrastructure/principalcache"
	cacherepo "github.com/riskibarqy/basket-api/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/basket-api/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/basket-api/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/basket-api/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/basket-api/internal/platform/cache"
	"github.com/riskibarqy/basket-api/internal/platform/logging"
	"github.com/riskibarqy/basket-api/internal/platform/resilience"
	"github.com/riskibarqy/basket-api/internal/usecase"
)

// Container holds the wired services shared by the api and the sync CLI.
type Container struct {
	Games    *usecase.GameService
	Catalog  *usecase.CatalogService
	Profiles *usecase.ProfileService
	Refresh  *usecase.RefreshService
	Batch    *usecase.BatchRefreshService
	Verifier httpapi.TokenVerifier
	logger   *logging.Logger
	closers  []func() error
}

type repositories struct {
	leagues   league.Repository
	countries country.Repository
	teams     team.Repository
	games     game.Repository
	users     user.Repository
	store     mirror.Store
}

// Build wires storage, caches, the feed client and the auth verifier. An empty
// DB_URL runs on the in-memory store seeded with demo data.
func Build(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Container, error) {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Container{logger: logger}

	repos, err := c.buildRepositories(ctx, cfg)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	var invalidator usecase.CatalogInvalidator
	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.leagues = cacherepo.NewLeagueRepository(repos.leagues, store)
		repos.countries = cacherepo.NewCountryRepository(repos.countries, store)
		repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
		invalidator = cacherepo.NewInvalidator(store)
	}

	// Without a feed key the store is read-only; refresh requests answer 503.
	var refresher usecase.Refresher
	if cfg.FeedAPIKey == "" {
		logger.Warn("FEED_API_KEY is empty, feed refresh is disabled")
	} else {
		feed := apibasketball.NewClient(apibasketball.ClientConfig{
			BaseURL: cfg.FeedBaseURL,
			APIKey:  cfg.FeedAPIKey,
			APIHost: cfg.FeedAPIHost,
			Timeout: cfg.FeedTimeout,
			Logger:  logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.FeedCircuitEnabled,
				FailureThreshold: cfg.FeedCircuitFailureCount,
				OpenTimeout:      cfg.FeedCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.FeedCircuitHalfOpenMaxReq,
			},
		})
		c.Refresh = usecase.NewRefreshService(feed, repos.store, invalidator, logger)
		c.Batch = usecase.NewBatchRefreshService(c.Refresh, logger)
		refresher = c.Refresh
	}

	c.Games = usecase.NewGameService(repos.games, repos.leagues, repos.countries, repos.teams, repos.users, refresher, logger)
	c.Catalog = usecase.NewCatalogService(repos.leagues, repos.countries, repos.teams)
	c.Profiles = usecase.NewProfileService(repos.users, repos.countries, logger)

	verifier, err := c.buildVerifier(ctx, cfg)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Verifier = verifier

	return c, nil
}

func (c *Container) buildRepositories(ctx context.Context, cfg config.Config) (repositories, error) {
	if cfg.DBURL == "" {
		c.logger.Warn("DB_URL is empty, using the in-memory store with demo data")
		store := memory.NewStore()
		if err := memory.SeedDemo(ctx, store); err != nil {
			return repositories{}, fmt.Errorf("seed memory store: %w", err)
		}
		return repositories{
			leagues:   store.Leagues(),
			countries: store.Countries(),
			teams:     store.Teams(),
			games:     store.Games(),
			users:     store.Users(),
			store:     store,
		}, nil
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return repositories{}, err
	}
	c.closers = append(c.closers, db.Close)

	return postgresRepositories(db), nil
}

func postgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		leagues:   postgres.NewLeagueRepository(db),
		countries: postgres.NewCountryRepository(db),
		teams:     postgres.NewTeamRepository(db),
		games:     postgres.NewGameRepository(db),
		users:     postgres.NewUserRepository(db),
		store:     postgres.NewRefreshStore(db),
	}
}

func (c *Container) buildVerifier(ctx context.Context, cfg config.Config) (httpapi.TokenVerifier, error) {
	if cfg.AuthProvider == config.AuthProviderJWT {
		verifier, err := jwtauth.NewVerifier(jwtauth.Config{
			Secret:    cfg.JWTSecret,
			AdminRole: cfg.AuthAdminRole,
			Issuer:    cfg.JWTIssuer,
		})
		if err != nil {
			return nil, fmt.Errorf("build jwt verifier: %w", err)
		}
		return verifier, nil
	}

	var cache anubis.PrincipalCache
	if cfg.RedisEnabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		c.closers = append(c.closers, rdb.Close)
		if err := rdb.Ping(ctx).Err(); err != nil {
			// Cache failures read as misses, so a cold redis only costs latency.
			c.logger.WarnContext(ctx, "redis ping failed", "addr", cfg.RedisAddr, "error", err)
		}
		cache = principalcache.NewRedis(rdb, "", cfg.PrincipalCacheTTL, c.logger)
	}

	return anubis.NewClient(anubis.ClientConfig{
		BaseURL:        cfg.AnubisBaseURL,
		IntrospectPath: cfg.AnubisIntrospectPath,
		AdminKey:       cfg.AnubisAdminKey,
		AdminRole:      cfg.AuthAdminRole,
		Timeout:        cfg.AnubisTimeout,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AnubisCircuitEnabled,
			FailureThreshold: cfg.AnubisCircuitFailureCount,
			OpenTimeout:      cfg.AnubisCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AnubisCircuitHalfOpenMaxReq,
		},
		Cache:    cache,
		CacheTTL: cfg.PrincipalCacheTTL,
		Logger:   c.logger,
	}), nil
}

// Close releases the database pool and the redis client.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func NewHTTPServer(cfg config.Config, c *Container, logger *logging.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(c.Games, c.Catalog, c.Profiles, c.Batch, logger)
	router := httpapi.NewRouter(handler, c.Verifier, c.Profiles, logger, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	})

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}
