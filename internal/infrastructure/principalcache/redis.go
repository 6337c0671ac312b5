package principalcache

import (
	"context"
	"errors"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/basket-api/internal/domain/user"
	"github.com/riskibarqy/basket-api/internal/platform/logging"
)

const defaultKeyPrefix = "basket-api:principal:"

// Commands is the subset of the redis client the cache needs.
type Commands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Redis shares verified principals across api replicas. Redis errors are
// logged and treated as a miss so auth keeps working when redis is down.
type Redis struct {
	client Commands
	prefix string
	ttl    time.Duration
	logger *logging.Logger
}

func NewRedis(client Commands, prefix string, ttl time.Duration, logger *logging.Logger) *Redis {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(prefix) == "" {
		prefix = defaultKeyPrefix
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl, logger: logger}
}

type cachedPrincipal struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email,omitempty"`
	IsAdmin bool   `json:"is_admin"`
}

func (c *Redis) Get(ctx context.Context, key string) (user.Principal, bool) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "principal cache get failed", "error", err)
		}
		return user.Principal{}, false
	}

	var cached cachedPrincipal
	if err := sonic.Unmarshal(raw, &cached); err != nil {
		c.logger.WarnContext(ctx, "principal cache entry is corrupt", "error", err)
		return user.Principal{}, false
	}
	if strings.TrimSpace(cached.UserID) == "" {
		return user.Principal{}, false
	}

	return user.Principal{UserID: cached.UserID, Email: cached.Email, IsAdmin: cached.IsAdmin}, true
}

func (c *Redis) Set(ctx context.Context, key string, principal user.Principal) {
	if c.ttl <= 0 {
		return
	}

	encoded, err := sonic.Marshal(cachedPrincipal{
		UserID:  principal.UserID,
		Email:   principal.Email,
		IsAdmin: principal.IsAdmin,
	})
	if err != nil {
		c.logger.WarnContext(ctx, "encode principal for cache failed", "error", err)
		return
	}

	if err := c.client.Set(ctx, c.prefix+key, encoded, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "principal cache set failed", "error", err)
	}
}
