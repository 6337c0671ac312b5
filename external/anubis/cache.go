package anubis

import (
	"context"

	"github.com/riskibarqy/basket-api/internal/domain/user"
	basecache "github.com/riskibarqy/basket-api/internal/platform/cache"
)

// localPrincipalCache is the single-instance fallback when no shared cache is
// configured. Once maxEntries principals are held, new ones are not cached
// until older entries expire and are read out.
type localPrincipalCache struct {
	store      *basecache.Store
	maxEntries int
}

func newLocalPrincipalCache(store *basecache.Store, maxEntries int) *localPrincipalCache {
	return &localPrincipalCache{store: store, maxEntries: maxEntries}
}

func (c *localPrincipalCache) Get(ctx context.Context, key string) (user.Principal, bool) {
	value, ok := c.store.Get(ctx, key)
	if !ok {
		return user.Principal{}, false
	}
	principal, ok := value.(user.Principal)
	return principal, ok
}

func (c *localPrincipalCache) Set(ctx context.Context, key string, principal user.Principal) {
	if c.maxEntries > 0 && c.store.Len() >= c.maxEntries {
		return
	}
	c.store.Set(ctx, key, principal)
}

type noopPrincipalCache struct{}

func (noopPrincipalCache) Get(context.Context, string) (user.Principal, bool) {
	return user.Principal{}, false
}

func (noopPrincipalCache) Set(context.Context, string, user.Principal) {}
