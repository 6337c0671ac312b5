package cache

import (
	"cmp"
	"context"
	"slices"
	"strconv"

	"github.com/riskibarqy/basket-api/internal/domain/country"
	"github.com/riskibarqy/basket-api/internal/domain/league"
	"github.com/riskibarqy/basket-api/internal/domain/team"
	basecache "github.com/riskibarqy/basket-api/internal/platform/cache"
)

const (
	leaguePrefix  = "league:"
	countryPrefix = "country:"
	teamPrefix    = "team:"
)

// Invalidator drops every cached catalog entry. Writes that bypass the
// decorators, such as a feed refresh transaction, call it after commit.
type Invalidator struct {
	cache *basecache.Store
}

func NewInvalidator(cache *basecache.Store) *Invalidator {
	return &Invalidator{cache: cache}
}

func (i *Invalidator) InvalidateCatalog(ctx context.Context) {
	i.cache.DeletePrefix(ctx, leaguePrefix)
	i.cache.DeletePrefix(ctx, countryPrefix)
	i.cache.DeletePrefix(ctx, teamPrefix)
}

type cachedByID[T any] struct {
	value  T
	exists bool
}

type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	items, err := basecache.Load(ctx, r.cache, leaguePrefix+"list", func(ctx context.Context) ([]league.League, error) {
		return r.next.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return append([]league.League(nil), items...), nil
}

// ListByIDs filters the cached list so one cache entry serves every page.
func (r *LeagueRepository) ListByIDs(ctx context.Context, ids []int64) ([]league.League, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterByID(items, ids, func(v league.League) int64 { return v.ID }), nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID int64) (league.League, bool, error) {
	key := leaguePrefix + "id:" + strconv.FormatInt(leagueID, 10)
	cached, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (cachedByID[league.League], error) {
		item, exists, err := r.next.GetByID(ctx, leagueID)
		return cachedByID[league.League]{value: item, exists: exists}, err
	})
	if err != nil {
		return league.League{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) Upsert(ctx context.Context, item league.League) error {
	defer r.cache.DeletePrefix(ctx, leaguePrefix)
	return r.next.Upsert(ctx, item)
}

func (r *LeagueRepository) GetOrCreate(ctx context.Context, item league.League) (league.League, error) {
	defer r.cache.DeletePrefix(ctx, leaguePrefix)
	return r.next.GetOrCreate(ctx, item)
}

func (r *LeagueRepository) Delete(ctx context.Context, leagueID int64) (bool, error) {
	defer r.cache.DeletePrefix(ctx, leaguePrefix)
	return r.next.Delete(ctx, leagueID)
}

type CountryRepository struct {
	next  country.Repository
	cache *basecache.Store
}

func NewCountryRepository(next country.Repository, cache *basecache.Store) *CountryRepository {
	return &CountryRepository{next: next, cache: cache}
}

func (r *CountryRepository) List(ctx context.Context) ([]country.Country, error) {
	items, err := basecache.Load(ctx, r.cache, countryPrefix+"list", func(ctx context.Context) ([]country.Country, error) {
		return r.next.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return append([]country.Country(nil), items...), nil
}

// ListByIDs filters the cached list so one cache entry serves every page.
func (r *CountryRepository) ListByIDs(ctx context.Context, ids []int64) ([]country.Country, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterByID(items, ids, func(v country.Country) int64 { return v.ID }), nil
}

func (r *CountryRepository) GetByID(ctx context.Context, countryID int64) (country.Country, bool, error) {
	key := countryPrefix + "id:" + strconv.FormatInt(countryID, 10)
	cached, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (cachedByID[country.Country], error) {
		item, exists, err := r.next.GetByID(ctx, countryID)
		return cachedByID[country.Country]{value: item, exists: exists}, err
	})
	if err != nil {
		return country.Country{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *CountryRepository) Upsert(ctx context.Context, item country.Country) error {
	defer r.cache.DeletePrefix(ctx, countryPrefix)
	return r.next.Upsert(ctx, item)
}

func (r *CountryRepository) GetOrCreate(ctx context.Context, item country.Country) (country.Country, error) {
	defer r.cache.DeletePrefix(ctx, countryPrefix)
	return r.next.GetOrCreate(ctx, item)
}

func (r *CountryRepository) Delete(ctx context.Context, countryID int64) (bool, error) {
	defer r.cache.DeletePrefix(ctx, countryPrefix)
	return r.next.Delete(ctx, countryID)
}

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	items, err := basecache.Load(ctx, r.cache, teamPrefix+"list", func(ctx context.Context) ([]team.Team, error) {
		return r.next.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return append([]team.Team(nil), items...), nil
}

// ListByIDs filters the cached list so one cache entry serves every page.
func (r *TeamRepository) ListByIDs(ctx context.Context, ids []int64) ([]team.Team, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterByID(items, ids, func(v team.Team) int64 { return v.ID }), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID int64) (team.Team, bool, error) {
	key := teamPrefix + "id:" + strconv.FormatInt(teamID, 10)
	cached, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (cachedByID[team.Team], error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		return cachedByID[team.Team]{value: item, exists: exists}, err
	})
	if err != nil {
		return team.Team{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) error {
	defer r.cache.DeletePrefix(ctx, teamPrefix)
	return r.next.Upsert(ctx, item)
}

func (r *TeamRepository) GetOrCreate(ctx context.Context, item team.Team) (team.Team, error) {
	defer r.cache.DeletePrefix(ctx, teamPrefix)
	return r.next.GetOrCreate(ctx, item)
}

func (r *TeamRepository) Delete(ctx context.Context, teamID int64) (bool, error) {
	defer r.cache.DeletePrefix(ctx, teamPrefix)
	return r.next.Delete(ctx, teamID)
}

func filterByID[T any](items []T, ids []int64, id func(T) int64) []T {
	out := make([]T, 0, len(ids))
	for _, item := range items {
		if slices.Contains(ids, id(item)) {
			out = append(out, item)
		}
	}
	slices.SortFunc(out, func(a, b T) int {
		return cmp.Compare(id(a), id(b))
	})
	return out
}
