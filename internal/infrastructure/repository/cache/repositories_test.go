package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/basket-api/internal/domain/league"
	"github.com/riskibarqy/basket-api/internal/domain/team"
	"github.com/riskibarqy/basket-api/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/basket-api/internal/platform/cache"
	"github.com/stretchr/testify/require"
)

func TestLeagueRepository_ReadThroughAndInvalidate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, memory.SeedDemo(ctx, store))

	shared := basecache.NewStore(time.Minute)
	repo := NewLeagueRepository(store.Leagues(), shared)

	first, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)

	// A write that bypasses the decorator stays invisible until invalidation.
	require.NoError(t, store.Leagues().Upsert(ctx, league.League{ID: 5, Name: "LNB", Season: "2024"}))
	stale, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, stale, 2)

	NewInvalidator(shared).InvalidateCatalog(ctx)
	fresh, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, fresh, 3)
}

func TestLeagueRepository_WritesThroughDecoratorInvalidate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	repo := NewLeagueRepository(store.Leagues(), basecache.NewStore(time.Minute))

	_, exists, err := repo.GetByID(ctx, 7)
	require.NoError(t, err)
	require.False(t, exists)

	_, err = repo.GetOrCreate(ctx, league.League{ID: 7, Name: "Liga Nationala"})
	require.NoError(t, err)

	got, exists, err := repo.GetByID(ctx, 7)
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, "Liga Nationala", got.Name)
}

func TestTeamRepository_ListByIDsServedFromCachedList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, memory.SeedDemo(ctx, store))
	repo := NewTeamRepository(store.Teams(), basecache.NewStore(time.Minute))

	got, err := repo.ListByIDs(ctx, []int64{2303, 1801, 2301, 999})
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, []int64{1801, 2301, 2303}, []int64{got[0].ID, got[1].ID, got[2].ID})

	// The underlying list is cached; a bypassing write stays invisible.
	require.NoError(t, store.Teams().Upsert(ctx, team.Team{ID: 999, Name: "SCM Timisoara"}))
	got, err = repo.ListByIDs(ctx, []int64{999})
	require.NoError(t, err)
	require.Empty(t, got)
}
