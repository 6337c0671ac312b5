package usecase

import (
	"context"
	"testing"

	"github.com/riskibarqy/basket-api/internal/domain/access"
	"github.com/riskibarqy/basket-api/internal/domain/user"
	"github.com/riskibarqy/basket-api/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/require"
)

func newProfileFixture(t *testing.T) (*ProfileService, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	require.NoError(t, memory.SeedDemo(context.Background(), store))
	return NewProfileService(store.Users(), store.Countries(), nil), store
}

func TestProfileService_ResolveCallerVariants(t *testing.T) {
	t.Parallel()

	svc, _ := newProfileFixture(t)
	ctx := context.Background()

	admin, err := svc.ResolveCaller(ctx, user.Principal{UserID: "root", IsAdmin: true})
	require.NoError(t, err)
	require.IsType(t, access.Admin{}, admin)
	require.True(t, admin.Scope().AllCountries)

	standard, err := svc.ResolveCaller(ctx, user.Principal{UserID: "alice"})
	require.NoError(t, err)
	require.IsType(t, access.Standard{}, standard)
	require.Empty(t, standard.Countries())
	require.Equal(t, "alice", standard.Scope().ViewerID)
}

func TestProfileService_ResolveCallerRequiresUserID(t *testing.T) {
	t.Parallel()

	svc, _ := newProfileFixture(t)
	_, err := svc.ResolveCaller(context.Background(), user.Principal{UserID: "  "})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestProfileService_SetCountries(t *testing.T) {
	t.Parallel()

	svc, _ := newProfileFixture(t)
	ctx := context.Background()
	admin := access.Admin{ID: "root"}

	_, err := svc.ResolveCaller(ctx, user.Principal{UserID: "alice"})
	require.NoError(t, err)

	profile, err := svc.SetCountries(ctx, admin, "alice", []int64{memory.CountryIDSpain, memory.CountryIDRomania, memory.CountryIDSpain})
	require.NoError(t, err)
	require.Equal(t, []int64{memory.CountryIDSpain, memory.CountryIDRomania}, profile.CountryIDs)

	alice, err := svc.ResolveCaller(ctx, user.Principal{UserID: "alice"})
	require.NoError(t, err)
	require.True(t, alice.Entitled(memory.CountryIDRomania))

	current, err := svc.Profile(ctx, alice)
	require.NoError(t, err)
	require.Len(t, current.CountryIDs, 2)
}

func TestProfileService_SetCountriesErrors(t *testing.T) {
	t.Parallel()

	svc, _ := newProfileFixture(t)
	ctx := context.Background()
	_, err := svc.ResolveCaller(ctx, user.Principal{UserID: "alice"})
	require.NoError(t, err)

	_, err = svc.SetCountries(ctx, access.Standard{ID: "alice"}, "alice", []int64{memory.CountryIDRomania})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.SetCountries(ctx, access.Admin{ID: "root"}, "alice", []int64{4242})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.SetCountries(ctx, access.Admin{ID: "root"}, "ghost", []int64{memory.CountryIDRomania})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestProfileService_MissingProfileReadsEmpty(t *testing.T) {
	t.Parallel()

	svc, _ := newProfileFixture(t)
	profile, err := svc.Profile(context.Background(), access.Standard{ID: "nobody"})
	require.NoError(t, err)
	require.Equal(t, "nobody", profile.UserID)
	require.Empty(t, profile.CountryIDs)
}
