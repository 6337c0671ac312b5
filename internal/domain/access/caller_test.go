package access

import (
	"testing"

	"github.com/riskibarqy/basket-api/internal/domain/game"
	"github.com/riskibarqy/basket-api/internal/domain/user"
	"github.com/stretchr/testify/require"
)

func TestNewCaller_PicksVariant(t *testing.T) {
	t.Parallel()

	admin := NewCaller(user.Principal{UserID: "root", IsAdmin: true}, user.Profile{})
	require.IsType(t, Admin{}, admin)
	require.True(t, admin.Scope().AllCountries)
	require.Empty(t, admin.Scope().ViewerID)

	standard := NewCaller(user.Principal{UserID: "alice"}, user.Profile{CountryIDs: []int64{5, 5, 2}})
	require.IsType(t, Standard{}, standard)
	require.Equal(t, game.Scope{CountryIDs: []int64{2, 5}, ViewerID: "alice"}, standard.Scope())
}

func TestStandard_WithoutProfileSeesNothing(t *testing.T) {
	t.Parallel()

	caller := NewCaller(user.Principal{UserID: "alice"}, user.Profile{})
	g := game.Game{ID: 1, CountryID: 2}
	require.False(t, caller.Scope().Allows(g))
}

func TestQuery_CarriesCaller(t *testing.T) {
	t.Parallel()

	caller := Standard{ID: "alice", CountryIDs: []int64{2}}
	q := Query(caller, game.Filter{LeagueID: 9}, game.ViewAssigned)
	require.Equal(t, "alice", q.CallerID)
	require.Equal(t, game.ViewAssigned, q.View)
	require.Equal(t, int64(9), q.Filter.LeagueID)
}
