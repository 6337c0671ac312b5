package postgres

import (
	"testing"
	"time"

	"github.com/riskibarqy/basket-api/internal/domain/game"
	qb "github.com/riskibarqy/basket-api/internal/platform/querybuilder"
	"github.com/stretchr/testify/require"
)

func renderGameQuery(t *testing.T, q game.Query) (string, []any) {
	t.Helper()

	query, args, err := qb.Select("id").From("games").Where(queryConditions(q)...).ToSQL()
	require.NoError(t, err)
	return query, args
}

func TestQueryConditions_AdminWithoutFilters(t *testing.T) {
	query, args := renderGameQuery(t, game.Query{Scope: game.Scope{AllCountries: true}})
	require.Equal(t, "SELECT id FROM games", query)
	require.Empty(t, args)
}

func TestQueryConditions_StandardScope(t *testing.T) {
	query, args := renderGameQuery(t, game.Query{
		Scope:    game.Scope{CountryIDs: []int64{4}, ViewerID: "alice"},
		CallerID: "alice",
	})

	require.Equal(t, "SELECT id FROM games WHERE country_id IN ($1) AND (user_id IS NULL OR user_id = $2)", query)
	require.Equal(t, []any{int64(4), "alice"}, args)
}

func TestQueryConditions_StandardWithoutProfileMatchesNothing(t *testing.T) {
	query, _ := renderGameQuery(t, game.Query{Scope: game.Scope{ViewerID: "alice"}})
	require.Contains(t, query, "WHERE 1=0 AND")
}

func TestQueryConditions_Filters(t *testing.T) {
	query, args := renderGameQuery(t, game.Query{
		Scope: game.Scope{AllCountries: true},
		Filter: game.Filter{
			Date:     time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC),
			LeagueID: 12,
			Season:   "2023-2024",
			TeamID:   77,
		},
	})

	want := "SELECT id FROM games WHERE (game_date AT TIME ZONE 'UTC')::date = $1::date" +
		" AND league_id = $2" +
		" AND league_id IN (SELECT id FROM leagues WHERE season = $3)" +
		" AND (home_team_id = $4 OR away_team_id = $5)"
	require.Equal(t, want, query)
	require.Equal(t, []any{"2024-03-09", int64(12), "2023-2024", int64(77), int64(77)}, args)
}

func TestQueryConditions_Views(t *testing.T) {
	assigned, args := renderGameQuery(t, game.Query{Scope: game.Scope{AllCountries: true}, View: game.ViewAssigned, CallerID: "root"})
	require.Equal(t, "SELECT id FROM games WHERE user_id = $1", assigned)
	require.Equal(t, []any{"root"}, args)

	unassigned, _ := renderGameQuery(t, game.Query{Scope: game.Scope{AllCountries: true}, View: game.ViewUnassigned})
	require.Equal(t, "SELECT id FROM games WHERE user_id IS NULL", unassigned)
}

func TestGameRowMapping(t *testing.T) {
	g := game.Game{
		ID:         5,
		Date:       time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC),
		LeagueID:   1,
		CountryID:  2,
		HomeTeamID: 3,
		AwayTeamID: 4,
		Status:     game.Status{"long": "Not Started", "short": "NS", "timer": nil},
		HomeScore:  game.Score{"quarter_1": nil, "quarter_2": nil, "quarter_3": nil, "quarter_4": nil, "over_time": nil, "total": nil},
		AwayScore:  game.Score{"quarter_1": nil, "quarter_2": nil, "quarter_3": nil, "quarter_4": nil, "over_time": nil, "total": nil},
	}

	model, err := gameToWriteModel(g)
	require.NoError(t, err)

	back, err := gameFromRow(gameTableModel{
		ID:         model.ID,
		Date:       model.Date,
		LeagueID:   model.LeagueID,
		CountryID:  model.CountryID,
		HomeTeamID: model.HomeTeamID,
		AwayTeamID: model.AwayTeamID,
		Status:     model.Status,
		HomeScore:  model.HomeScore,
		AwayScore:  model.AwayScore,
	})
	require.NoError(t, err)
	require.Equal(t, "NS", back.Status["short"])
	require.NoError(t, back.HomeScore.Validate())
	require.False(t, back.Assigned())
}
