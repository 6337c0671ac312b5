package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/basket-api/internal/domain/access"
	"github.com/riskibarqy/basket-api/internal/domain/country"
	"github.com/riskibarqy/basket-api/internal/domain/game"
	"github.com/riskibarqy/basket-api/internal/domain/league"
	"github.com/riskibarqy/basket-api/internal/domain/team"
	"github.com/riskibarqy/basket-api/internal/domain/user"
	countrymock "github.com/riskibarqy/basket-api/internal/mocks/domain/country"
	gamemock "github.com/riskibarqy/basket-api/internal/mocks/domain/game"
	leaguemock "github.com/riskibarqy/basket-api/internal/mocks/domain/league"
	teammock "github.com/riskibarqy/basket-api/internal/mocks/domain/team"
	usermock "github.com/riskibarqy/basket-api/internal/mocks/domain/user"
	"github.com/stretchr/testify/mock"
)

func TestGameService_AssignLosingRaceUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gameRepo := gamemock.NewRepository(t)
	userRepo := usermock.NewRepository(t)
	service := NewGameService(
		gameRepo,
		leaguemock.NewRepository(t),
		countrymock.NewRepository(t),
		teammock.NewRepository(t),
		userRepo,
		nil,
		nil,
	)
	caller := access.Standard{ID: "bob", CountryIDs: []int64{33}}

	userRepo.
		On("EnsureProfile", mock.Anything, "bob").
		Return(user.Profile{UserID: "bob", CountryIDs: []int64{33}}, nil).
		Once()
	gameRepo.
		On("Get", mock.Anything, mock.MatchedBy(func(q game.Query) bool {
			return q.CallerID == "bob" && q.Scope.ViewerID == "bob" && !q.Scope.AllCountries
		}), int64(390001)).
		Return(game.Game{ID: 390001, CountryID: 33, Date: time.Now()}, true, nil).
		Once()
	// Another caller claimed the row between the read and the write.
	gameRepo.
		On("AssignIfVisible", mock.Anything, caller.Scope(), int64(390001), "bob").
		Return(game.Game{}, false, nil).
		Once()

	_, err := service.Assign(ctx, caller, 390001)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGameService_AssignProfileFailureUsingMockery(t *testing.T) {
	t.Parallel()

	userRepo := usermock.NewRepository(t)
	service := NewGameService(
		gamemock.NewRepository(t),
		leaguemock.NewRepository(t),
		countrymock.NewRepository(t),
		teammock.NewRepository(t),
		userRepo,
		nil,
		nil,
	)
	boom := errors.New("connection reset")

	userRepo.
		On("EnsureProfile", mock.Anything, "bob").
		Return(user.Profile{}, boom).
		Once()

	_, err := service.Assign(context.Background(), access.Standard{ID: "bob"}, 390001)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped repository error, got %v", err)
	}
}

func TestGameService_RefreshWithoutFeedUsingMockery(t *testing.T) {
	t.Parallel()

	service := NewGameService(
		gamemock.NewRepository(t),
		leaguemock.NewRepository(t),
		countrymock.NewRepository(t),
		teammock.NewRepository(t),
		usermock.NewRepository(t),
		nil,
		nil,
	)

	_, err := service.List(context.Background(), access.Admin{ID: "admin"}, ListGamesInput{Refresh: true})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestGameService_ListHydratesOnlyReferencedRowsUsingMockery(t *testing.T) {
	t.Parallel()

	gameRepo := gamemock.NewRepository(t)
	leagueRepo := leaguemock.NewRepository(t)
	countryRepo := countrymock.NewRepository(t)
	teamRepo := teammock.NewRepository(t)
	service := NewGameService(gameRepo, leagueRepo, countryRepo, teamRepo, usermock.NewRepository(t), nil, nil)

	gameRepo.
		On("List", mock.Anything, mock.Anything).
		Return([]game.Game{
			{ID: 390002, LeagueID: 176, CountryID: 33, HomeTeamID: 2303, AwayTeamID: 2301},
			{ID: 390001, LeagueID: 176, CountryID: 33, HomeTeamID: 2301, AwayTeamID: 2302},
		}, nil).
		Once()
	leagueRepo.
		On("ListByIDs", mock.Anything, []int64{176}).
		Return([]league.League{{ID: 176, Name: "Divizia A"}}, nil).
		Once()
	countryRepo.
		On("ListByIDs", mock.Anything, []int64{33}).
		Return([]country.Country{{ID: 33, Name: "Romania"}}, nil).
		Once()
	// 2302 is unknown and keeps the id-only value.
	teamRepo.
		On("ListByIDs", mock.Anything, []int64{2301, 2302, 2303}).
		Return([]team.Team{{ID: 2301, Name: "U-BT Cluj-Napoca"}, {ID: 2303, Name: "Rapid Bucuresti"}}, nil).
		Once()

	items, err := service.List(context.Background(), access.Admin{ID: "admin"}, ListGamesInput{})
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 games, got %d", len(items))
	}
	if items[0].HomeTeam.Name != "Rapid Bucuresti" || items[0].League.Name != "Divizia A" {
		t.Fatalf("unexpected first game: %+v", items[0])
	}
	if items[1].AwayTeam != (team.Team{ID: 2302}) || items[1].Country.Name != "Romania" {
		t.Fatalf("unexpected second game: %+v", items[1])
	}
}
