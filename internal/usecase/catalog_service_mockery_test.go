package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/riskibarqy/basket-api/internal/domain/access"
	"github.com/riskibarqy/basket-api/internal/domain/game"
	"github.com/riskibarqy/basket-api/internal/domain/league"
	countrymock "github.com/riskibarqy/basket-api/internal/mocks/domain/country"
	leaguemock "github.com/riskibarqy/basket-api/internal/mocks/domain/league"
	teammock "github.com/riskibarqy/basket-api/internal/mocks/domain/team"
	"github.com/stretchr/testify/mock"
)

func TestCatalogService_DeleteReferencedLeagueUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	service := NewCatalogService(leagueRepo, countrymock.NewRepository(t), teammock.NewRepository(t))

	leagueRepo.
		On("Delete", mock.Anything, int64(176)).
		Return(false, fmt.Errorf("delete leagues id=176: %w", game.ErrReferenced)).
		Once()

	err := service.DeleteLeague(ctx, access.Admin{ID: "admin"}, 176)
	if !errors.Is(err, ErrReferentialIntegrity) {
		t.Fatalf("expected ErrReferentialIntegrity, got %v", err)
	}
}

func TestCatalogService_DeleteMissingCountryUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	countryRepo := countrymock.NewRepository(t)
	service := NewCatalogService(leaguemock.NewRepository(t), countryRepo, teammock.NewRepository(t))

	countryRepo.
		On("Delete", mock.Anything, int64(99)).
		Return(false, nil).
		Once()

	err := service.DeleteCountry(ctx, access.Admin{ID: "admin"}, 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalogService_DeleteTeamUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	teamRepo := teammock.NewRepository(t)
	service := NewCatalogService(leaguemock.NewRepository(t), countrymock.NewRepository(t), teamRepo)

	teamRepo.
		On("Delete", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), int64(2301)).
		Return(true, nil).
		Once()

	if err := service.DeleteTeam(ctx, access.Admin{ID: "admin"}, 2301); err != nil {
		t.Fatalf("delete team: %v", err)
	}
}

func TestCatalogService_DeleteRequiresAdmin(t *testing.T) {
	t.Parallel()

	// No expectations: the repository must not be reached.
	service := NewCatalogService(leaguemock.NewRepository(t), countrymock.NewRepository(t), teammock.NewRepository(t))

	err := service.DeleteLeague(context.Background(), access.Standard{ID: "alice"}, 176)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCatalogService_ListLeaguesUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	service := NewCatalogService(leagueRepo, countrymock.NewRepository(t), teammock.NewRepository(t))

	expected := []league.League{
		{ID: 117, Name: "ACB", Season: "2023-2024"},
		{ID: 176, Name: "Divizia A", Season: "2023-2024"},
	}
	leagueRepo.On("List", mock.Anything).Return(expected, nil).Once()

	got, err := service.ListLeagues(ctx)
	if err != nil {
		t.Fatalf("list leagues: %v", err)
	}
	if len(got) != len(expected) || got[1].Name != "Divizia A" {
		t.Fatalf("unexpected leagues: %+v", got)
	}
}
