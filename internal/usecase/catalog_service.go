package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/basket-api/internal/domain/access"
	"github.com/riskibarqy/basket-api/internal/domain/country"
	"github.com/riskibarqy/basket-api/internal/domain/game"
	"github.com/riskibarqy/basket-api/internal/domain/league"
	"github.com/riskibarqy/basket-api/internal/domain/team"
)

// CatalogService exposes the leagues, countries and teams mirrored from the
// feed. Rows are only created by refreshes; admins may delete unreferenced ones.
type CatalogService struct {
	leagueRepo  league.Repository
	countryRepo country.Repository
	teamRepo    team.Repository
}

func NewCatalogService(leagueRepo league.Repository, countryRepo country.Repository, teamRepo team.Repository) *CatalogService {
	return &CatalogService{
		leagueRepo:  leagueRepo,
		countryRepo: countryRepo,
		teamRepo:    teamRepo,
	}
}

func (s *CatalogService) ListLeagues(ctx context.Context) ([]league.League, error) {
	items, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	return items, nil
}

func (s *CatalogService) ListCountries(ctx context.Context) ([]country.Country, error) {
	items, err := s.countryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	return items, nil
}

func (s *CatalogService) ListTeams(ctx context.Context) ([]team.Team, error) {
	items, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return items, nil
}

func (s *CatalogService) DeleteLeague(ctx context.Context, caller access.Caller, leagueID int64) error {
	return s.delete(ctx, caller, "league", leagueID, s.leagueRepo.Delete)
}

func (s *CatalogService) DeleteCountry(ctx context.Context, caller access.Caller, countryID int64) error {
	return s.delete(ctx, caller, "country", countryID, s.countryRepo.Delete)
}

func (s *CatalogService) DeleteTeam(ctx context.Context, caller access.Caller, teamID int64) error {
	return s.delete(ctx, caller, "team", teamID, s.teamRepo.Delete)
}

func (s *CatalogService) delete(
	ctx context.Context,
	caller access.Caller,
	kind string,
	id int64,
	del func(context.Context, int64) (bool, error),
) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.Delete")
	defer span.End()

	if !caller.IsAdmin() {
		return fmt.Errorf("%w: only admins can delete a %s", ErrForbidden, kind)
	}
	if id <= 0 {
		return fmt.Errorf("%w: %s id must be > 0", ErrInvalidInput, kind)
	}

	deleted, err := del(ctx, id)
	if errors.Is(err, game.ErrReferenced) {
		return fmt.Errorf("%w: %s=%d is referenced by games", ErrReferentialIntegrity, kind, id)
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	if !deleted {
		return fmt.Errorf("%w: %s=%d", ErrNotFound, kind, id)
	}

	return nil
}
