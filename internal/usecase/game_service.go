package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/riskibarqy/basket-api/internal/domain/access"
	"github.com/riskibarqy/basket-api/internal/domain/country"
	"github.com/riskibarqy/basket-api/internal/domain/game"
	"github.com/riskibarqy/basket-api/internal/domain/league"
	"github.com/riskibarqy/basket-api/internal/domain/team"
	"github.com/riskibarqy/basket-api/internal/domain/user"
	"github.com/riskibarqy/basket-api/internal/platform/logging"
)

// Refresher pulls games from the feed into the local store.
type Refresher interface {
	Refresh(ctx context.Context, filter game.Filter) (RefreshResult, error)
}

// GameDetail is a game with its catalog references resolved.
type GameDetail struct {
	Game     game.Game
	League   league.League
	Country  country.Country
	HomeTeam team.Team
	AwayTeam team.Team
}

type ListGamesInput struct {
	Filter game.Filter
	View   game.View
	// Refresh pulls the feed with the same filter before listing. Admin only.
	Refresh bool
}

// UpdateGameInput carries the admin-editable columns; nil fields are kept.
type UpdateGameInput struct {
	Stage     *string
	Week      *string
	Status    game.Status
	HomeScore game.Score
	AwayScore game.Score
	// UserID reassigns the game; a pointer to "" clears the assignee.
	UserID *string
}

type GameService struct {
	gameRepo    game.Repository
	leagueRepo  league.Repository
	countryRepo country.Repository
	teamRepo    team.Repository
	userRepo    user.Repository
	refresher   Refresher
	logger      *logging.Logger
}

func NewGameService(
	gameRepo game.Repository,
	leagueRepo league.Repository,
	countryRepo country.Repository,
	teamRepo team.Repository,
	userRepo user.Repository,
	refresher Refresher,
	logger *logging.Logger,
) *GameService {
	if logger == nil {
		logger = logging.Default()
	}

	return &GameService{
		gameRepo:    gameRepo,
		leagueRepo:  leagueRepo,
		countryRepo: countryRepo,
		teamRepo:    teamRepo,
		userRepo:    userRepo,
		refresher:   refresher,
		logger:      logger,
	}
}

// List returns the games visible to the caller. A refresh runs first when
// requested and fails the whole call when it fails.
func (s *GameService) List(ctx context.Context, caller access.Caller, input ListGamesInput) ([]GameDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.List")
	defer span.End()

	if input.Refresh {
		if !caller.IsAdmin() {
			return nil, fmt.Errorf("%w: only admins can refresh games", ErrForbidden)
		}
		if s.refresher == nil {
			return nil, fmt.Errorf("%w: feed is not configured", ErrDependencyUnavailable)
		}
		if _, err := s.refresher.Refresh(ctx, input.Filter); err != nil {
			return nil, fmt.Errorf("refresh games: %w", err)
		}
	}

	items, err := s.gameRepo.List(ctx, access.Query(caller, input.Filter, input.View))
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	return s.hydrate(ctx, items)
}

// Get returns one game inside the caller's scope. Games outside it are
// reported as not found.
func (s *GameService) Get(ctx context.Context, caller access.Caller, gameID int64) (GameDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Get")
	defer span.End()

	item, err := s.visible(ctx, caller, gameID)
	if err != nil {
		return GameDetail{}, err
	}
	return s.hydrateOne(ctx, item)
}

// Assign claims a visible game for the caller. Claiming a game already held
// by the caller succeeds without changes.
func (s *GameService) Assign(ctx context.Context, caller access.Caller, gameID int64) (GameDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Assign")
	defer span.End()

	if _, err := s.userRepo.EnsureProfile(ctx, caller.UserID()); err != nil {
		return GameDetail{}, fmt.Errorf("ensure profile: %w", err)
	}

	item, err := s.visible(ctx, caller, gameID)
	if err != nil {
		return GameDetail{}, err
	}

	item.UserID = caller.UserID()
	if err := item.CheckAssignee(caller.Countries()); err != nil {
		return GameDetail{}, err
	}

	assigned, ok, err := s.gameRepo.AssignIfVisible(ctx, caller.Scope(), gameID, caller.UserID())
	if err != nil {
		return GameDetail{}, fmt.Errorf("assign game: %w", err)
	}
	if !ok {
		return GameDetail{}, fmt.Errorf("%w: game=%d", ErrNotFound, gameID)
	}

	s.logger.InfoContext(ctx, "game assigned", "game_id", gameID, "user_id", caller.UserID())
	return s.hydrateOne(ctx, assigned)
}

// Update overwrites the editable columns of any game. Admin only.
func (s *GameService) Update(ctx context.Context, caller access.Caller, gameID int64, input UpdateGameInput) (GameDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Update")
	defer span.End()

	if !caller.IsAdmin() {
		return GameDetail{}, fmt.Errorf("%w: only admins can update games", ErrForbidden)
	}

	item, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return GameDetail{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return GameDetail{}, fmt.Errorf("%w: game=%d", ErrNotFound, gameID)
	}

	if input.Stage != nil {
		item.Stage = *input.Stage
	}
	if input.Week != nil {
		item.Week = *input.Week
	}
	if input.Status != nil {
		item.Status = input.Status
	}
	if input.HomeScore != nil {
		item.HomeScore = input.HomeScore
	}
	if input.AwayScore != nil {
		item.AwayScore = input.AwayScore
	}
	if input.UserID != nil {
		item.UserID = strings.TrimSpace(*input.UserID)
	}

	item, err = item.Prepare()
	if err != nil {
		return GameDetail{}, err
	}
	if item.Assigned() {
		profile, _, err := s.userRepo.GetProfile(ctx, item.UserID)
		if err != nil {
			return GameDetail{}, fmt.Errorf("get assignee profile: %w", err)
		}
		if err := item.CheckAssignee(profile.CountryIDs); err != nil {
			return GameDetail{}, err
		}
	}

	updated, err := s.gameRepo.Update(ctx, item)
	if err != nil {
		return GameDetail{}, fmt.Errorf("update game: %w", err)
	}
	if !updated {
		return GameDetail{}, fmt.Errorf("%w: game=%d", ErrNotFound, gameID)
	}

	s.logger.InfoContext(ctx, "game updated", "game_id", gameID, "by", caller.UserID())
	return s.hydrateOne(ctx, item)
}

// Delete removes a game. Admin only.
func (s *GameService) Delete(ctx context.Context, caller access.Caller, gameID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Delete")
	defer span.End()

	if !caller.IsAdmin() {
		return fmt.Errorf("%w: only admins can delete games", ErrForbidden)
	}

	deleted, err := s.gameRepo.Delete(ctx, gameID)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: game=%d", ErrNotFound, gameID)
	}

	s.logger.InfoContext(ctx, "game deleted", "game_id", gameID, "by", caller.UserID())
	return nil
}

func (s *GameService) visible(ctx context.Context, caller access.Caller, gameID int64) (game.Game, error) {
	if gameID <= 0 {
		return game.Game{}, fmt.Errorf("%w: game=%d", ErrNotFound, gameID)
	}

	item, exists, err := s.gameRepo.Get(ctx, access.Query(caller, game.Filter{}, game.ViewAll), gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%d", ErrNotFound, gameID)
	}
	return item, nil
}

func (s *GameService) hydrateOne(ctx context.Context, item game.Game) (GameDetail, error) {
	out, err := s.hydrate(ctx, []game.Game{item})
	if err != nil {
		return GameDetail{}, err
	}
	return out[0], nil
}

// hydrate resolves only the references the page uses. Missing rows leave the
// id-only value.
func (s *GameService) hydrate(ctx context.Context, items []game.Game) ([]GameDetail, error) {
	out := make([]GameDetail, 0, len(items))
	if len(items) == 0 {
		return out, nil
	}

	leagueIDs := make([]int64, 0, len(items))
	countryIDs := make([]int64, 0, len(items))
	teamIDs := make([]int64, 0, 2*len(items))
	for _, item := range items {
		leagueIDs = append(leagueIDs, item.LeagueID)
		countryIDs = append(countryIDs, item.CountryID)
		teamIDs = append(teamIDs, item.HomeTeamID, item.AwayTeamID)
	}

	leagues, err := s.leagueRepo.ListByIDs(ctx, uniqueIDs(leagueIDs))
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	countries, err := s.countryRepo.ListByIDs(ctx, uniqueIDs(countryIDs))
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	teams, err := s.teamRepo.ListByIDs(ctx, uniqueIDs(teamIDs))
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	leagueByID := indexByID(leagues, func(v league.League) int64 { return v.ID })
	countryByID := indexByID(countries, func(v country.Country) int64 { return v.ID })
	teamByID := indexByID(teams, func(v team.Team) int64 { return v.ID })

	for _, item := range items {
		detail := GameDetail{
			Game:     item,
			League:   league.League{ID: item.LeagueID},
			Country:  country.Country{ID: item.CountryID},
			HomeTeam: team.Team{ID: item.HomeTeamID},
			AwayTeam: team.Team{ID: item.AwayTeamID},
		}
		if v, ok := leagueByID[item.LeagueID]; ok {
			detail.League = v
		}
		if v, ok := countryByID[item.CountryID]; ok {
			detail.Country = v
		}
		if v, ok := teamByID[item.HomeTeamID]; ok {
			detail.HomeTeam = v
		}
		if v, ok := teamByID[item.AwayTeamID]; ok {
			detail.AwayTeam = v
		}
		out = append(out, detail)
	}

	return out, nil
}

func uniqueIDs(ids []int64) []int64 {
	slices.Sort(ids)
	return slices.Compact(ids)
}

func indexByID[T any](items []T, id func(T) int64) map[int64]T {
	out := make(map[int64]T, len(items))
	for _, item := range items {
		out[id(item)] = item
	}
	return out
}
