package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/basket-api/internal/domain/country"
	"github.com/riskibarqy/basket-api/internal/domain/game"
	"github.com/riskibarqy/basket-api/internal/domain/league"
	"github.com/riskibarqy/basket-api/internal/domain/mirror"
	"github.com/riskibarqy/basket-api/internal/domain/team"
)

// RefreshStore runs a whole feed reconciliation inside one database transaction.
type RefreshStore struct {
	db *sqlx.DB
}

func NewRefreshStore(db *sqlx.DB) *RefreshStore {
	return &RefreshStore{db: db}
}

func (s *RefreshStore) RunInTx(ctx context.Context, fn func(ctx context.Context, w mirror.Writer) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx refresh: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	writer := refreshWriter{
		leagues:   NewLeagueRepository(tx),
		countries: NewCountryRepository(tx),
		teams:     NewTeamRepository(tx),
		games:     NewGameRepository(tx),
	}
	if err := fn(ctx, writer); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit refresh tx: %w", err)
	}

	return nil
}

type refreshWriter struct {
	leagues   *LeagueRepository
	countries *CountryRepository
	teams     *TeamRepository
	games     *GameRepository
}

func (w refreshWriter) GetOrCreateLeague(ctx context.Context, item league.League) (league.League, error) {
	return w.leagues.GetOrCreate(ctx, item)
}

func (w refreshWriter) GetOrCreateCountry(ctx context.Context, item country.Country) (country.Country, error) {
	return w.countries.GetOrCreate(ctx, item)
}

func (w refreshWriter) GetOrCreateTeam(ctx context.Context, item team.Team) (team.Team, error) {
	return w.teams.GetOrCreate(ctx, item)
}

func (w refreshWriter) UpsertGame(ctx context.Context, item game.Game) error {
	return w.games.Upsert(ctx, item)
}
