package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/basket-api/internal/domain/game"
)

type GameRepository struct {
	store *Store
}

func (r *GameRepository) List(_ context.Context, q game.Query) ([]game.Game, error) {
	var out []game.Game
	r.store.read(func(st *state) {
		out = st.sortedGames(func(g game.Game) bool {
			return q.Matches(g, st.leagueSeason(g.LeagueID))
		})
	})
	return out, nil
}

func (r *GameRepository) Get(_ context.Context, q game.Query, gameID int64) (game.Game, bool, error) {
	var (
		item game.Game
		ok   bool
	)
	r.store.read(func(st *state) {
		g, exists := st.games[gameID]
		if !exists || !q.Matches(g, st.leagueSeason(g.LeagueID)) {
			return
		}
		item, ok = cloneGame(g), true
	})
	return item, ok, nil
}

func (r *GameRepository) GetByID(_ context.Context, gameID int64) (game.Game, bool, error) {
	var (
		item game.Game
		ok   bool
	)
	r.store.read(func(st *state) {
		g, exists := st.games[gameID]
		if exists {
			item, ok = cloneGame(g), true
		}
	})
	return item, ok, nil
}

func (r *GameRepository) Upsert(_ context.Context, item game.Game) error {
	now := r.store.now().UTC()
	return r.store.write(func(st *state) error {
		return st.upsertGame(item, now)
	})
}

func (r *GameRepository) AssignIfVisible(_ context.Context, scope game.Scope, gameID int64, userID string) (game.Game, bool, error) {
	var (
		item game.Game
		ok   bool
	)
	now := r.store.now().UTC()
	err := r.store.write(func(st *state) error {
		g, exists := st.games[gameID]
		if !exists || !scope.Allows(g) {
			return nil
		}
		if g.Assigned() && g.UserID != userID {
			return nil
		}
		if _, known := st.users[userID]; !known {
			return fmt.Errorf("assign game id=%d: unknown user id=%s", gameID, userID)
		}
		g.UserID = userID
		g.UpdatedAt = now
		st.games[gameID] = g
		item, ok = cloneGame(g), true
		return nil
	})
	return item, ok, err
}

func (r *GameRepository) Update(_ context.Context, item game.Game) (bool, error) {
	item, err := item.Prepare()
	if err != nil {
		return false, err
	}

	var updated bool
	now := r.store.now().UTC()
	err = r.store.write(func(st *state) error {
		existing, ok := st.games[item.ID]
		if !ok {
			return nil
		}
		if item.UserID != "" {
			if _, known := st.users[item.UserID]; !known {
				return fmt.Errorf("game id=%d references unknown user id=%s", item.ID, item.UserID)
			}
		}
		existing.Stage = item.Stage
		existing.Week = item.Week
		existing.Status = item.Status
		existing.HomeScore = item.HomeScore
		existing.AwayScore = item.AwayScore
		existing.UserID = item.UserID
		existing.UpdatedAt = now
		st.games[item.ID] = cloneGame(existing)
		updated = true
		return nil
	})
	return updated, err
}

func (r *GameRepository) Delete(_ context.Context, gameID int64) (bool, error) {
	var deleted bool
	err := r.store.write(func(st *state) error {
		if _, ok := st.games[gameID]; ok {
			delete(st.games, gameID)
			deleted = true
		}
		return nil
	})
	return deleted, err
}
