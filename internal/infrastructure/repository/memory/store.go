package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/basket-api/internal/domain/country"
	"github.com/riskibarqy/basket-api/internal/domain/game"
	"github.com/riskibarqy/basket-api/internal/domain/league"
	"github.com/riskibarqy/basket-api/internal/domain/mirror"
	"github.com/riskibarqy/basket-api/internal/domain/team"
	"github.com/riskibarqy/basket-api/internal/domain/user"
)

// Store keeps every entity in process memory. Transactions run on a private
// copy of the state that replaces the shared one on commit. writeMu is held by
// every write and by a whole transaction, so no write can land on a state a
// commit is about to replace. Reads only wait for the swap.
type Store struct {
	mu      sync.RWMutex
	writeMu sync.Mutex
	state   *state
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{state: newState(), now: time.Now}
}

func (s *Store) Leagues() *LeagueRepository {
	return &LeagueRepository{store: s}
}

func (s *Store) Countries() *CountryRepository {
	return &CountryRepository{store: s}
}

func (s *Store) Teams() *TeamRepository {
	return &TeamRepository{store: s}
}

func (s *Store) Games() *GameRepository {
	return &GameRepository{store: s}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{store: s}
}

func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

func (s *Store) write(fn func(st *state) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, w mirror.Writer) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	draft := s.state.clone()
	s.mu.RUnlock()

	if err := fn(ctx, txWriter{state: draft, now: s.now}); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = draft
	s.mu.Unlock()
	return nil
}

type state struct {
	leagues   map[int64]league.League
	countries map[int64]country.Country
	teams     map[int64]team.Team
	games     map[int64]game.Game
	users     map[string]user.User
	// profiles maps user id to entitled country ids; presence means the
	// profile exists.
	profiles map[string][]int64
}

func newState() *state {
	return &state{
		leagues:   make(map[int64]league.League),
		countries: make(map[int64]country.Country),
		teams:     make(map[int64]team.Team),
		games:     make(map[int64]game.Game),
		users:     make(map[string]user.User),
		profiles:  make(map[string][]int64),
	}
}

func (st *state) clone() *state {
	out := &state{
		leagues:   maps.Clone(st.leagues),
		countries: maps.Clone(st.countries),
		teams:     maps.Clone(st.teams),
		games:     make(map[int64]game.Game, len(st.games)),
		users:     maps.Clone(st.users),
		profiles:  make(map[string][]int64, len(st.profiles)),
	}
	for id, g := range st.games {
		out.games[id] = cloneGame(g)
	}
	for id, countries := range st.profiles {
		out.profiles[id] = slices.Clone(countries)
	}
	return out
}

func (st *state) upsertGame(item game.Game, now time.Time) error {
	item, err := item.Prepare()
	if err != nil {
		return err
	}
	if err := st.checkGameRefs(item); err != nil {
		return err
	}

	existing, ok := st.games[item.ID]
	if ok {
		item.UserID = existing.UserID
		item.CreatedAt = existing.CreatedAt
		// A feed move to another country must not strand the assignee outside
		// their entitlement.
		if item.CountryID != existing.CountryID {
			if err := item.CheckAssignee(st.profiles[item.UserID]); err != nil {
				return fmt.Errorf("game id=%d: %w", item.ID, err)
			}
		}
	} else {
		item.UserID = ""
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	st.games[item.ID] = cloneGame(item)
	return nil
}

func (st *state) checkGameRefs(item game.Game) error {
	if _, ok := st.leagues[item.LeagueID]; !ok {
		return fmt.Errorf("game id=%d references unknown league id=%d", item.ID, item.LeagueID)
	}
	if _, ok := st.countries[item.CountryID]; !ok {
		return fmt.Errorf("game id=%d references unknown country id=%d", item.ID, item.CountryID)
	}
	for _, teamID := range []int64{item.HomeTeamID, item.AwayTeamID} {
		if _, ok := st.teams[teamID]; !ok {
			return fmt.Errorf("game id=%d references unknown team id=%d", item.ID, teamID)
		}
	}
	if item.UserID != "" {
		if _, ok := st.users[item.UserID]; !ok {
			return fmt.Errorf("game id=%d references unknown user id=%s", item.ID, item.UserID)
		}
	}
	return nil
}

func (st *state) referenced(match func(g game.Game) bool) bool {
	for _, g := range st.games {
		if match(g) {
			return true
		}
	}
	return false
}

func (st *state) leagueSeason(leagueID int64) string {
	return st.leagues[leagueID].Season
}

func (st *state) sortedGames(match func(g game.Game) bool) []game.Game {
	out := make([]game.Game, 0)
	for _, g := range st.games {
		if match(g) {
			out = append(out, cloneGame(g))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func cloneGame(g game.Game) game.Game {
	g.Status = game.Status(maps.Clone(map[string]any(g.Status)))
	g.HomeScore = game.Score(maps.Clone(map[string]any(g.HomeScore)))
	g.AwayScore = game.Score(maps.Clone(map[string]any(g.AwayScore)))
	return g
}

type txWriter struct {
	state *state
	now   func() time.Time
}

func (w txWriter) GetOrCreateLeague(_ context.Context, item league.League) (league.League, error) {
	return w.state.getOrCreateLeague(item)
}

func (w txWriter) GetOrCreateCountry(_ context.Context, item country.Country) (country.Country, error) {
	return w.state.getOrCreateCountry(item)
}

func (w txWriter) GetOrCreateTeam(_ context.Context, item team.Team) (team.Team, error) {
	return w.state.getOrCreateTeam(item)
}

func (w txWriter) UpsertGame(_ context.Context, item game.Game) error {
	return w.state.upsertGame(item, w.now().UTC())
}
