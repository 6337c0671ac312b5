package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/riskibarqy/basket-api/internal/domain/country"
	"github.com/riskibarqy/basket-api/internal/domain/game"
	"github.com/riskibarqy/basket-api/internal/domain/league"
	"github.com/riskibarqy/basket-api/internal/domain/team"
)

type LeagueRepository struct {
	store *Store
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	var out []league.League
	r.store.read(func(st *state) {
		out = make([]league.League, 0, len(st.leagues))
		for _, item := range st.leagues {
			out = append(out, item)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season > out[j].Season
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *LeagueRepository) ListByIDs(_ context.Context, ids []int64) ([]league.League, error) {
	var out []league.League
	r.store.read(func(st *state) {
		out = pickByID(st.leagues, ids)
	})
	return out, nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID int64) (league.League, bool, error) {
	var (
		item league.League
		ok   bool
	)
	r.store.read(func(st *state) {
		item, ok = st.leagues[leagueID]
	})
	return item, ok, nil
}

func (r *LeagueRepository) Upsert(_ context.Context, item league.League) error {
	item = item.Normalize()
	if err := item.Validate(); err != nil {
		return err
	}
	return r.store.write(func(st *state) error {
		st.leagues[item.ID] = item
		return nil
	})
}

func (r *LeagueRepository) GetOrCreate(_ context.Context, item league.League) (league.League, error) {
	var out league.League
	err := r.store.write(func(st *state) error {
		var err error
		out, err = st.getOrCreateLeague(item)
		return err
	})
	return out, err
}

func (r *LeagueRepository) Delete(_ context.Context, leagueID int64) (bool, error) {
	var deleted bool
	err := r.store.write(func(st *state) error {
		if _, ok := st.leagues[leagueID]; !ok {
			return nil
		}
		if st.referenced(func(g game.Game) bool { return g.LeagueID == leagueID }) {
			return fmt.Errorf("delete leagues id=%d: %w", leagueID, game.ErrReferenced)
		}
		delete(st.leagues, leagueID)
		deleted = true
		return nil
	})
	return deleted, err
}

type CountryRepository struct {
	store *Store
}

func (r *CountryRepository) List(_ context.Context) ([]country.Country, error) {
	var out []country.Country
	r.store.read(func(st *state) {
		out = make([]country.Country, 0, len(st.countries))
		for _, item := range st.countries {
			out = append(out, item)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *CountryRepository) ListByIDs(_ context.Context, ids []int64) ([]country.Country, error) {
	var out []country.Country
	r.store.read(func(st *state) {
		out = pickByID(st.countries, ids)
	})
	return out, nil
}

func (r *CountryRepository) GetByID(_ context.Context, countryID int64) (country.Country, bool, error) {
	var (
		item country.Country
		ok   bool
	)
	r.store.read(func(st *state) {
		item, ok = st.countries[countryID]
	})
	return item, ok, nil
}

func (r *CountryRepository) Upsert(_ context.Context, item country.Country) error {
	item = item.Normalize()
	if err := item.Validate(); err != nil {
		return err
	}
	return r.store.write(func(st *state) error {
		st.countries[item.ID] = item
		return nil
	})
}

func (r *CountryRepository) GetOrCreate(_ context.Context, item country.Country) (country.Country, error) {
	var out country.Country
	err := r.store.write(func(st *state) error {
		var err error
		out, err = st.getOrCreateCountry(item)
		return err
	})
	return out, err
}

func (r *CountryRepository) Delete(_ context.Context, countryID int64) (bool, error) {
	var deleted bool
	err := r.store.write(func(st *state) error {
		if _, ok := st.countries[countryID]; !ok {
			return nil
		}
		if st.referenced(func(g game.Game) bool { return g.CountryID == countryID }) {
			return fmt.Errorf("delete countries id=%d: %w", countryID, game.ErrReferenced)
		}
		delete(st.countries, countryID)
		for userID, ids := range st.profiles {
			st.profiles[userID] = removeID(ids, countryID)
		}
		deleted = true
		return nil
	})
	return deleted, err
}

type TeamRepository struct {
	store *Store
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	var out []team.Team
	r.store.read(func(st *state) {
		out = make([]team.Team, 0, len(st.teams))
		for _, item := range st.teams {
			out = append(out, item)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *TeamRepository) ListByIDs(_ context.Context, ids []int64) ([]team.Team, error) {
	var out []team.Team
	r.store.read(func(st *state) {
		out = pickByID(st.teams, ids)
	})
	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID int64) (team.Team, bool, error) {
	var (
		item team.Team
		ok   bool
	)
	r.store.read(func(st *state) {
		item, ok = st.teams[teamID]
	})
	return item, ok, nil
}

func (r *TeamRepository) Upsert(_ context.Context, item team.Team) error {
	item = item.Normalize()
	if err := item.Validate(); err != nil {
		return err
	}
	return r.store.write(func(st *state) error {
		st.teams[item.ID] = item
		return nil
	})
}

func (r *TeamRepository) GetOrCreate(_ context.Context, item team.Team) (team.Team, error) {
	var out team.Team
	err := r.store.write(func(st *state) error {
		var err error
		out, err = st.getOrCreateTeam(item)
		return err
	})
	return out, err
}

func (r *TeamRepository) Delete(_ context.Context, teamID int64) (bool, error) {
	var deleted bool
	err := r.store.write(func(st *state) error {
		if _, ok := st.teams[teamID]; !ok {
			return nil
		}
		if st.referenced(func(g game.Game) bool { return g.HomeTeamID == teamID || g.AwayTeamID == teamID }) {
			return fmt.Errorf("delete teams id=%d: %w", teamID, game.ErrReferenced)
		}
		delete(st.teams, teamID)
		deleted = true
		return nil
	})
	return deleted, err
}

func (st *state) getOrCreateLeague(item league.League) (league.League, error) {
	item = item.Normalize()
	if err := item.Validate(); err != nil {
		return league.League{}, err
	}
	if existing, ok := st.leagues[item.ID]; ok {
		return existing, nil
	}
	st.leagues[item.ID] = item
	return item, nil
}

func (st *state) getOrCreateCountry(item country.Country) (country.Country, error) {
	item = item.Normalize()
	if err := item.Validate(); err != nil {
		return country.Country{}, err
	}
	if existing, ok := st.countries[item.ID]; ok {
		return existing, nil
	}
	st.countries[item.ID] = item
	return item, nil
}

func (st *state) getOrCreateTeam(item team.Team) (team.Team, error) {
	item = item.Normalize()
	if err := item.Validate(); err != nil {
		return team.Team{}, err
	}
	if existing, ok := st.teams[item.ID]; ok {
		return existing, nil
	}
	st.teams[item.ID] = item
	return item, nil
}

func removeID(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func pickByID[T any](items map[int64]T, ids []int64) []T {
	ids = slices.Clone(ids)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if item, ok := items[id]; ok {
			out = append(out, item)
		}
	}
	return out
}
