package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/basket-api/internal/domain/country"
	"github.com/riskibarqy/basket-api/internal/domain/game"
	"github.com/riskibarqy/basket-api/internal/domain/league"
	"github.com/riskibarqy/basket-api/internal/domain/team"
)

const (
	CountryIDRomania int64 = 33
	CountryIDSpain   int64 = 18

	LeagueIDDiviziaA int64 = 176
	LeagueIDACB      int64 = 117
)

// SeedDemo fills an empty store with a small Romania/Spain fixture set for
// local runs without a database.
func SeedDemo(ctx context.Context, s *Store) error {
	countries := []country.Country{
		{ID: CountryIDRomania, Name: "Romania", Code: "RO", Flag: "https://media.api-sports.io/flags/ro.svg"},
		{ID: CountryIDSpain, Name: "Spain", Code: "ES", Flag: "https://media.api-sports.io/flags/es.svg"},
	}
	leagues := []league.League{
		{ID: LeagueIDDiviziaA, Name: "Divizia A", Type: "League", Season: "2023-2024"},
		{ID: LeagueIDACB, Name: "ACB", Type: "League", Season: "2023-2024"},
	}
	teams := []team.Team{
		{ID: 2301, Name: "U-BT Cluj-Napoca"},
		{ID: 2302, Name: "CSM Oradea"},
		{ID: 2303, Name: "Rapid Bucuresti"},
		{ID: 2304, Name: "SCM U Craiova"},
		{ID: 1801, Name: "Real Madrid"},
		{ID: 1802, Name: "Barcelona"},
	}

	for _, item := range countries {
		if err := s.Countries().Upsert(ctx, item); err != nil {
			return fmt.Errorf("seed country: %w", err)
		}
	}
	for _, item := range leagues {
		if err := s.Leagues().Upsert(ctx, item); err != nil {
			return fmt.Errorf("seed league: %w", err)
		}
	}
	for _, item := range teams {
		if err := s.Teams().Upsert(ctx, item); err != nil {
			return fmt.Errorf("seed team: %w", err)
		}
	}

	kickoff := time.Date(2024, 3, 9, 17, 0, 0, 0, time.UTC)
	fixtures := []struct {
		id         int64
		leagueID   int64
		countryID  int64
		home, away int64
		dayOffset  int
	}{
		{id: 390001, leagueID: LeagueIDDiviziaA, countryID: CountryIDRomania, home: 2301, away: 2302},
		{id: 390002, leagueID: LeagueIDDiviziaA, countryID: CountryIDRomania, home: 2303, away: 2304},
		{id: 390003, leagueID: LeagueIDDiviziaA, countryID: CountryIDRomania, home: 2302, away: 2303, dayOffset: 1},
		{id: 390004, leagueID: LeagueIDACB, countryID: CountryIDSpain, home: 1801, away: 1802},
	}
	for _, f := range fixtures {
		date := kickoff.AddDate(0, 0, f.dayOffset)
		item := game.Game{
			ID:         f.id,
			Date:       date,
			Time:       date.Format("15:04"),
			Timestamp:  fmt.Sprintf("%d", date.Unix()),
			Timezone:   "UTC",
			Stage:      "Regular Season",
			LeagueID:   f.leagueID,
			CountryID:  f.countryID,
			HomeTeamID: f.home,
			AwayTeamID: f.away,
			Status:     game.Status{"long": "Not Started", "short": "NS", "timer": nil},
			HomeScore:  emptyScore(),
			AwayScore:  emptyScore(),
		}
		if err := s.Games().Upsert(ctx, item); err != nil {
			return fmt.Errorf("seed game: %w", err)
		}
	}

	return nil
}

func emptyScore() game.Score {
	return game.Score{
		"quarter_1": nil,
		"quarter_2": nil,
		"quarter_3": nil,
		"quarter_4": nil,
		"over_time": nil,
		"total":     nil,
	}
}
