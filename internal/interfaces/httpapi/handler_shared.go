package httpapi

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/basket-api/internal/domain/country"
	"github.com/riskibarqy/basket-api/internal/domain/game"
	"github.com/riskibarqy/basket-api/internal/domain/league"
	"github.com/riskibarqy/basket-api/internal/domain/team"
	"github.com/riskibarqy/basket-api/internal/domain/user"
	"github.com/riskibarqy/basket-api/internal/usecase"
)

type listGamesQuery struct {
	Date    string `validate:"omitempty,datetime=2006-01-02"`
	League  string `validate:"omitempty,number"`
	Season  string `validate:"omitempty,max=20"`
	Team    string `validate:"omitempty,number"`
	Refresh string `validate:"omitempty,boolean"`
}

func (q listGamesQuery) filter() (game.Filter, error) {
	var f game.Filter
	if q.Date != "" {
		date, err := time.ParseInLocation(time.DateOnly, q.Date, time.UTC)
		if err != nil {
			return game.Filter{}, fmt.Errorf("%w: date must be YYYY-MM-DD", usecase.ErrInvalidInput)
		}
		f.Date = date
	}
	if q.League != "" {
		id, err := strconv.ParseInt(q.League, 10, 64)
		if err != nil {
			return game.Filter{}, fmt.Errorf("%w: league must be an integer", usecase.ErrInvalidInput)
		}
		f.LeagueID = id
	}
	if q.Team != "" {
		id, err := strconv.ParseInt(q.Team, 10, 64)
		if err != nil {
			return game.Filter{}, fmt.Errorf("%w: team must be an integer", usecase.ErrInvalidInput)
		}
		f.TeamID = id
	}
	f.Season = q.Season
	return f, nil
}

func (q listGamesQuery) refresh() bool {
	v, _ := strconv.ParseBool(q.Refresh)
	return v
}

type updateGameRequest struct {
	Stage     *string        `json:"stage" validate:"omitempty,max=255"`
	Week      *string        `json:"week" validate:"omitempty,max=255"`
	Status    map[string]any `json:"status"`
	HomeScore map[string]any `json:"home_score"`
	AwayScore map[string]any `json:"away_score"`
	UserID    *string        `json:"user_id" validate:"omitempty,max=150"`
}

func (r updateGameRequest) input() usecase.UpdateGameInput {
	return usecase.UpdateGameInput{
		Stage:     r.Stage,
		Week:      r.Week,
		Status:    game.Status(r.Status),
		HomeScore: game.Score(r.HomeScore),
		AwayScore: game.Score(r.AwayScore),
		UserID:    r.UserID,
	}
}

type setCountriesRequest struct {
	CountryIDs []int64 `json:"country_ids" validate:"required,dive,gt=0"`
}

type batchRefreshTarget struct {
	Date   string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	League int64  `json:"league" validate:"omitempty,gt=0"`
	Season string `json:"season" validate:"omitempty,max=20"`
	Team   int64  `json:"team" validate:"omitempty,gt=0"`
}

type batchRefreshRequest struct {
	Targets    []batchRefreshTarget `json:"targets" validate:"required,min=1,max=100,dive"`
	MaxWorkers int                  `json:"max_workers" validate:"omitempty,min=1,max=32"`
}

func (r batchRefreshRequest) input() usecase.BatchRefreshInput {
	targets := make([]game.Filter, 0, len(r.Targets))
	for _, t := range r.Targets {
		f := game.Filter{LeagueID: t.League, Season: strings.TrimSpace(t.Season), TeamID: t.Team}
		if t.Date != "" {
			// Already checked by the datetime tag.
			f.Date, _ = time.ParseInLocation(time.DateOnly, t.Date, time.UTC)
		}
		targets = append(targets, f)
	}
	return usecase.BatchRefreshInput{Targets: targets, MaxWorkers: r.MaxWorkers}
}

type leagueDTO struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Season string `json:"season"`
	Logo   string `json:"logo"`
}

type countryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
	Flag string `json:"flag"`
}

type teamDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type gameTeamsDTO struct {
	Home teamDTO `json:"home"`
	Away teamDTO `json:"away"`
}

type gameScoresDTO struct {
	Home game.Score `json:"home"`
	Away game.Score `json:"away"`
}

type gameDTO struct {
	ID        int64         `json:"id"`
	Date      string        `json:"date"`
	Time      string        `json:"time"`
	Timestamp string        `json:"timestamp"`
	Timezone  string        `json:"timezone"`
	Stage     string        `json:"stage"`
	Week      string        `json:"week"`
	Status    game.Status   `json:"status"`
	League    leagueDTO     `json:"league"`
	Country   countryDTO    `json:"country"`
	Teams     gameTeamsDTO  `json:"teams"`
	Scores    gameScoresDTO `json:"scores"`
	User      *string       `json:"user"`
}

type profileDTO struct {
	UserID     string  `json:"user_id"`
	CountryIDs []int64 `json:"country_ids"`
	IsAdmin    bool    `json:"is_admin,omitempty"`
}

func leagueToDTO(v league.League) leagueDTO {
	return leagueDTO{ID: v.ID, Name: v.Name, Type: v.Type, Season: v.Season, Logo: v.Logo}
}

func countryToDTO(v country.Country) countryDTO {
	return countryDTO{ID: v.ID, Name: v.Name, Code: v.Code, Flag: v.Flag}
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{ID: v.ID, Name: v.Name, Logo: v.Logo}
}

func gameToDTO(ctx context.Context, v usecase.GameDetail) gameDTO {
	_, span := startSpan(ctx, "httpapi.gameToDTO")
	defer span.End()

	out := gameDTO{
		ID:        v.Game.ID,
		Date:      v.Game.Date.UTC().Format(time.RFC3339),
		Time:      v.Game.Time,
		Timestamp: v.Game.Timestamp,
		Timezone:  v.Game.Timezone,
		Stage:     v.Game.Stage,
		Week:      v.Game.Week,
		Status:    v.Game.Status,
		League:    leagueToDTO(v.League),
		Country:   countryToDTO(v.Country),
		Teams: gameTeamsDTO{
			Home: teamToDTO(v.HomeTeam),
			Away: teamToDTO(v.AwayTeam),
		},
		Scores: gameScoresDTO{
			Home: v.Game.HomeScore,
			Away: v.Game.AwayScore,
		},
	}
	if v.Game.Assigned() {
		assignee := v.Game.UserID
		out.User = &assignee
	}
	return out
}

func gamesToDTO(ctx context.Context, items []usecase.GameDetail) []gameDTO {
	out := make([]gameDTO, 0, len(items))
	for _, item := range items {
		out = append(out, gameToDTO(ctx, item))
	}
	return out
}

func profileToDTO(v user.Profile, admin bool) profileDTO {
	ids := v.CountryIDs
	if ids == nil {
		ids = []int64{}
	}
	return profileDTO{UserID: v.UserID, CountryIDs: ids, IsAdmin: admin}
}
