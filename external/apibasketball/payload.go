package apibasketball

import (
	"strconv"
	"strings"

	"github.com/riskibarqy/basket-api/internal/domain/country"
	"github.com/riskibarqy/basket-api/internal/domain/league"
	"github.com/riskibarqy/basket-api/internal/domain/team"
	"github.com/riskibarqy/basket-api/internal/usecase"
)

// envelope is the feed's top level: {"errors": [...] | {...}, "response": [...]}.
type envelope struct {
	Errors   any        `json:"errors"`
	Results  int        `json:"results"`
	Response []gameItem `json:"response"`
}

type gameItem struct {
	ID        int64          `json:"id"`
	Date      string         `json:"date"`
	Time      string         `json:"time"`
	Timestamp int64          `json:"timestamp"`
	Timezone  string         `json:"timezone"`
	Stage     any            `json:"stage"`
	Week      any            `json:"week"`
	Status    map[string]any `json:"status"`
	League    leagueItem     `json:"league"`
	Country   countryItem    `json:"country"`
	Teams     struct {
		Home teamItem `json:"home"`
		Away teamItem `json:"away"`
	} `json:"teams"`
	Scores struct {
		Home map[string]any `json:"home"`
		Away map[string]any `json:"away"`
	} `json:"scores"`
}

type leagueItem struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Season any     `json:"season"`
	Logo   *string `json:"logo"`
}

type countryItem struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Code *string `json:"code"`
	Flag *string `json:"flag"`
}

type teamItem struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Logo *string `json:"logo"`
}

func (g gameItem) toFeedGame() usecase.FeedGame {
	return usecase.FeedGame{
		ID:        g.ID,
		Date:      strings.TrimSpace(g.Date),
		Time:      g.Time,
		Timestamp: g.Timestamp,
		Timezone:  g.Timezone,
		Stage:     label(g.Stage),
		Week:      label(g.Week),
		Status:    g.Status,
		League: league.League{
			ID:     g.League.ID,
			Name:   g.League.Name,
			Type:   g.League.Type,
			Season: label(g.League.Season),
			Logo:   deref(g.League.Logo),
		},
		Country: country.Country{
			ID:   g.Country.ID,
			Name: g.Country.Name,
			Code: deref(g.Country.Code),
			Flag: deref(g.Country.Flag),
		},
		HomeTeam:  g.Teams.Home.toTeam(),
		AwayTeam:  g.Teams.Away.toTeam(),
		HomeScore: g.Scores.Home,
		AwayScore: g.Scores.Away,
	}
}

func (t teamItem) toTeam() team.Team {
	return team.Team{ID: t.ID, Name: t.Name, Logo: deref(t.Logo)}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// label renders the loosely typed feed fields (season as 2023 or "2023-2024",
// nullable stage and week) as text; null becomes "".
func label(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
