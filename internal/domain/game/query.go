package game

import (
	"slices"
	"time"
)

// Scope is the slice of games a caller may see and claim.
type Scope struct {
	// AllCountries lifts the country restriction.
	AllCountries bool
	CountryIDs   []int64
	// ViewerID, when set, hides games assigned to anyone else.
	ViewerID string
}

func (s Scope) Allows(g Game) bool {
	if !s.AllCountries && !slices.Contains(s.CountryIDs, g.CountryID) {
		return false
	}
	if s.ViewerID != "" && g.Assigned() && g.UserID != s.ViewerID {
		return false
	}
	return true
}

// Filter holds the optional listing constraints; zero values are ignored.
type Filter struct {
	// Date matches the calendar day of the game in UTC.
	Date     time.Time
	LeagueID int64
	// Season matches the season label of the game's league.
	Season string
	// TeamID matches either side.
	TeamID int64
}

func (f Filter) HasDate() bool {
	return !f.Date.IsZero()
}

type View int

const (
	ViewAll View = iota
	ViewAssigned
	ViewUnassigned
)

func (v View) String() string {
	switch v {
	case ViewAssigned:
		return "assigned"
	case ViewUnassigned:
		return "unassigned"
	default:
		return "all"
	}
}

// Query is a scope plus filters plus an assignment view.
type Query struct {
	Scope  Scope
	Filter Filter
	View   View
	// CallerID backs ViewAssigned.
	CallerID string
}

// Matches evaluates the query in memory. leagueSeason is the season label of
// the game's league.
func (q Query) Matches(g Game, leagueSeason string) bool {
	if !q.Scope.Allows(g) {
		return false
	}

	f := q.Filter
	if f.HasDate() && !sameDay(g.Date, f.Date) {
		return false
	}
	if f.LeagueID > 0 && g.LeagueID != f.LeagueID {
		return false
	}
	if f.Season != "" && leagueSeason != f.Season {
		return false
	}
	if f.TeamID > 0 && g.HomeTeamID != f.TeamID && g.AwayTeamID != f.TeamID {
		return false
	}

	switch q.View {
	case ViewAssigned:
		return q.CallerID != "" && g.UserID == q.CallerID
	case ViewUnassigned:
		return !g.Assigned()
	}
	return true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
