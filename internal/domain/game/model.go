package game

import (
	"fmt"
	"slices"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
)

// ErrValidation marks every game write rejected by the stored schema rules.
var ErrValidation = crerr.New("game validation failed")

// Game is a fixture mirrored from the feed, keyed by its remote id.
type Game struct {
	ID        int64
	Date      time.Time
	Time      string
	Timestamp string
	Timezone  string
	Stage     string
	Week      string

	LeagueID   int64
	CountryID  int64
	HomeTeamID int64
	AwayTeamID int64

	Status    Status
	HomeScore Score
	AwayScore Score

	// UserID is the assignee; empty means unassigned.
	UserID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (g Game) Assigned() bool {
	return g.UserID != ""
}

func (g Game) AssignedTo(userID string) bool {
	return g.UserID != "" && g.UserID == userID
}

// Normalize trims the label fields so absent values are stored as "".
func (g Game) Normalize() Game {
	g.Time = strings.TrimSpace(g.Time)
	g.Timestamp = strings.TrimSpace(g.Timestamp)
	g.Timezone = strings.TrimSpace(g.Timezone)
	g.Stage = strings.TrimSpace(g.Stage)
	g.Week = strings.TrimSpace(g.Week)
	g.UserID = strings.TrimSpace(g.UserID)
	if !g.Date.IsZero() {
		g.Date = g.Date.UTC()
	}
	return g
}

// Validate checks references and the JSON blobs. Errors match ErrValidation.
func (g Game) Validate() error {
	switch {
	case g.ID <= 0:
		return invalidf("id must be > 0")
	case g.Date.IsZero():
		return invalidf("date is required")
	case g.LeagueID <= 0:
		return invalidf("league is required")
	case g.CountryID <= 0:
		return invalidf("country is required")
	case g.HomeTeamID <= 0 || g.AwayTeamID <= 0:
		return invalidf("home and away teams are required")
	}

	if err := g.Status.Validate(); err != nil {
		return crerr.Wrap(err, "status")
	}
	if err := g.HomeScore.Validate(); err != nil {
		return crerr.Wrap(err, "home_score")
	}
	if err := g.AwayScore.Validate(); err != nil {
		return crerr.Wrap(err, "away_score")
	}

	return nil
}

// Prepare is what every write path runs before persisting a game.
func (g Game) Prepare() (Game, error) {
	g = g.Normalize()
	if err := g.Validate(); err != nil {
		return Game{}, err
	}
	return g, nil
}

// CheckAssignee enforces that an assignee is entitled to the game's country.
// entitled is the assignee's profile country set.
func (g Game) CheckAssignee(entitled []int64) error {
	if !g.Assigned() {
		return nil
	}
	if slices.Contains(entitled, g.CountryID) {
		return nil
	}
	return invalidf("the user %s is not assigned to the country %d", g.UserID, g.CountryID)
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
