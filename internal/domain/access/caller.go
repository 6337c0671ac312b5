package access

import (
	"slices"

	"github.com/riskibarqy/basket-api/internal/domain/game"
	"github.com/riskibarqy/basket-api/internal/domain/user"
)

// Caller is the authenticated party a request acts for. Each variant decides
// its own game scope.
type Caller interface {
	UserID() string
	IsAdmin() bool
	// Entitled reports whether the caller's profile lists the country.
	Entitled(countryID int64) bool
	Countries() []int64
	Scope() game.Scope
}

// Admin sees every game regardless of country or assignee.
type Admin struct {
	ID         string
	CountryIDs []int64
}

func (a Admin) UserID() string { return a.ID }

func (a Admin) IsAdmin() bool { return true }

func (a Admin) Entitled(countryID int64) bool {
	return slices.Contains(a.CountryIDs, countryID)
}

func (a Admin) Countries() []int64 { return a.CountryIDs }

func (a Admin) Scope() game.Scope {
	return game.Scope{AllCountries: true}
}

// Standard sees games in its entitled countries that are unassigned or its own.
type Standard struct {
	ID         string
	CountryIDs []int64
}

func (s Standard) UserID() string { return s.ID }

func (s Standard) IsAdmin() bool { return false }

func (s Standard) Entitled(countryID int64) bool {
	return slices.Contains(s.CountryIDs, countryID)
}

func (s Standard) Countries() []int64 { return s.CountryIDs }

func (s Standard) Scope() game.Scope {
	return game.Scope{
		CountryIDs: slices.Clone(s.CountryIDs),
		ViewerID:   s.ID,
	}
}

// NewCaller picks the variant for a principal. A missing profile is an empty one.
func NewCaller(principal user.Principal, profile user.Profile) Caller {
	countries := user.NormalizeCountryIDs(profile.CountryIDs)
	if principal.IsAdmin {
		return Admin{ID: principal.UserID, CountryIDs: countries}
	}
	return Standard{ID: principal.UserID, CountryIDs: countries}
}

// Query builds the listing query for a caller.
func Query(c Caller, filter game.Filter, view game.View) game.Query {
	return game.Query{
		Scope:    c.Scope(),
		Filter:   filter,
		View:     view,
		CallerID: c.UserID(),
	}
}
