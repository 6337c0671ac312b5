package user

import (
	"slices"
	"strings"
	"time"
)

// Principal is the authenticated identity resolved from an access token.
type Principal struct {
	UserID  string
	Email   string
	IsAdmin bool
}

// User mirrors a principal locally so games and profiles can reference it.
type User struct {
	ID        string
	Email     string
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func FromPrincipal(p Principal) User {
	return User{
		ID:      strings.TrimSpace(p.UserID),
		Email:   strings.TrimSpace(p.Email),
		IsAdmin: p.IsAdmin,
	}
}

// Profile holds the countries a user is entitled to.
type Profile struct {
	UserID     string
	CountryIDs []int64
}

func (p Profile) Entitled(countryID int64) bool {
	return slices.Contains(p.CountryIDs, countryID)
}

// NormalizeCountryIDs drops non-positive ids and duplicates and sorts the rest.
func NormalizeCountryIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
