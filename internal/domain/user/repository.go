package user

import "context"

// Repository describes user and profile persistence needs from use cases.
type Repository interface {
	// EnsureUser creates or refreshes the local mirror of a principal.
	EnsureUser(ctx context.Context, item User) error
	GetProfile(ctx context.Context, userID string) (Profile, bool, error)
	// EnsureProfile returns the profile, creating an empty one when missing.
	EnsureProfile(ctx context.Context, userID string) (Profile, error)
	// SetProfileCountries replaces the entitled country set. It reports false
	// when the user has never been seen.
	SetProfileCountries(ctx context.Context, userID string, countryIDs []int64) (Profile, bool, error)
}
