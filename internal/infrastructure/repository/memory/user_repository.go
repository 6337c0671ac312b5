package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/riskibarqy/basket-api/internal/domain/user"
)

type UserRepository struct {
	store *Store
}

func (r *UserRepository) EnsureUser(_ context.Context, item user.User) error {
	if item.ID == "" {
		return fmt.Errorf("user id is required")
	}

	now := r.store.now().UTC()
	return r.store.write(func(st *state) error {
		if existing, ok := st.users[item.ID]; ok {
			item.CreatedAt = existing.CreatedAt
		} else {
			item.CreatedAt = now
		}
		item.UpdatedAt = now
		st.users[item.ID] = item
		return nil
	})
}

func (r *UserRepository) GetProfile(_ context.Context, userID string) (user.Profile, bool, error) {
	var (
		profile user.Profile
		ok      bool
	)
	r.store.read(func(st *state) {
		countries, exists := st.profiles[userID]
		if exists {
			profile, ok = user.Profile{UserID: userID, CountryIDs: slices.Clone(countries)}, true
		}
	})
	return profile, ok, nil
}

func (r *UserRepository) EnsureProfile(_ context.Context, userID string) (user.Profile, error) {
	var profile user.Profile
	err := r.store.write(func(st *state) error {
		if _, ok := st.users[userID]; !ok {
			return fmt.Errorf("insert profile user id=%s: unknown user", userID)
		}
		countries, ok := st.profiles[userID]
		if !ok {
			countries = []int64{}
			st.profiles[userID] = countries
		}
		profile = user.Profile{UserID: userID, CountryIDs: slices.Clone(countries)}
		return nil
	})
	return profile, err
}

func (r *UserRepository) SetProfileCountries(_ context.Context, userID string, countryIDs []int64) (user.Profile, bool, error) {
	countryIDs = user.NormalizeCountryIDs(countryIDs)

	var found bool
	err := r.store.write(func(st *state) error {
		if _, ok := st.users[userID]; !ok {
			return nil
		}
		for _, id := range countryIDs {
			if _, ok := st.countries[id]; !ok {
				return fmt.Errorf("profile of user id=%s references unknown country id=%d", userID, id)
			}
		}
		st.profiles[userID] = slices.Clone(countryIDs)
		found = true
		return nil
	})
	if err != nil || !found {
		return user.Profile{}, false, err
	}

	return user.Profile{UserID: userID, CountryIDs: countryIDs}, true, nil
}
