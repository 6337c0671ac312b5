package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/basket-api/internal/domain/access"
	"github.com/riskibarqy/basket-api/internal/domain/country"
	"github.com/riskibarqy/basket-api/internal/domain/user"
	"github.com/riskibarqy/basket-api/internal/platform/logging"
)

// ProfileService turns authenticated principals into callers and manages
// their country entitlements.
type ProfileService struct {
	userRepo    user.Repository
	countryRepo country.Repository
	logger      *logging.Logger
}

func NewProfileService(userRepo user.Repository, countryRepo country.Repository, logger *logging.Logger) *ProfileService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ProfileService{
		userRepo:    userRepo,
		countryRepo: countryRepo,
		logger:      logger,
	}
}

// ResolveCaller mirrors the principal locally and loads its entitlements. A
// user without a profile resolves to a caller with no countries.
func (s *ProfileService) ResolveCaller(ctx context.Context, principal user.Principal) (access.Caller, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.ResolveCaller")
	defer span.End()

	item := user.FromPrincipal(principal)
	if item.ID == "" {
		return nil, fmt.Errorf("%w: principal has no user id", ErrUnauthorized)
	}
	if err := s.userRepo.EnsureUser(ctx, item); err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	profile, _, err := s.userRepo.GetProfile(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return access.NewCaller(principal, profile), nil
}

// Profile returns the caller's entitlements; absent profiles read as empty.
func (s *ProfileService) Profile(ctx context.Context, caller access.Caller) (user.Profile, error) {
	profile, exists, err := s.userRepo.GetProfile(ctx, caller.UserID())
	if err != nil {
		return user.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	if !exists {
		return user.Profile{UserID: caller.UserID(), CountryIDs: []int64{}}, nil
	}

	return profile, nil
}

// SetCountries replaces a user's entitled countries. Admin only.
func (s *ProfileService) SetCountries(ctx context.Context, caller access.Caller, userID string, countryIDs []int64) (user.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.SetCountries")
	defer span.End()

	if !caller.IsAdmin() {
		return user.Profile{}, fmt.Errorf("%w: only admins can change entitlements", ErrForbidden)
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return user.Profile{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	ids := user.NormalizeCountryIDs(countryIDs)
	for _, id := range ids {
		_, exists, err := s.countryRepo.GetByID(ctx, id)
		if err != nil {
			return user.Profile{}, fmt.Errorf("get country: %w", err)
		}
		if !exists {
			return user.Profile{}, fmt.Errorf("%w: unknown country %d", ErrInvalidInput, id)
		}
	}

	profile, exists, err := s.userRepo.SetProfileCountries(ctx, userID, ids)
	if err != nil {
		return user.Profile{}, fmt.Errorf("set profile countries: %w", err)
	}
	if !exists {
		return user.Profile{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	s.logger.InfoContext(ctx, "profile countries replaced",
		"user_id", userID,
		"country_ids", ids,
		"by", caller.UserID(),
	)
	return profile, nil
}
