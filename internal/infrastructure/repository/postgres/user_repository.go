package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/basket-api/internal/domain/user"
	qb "github.com/riskibarqy/basket-api/internal/platform/querybuilder"
)

type userWriteModel struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	IsAdmin   bool      `db:"is_admin"`
	UpdatedAt time.Time `db:"updated_at"`
}

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) EnsureUser(ctx context.Context, item user.User) error {
	if item.ID == "" {
		return fmt.Errorf("user id is required")
	}

	query, args, err := qb.UpsertModel("users", userWriteModel{
		ID:        item.ID,
		Email:     item.Email,
		IsAdmin:   item.IsAdmin,
		UpdatedAt: time.Now().UTC(),
	}, "id")
	if err != nil {
		return fmt.Errorf("build upsert user query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert user id=%s: %w", item.ID, err)
	}

	return nil
}

func (r *UserRepository) GetProfile(ctx context.Context, userID string) (user.Profile, bool, error) {
	return getProfile(ctx, r.db, userID)
}

func (r *UserRepository) EnsureProfile(ctx context.Context, userID string) (user.Profile, error) {
	if err := ensureProfile(ctx, r.db, userID); err != nil {
		return user.Profile{}, err
	}

	profile, exists, err := getProfile(ctx, r.db, userID)
	if err != nil {
		return user.Profile{}, err
	}
	if !exists {
		return user.Profile{}, fmt.Errorf("profile of user id=%s vanished after insert", userID)
	}
	return profile, nil
}

func (r *UserRepository) SetProfileCountries(ctx context.Context, userID string, countryIDs []int64) (user.Profile, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return user.Profile{}, false, fmt.Errorf("begin tx set profile countries: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	existsQuery, existsArgs, err := qb.Select("COUNT(1)").From("users").Where(qb.Eq("id", userID)).ToSQL()
	if err != nil {
		return user.Profile{}, false, fmt.Errorf("build user exists query: %w", err)
	}
	var count int
	if err := tx.GetContext(ctx, &count, existsQuery, existsArgs...); err != nil {
		return user.Profile{}, false, fmt.Errorf("check user exists: %w", err)
	}
	if count == 0 {
		return user.Profile{}, false, nil
	}

	if err := ensureProfile(ctx, tx, userID); err != nil {
		return user.Profile{}, false, err
	}

	deleteQuery, deleteArgs, err := qb.DeleteFrom("profile_countries").Where(qb.Eq("user_id", userID)).ToSQL()
	if err != nil {
		return user.Profile{}, false, fmt.Errorf("build clear profile countries query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return user.Profile{}, false, fmt.Errorf("clear profile countries: %w", err)
	}

	countryIDs = user.NormalizeCountryIDs(countryIDs)
	if len(countryIDs) > 0 {
		insert := qb.InsertInto("profile_countries").Columns("user_id", "country_id")
		for _, countryID := range countryIDs {
			insert.Values(userID, countryID)
		}
		insertQuery, insertArgs, err := insert.ToSQL()
		if err != nil {
			return user.Profile{}, false, fmt.Errorf("build insert profile countries query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return user.Profile{}, false, fmt.Errorf("insert profile countries: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return user.Profile{}, false, fmt.Errorf("commit set profile countries tx: %w", err)
	}

	return user.Profile{UserID: userID, CountryIDs: countryIDs}, true, nil
}

func ensureProfile(ctx context.Context, db sqlx.ExecerContext, userID string) error {
	query, args, err := qb.InsertInto("profiles").
		Columns("user_id").
		Values(userID).
		Suffix("ON CONFLICT (user_id) DO NOTHING").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert profile query: %w", err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert profile user id=%s: %w", userID, err)
	}
	return nil
}

func getProfile(ctx context.Context, db sqlx.QueryerContext, userID string) (user.Profile, bool, error) {
	profileQuery, profileArgs, err := qb.Select("user_id").From("profiles").Where(qb.Eq("user_id", userID)).ToSQL()
	if err != nil {
		return user.Profile{}, false, fmt.Errorf("build get profile query: %w", err)
	}

	var owner string
	if err := sqlx.GetContext(ctx, db, &owner, profileQuery, profileArgs...); err != nil {
		if isNotFound(err) {
			return user.Profile{}, false, nil
		}
		return user.Profile{}, false, fmt.Errorf("get profile: %w", err)
	}

	countriesQuery, countriesArgs, err := qb.Select("country_id").From("profile_countries").
		Where(qb.Eq("user_id", userID)).
		OrderBy("country_id").
		ToSQL()
	if err != nil {
		return user.Profile{}, false, fmt.Errorf("build list profile countries query: %w", err)
	}

	var countryIDs []int64
	if err := sqlx.SelectContext(ctx, db, &countryIDs, countriesQuery, countriesArgs...); err != nil {
		return user.Profile{}, false, fmt.Errorf("list profile countries: %w", err)
	}

	return user.Profile{UserID: owner, CountryIDs: countryIDs}, true, nil
}
