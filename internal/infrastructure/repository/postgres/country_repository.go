package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/basket-api/internal/domain/country"
	qb "github.com/riskibarqy/basket-api/internal/platform/querybuilder"
)

const countryColumns = "id, name, code, flag, created_at, updated_at"

type CountryRepository struct {
	db sqlx.ExtContext
}

func NewCountryRepository(db sqlx.ExtContext) *CountryRepository {
	return &CountryRepository{db: db}
}

func (r *CountryRepository) List(ctx context.Context) ([]country.Country, error) {
	query, args, err := qb.Select(countryColumns).From("countries").
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select countries query: %w", err)
	}

	var rows []countryTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select countries: %w", err)
	}

	out := make([]country.Country, 0, len(rows))
	for _, row := range rows {
		out = append(out, countryFromRow(row))
	}

	return out, nil
}

func (r *CountryRepository) ListByIDs(ctx context.Context, ids []int64) ([]country.Country, error) {
	if len(ids) == 0 {
		return []country.Country{}, nil
	}

	query, args, err := selectByIDs(countryColumns, "countries", ids)
	if err != nil {
		return nil, fmt.Errorf("build select countries by ids query: %w", err)
	}

	var rows []countryTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select countries by ids: %w", err)
	}

	out := make([]country.Country, 0, len(rows))
	for _, row := range rows {
		out = append(out, countryFromRow(row))
	}

	return out, nil
}

func (r *CountryRepository) GetByID(ctx context.Context, countryID int64) (country.Country, bool, error) {
	query, args, err := qb.Select(countryColumns).From("countries").
		Where(qb.Eq("id", countryID)).
		ToSQL()
	if err != nil {
		return country.Country{}, false, fmt.Errorf("build get country by id query: %w", err)
	}

	var row countryTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return country.Country{}, false, nil
		}
		return country.Country{}, false, fmt.Errorf("get country by id: %w", err)
	}

	return countryFromRow(row), true, nil
}

func (r *CountryRepository) Upsert(ctx context.Context, item country.Country) error {
	item = item.Normalize()
	if err := item.Validate(); err != nil {
		return err
	}

	query, args, err := qb.UpsertModel("countries", countryToWriteModel(item), "id")
	if err != nil {
		return fmt.Errorf("build upsert country query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert country id=%d: %w", item.ID, err)
	}

	return nil
}

func (r *CountryRepository) GetOrCreate(ctx context.Context, item country.Country) (country.Country, error) {
	item = item.Normalize()
	if err := item.Validate(); err != nil {
		return country.Country{}, err
	}

	query, args, err := qb.InsertModel("countries", countryToWriteModel(item), "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		return country.Country{}, fmt.Errorf("build insert country query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return country.Country{}, fmt.Errorf("insert country id=%d: %w", item.ID, err)
	}

	stored, exists, err := r.GetByID(ctx, item.ID)
	if err != nil {
		return country.Country{}, err
	}
	if !exists {
		return country.Country{}, fmt.Errorf("country id=%d vanished after insert", item.ID)
	}

	return stored, nil
}

func (r *CountryRepository) Delete(ctx context.Context, countryID int64) (bool, error) {
	return deleteCatalogRow(ctx, r.db, "countries", countryID)
}

func countryFromRow(row countryTableModel) country.Country {
	return country.Country{
		ID:   row.ID,
		Name: row.Name,
		Code: row.Code,
		Flag: row.Flag,
	}
}

func countryToWriteModel(item country.Country) countryWriteModel {
	return countryWriteModel{
		ID:        item.ID,
		Name:      item.Name,
		Code:      item.Code,
		Flag:      item.Flag,
		UpdatedAt: time.Now().UTC(),
	}
}
