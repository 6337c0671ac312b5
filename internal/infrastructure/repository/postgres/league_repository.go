package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/basket-api/internal/domain/game"
	"github.com/riskibarqy/basket-api/internal/domain/league"
	qb "github.com/riskibarqy/basket-api/internal/platform/querybuilder"
)

const leagueColumns = "id, name, type, season, logo, created_at, updated_at"

type LeagueRepository struct {
	db sqlx.ExtContext
}

// NewLeagueRepository accepts either *sqlx.DB or *sqlx.Tx.
func NewLeagueRepository(db sqlx.ExtContext) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select(leagueColumns).From("leagues").
		OrderBy("season DESC", "name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, leagueFromRow(row))
	}

	return out, nil
}

func (r *LeagueRepository) ListByIDs(ctx context.Context, ids []int64) ([]league.League, error) {
	if len(ids) == 0 {
		return []league.League{}, nil
	}

	query, args, err := selectByIDs(leagueColumns, "leagues", ids)
	if err != nil {
		return nil, fmt.Errorf("build select leagues by ids query: %w", err)
	}

	var rows []leagueTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues by ids: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, leagueFromRow(row))
	}

	return out, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID int64) (league.League, bool, error) {
	query, args, err := qb.Select(leagueColumns).From("leagues").
		Where(qb.Eq("id", leagueID)).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by id query: %w", err)
	}

	var row leagueTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", err)
	}

	return leagueFromRow(row), true, nil
}

func (r *LeagueRepository) Upsert(ctx context.Context, item league.League) error {
	item = item.Normalize()
	if err := item.Validate(); err != nil {
		return err
	}

	query, args, err := qb.UpsertModel("leagues", leagueToWriteModel(item), "id")
	if err != nil {
		return fmt.Errorf("build upsert league query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert league id=%d: %w", item.ID, err)
	}

	return nil
}

func (r *LeagueRepository) GetOrCreate(ctx context.Context, item league.League) (league.League, error) {
	item = item.Normalize()
	if err := item.Validate(); err != nil {
		return league.League{}, err
	}

	query, args, err := qb.InsertModel("leagues", leagueToWriteModel(item), "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		return league.League{}, fmt.Errorf("build insert league query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return league.League{}, fmt.Errorf("insert league id=%d: %w", item.ID, err)
	}

	stored, exists, err := r.GetByID(ctx, item.ID)
	if err != nil {
		return league.League{}, err
	}
	if !exists {
		return league.League{}, fmt.Errorf("league id=%d vanished after insert", item.ID)
	}

	return stored, nil
}

func (r *LeagueRepository) Delete(ctx context.Context, leagueID int64) (bool, error) {
	return deleteCatalogRow(ctx, r.db, "leagues", leagueID)
}

func leagueFromRow(row leagueTableModel) league.League {
	return league.League{
		ID:     row.ID,
		Name:   row.Name,
		Type:   row.Type,
		Season: row.Season,
		Logo:   row.Logo,
	}
}

func leagueToWriteModel(item league.League) leagueWriteModel {
	return leagueWriteModel{
		ID:        item.ID,
		Name:      item.Name,
		Type:      item.Type,
		Season:    item.Season,
		Logo:      item.Logo,
		UpdatedAt: time.Now().UTC(),
	}
}

func deleteCatalogRow(ctx context.Context, db sqlx.ExecerContext, table string, id int64) (bool, error) {
	query, args, err := qb.DeleteFrom(table).Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete %s query: %w", table, err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, fmt.Errorf("delete %s id=%d: %w", table, id, game.ErrReferenced)
		}
		return false, fmt.Errorf("delete %s id=%d: %w", table, id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected delete %s: %w", table, err)
	}

	return affected > 0, nil
}
