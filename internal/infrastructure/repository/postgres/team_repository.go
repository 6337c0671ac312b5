package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/basket-api/internal/domain/team"
	qb "github.com/riskibarqy/basket-api/internal/platform/querybuilder"
)

const teamColumns = "id, name, logo, created_at, updated_at"

type TeamRepository struct {
	db sqlx.ExtContext
}

func NewTeamRepository(db sqlx.ExtContext) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select(teamColumns).From("teams").
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Team{ID: row.ID, Name: row.Name, Logo: row.Logo})
	}

	return out, nil
}

func (r *TeamRepository) ListByIDs(ctx context.Context, ids []int64) ([]team.Team, error) {
	if len(ids) == 0 {
		return []team.Team{}, nil
	}

	query, args, err := selectByIDs(teamColumns, "teams", ids)
	if err != nil {
		return nil, fmt.Errorf("build select teams by ids query: %w", err)
	}

	var rows []teamTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by ids: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Team{ID: row.ID, Name: row.Name, Logo: row.Logo})
	}

	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID int64) (team.Team, bool, error) {
	query, args, err := qb.Select(teamColumns).From("teams").
		Where(qb.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by id query: %w", err)
	}

	var row teamTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by id: %w", err)
	}

	return team.Team{ID: row.ID, Name: row.Name, Logo: row.Logo}, true, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) error {
	item = item.Normalize()
	if err := item.Validate(); err != nil {
		return err
	}

	query, args, err := qb.UpsertModel("teams", teamToWriteModel(item), "id")
	if err != nil {
		return fmt.Errorf("build upsert team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team id=%d: %w", item.ID, err)
	}

	return nil
}

func (r *TeamRepository) GetOrCreate(ctx context.Context, item team.Team) (team.Team, error) {
	item = item.Normalize()
	if err := item.Validate(); err != nil {
		return team.Team{}, err
	}

	query, args, err := qb.InsertModel("teams", teamToWriteModel(item), "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		return team.Team{}, fmt.Errorf("build insert team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return team.Team{}, fmt.Errorf("insert team id=%d: %w", item.ID, err)
	}

	stored, exists, err := r.GetByID(ctx, item.ID)
	if err != nil {
		return team.Team{}, err
	}
	if !exists {
		return team.Team{}, fmt.Errorf("team id=%d vanished after insert", item.ID)
	}

	return stored, nil
}

func (r *TeamRepository) Delete(ctx context.Context, teamID int64) (bool, error) {
	return deleteCatalogRow(ctx, r.db, "teams", teamID)
}

func teamToWriteModel(item team.Team) teamWriteModel {
	return teamWriteModel{
		ID:        item.ID,
		Name:      item.Name,
		Logo:      item.Logo,
		UpdatedAt: time.Now().UTC(),
	}
}
