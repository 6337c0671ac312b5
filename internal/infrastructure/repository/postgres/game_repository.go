package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/basket-api/internal/domain/game"
	qb "github.com/riskibarqy/basket-api/internal/platform/querybuilder"
)

const gameColumns = "id, game_date, game_time, game_timestamp, timezone, stage, week, league_id, country_id, " +
	"home_team_id, away_team_id, status, home_score, away_score, user_id, created_at, updated_at"

type GameRepository struct {
	db sqlx.ExtContext
}

func NewGameRepository(db sqlx.ExtContext) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) List(ctx context.Context, q game.Query) ([]game.Game, error) {
	query, args, err := qb.Select(gameColumns).From("games").
		Where(queryConditions(q)...).
		OrderBy("game_date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games query: %w", err)
	}

	var rows []gameTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		item, err := gameFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	return out, nil
}

func (r *GameRepository) Get(ctx context.Context, q game.Query, gameID int64) (game.Game, bool, error) {
	conditions := append([]qb.Condition{qb.Eq("id", gameID)}, queryConditions(q)...)
	return r.getOne(ctx, conditions)
}

func (r *GameRepository) GetByID(ctx context.Context, gameID int64) (game.Game, bool, error) {
	return r.getOne(ctx, []qb.Condition{qb.Eq("id", gameID)})
}

func (r *GameRepository) getOne(ctx context.Context, conditions []qb.Condition) (game.Game, bool, error) {
	query, args, err := qb.Select(gameColumns).From("games").
		Where(conditions...).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game query: %w", err)
	}

	var row gameTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game: %w", err)
	}

	item, err := gameFromRow(row)
	if err != nil {
		return game.Game{}, false, err
	}
	return item, true, nil
}

// Upsert keeps the stored assignee. When the row moves to another country the
// assignee must still be entitled to it, or the write fails with
// game.ErrValidation.
func (r *GameRepository) Upsert(ctx context.Context, item game.Game) error {
	item, err := item.Prepare()
	if err != nil {
		return err
	}
	if err := r.checkAssigneeOnMove(ctx, item); err != nil {
		return err
	}

	model, err := gameToWriteModel(item)
	if err != nil {
		return err
	}

	query, args, err := qb.UpsertModel("games", model, "id")
	if err != nil {
		return fmt.Errorf("build upsert game query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert game id=%d: %w", item.ID, err)
	}

	return nil
}

func (r *GameRepository) checkAssigneeOnMove(ctx context.Context, item game.Game) error {
	query, args, err := qb.Select("country_id, user_id").From("games").
		Where(qb.Eq("id", item.ID)).
		Suffix("FOR UPDATE").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build lock game query: %w", err)
	}

	var current gameAssigneeRow
	if err := sqlx.GetContext(ctx, r.db, &current, query, args...); err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("lock game id=%d: %w", item.ID, err)
	}
	if !current.UserID.Valid || current.CountryID == item.CountryID {
		return nil
	}

	profile, _, err := getProfile(ctx, r.db, current.UserID.String)
	if err != nil {
		return err
	}
	item.UserID = current.UserID.String
	if err := item.CheckAssignee(profile.CountryIDs); err != nil {
		return fmt.Errorf("game id=%d: %w", item.ID, err)
	}
	return nil
}

func (r *GameRepository) AssignIfVisible(ctx context.Context, scope game.Scope, gameID int64, userID string) (game.Game, bool, error) {
	conditions := append([]qb.Condition{qb.Eq("id", gameID)}, scopeConditions(scope)...)
	conditions = append(conditions, qb.Or(qb.IsNull("user_id"), qb.Eq("user_id", userID)))

	query, args, err := qb.Update("games").
		Set("user_id", userID).
		SetExpr("updated_at", "NOW()").
		Where(conditions...).
		Suffix("RETURNING " + gameColumns).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build assign game query: %w", err)
	}

	var row gameTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("assign game id=%d: %w", gameID, err)
	}

	item, err := gameFromRow(row)
	if err != nil {
		return game.Game{}, false, err
	}
	return item, true, nil
}

func (r *GameRepository) Update(ctx context.Context, item game.Game) (bool, error) {
	item, err := item.Prepare()
	if err != nil {
		return false, err
	}

	model, err := gameToWriteModel(item)
	if err != nil {
		return false, err
	}

	query, args, err := qb.Update("games").
		Set("stage", model.Stage).
		Set("week", model.Week).
		Set("status", model.Status).
		Set("home_score", model.HomeScore).
		Set("away_score", model.AwayScore).
		Set("user_id", nullString(item.UserID)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update game query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update game id=%d: %w", item.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected update game: %w", err)
	}

	return affected > 0, nil
}

func (r *GameRepository) Delete(ctx context.Context, gameID int64) (bool, error) {
	query, args, err := qb.DeleteFrom("games").Where(qb.Eq("id", gameID)).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete game query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete game id=%d: %w", gameID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected delete game: %w", err)
	}

	return affected > 0, nil
}

// scopeConditions renders the caller restriction of a game scope.
func scopeConditions(scope game.Scope) []qb.Condition {
	var out []qb.Condition
	if !scope.AllCountries {
		out = append(out, qb.In("country_id", qb.Values(scope.CountryIDs)))
	}
	if scope.ViewerID != "" {
		out = append(out, qb.Or(qb.IsNull("user_id"), qb.Eq("user_id", scope.ViewerID)))
	}
	return out
}

func queryConditions(q game.Query) []qb.Condition {
	out := scopeConditions(q.Scope)

	f := q.Filter
	if f.HasDate() {
		out = append(out, qb.Expr("(game_date AT TIME ZONE 'UTC')::date = ?::date", f.Date.UTC().Format(time.DateOnly)))
	}
	if f.LeagueID > 0 {
		out = append(out, qb.Eq("league_id", f.LeagueID))
	}
	if f.Season != "" {
		out = append(out, qb.Expr("league_id IN (SELECT id FROM leagues WHERE season = ?)", f.Season))
	}
	if f.TeamID > 0 {
		out = append(out, qb.Or(qb.Eq("home_team_id", f.TeamID), qb.Eq("away_team_id", f.TeamID)))
	}

	switch q.View {
	case game.ViewAssigned:
		if q.CallerID == "" {
			out = append(out, qb.In("user_id", nil))
		} else {
			out = append(out, qb.Eq("user_id", q.CallerID))
		}
	case game.ViewUnassigned:
		out = append(out, qb.IsNull("user_id"))
	}

	return out
}

func gameFromRow(row gameTableModel) (game.Game, error) {
	status, err := decodeJSONMap(row.Status)
	if err != nil {
		return game.Game{}, fmt.Errorf("decode status of game id=%d: %w", row.ID, err)
	}
	homeScore, err := decodeJSONMap(row.HomeScore)
	if err != nil {
		return game.Game{}, fmt.Errorf("decode home score of game id=%d: %w", row.ID, err)
	}
	awayScore, err := decodeJSONMap(row.AwayScore)
	if err != nil {
		return game.Game{}, fmt.Errorf("decode away score of game id=%d: %w", row.ID, err)
	}

	return game.Game{
		ID:         row.ID,
		Date:       row.Date.UTC(),
		Time:       row.Time,
		Timestamp:  row.Timestamp,
		Timezone:   row.Timezone,
		Stage:      row.Stage,
		Week:       row.Week,
		LeagueID:   row.LeagueID,
		CountryID:  row.CountryID,
		HomeTeamID: row.HomeTeamID,
		AwayTeamID: row.AwayTeamID,
		Status:     game.Status(status),
		HomeScore:  game.Score(homeScore),
		AwayScore:  game.Score(awayScore),
		UserID:     row.UserID.String,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

func gameToWriteModel(item game.Game) (gameWriteModel, error) {
	status, err := encodeJSONMap(item.Status)
	if err != nil {
		return gameWriteModel{}, fmt.Errorf("encode status of game id=%d: %w", item.ID, err)
	}
	homeScore, err := encodeJSONMap(item.HomeScore)
	if err != nil {
		return gameWriteModel{}, fmt.Errorf("encode home score of game id=%d: %w", item.ID, err)
	}
	awayScore, err := encodeJSONMap(item.AwayScore)
	if err != nil {
		return gameWriteModel{}, fmt.Errorf("encode away score of game id=%d: %w", item.ID, err)
	}

	return gameWriteModel{
		ID:         item.ID,
		Date:       item.Date,
		Time:       item.Time,
		Timestamp:  item.Timestamp,
		Timezone:   item.Timezone,
		Stage:      item.Stage,
		Week:       item.Week,
		LeagueID:   item.LeagueID,
		CountryID:  item.CountryID,
		HomeTeamID: item.HomeTeamID,
		AwayTeamID: item.AwayTeamID,
		Status:     status,
		HomeScore:  homeScore,
		AwayScore:  awayScore,
		UpdatedAt:  time.Now().UTC(),
	}, nil
}
