package postgres

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx/types"
)

type gameTableModel struct {
	ID         int64          `db:"id"`
	Date       time.Time      `db:"game_date"`
	Time       string         `db:"game_time"`
	Timestamp  string         `db:"game_timestamp"`
	Timezone   string         `db:"timezone"`
	Stage      string         `db:"stage"`
	Week       string         `db:"week"`
	LeagueID   int64          `db:"league_id"`
	CountryID  int64          `db:"country_id"`
	HomeTeamID int64          `db:"home_team_id"`
	AwayTeamID int64          `db:"away_team_id"`
	Status     types.JSONText `db:"status"`
	HomeScore  types.JSONText `db:"home_score"`
	AwayScore  types.JSONText `db:"away_score"`
	UserID     sql.NullString `db:"user_id"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

type gameAssigneeRow struct {
	CountryID int64          `db:"country_id"`
	UserID    sql.NullString `db:"user_id"`
}

// gameWriteModel carries the columns the feed owns; user_id is left out so a
// refresh never clears an assignment.
type gameWriteModel struct {
	ID         int64          `db:"id"`
	Date       time.Time      `db:"game_date"`
	Time       string         `db:"game_time"`
	Timestamp  string         `db:"game_timestamp"`
	Timezone   string         `db:"timezone"`
	Stage      string         `db:"stage"`
	Week       string         `db:"week"`
	LeagueID   int64          `db:"league_id"`
	CountryID  int64          `db:"country_id"`
	HomeTeamID int64          `db:"home_team_id"`
	AwayTeamID int64          `db:"away_team_id"`
	Status     types.JSONText `db:"status"`
	HomeScore  types.JSONText `db:"home_score"`
	AwayScore  types.JSONText `db:"away_score"`
	UpdatedAt  time.Time      `db:"updated_at"`
}
