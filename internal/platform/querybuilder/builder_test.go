package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "stage").
		From("games").
		Where(Eq("league_id", int64(176)), IsNull("user_id")).
		OrderBy("game_date", "id").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, stage FROM games WHERE league_id = $1 AND user_id IS NULL ORDER BY game_date, id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != int64(176) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("profile_countries").
		Columns("user_id", "country_id").
		Values("alice", int64(33)).
		Values("alice", int64(18)).
		Suffix("ON CONFLICT DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO profile_countries (user_id, country_id) VALUES ($1, $2), ($3, $4) ON CONFLICT DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != "alice" || args[3] != int64(18) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("games").
		Set("user_id", "alice").
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", int64(390001))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE games SET user_id = $1, updated_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "alice" || args[1] != int64(390001) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_OrAndIn(t *testing.T) {
	query, args, err := Select("id").
		From("games").
		Where(
			In("country_id", Values([]int64{3, 7})),
			Or(IsNull("user_id"), Eq("user_id", "alice")),
			Expr("league_id IN (SELECT id FROM leagues WHERE season = ?)", "2023-2024"),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM games WHERE country_id IN ($1, $2) AND (user_id IS NULL OR user_id = $3) AND league_id IN (SELECT id FROM leagues WHERE season = $4)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != int64(3) || args[2] != "alice" || args[3] != "2023-2024" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("id").From("games").Where(In("country_id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT id FROM games WHERE 1=0" || len(args) != 0 {
		t.Fatalf("unexpected query: %s %+v", query, args)
	}
}

func TestSelectBuilder_Suffix(t *testing.T) {
	query, args, err := Select("country_id, user_id").From("games").
		Where(Eq("id", int64(390001))).
		Suffix(" FOR UPDATE ").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT country_id, user_id FROM games WHERE id = $1 FOR UPDATE" || len(args) != 1 {
		t.Fatalf("unexpected query: %s %+v", query, args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("teams").Where(Eq("id", int64(9))).ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if query != "DELETE FROM teams WHERE id = $1" || len(args) != 1 {
		t.Fatalf("unexpected query: %s %+v", query, args)
	}

	if _, _, err := DeleteFrom("teams").ToSQL(); err == nil {
		t.Fatalf("expected unconditional delete to be rejected")
	}
}

func TestInsertModel_UpsertSuffix(t *testing.T) {
	type row struct {
		ID   int64  `db:"id"`
		Name string `db:"name"`
		skip string
	}

	query, args, err := InsertModel("leagues", row{ID: 1, Name: "NBA", skip: "x"}, "ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name")
	if err != nil {
		t.Fatalf("build insert model query: %v", err)
	}

	wantQuery := "INSERT INTO leagues (id, name) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpsertModel(t *testing.T) {
	type row struct {
		ID   int64  `db:"id"`
		Name string `db:"name"`
		Logo string `db:"logo"`
	}

	query, _, err := UpsertModel("teams", row{ID: 1, Name: "Steaua"}, "id")
	if err != nil {
		t.Fatalf("build upsert query: %v", err)
	}

	wantQuery := "INSERT INTO teams (id, name, logo) VALUES ($1, $2, $3) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, logo = EXCLUDED.logo"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}

	if _, _, err := UpsertModel("teams", row{ID: 1}); err == nil {
		t.Fatalf("expected missing conflict columns error")
	}
}
