package postgres

import (
	"database/sql"
	"errors"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	qb "github.com/riskibarqy/basket-api/internal/platform/querybuilder"
)

const pqForeignKeyViolation = pq.ErrorCode("23503")

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == pqForeignKeyViolation
}

func encodeJSONMap(value map[string]any) (types.JSONText, error) {
	if value == nil {
		return types.JSONText("{}"), nil
	}
	encoded, err := sonic.Marshal(value)
	if err != nil {
		return nil, err
	}
	return types.JSONText(encoded), nil
}

func decodeJSONMap(raw types.JSONText) (map[string]any, error) {
	if strings.TrimSpace(string(raw)) == "" {
		return map[string]any{}, nil
	}
	out := make(map[string]any)
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func nullString(value string) sql.NullString {
	value = strings.TrimSpace(value)
	return sql.NullString{String: value, Valid: value != ""}
}

func selectByIDs(columns, table string, ids []int64) (string, []any, error) {
	return qb.Select(columns).From(table).
		Where(qb.In("id", qb.Values(ids))).
		OrderBy("id").
		ToSQL()
}
