package game

import (
	"context"

	crerr "github.com/cockroachdb/errors"
)

// ErrReferenced is returned when deleting a league, country or team that
// games still point to.
var ErrReferenced = crerr.New("row is referenced by games")

// Repository describes game persistence needs from use cases.
type Repository interface {
	List(ctx context.Context, query Query) ([]Game, error)
	// Get resolves one game through the query scope; out-of-scope rows are
	// reported as absent.
	Get(ctx context.Context, query Query, gameID int64) (Game, bool, error)
	GetByID(ctx context.Context, gameID int64) (Game, bool, error)
	// Upsert replaces every column of the row with the given remote id.
	Upsert(ctx context.Context, item Game) error
	// AssignIfVisible sets the assignee only while the row is unassigned or
	// already held by userID and still inside scope. It reports false when
	// that condition no longer holds.
	AssignIfVisible(ctx context.Context, scope Scope, gameID int64, userID string) (Game, bool, error)
	// Update overwrites the mutable columns of an existing game.
	Update(ctx context.Context, item Game) (bool, error)
	Delete(ctx context.Context, gameID int64) (bool, error)
}
