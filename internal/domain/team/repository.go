package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	ListByIDs(ctx context.Context, ids []int64) ([]Team, error)
	GetByID(ctx context.Context, teamID int64) (Team, bool, error)
	Upsert(ctx context.Context, item Team) error
	GetOrCreate(ctx context.Context, item Team) (Team, error)
	// Delete reports false when the row is absent. Rows still referenced by
	// games fail with game.ErrReferenced.
	Delete(ctx context.Context, teamID int64) (bool, error)
}
