package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]League, error)
	// ListByIDs returns the stored rows among ids in ascending id order.
	ListByIDs(ctx context.Context, ids []int64) ([]League, error)
	GetByID(ctx context.Context, leagueID int64) (League, bool, error)
	// Upsert overwrites every column of the row with the given remote id.
	Upsert(ctx context.Context, item League) error
	// GetOrCreate inserts the row only when the remote id is absent and
	// returns whatever is stored afterwards.
	GetOrCreate(ctx context.Context, item League) (League, error)
	// Delete reports false when the row is absent. Rows still referenced by
	// games fail with game.ErrReferenced.
	Delete(ctx context.Context, leagueID int64) (bool, error)
}
