package country

import "context"

// Repository describes country persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Country, error)
	ListByIDs(ctx context.Context, ids []int64) ([]Country, error)
	GetByID(ctx context.Context, countryID int64) (Country, bool, error)
	Upsert(ctx context.Context, item Country) error
	GetOrCreate(ctx context.Context, item Country) (Country, error)
	// Delete reports false when the row is absent. Rows still referenced by
	// games fail with game.ErrReferenced.
	Delete(ctx context.Context, countryID int64) (bool, error)
}
