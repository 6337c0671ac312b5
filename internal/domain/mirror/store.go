package mirror

import (
	"context"

	"github.com/riskibarqy/basket-api/internal/domain/country"
	"github.com/riskibarqy/basket-api/internal/domain/game"
	"github.com/riskibarqy/basket-api/internal/domain/league"
	"github.com/riskibarqy/basket-api/internal/domain/team"
)

// Writer is the set of writes one feed reconciliation performs. Catalog rows
// are only created when absent; games are fully replaced.
type Writer interface {
	GetOrCreateLeague(ctx context.Context, item league.League) (league.League, error)
	GetOrCreateCountry(ctx context.Context, item country.Country) (country.Country, error)
	GetOrCreateTeam(ctx context.Context, item team.Team) (team.Team, error)
	UpsertGame(ctx context.Context, item game.Game) error
}

// Store runs fn as one unit of work. Nothing fn wrote is kept when it returns
// an error.
type Store interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, w Writer) error) error
}
