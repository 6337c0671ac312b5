package usecase

import (
	"context"

	"github.com/riskibarqy/basket-api/internal/domain/country"
	"github.com/riskibarqy/basket-api/internal/domain/game"
	"github.com/riskibarqy/basket-api/internal/domain/league"
	"github.com/riskibarqy/basket-api/internal/domain/team"
)

// GamesFeed is the remote basketball data source. One call is one outbound
// request; feed-reported failures come back as *RemoteError.
type GamesFeed interface {
	FetchGames(ctx context.Context, filter game.Filter) ([]FeedGame, error)
}

// FeedGame is one record of the feed's games response with its nested
// references already split out.
type FeedGame struct {
	ID        int64
	Date      string
	Time      string
	Timestamp int64
	Timezone  string
	Stage     string
	Week      string
	Status    map[string]any

	League   league.League
	Country  country.Country
	HomeTeam team.Team
	AwayTeam team.Team

	HomeScore map[string]any
	AwayScore map[string]any
}
