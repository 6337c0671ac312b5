package usecase

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/riskibarqy/basket-api/internal/domain/country"
	"github.com/riskibarqy/basket-api/internal/domain/game"
	"github.com/riskibarqy/basket-api/internal/domain/league"
	"github.com/riskibarqy/basket-api/internal/domain/mirror"
	"github.com/riskibarqy/basket-api/internal/domain/team"
	"github.com/riskibarqy/basket-api/internal/platform/logging"
	"github.com/sourcegraph/conc/iter"
)

// CatalogInvalidator drops cached catalog reads after new rows are committed.
type CatalogInvalidator interface {
	InvalidateCatalog(ctx context.Context)
}

type RefreshResult struct {
	Games      int     `json:"games"`
	GameIDs    []int64 `json:"game_ids"`
	DurationMs int64   `json:"duration_ms"`
}

// RefreshService reconciles one feed response into the store.
type RefreshService struct {
	feed        GamesFeed
	store       mirror.Store
	invalidator CatalogInvalidator
	logger      *logging.Logger
	mapWorkers  int
}

func NewRefreshService(feed GamesFeed, store mirror.Store, invalidator CatalogInvalidator, logger *logging.Logger) *RefreshService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RefreshService{
		feed:        feed,
		store:       store,
		invalidator: invalidator,
		logger:      logger,
		mapWorkers:  8,
	}
}

type mappedGame struct {
	league   league.League
	country  country.Country
	homeTeam team.Team
	awayTeam team.Team
	game     game.Game
	err      error
}

// Refresh performs one feed call and writes every record in a single
// transaction. Records are validated before the transaction opens; the first
// invalid record in feed order aborts the refresh and nothing is written.
func (s *RefreshService) Refresh(ctx context.Context, filter game.Filter) (RefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshService.Refresh")
	defer span.End()

	start := time.Now()
	records, err := s.feed.FetchGames(ctx, filter)
	if err != nil {
		s.logger.WarnContext(ctx, "feed fetch failed", "error", err)
		return RefreshResult{}, err
	}

	mapper := iter.Mapper[FeedGame, mappedGame]{MaxGoroutines: s.mapWorkers}
	mapped := mapper.Map(records, func(record *FeedGame) mappedGame {
		return mapFeedGame(*record)
	})
	for _, item := range mapped {
		if item.err != nil {
			s.logger.WarnContext(ctx, "feed record rejected, refresh aborted", "error", item.err)
			return RefreshResult{}, item.err
		}
	}

	result := RefreshResult{GameIDs: make([]int64, 0, len(mapped))}
	for _, item := range mapped {
		result.GameIDs = append(result.GameIDs, item.game.ID)
	}

	plan := planWrites(mapped)
	err = s.store.RunInTx(ctx, func(ctx context.Context, w mirror.Writer) error {
		return plan.apply(ctx, w)
	})
	if err != nil {
		return RefreshResult{}, err
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateCatalog(ctx)
	}

	result.Games = len(result.GameIDs)
	result.DurationMs = time.Since(start).Milliseconds()
	s.logger.InfoContext(ctx, "feed refresh committed",
		"games", result.Games,
		"league_id", filter.LeagueID,
		"season", filter.Season,
		"duration_ms", result.DurationMs,
	)
	return result, nil
}

// writePlan is one refresh's writes, each catalog row once, every kind in
// ascending id order. Concurrent refreshes then take row locks in the same
// order and cannot deadlock on shared leagues, countries, teams or games.
type writePlan struct {
	leagues   []league.League
	countries []country.Country
	teams     []team.Team
	games     []game.Game
}

// planWrites keeps the first record seen for each catalog id, which is the one
// get-or-create would have stored. Games keep feed order among equal ids so
// the last duplicate still wins.
func planWrites(mapped []mappedGame) writePlan {
	leagues := make(map[int64]league.League)
	countries := make(map[int64]country.Country)
	teams := make(map[int64]team.Team)
	plan := writePlan{games: make([]game.Game, 0, len(mapped))}

	for _, item := range mapped {
		if _, ok := leagues[item.league.ID]; !ok {
			leagues[item.league.ID] = item.league
		}
		if _, ok := countries[item.country.ID]; !ok {
			countries[item.country.ID] = item.country
		}
		for _, t := range []team.Team{item.homeTeam, item.awayTeam} {
			if _, ok := teams[t.ID]; !ok {
				teams[t.ID] = t
			}
		}
		plan.games = append(plan.games, item.game)
	}

	plan.leagues = sortedByID(leagues)
	plan.countries = sortedByID(countries)
	plan.teams = sortedByID(teams)
	slices.SortStableFunc(plan.games, func(a, b game.Game) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return plan
}

func sortedByID[T any](items map[int64]T) []T {
	ids := slices.Sorted(maps.Keys(items))
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, items[id])
	}
	return out
}

func (p writePlan) apply(ctx context.Context, w mirror.Writer) error {
	for _, item := range p.leagues {
		if _, err := w.GetOrCreateLeague(ctx, item); err != nil {
			return fmt.Errorf("get or create league id=%d: %w", item.ID, err)
		}
	}
	for _, item := range p.countries {
		if _, err := w.GetOrCreateCountry(ctx, item); err != nil {
			return fmt.Errorf("get or create country id=%d: %w", item.ID, err)
		}
	}
	for _, item := range p.teams {
		if _, err := w.GetOrCreateTeam(ctx, item); err != nil {
			return fmt.Errorf("get or create team id=%d: %w", item.ID, err)
		}
	}
	for _, item := range p.games {
		if err := w.UpsertGame(ctx, item); err != nil {
			return fmt.Errorf("upsert game id=%d: %w", item.ID, err)
		}
	}
	return nil
}

// mapFeedGame flattens a feed record and runs the same checks the store
// applies on write.
func mapFeedGame(record FeedGame) mappedGame {
	out := mappedGame{
		league:   record.League.Normalize(),
		country:  record.Country.Normalize(),
		homeTeam: record.HomeTeam.Normalize(),
		awayTeam: record.AwayTeam.Normalize(),
	}

	if err := out.league.Validate(); err != nil {
		out.err = fmt.Errorf("%w: game=%d: %v", ErrInvalidInput, record.ID, err)
		return out
	}
	if err := out.country.Validate(); err != nil {
		out.err = fmt.Errorf("%w: game=%d: %v", ErrInvalidInput, record.ID, err)
		return out
	}
	for _, t := range []team.Team{out.homeTeam, out.awayTeam} {
		if err := t.Validate(); err != nil {
			out.err = fmt.Errorf("%w: game=%d: %v", ErrInvalidInput, record.ID, err)
			return out
		}
	}

	date, err := parseFeedDate(record.Date)
	if err != nil {
		out.err = fmt.Errorf("%w: game=%d: date: %v", game.ErrValidation, record.ID, err)
		return out
	}

	item := game.Game{
		ID:         record.ID,
		Date:       date,
		Time:       record.Time,
		Timezone:   record.Timezone,
		Stage:      record.Stage,
		Week:       record.Week,
		LeagueID:   out.league.ID,
		CountryID:  out.country.ID,
		HomeTeamID: out.homeTeam.ID,
		AwayTeamID: out.awayTeam.ID,
		Status:     game.Status(record.Status),
		HomeScore:  game.Score(record.HomeScore),
		AwayScore:  game.Score(record.AwayScore),
	}
	if record.Timestamp != 0 {
		item.Timestamp = strconv.FormatInt(record.Timestamp, 10)
	}

	item, err = item.Prepare()
	if err != nil {
		out.err = fmt.Errorf("game=%d: %w", record.ID, err)
		return out
	}
	out.game = item
	return out
}

func parseFeedDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-0700", time.DateOnly} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
