package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/basket-api/internal/domain/game"
)

// parseTargets turns query strings like "league=176&season=2023-2024" into
// feed filters. Every target needs at least one constraint.
func parseTargets(raw []string) ([]game.Filter, error) {
	out := make([]game.Filter, 0, len(raw))
	for _, item := range raw {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		filter, err := parseTarget(item)
		if err != nil {
			return nil, fmt.Errorf("target %q: %w", item, err)
		}
		out = append(out, filter)
	}
	return out, nil
}

func parseTarget(raw string) (game.Filter, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return game.Filter{}, err
	}

	var filter game.Filter
	for key := range values {
		value := strings.TrimSpace(values.Get(key))
		switch key {
		case "date":
			day, err := time.Parse(time.DateOnly, value)
			if err != nil {
				return game.Filter{}, fmt.Errorf("invalid date: %w", err)
			}
			filter.Date = day
		case "league":
			filter.LeagueID, err = parsePositiveID(value)
			if err != nil {
				return game.Filter{}, fmt.Errorf("invalid league: %w", err)
			}
		case "team":
			filter.TeamID, err = parsePositiveID(value)
			if err != nil {
				return game.Filter{}, fmt.Errorf("invalid team: %w", err)
			}
		case "season":
			filter.Season = value
		default:
			return game.Filter{}, fmt.Errorf("unknown key %q", key)
		}
	}

	if filter == (game.Filter{}) {
		return game.Filter{}, fmt.Errorf("no constraints")
	}
	return filter, nil
}

func parsePositiveID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("must be > 0")
	}
	return id, nil
}
