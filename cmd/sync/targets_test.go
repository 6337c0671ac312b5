package main

import (
	"testing"
	"time"

	"github.com/riskibarqy/basket-api/internal/domain/game"
	"github.com/stretchr/testify/require"
)

func TestParseTargets(t *testing.T) {
	got, err := parseTargets([]string{
		"league=176&season=2023-2024",
		" ",
		"date=2024-03-09&team=1801",
	})
	require.NoError(t, err)
	require.Equal(t, []game.Filter{
		{LeagueID: 176, Season: "2023-2024"},
		{Date: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), TeamID: 1801},
	}, got)
}

func TestParseTargets_Rejects(t *testing.T) {
	for _, raw := range []string{
		"league=abc",
		"league=0",
		"date=09-03-2024",
		"venue=1",
		"season=",
		"%zz",
	} {
		_, err := parseTargets([]string{raw})
		require.Error(t, err, raw)
	}
}
