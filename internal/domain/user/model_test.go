package user

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeCountryIDs(t *testing.T) {
	t.Parallel()

	got := NormalizeCountryIDs([]int64{7, 0, 3, 7, -1, 3})
	require.Equal(t, []int64{3, 7}, got)
}

func TestProfile_Entitled(t *testing.T) {
	t.Parallel()

	profile := Profile{UserID: "u-1", CountryIDs: []int64{3, 7}}
	require.True(t, profile.Entitled(7))
	require.False(t, profile.Entitled(9))
	require.False(t, Profile{}.Entitled(7))
}
