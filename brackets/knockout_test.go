package brackets

import (
	"testing"

	"github.com/stefanciobanu13/galero/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKnockout(t *testing.T) {
	matches := fullGroupStage()
	standings := CalculateStandings(editionTeams(), matches)

	got, err := ResolveKnockout(standings, matches)
	require.NoError(t, err)
	require.Len(t, got, len(matches))

	small, big := got[12], got[13]
	require.Equal(t, models.MatchTypeSmallFinal, small.MatchType)
	require.NotNil(t, small.HomeTeamID)
	assert.Equal(t, blue, *small.HomeTeamID)
	assert.Equal(t, gray, *small.AwayTeamID)
	require.NotNil(t, big.HomeTeamID)
	assert.Equal(t, orange, *big.HomeTeamID)
	assert.Equal(t, green, *big.AwayTeamID)

	assert.Nil(t, matches[13].HomeTeamID, "input slice is not modified")
	for i := 0; i < 12; i++ {
		assert.Equal(t, matches[i], got[i])
	}
}

func TestResolveKnockout_Idempotent(t *testing.T) {
	matches := fullGroupStage()
	standings := CalculateStandings(editionTeams(), matches)

	once, err := ResolveKnockout(standings, matches)
	require.NoError(t, err)
	twice, err := ResolveKnockout(standings, once)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestResolveKnockout_KeepsScores(t *testing.T) {
	matches := fullGroupStage()
	matches[13].HomeTeamScore = models.IntPtr(2)
	matches[13].AwayTeamScore = models.IntPtr(1)
	matches[13].IsPlayed = true
	standings := CalculateStandings(editionTeams(), matches)

	got, err := ResolveKnockout(standings, matches)
	require.NoError(t, err)

	assert.Equal(t, 2, *got[13].HomeTeamScore)
	assert.Equal(t, 1, *got[13].AwayTeamScore)
	assert.True(t, got[13].IsPlayed)
}

func TestResolveKnockout_NotEnoughTeams(t *testing.T) {
	matches := fullGroupStage()
	matches[12].HomeTeamID = models.IntPtr(99)
	standings := CalculateStandings(editionTeams()[:3], matches)

	got, err := ResolveKnockout(standings, matches)

	require.ErrorIs(t, err, ErrNotEnoughTeams)
	assert.Equal(t, matches, got)
}

func TestKnockoutPairing(t *testing.T) {
	standings := []models.StandingsRow{{TeamID: 10}, {TeamID: 20}, {TeamID: 30}, {TeamID: 40}}

	home, away := KnockoutPairing(standings, models.MatchTypeBigFinal)
	assert.Equal(t, 10, *home)
	assert.Equal(t, 20, *away)

	home, away = KnockoutPairing(standings, models.MatchTypeSmallFinal)
	assert.Equal(t, 30, *home)
	assert.Equal(t, 40, *away)

	home, away = KnockoutPairing(standings, models.MatchTypeGroup)
	assert.Nil(t, home)
	assert.Nil(t, away)

	home, away = KnockoutPairing(standings[:2], models.MatchTypeBigFinal)
	assert.Nil(t, home)
	assert.Nil(t, away)
}
