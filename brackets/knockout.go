package brackets

import (
	"errors"
	"fmt"

	"github.com/stefanciobanu13/galero/models"
)

// KnockoutTeams is how many standings rows the knockout stage needs.
const KnockoutTeams = 4

var ErrNotEnoughTeams = errors.New("not enough teams in standings to resolve knockout")

// ResolveKnockout returns a copy of matches where the small final holds the
// 3rd and 4th placed teams and the big final the 1st and 2nd. Scores and the
// played flag are never touched. With fewer than four rows the matches are
// returned unchanged together with ErrNotEnoughTeams.
func ResolveKnockout(standings []models.StandingsRow, matches []models.Match) ([]models.Match, error) {
	out := make([]models.Match, len(matches))
	for i, m := range matches {
		out[i] = m.Clone()
	}
	if len(standings) < KnockoutTeams {
		return out, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughTeams, len(standings), KnockoutTeams)
	}

	for i := range out {
		if out[i].MatchType.IsKnockout() {
			out[i].HomeTeamID, out[i].AwayTeamID = KnockoutPairing(standings, out[i].MatchType)
		}
	}
	return out, nil
}

// KnockoutPairing returns the participants for a knockout match type, or nil
// ids when the standings are too short.
func KnockoutPairing(standings []models.StandingsRow, t models.MatchType) (home, away *int) {
	if len(standings) < KnockoutTeams {
		return nil, nil
	}
	switch t {
	case models.MatchTypeSmallFinal:
		return models.IntPtr(standings[2].TeamID), models.IntPtr(standings[3].TeamID)
	case models.MatchTypeBigFinal:
		return models.IntPtr(standings[0].TeamID), models.IntPtr(standings[1].TeamID)
	}
	return nil, nil
}
