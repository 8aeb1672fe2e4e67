package brackets

import (
	"errors"
	"fmt"

	"github.com/stefanciobanu13/galero/models"
)

var ErrMissingColorTeam = errors.New("no team for schedule color")

// Slot is one fixed position of the edition schedule. Knockout slots have no
// colors; their teams come from the standings.
type Slot struct {
	Number    int
	Type      models.MatchType
	HomeColor models.TeamColor
	AwayColor models.TeamColor
}

// EditionSchedule is the fixed 14-match order: every pair of colors meets
// twice in the group stage, home and away swapped, then the two finals.
var EditionSchedule = []Slot{
	{Number: 1, Type: models.MatchTypeGroup, HomeColor: models.ColorGreen, AwayColor: models.ColorOrange},
	{Number: 2, Type: models.MatchTypeGroup, HomeColor: models.ColorBlue, AwayColor: models.ColorGray},
	{Number: 3, Type: models.MatchTypeGroup, HomeColor: models.ColorOrange, AwayColor: models.ColorBlue},
	{Number: 4, Type: models.MatchTypeGroup, HomeColor: models.ColorGray, AwayColor: models.ColorGreen},
	{Number: 5, Type: models.MatchTypeGroup, HomeColor: models.ColorGreen, AwayColor: models.ColorBlue},
	{Number: 6, Type: models.MatchTypeGroup, HomeColor: models.ColorOrange, AwayColor: models.ColorGray},
	{Number: 7, Type: models.MatchTypeGroup, HomeColor: models.ColorBlue, AwayColor: models.ColorGreen},
	{Number: 8, Type: models.MatchTypeGroup, HomeColor: models.ColorGray, AwayColor: models.ColorOrange},
	{Number: 9, Type: models.MatchTypeGroup, HomeColor: models.ColorGreen, AwayColor: models.ColorGray},
	{Number: 10, Type: models.MatchTypeGroup, HomeColor: models.ColorBlue, AwayColor: models.ColorOrange},
	{Number: 11, Type: models.MatchTypeGroup, HomeColor: models.ColorOrange, AwayColor: models.ColorGreen},
	{Number: 12, Type: models.MatchTypeGroup, HomeColor: models.ColorGray, AwayColor: models.ColorBlue},
	{Number: 13, Type: models.MatchTypeSmallFinal},
	{Number: 14, Type: models.MatchTypeBigFinal},
}

// BuildScheduleMatches turns EditionSchedule into unsaved matches for the
// given teams. Group slots whose colors have no team are skipped and
// reported; knockout slots are always produced, with teams taken from
// standings when there are enough rows. The returned problems are never
// fatal for the rest of the schedule.
func BuildScheduleMatches(editionID int, teams []models.Team, standings []models.StandingsRow) ([]models.Match, []error) {
	byColor := make(map[models.TeamColor]int, len(teams))
	for _, t := range teams {
		byColor[t.Color] = t.ID
	}

	matches := make([]models.Match, 0, len(EditionSchedule))
	var problems []error
	for _, slot := range EditionSchedule {
		m := models.Match{
			EditionID:   editionID,
			MatchNumber: slot.Number,
			MatchType:   slot.Type,
		}

		if slot.Type.IsKnockout() {
			m.HomeTeamID, m.AwayTeamID = KnockoutPairing(standings, slot.Type)
			if m.HomeTeamID == nil {
				problems = append(problems, fmt.Errorf("match %d (%s): %w", slot.Number, slot.Type, ErrNotEnoughTeams))
			}
			matches = append(matches, m)
			continue
		}

		home, okHome := byColor[slot.HomeColor]
		away, okAway := byColor[slot.AwayColor]
		if !okHome || !okAway {
			problems = append(problems, fmt.Errorf("match %d (%s vs %s): %w", slot.Number, slot.HomeColor, slot.AwayColor, ErrMissingColorTeam))
			continue
		}
		m.HomeTeamID = models.IntPtr(home)
		m.AwayTeamID = models.IntPtr(away)
		matches = append(matches, m)
	}
	return matches, problems
}
