package brackets

import (
	"sort"

	"github.com/stefanciobanu13/galero/models"
)

const (
	pointsWin  = 3
	pointsDraw = 1
)

// result is a played group match reduced to what the table needs.
type result struct {
	home, away           int
	homeGoals, awayGoals int
}

// CalculateStandings builds the group table for teams from the played group
// matches. Ties are broken by points, head-to-head points, head-to-head goal
// difference, overall goal difference and goals scored, in that order. Teams
// still tied after that keep the order they have in teams.
func CalculateStandings(teams []models.Team, matches []models.Match) []models.StandingsRow {
	results := playedGroupResults(matches)

	rows := make([]models.StandingsRow, len(teams))
	index := make(map[int]*models.StandingsRow, len(teams))
	for i, t := range teams {
		rows[i] = models.StandingsRow{TeamID: t.ID, Color: t.Color}
		index[t.ID] = &rows[i]
	}

	for _, r := range results {
		home, away := index[r.home], index[r.away]
		if home == nil || away == nil {
			continue
		}
		home.Played++
		away.Played++
		home.GoalsFor += r.homeGoals
		home.GoalsAgainst += r.awayGoals
		away.GoalsFor += r.awayGoals
		away.GoalsAgainst += r.homeGoals

		switch {
		case r.homeGoals > r.awayGoals:
			home.Wins++
			away.Losses++
			home.Points += pointsWin
		case r.homeGoals < r.awayGoals:
			away.Wins++
			home.Losses++
			away.Points += pointsWin
		default:
			home.Draws++
			away.Draws++
			home.Points += pointsDraw
			away.Points += pointsDraw
		}
	}
	for i := range rows {
		rows[i].GoalDifference = rows[i].GoalsFor - rows[i].GoalsAgainst
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return ranksAhead(rows[i], rows[j], results)
	})
	return rows
}

// ranksAhead reports whether a must be placed strictly above b.
//
// The head-to-head steps compare two teams at a time, so a three-way points
// tie where each team beat one of the others (A over B, B over C, C over A)
// has no consistent order. The stable sort then leaves such teams in the
// order they have in teams.
func ranksAhead(a, b models.StandingsRow, results []result) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}

	h2h := headToHead(results, a.TeamID, b.TeamID)
	if h2h.pointsA != h2h.pointsB {
		return h2h.pointsA > h2h.pointsB
	}
	if h2h.goalDiffA != 0 {
		return h2h.goalDiffA > 0
	}

	if a.GoalDifference != b.GoalDifference {
		return a.GoalDifference > b.GoalDifference
	}
	if a.GoalsFor != b.GoalsFor {
		return a.GoalsFor > b.GoalsFor
	}
	return false
}

// miniTable is the head-to-head record of team a against team b.
type miniTable struct {
	pointsA, pointsB int
	goalDiffA        int
}

// headToHead only looks at matches between exactly a and b.
func headToHead(results []result, a, b int) miniTable {
	var t miniTable
	for _, r := range results {
		var goalsA, goalsB int
		switch {
		case r.home == a && r.away == b:
			goalsA, goalsB = r.homeGoals, r.awayGoals
		case r.home == b && r.away == a:
			goalsA, goalsB = r.awayGoals, r.homeGoals
		default:
			continue
		}
		t.goalDiffA += goalsA - goalsB
		switch {
		case goalsA > goalsB:
			t.pointsA += pointsWin
		case goalsA < goalsB:
			t.pointsB += pointsWin
		default:
			t.pointsA += pointsDraw
			t.pointsB += pointsDraw
		}
	}
	return t
}

func playedGroupResults(matches []models.Match) []result {
	out := make([]result, 0, len(matches))
	for _, m := range matches {
		if m.MatchType != models.MatchTypeGroup || !m.IsPlayed {
			continue
		}
		if m.HomeTeamID == nil || m.AwayTeamID == nil {
			continue
		}
		r := result{home: *m.HomeTeamID, away: *m.AwayTeamID}
		if m.HomeTeamScore != nil {
			r.homeGoals = *m.HomeTeamScore
		}
		if m.AwayTeamScore != nil {
			r.awayGoals = *m.AwayTeamScore
		}
		out = append(out, r)
	}
	return out
}
