package brackets

import "github.com/stefanciobanu13/galero/models"

// CreditedTeam returns the team a goal counts for inside match m. Normal and
// penalty goals count for the scorer's team, own goals for its opponent.
func CreditedTeam(m models.Match, g models.Goal) (int, bool) {
	if g.GoalType == models.GoalTypeOwnGoal {
		return m.Opponent(g.TeamID)
	}
	if !m.Involves(g.TeamID) {
		return 0, false
	}
	return g.TeamID, true
}

// DeriveScore recomputes the score of m from its goals. Goals belonging to
// other matches are ignored. m itself is not modified.
//
// With no goals, a score that is already present (external data, or a 0-0
// marked by hand) is kept and the match stays played; otherwise the match is
// reset to unplayed.
func DeriveScore(m models.Match, goals []models.Goal) models.Match {
	out := m.Clone()

	home, away, count := 0, 0, 0
	for _, g := range goals {
		if g.MatchID != m.ID {
			continue
		}
		count++
		team, ok := CreditedTeam(m, g)
		if !ok {
			continue
		}
		switch {
		case m.HomeTeamID != nil && team == *m.HomeTeamID:
			home++
		case m.AwayTeamID != nil && team == *m.AwayTeamID:
			away++
		}
	}

	if count > 0 {
		out.HomeTeamScore = models.IntPtr(home)
		out.AwayTeamScore = models.IntPtr(away)
		out.IsPlayed = true
		return out
	}

	if out.HomeTeamScore != nil && out.AwayTeamScore != nil {
		out.IsPlayed = true
		return out
	}
	out.HomeTeamScore = nil
	out.AwayTeamScore = nil
	out.IsPlayed = false
	return out
}

// DeriveScores applies DeriveScore to every match.
func DeriveScores(matches []models.Match, goals []models.Goal) []models.Match {
	byMatch := make(map[int][]models.Goal, len(matches))
	for _, g := range goals {
		byMatch[g.MatchID] = append(byMatch[g.MatchID], g)
	}
	out := make([]models.Match, len(matches))
	for i, m := range matches {
		out[i] = DeriveScore(m, byMatch[m.ID])
	}
	return out
}
