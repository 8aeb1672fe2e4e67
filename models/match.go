package models

type MatchType string

const (
	MatchTypeGroup      MatchType = "group"
	MatchTypeSmallFinal MatchType = "small_final"
	MatchTypeBigFinal   MatchType = "big_final"
)

func (t MatchType) IsKnockout() bool {
	return t == MatchTypeSmallFinal || t == MatchTypeBigFinal
}

// Match is one slot of the edition schedule. Nil team ids mark an unassigned
// knockout placeholder, nil scores mark a match that has not been played.
type Match struct {
	ID            int       `json:"matchId" db:"id"`
	EditionID     int       `json:"editionId" db:"edition_id"`
	HomeTeamID    *int      `json:"homeTeamId" db:"home_team_id"`
	AwayTeamID    *int      `json:"awayTeamId" db:"away_team_id"`
	MatchNumber   int       `json:"matchNumber" db:"match_number"`
	MatchType     MatchType `json:"matchType" db:"match_type"`
	HomeTeamScore *int      `json:"homeTeamScore" db:"home_team_score"`
	AwayTeamScore *int      `json:"awayTeamScore" db:"away_team_score"`
	IsPlayed      bool      `json:"isPlayed" db:"is_played"`
	Local         bool      `json:"local,omitempty" db:"-"`
}

// Involves reports whether teamID is the home or away side.
func (m Match) Involves(teamID int) bool {
	return (m.HomeTeamID != nil && *m.HomeTeamID == teamID) ||
		(m.AwayTeamID != nil && *m.AwayTeamID == teamID)
}

// Opponent returns the other side of the match for teamID.
func (m Match) Opponent(teamID int) (int, bool) {
	if m.HomeTeamID == nil || m.AwayTeamID == nil {
		return 0, false
	}
	switch teamID {
	case *m.HomeTeamID:
		return *m.AwayTeamID, true
	case *m.AwayTeamID:
		return *m.HomeTeamID, true
	}
	return 0, false
}

// Clone returns a copy that shares no pointers with m.
func (m Match) Clone() Match {
	c := m
	c.HomeTeamID = cloneInt(m.HomeTeamID)
	c.AwayTeamID = cloneInt(m.AwayTeamID)
	c.HomeTeamScore = cloneInt(m.HomeTeamScore)
	c.AwayTeamScore = cloneInt(m.AwayTeamScore)
	return c
}

func IntPtr(v int) *int { return &v }

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
