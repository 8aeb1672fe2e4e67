package models

// StandingsRow is one line of the group table. It is derived on every query
// and never stored.
type StandingsRow struct {
	TeamID         int       `json:"teamId"`
	Color          TeamColor `json:"color"`
	Points         int       `json:"points"`
	Played         int       `json:"played"`
	Wins           int       `json:"wins"`
	Draws          int       `json:"draws"`
	Losses         int       `json:"losses"`
	GoalsFor       int       `json:"goalsFor"`
	GoalsAgainst   int       `json:"goalsAgainst"`
	GoalDifference int       `json:"goalDifference"`
}
