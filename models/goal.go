package models

type GoalType string

const (
	GoalTypeNormal  GoalType = "normal"
	GoalTypePenalty GoalType = "penalty"
	GoalTypeOwnGoal GoalType = "own_goal"
)

func (t GoalType) Valid() bool {
	switch t {
	case GoalTypeNormal, GoalTypePenalty, GoalTypeOwnGoal:
		return true
	}
	return false
}

// Goal is a single scoring event. TeamID is the team the scorer plays for;
// for own goals the point goes to the opponent. Local goals exist only in
// the working set and carry negative ids.
type Goal struct {
	ID       int      `json:"goalId" db:"id"`
	Local    bool     `json:"local,omitempty" db:"-"`
	MatchID  int      `json:"matchId" db:"match_id"`
	TeamID   int      `json:"teamId" db:"team_id"`
	PlayerID int      `json:"playerId" db:"player_id"`
	GoalType GoalType `json:"goalType" db:"goal_type"`
}
