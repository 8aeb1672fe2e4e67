package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/stefanciobanu13/galero/models"
	"golang.org/x/sync/errgroup"
)

type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type postgresEditionGateway struct {
	db *sql.DB
}

func NewPostgresEditionGateway(db *sql.DB) EditionGateway {
	return &postgresEditionGateway{db: db}
}

// FetchFullEdition loads the edition row, then its teams, rosters, matches
// and goals in parallel.
func (r *postgresEditionGateway) FetchFullEdition(ctx context.Context, editionID int) (*models.FullEdition, error) {
	full := &models.FullEdition{}
	query := `SELECT id, edition_number, to_char(date, 'YYYY-MM-DD'), created_at FROM editions WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, editionID).Scan(
		&full.Edition.ID, &full.Edition.Number, &full.Edition.Date, &full.Edition.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEditionNotFound
		}
		return nil, fmt.Errorf("failed to fetch edition %d: %w", editionID, err)
	}

	var (
		teams   []models.Team
		rosters map[int][]models.Player
		matches []models.Match
		goals   []models.Goal
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = listTeams(gCtx, r.db, editionID)
		return err
	})
	g.Go(func() error {
		var err error
		rosters, err = listRosters(gCtx, r.db, editionID)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = listMatches(gCtx, r.db, editionID)
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = listGoals(gCtx, r.db, editionID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	full.Teams = make([]models.TeamWithPlayers, 0, len(teams))
	for _, t := range teams {
		players := rosters[t.ID]
		if players == nil {
			players = []models.Player{}
		}
		full.Teams = append(full.Teams, models.TeamWithPlayers{Team: t, Players: players})
	}

	byMatch := make(map[int][]models.Goal, len(matches))
	for _, goal := range goals {
		byMatch[goal.MatchID] = append(byMatch[goal.MatchID], goal)
	}
	full.Matches = make([]models.MatchWithGoals, 0, len(matches))
	for _, m := range matches {
		matchGoals := byMatch[m.ID]
		if matchGoals == nil {
			matchGoals = []models.Goal{}
		}
		full.Matches = append(full.Matches, models.MatchWithGoals{Match: m, Goals: matchGoals})
	}
	return full, nil
}

func (r *postgresEditionGateway) FetchTeamsByEdition(ctx context.Context, editionID int) ([]models.Team, error) {
	return listTeams(ctx, r.db, editionID)
}

func (r *postgresEditionGateway) CreateMatch(ctx context.Context, match models.Match) (*models.Match, error) {
	query := `
		INSERT INTO matches
		    (edition_id, home_team_id, away_team_id, match_number, match_type, home_team_score, away_team_score, is_played)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	out := match.Clone()
	err := r.db.QueryRowContext(ctx, query,
		match.EditionID, nullInt(match.HomeTeamID), nullInt(match.AwayTeamID), match.MatchNumber,
		string(match.MatchType), nullInt(match.HomeTeamScore), nullInt(match.AwayTeamScore), match.IsPlayed,
	).Scan(&out.ID)
	if err != nil {
		return nil, mapConstraintError("create match", err)
	}
	out.Local = false
	return &out, nil
}

func (r *postgresEditionGateway) UpdateMatch(ctx context.Context, matchID int, match models.Match) (*models.Match, error) {
	query := `
		UPDATE matches
		SET home_team_id = $1, away_team_id = $2, home_team_score = $3, away_team_score = $4, is_played = $5
		WHERE id = $6`
	result, err := r.db.ExecContext(ctx, query,
		nullInt(match.HomeTeamID), nullInt(match.AwayTeamID),
		nullInt(match.HomeTeamScore), nullInt(match.AwayTeamScore), match.IsPlayed, matchID,
	)
	if err != nil {
		return nil, mapConstraintError(fmt.Sprintf("update match %d", matchID), err)
	}
	if err := checkAffectedRows(result, ErrMatchNotFound); err != nil {
		return nil, err
	}
	out := match.Clone()
	out.ID = matchID
	return &out, nil
}

func (r *postgresEditionGateway) CreateGoal(ctx context.Context, goal models.Goal) (*models.Goal, error) {
	query := `
		INSERT INTO goals (match_id, team_id, player_id, goal_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	out := goal
	err := r.db.QueryRowContext(ctx, query, goal.MatchID, goal.TeamID, goal.PlayerID, string(goal.GoalType)).Scan(&out.ID)
	if err != nil {
		return nil, mapConstraintError("create goal", err)
	}
	out.Local = false
	return &out, nil
}

func (r *postgresEditionGateway) DeleteGoal(ctx context.Context, goalID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, goalID)
	if err != nil {
		return fmt.Errorf("failed to delete goal %d: %w", goalID, err)
	}
	return checkAffectedRows(result, ErrGoalNotFound)
}

func listTeams(ctx context.Context, exec SQLExecutor, editionID int) ([]models.Team, error) {
	rows, err := exec.QueryContext(ctx, `SELECT id, edition_id, color FROM teams WHERE edition_id = $1 ORDER BY id`, editionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for edition %d: %w", editionID, err)
	}
	defer rows.Close()

	teams := []models.Team{}
	for rows.Next() {
		var t models.Team
		var color string
		if err := rows.Scan(&t.ID, &t.EditionID, &color); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		t.Color = models.TeamColor(color)
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func listRosters(ctx context.Context, exec SQLExecutor, editionID int) (map[int][]models.Player, error) {
	query := `
		SELECT tp.team_id, p.id, p.first_name, p.last_name, p.grade
		FROM team_players tp
		JOIN players p ON p.id = tp.player_id
		JOIN teams t ON t.id = tp.team_id
		WHERE t.edition_id = $1
		ORDER BY tp.team_id, p.last_name, p.first_name`
	rows, err := exec.QueryContext(ctx, query, editionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for edition %d: %w", editionID, err)
	}
	defer rows.Close()

	rosters := make(map[int][]models.Player)
	for rows.Next() {
		var teamID int
		var p models.Player
		if err := rows.Scan(&teamID, &p.ID, &p.FirstName, &p.LastName, &p.Grade); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		rosters[teamID] = append(rosters[teamID], p)
	}
	return rosters, rows.Err()
}

func listMatches(ctx context.Context, exec SQLExecutor, editionID int) ([]models.Match, error) {
	query := `
		SELECT id, edition_id, home_team_id, away_team_id, match_number, match_type,
		       home_team_score, away_team_score, is_played
		FROM matches
		WHERE edition_id = $1
		ORDER BY match_number`
	rows, err := exec.QueryContext(ctx, query, editionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for edition %d: %w", editionID, err)
	}
	defer rows.Close()

	matches := []models.Match{}
	for rows.Next() {
		var m models.Match
		var matchType string
		var home, away, homeScore, awayScore sql.NullInt64
		if err := rows.Scan(&m.ID, &m.EditionID, &home, &away, &m.MatchNumber, &matchType,
			&homeScore, &awayScore, &m.IsPlayed); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		m.MatchType = models.MatchType(matchType)
		m.HomeTeamID = intFromNull(home)
		m.AwayTeamID = intFromNull(away)
		m.HomeTeamScore = intFromNull(homeScore)
		m.AwayTeamScore = intFromNull(awayScore)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func listGoals(ctx context.Context, exec SQLExecutor, editionID int) ([]models.Goal, error) {
	query := `
		SELECT g.id, g.match_id, g.team_id, g.player_id, g.goal_type
		FROM goals g
		JOIN matches m ON m.id = g.match_id
		WHERE m.edition_id = $1
		ORDER BY g.id`
	rows, err := exec.QueryContext(ctx, query, editionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals for edition %d: %w", editionID, err)
	}
	defer rows.Close()

	goals := []models.Goal{}
	for rows.Next() {
		var g models.Goal
		var goalType string
		if err := rows.Scan(&g.ID, &g.MatchID, &g.TeamID, &g.PlayerID, &goalType); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		g.GoalType = models.GoalType(goalType)
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func mapConstraintError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: %w (%s)", op, ErrReferenceInvalid, pqErr.Constraint)
		case "23505": // unique_violation
			if pqErr.Constraint == "matches_edition_id_match_number_key" {
				return fmt.Errorf("%s: %w", op, ErrSlotTaken)
			}
		}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
