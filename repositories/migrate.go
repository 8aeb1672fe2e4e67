package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS editions (
		id             SERIAL PRIMARY KEY,
		edition_number INTEGER NOT NULL UNIQUE,
		date           DATE NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS teams (
		id         SERIAL PRIMARY KEY,
		edition_id INTEGER NOT NULL REFERENCES editions(id) ON DELETE CASCADE,
		color      TEXT NOT NULL CHECK (color IN ('green', 'orange', 'gray', 'blue')),
		UNIQUE (edition_id, color)
	)`,
	`CREATE TABLE IF NOT EXISTS players (
		id         SERIAL PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name  TEXT NOT NULL,
		grade      INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS team_players (
		team_id   INTEGER NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		player_id INTEGER NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		PRIMARY KEY (team_id, player_id)
	)`,
	`CREATE TABLE IF NOT EXISTS matches (
		id              SERIAL PRIMARY KEY,
		edition_id      INTEGER NOT NULL REFERENCES editions(id) ON DELETE CASCADE,
		home_team_id    INTEGER REFERENCES teams(id),
		away_team_id    INTEGER REFERENCES teams(id),
		match_number    INTEGER NOT NULL CHECK (match_number BETWEEN 1 AND 14),
		match_type      TEXT NOT NULL CHECK (match_type IN ('group', 'small_final', 'big_final')),
		home_team_score INTEGER,
		away_team_score INTEGER,
		is_played       BOOLEAN NOT NULL DEFAULT FALSE,
		UNIQUE (edition_id, match_number)
	)`,
	`CREATE TABLE IF NOT EXISTS goals (
		id        SERIAL PRIMARY KEY,
		match_id  INTEGER NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
		team_id   INTEGER NOT NULL REFERENCES teams(id),
		player_id INTEGER NOT NULL REFERENCES players(id),
		goal_type TEXT NOT NULL CHECK (goal_type IN ('normal', 'penalty', 'own_goal'))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_goals_match_id ON goals (match_id)`,
}

// Migrate creates the edition tables when they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration transaction: %w", err)
	}
	for i, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration step %d failed: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}
	return nil
}
