package models

import "time"

// Edition is one dated instance of the tournament.
type Edition struct {
	ID        int       `json:"editionId" db:"id"`
	Number    int       `json:"editionNumber" db:"edition_number"`
	Date      string    `json:"date" db:"date"` // YYYY-MM-DD
	CreatedAt time.Time `json:"createdAt,omitempty" db:"created_at"`
}

// TeamWithPlayers is a team as returned by the full-edition fetch.
type TeamWithPlayers struct {
	Team
	Players []Player `json:"players"`
}

// MatchWithGoals is a match as returned by the full-edition fetch.
type MatchWithGoals struct {
	Match
	Goals []Goal `json:"goals"`
}

// FullEdition is the nested shape of an edition with everything hanging off it.
type FullEdition struct {
	Edition Edition           `json:"edition"`
	Teams   []TeamWithPlayers `json:"teams"`
	Matches []MatchWithGoals  `json:"matches"`
}
