package models

import "fmt"

type TeamColor string

const (
	ColorGreen  TeamColor = "green"
	ColorOrange TeamColor = "orange"
	ColorGray   TeamColor = "gray"
	ColorBlue   TeamColor = "blue"
)

// Palette lists the four team colors in their canonical order.
var Palette = []TeamColor{ColorGreen, ColorOrange, ColorGray, ColorBlue}

func (c TeamColor) Valid() bool {
	switch c {
	case ColorGreen, ColorOrange, ColorGray, ColorBlue:
		return true
	}
	return false
}

func ParseTeamColor(s string) (TeamColor, error) {
	c := TeamColor(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown team color %q", s)
	}
	return c, nil
}

type Team struct {
	ID        int       `json:"teamId" db:"id"`
	EditionID int       `json:"editionId" db:"edition_id"`
	Color     TeamColor `json:"color" db:"color"`
}

type Player struct {
	ID        int    `json:"playerId" db:"id"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
	Grade     int    `json:"grade" db:"grade"`
}
