package brackets

import "github.com/stefanciobanu13/galero/models"

const (
	green  = 1
	orange = 2
	gray   = 3
	blue   = 4
)

func editionTeams() []models.Team {
	return []models.Team{
		{ID: green, EditionID: 7, Color: models.ColorGreen},
		{ID: orange, EditionID: 7, Color: models.ColorOrange},
		{ID: gray, EditionID: 7, Color: models.ColorGray},
		{ID: blue, EditionID: 7, Color: models.ColorBlue},
	}
}

func played(id, number, home, away, homeScore, awayScore int) models.Match {
	return models.Match{
		ID:            id,
		EditionID:     7,
		MatchNumber:   number,
		MatchType:     models.MatchTypeGroup,
		HomeTeamID:    models.IntPtr(home),
		AwayTeamID:    models.IntPtr(away),
		HomeTeamScore: models.IntPtr(homeScore),
		AwayTeamScore: models.IntPtr(awayScore),
		IsPlayed:      true,
	}
}

func knockout(id, number int, t models.MatchType) models.Match {
	return models.Match{ID: id, EditionID: 7, MatchNumber: number, MatchType: t}
}

// fullGroupStage ends orange 9, green 8, blue 6, gray 5.
func fullGroupStage() []models.Match {
	return []models.Match{
		played(101, 1, green, orange, 1, 1),
		played(102, 2, blue, gray, 1, 1),
		played(103, 3, orange, blue, 1, 0),
		played(104, 4, gray, green, 1, 1),
		played(105, 5, green, blue, 1, 0),
		played(106, 6, orange, gray, 1, 0),
		played(107, 7, blue, green, 1, 1),
		played(108, 8, gray, orange, 1, 1),
		played(109, 9, green, gray, 1, 1),
		played(110, 10, blue, orange, 1, 0),
		played(111, 11, orange, green, 1, 1),
		played(112, 12, gray, blue, 1, 1),
		knockout(113, 13, models.MatchTypeSmallFinal),
		knockout(114, 14, models.MatchTypeBigFinal),
	}
}

func teamOrder(rows []models.StandingsRow) []int {
	ids := make([]int, len(rows))
	for i, r := range rows {
		ids[i] = r.TeamID
	}
	return ids
}
