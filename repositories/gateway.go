package repositories

import (
	"context"
	"errors"

	"github.com/stefanciobanu13/galero/models"
)

var (
	ErrEditionNotFound  = errors.New("edition not found")
	ErrMatchNotFound    = errors.New("match not found")
	ErrGoalNotFound     = errors.New("goal not found")
	ErrReferenceInvalid = errors.New("referenced edition, match, team or player does not exist")
	ErrSlotTaken        = errors.New("match number already used in this edition")
)

// EditionGateway is everything the edition session needs from a backing
// store. Implementations own transport, timeouts and retries.
type EditionGateway interface {
	FetchFullEdition(ctx context.Context, editionID int) (*models.FullEdition, error)
	FetchTeamsByEdition(ctx context.Context, editionID int) ([]models.Team, error)
	CreateMatch(ctx context.Context, match models.Match) (*models.Match, error)
	UpdateMatch(ctx context.Context, matchID int, match models.Match) (*models.Match, error)
	CreateGoal(ctx context.Context, goal models.Goal) (*models.Goal, error)
	DeleteGoal(ctx context.Context, goalID int) error
}
