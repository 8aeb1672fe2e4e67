package services

import (
	"context"
	"errors"

	"github.com/stefanciobanu13/galero/models"
	"github.com/stefanciobanu13/galero/repositories"
)

// goalStore decides where new goals and schedule matches live. The session
// picks one at construction and swaps it on SetDraftMode.
type goalStore interface {
	createGoal(ctx context.Context, goal models.Goal, existing []models.Goal) (models.Goal, error)
	deleteGoal(ctx context.Context, goal models.Goal) error
	createMatch(ctx context.Context, match models.Match, existing []models.Match) (models.Match, error)
	draft() bool
}

type persistentGoalStore struct {
	gateway repositories.EditionGateway
}

func (s *persistentGoalStore) createGoal(ctx context.Context, goal models.Goal, _ []models.Goal) (models.Goal, error) {
	created, err := s.gateway.CreateGoal(ctx, goal)
	if err != nil {
		return models.Goal{}, repositoryError("create goal", err)
	}
	out := *created
	out.Local = false
	return out, nil
}

func (s *persistentGoalStore) deleteGoal(ctx context.Context, goal models.Goal) error {
	if goal.Local {
		return nil
	}
	// A goal the backend no longer has is already gone.
	if err := s.gateway.DeleteGoal(ctx, goal.ID); err != nil && !errors.Is(err, repositories.ErrGoalNotFound) {
		return repositoryError("delete goal", err)
	}
	return nil
}

func (s *persistentGoalStore) createMatch(ctx context.Context, match models.Match, _ []models.Match) (models.Match, error) {
	created, err := s.gateway.CreateMatch(ctx, match)
	if err != nil {
		return models.Match{}, repositoryError("create match", err)
	}
	out := created.Clone()
	out.Local = false
	return out, nil
}

func (s *persistentGoalStore) draft() bool { return false }

// draftGoalStore never leaves the process.
type draftGoalStore struct{}

func (draftGoalStore) createGoal(_ context.Context, goal models.Goal, existing []models.Goal) (models.Goal, error) {
	ids := make([]int, 0, len(existing))
	for _, g := range existing {
		if g.Local {
			ids = append(ids, g.ID)
		}
	}
	goal.ID = nextLocalID(ids)
	goal.Local = true
	return goal, nil
}

func (draftGoalStore) deleteGoal(context.Context, models.Goal) error { return nil }

func (draftGoalStore) createMatch(_ context.Context, match models.Match, existing []models.Match) (models.Match, error) {
	ids := make([]int, 0, len(existing))
	for _, m := range existing {
		if m.Local {
			ids = append(ids, m.ID)
		}
	}
	match.ID = nextLocalID(ids)
	match.Local = true
	return match, nil
}

func (draftGoalStore) draft() bool { return true }

// nextLocalID returns min(ids, 0) - 1.
func nextLocalID(ids []int) int {
	lowest := 0
	for _, id := range ids {
		if id < lowest {
			lowest = id
		}
	}
	return lowest - 1
}
