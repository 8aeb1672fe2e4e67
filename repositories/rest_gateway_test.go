package repositories

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stefanciobanu13/galero/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRESTGateway(t *testing.T, handler http.HandlerFunc) EditionGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRESTEditionGateway(RESTGatewayConfig{BaseURL: srv.URL + "/api/v1/", Token: "tok", RateLimit: 100})
}

func TestRESTGateway_FetchFullEdition(t *testing.T) {
	gw := newRESTGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/editions/7/full", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"edition": {"editionId": 7, "editionNumber": 31, "date": "2026-05-02"},
			"teams": [{"teamId": 1, "editionId": 7, "color": "green",
			           "players": [{"playerId": 11, "firstName": "Ana", "lastName": "Pop", "grade": 8}]}],
			"matches": [{"matchId": 101, "editionId": 7, "homeTeamId": 1, "awayTeamId": 2, "matchNumber": 1,
			             "matchType": "group", "homeTeamScore": null, "awayTeamScore": null, "isPlayed": false,
			             "goals": [{"goalId": 501, "matchId": 101, "teamId": 1, "playerId": 11, "goalType": "normal"}]}]
		}`))
	})

	full, err := gw.FetchFullEdition(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 31, full.Edition.Number)
	require.Len(t, full.Teams, 1)
	assert.Equal(t, models.ColorGreen, full.Teams[0].Color)
	assert.Equal(t, 11, full.Teams[0].Players[0].ID)
	require.Len(t, full.Matches, 1)
	assert.Nil(t, full.Matches[0].HomeTeamScore)
	assert.Equal(t, 2, *full.Matches[0].AwayTeamID)
	assert.Equal(t, 501, full.Matches[0].Goals[0].ID)
}

func TestRESTGateway_NotFound(t *testing.T) {
	gw := newRESTGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	ctx := context.Background()

	_, err := gw.FetchFullEdition(ctx, 7)
	assert.ErrorIs(t, err, ErrEditionNotFound)
	assert.ErrorIs(t, gw.DeleteGoal(ctx, 501), ErrGoalNotFound)
	_, err = gw.UpdateMatch(ctx, 101, models.Match{})
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestRESTGateway_CreateGoal(t *testing.T) {
	gw := newRESTGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/goals", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in models.Goal
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Zero(t, in.ID, "local ids never leave the process")
		assert.False(t, in.Local)
		in.ID = 777
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(in)
	})

	goal, err := gw.CreateGoal(context.Background(), models.Goal{ID: -3, Local: true, MatchID: 101, TeamID: 1, PlayerID: 11, GoalType: models.GoalTypeOwnGoal})

	require.NoError(t, err)
	assert.Equal(t, 777, goal.ID)
	assert.Equal(t, models.GoalTypeOwnGoal, goal.GoalType)
}

func TestRESTGateway_UpdateMatch(t *testing.T) {
	gw := newRESTGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/matches/101", r.URL.Path)
		var in models.Match
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, 101, in.ID)
		json.NewEncoder(w).Encode(in)
	})

	updated, err := gw.UpdateMatch(context.Background(), 101, models.Match{HomeTeamScore: models.IntPtr(2), AwayTeamScore: models.IntPtr(2), IsPlayed: true})

	require.NoError(t, err)
	assert.Equal(t, 2, *updated.HomeTeamScore)
}

func TestRESTGateway_ServerError(t *testing.T) {
	gw := newRESTGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database unavailable", http.StatusInternalServerError)
	})

	_, err := gw.CreateMatch(context.Background(), models.Match{MatchNumber: 1})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	assert.Equal(t, "database unavailable", statusErr.Body)
}

func TestRESTGateway_DeleteGoalNoContent(t *testing.T) {
	gw := newRESTGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, gw.DeleteGoal(context.Background(), 501))
}

func TestRESTGateway_CancelledContext(t *testing.T) {
	gw := newRESTGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gw.FetchTeamsByEdition(ctx, 7)

	assert.ErrorIs(t, err, context.Canceled)
}
