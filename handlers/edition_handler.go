package handlers

import (
	"errors"
	"net/http"
	"sync"

	"github.com/stefanciobanu13/galero/models"
	"github.com/stefanciobanu13/galero/services"
	"go.uber.org/zap"
)

// EditionHandler exposes the edition session over HTTP. The session is not
// safe for concurrent use, so every request holds mu while it touches it.
type EditionHandler struct {
	mu      sync.Mutex
	session *services.Session
	logger  *zap.Logger
}

func NewEditionHandler(session *services.Session, logger *zap.Logger) *EditionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EditionHandler{session: session, logger: logger}
}

type editionView struct {
	Edition   *models.Edition          `json:"edition"`
	Draft     bool                     `json:"draft"`
	Teams     []models.TeamWithPlayers `json:"teams"`
	Matches   []models.MatchWithGoals  `json:"matches"`
	Standings []models.StandingsRow    `json:"standings"`
	Warnings  []string                 `json:"warnings"`
}

// view must be called with mu held.
func (h *EditionHandler) view() editionView {
	s := h.session
	v := editionView{
		Edition:   s.Edition(),
		Draft:     s.IsDraft(),
		Teams:     []models.TeamWithPlayers{},
		Matches:   []models.MatchWithGoals{},
		Standings: s.Standings(),
		Warnings:  []string{},
	}
	for _, t := range s.Teams() {
		players := s.TeamPlayers(t.ID)
		if players == nil {
			players = []models.Player{}
		}
		v.Teams = append(v.Teams, models.TeamWithPlayers{Team: t, Players: players})
	}
	for _, m := range s.Matches() {
		goals := s.MatchGoals(m.ID)
		if goals == nil {
			goals = []models.Goal{}
		}
		v.Matches = append(v.Matches, models.MatchWithGoals{Match: m, Goals: goals})
	}
	if v.Standings == nil {
		v.Standings = []models.StandingsRow{}
	}
	for _, w := range s.Warnings() {
		v.Warnings = append(v.Warnings, w.Error())
	}
	return v
}

func (h *EditionHandler) respond(w http.ResponseWriter, r *http.Request, status int) {
	if err := writeJSON(w, status, jsonResponse{"edition": h.view()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EditionHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.respond(w, r, http.StatusOK)
}

func (h *EditionHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	standings := h.session.Standings()
	if standings == nil {
		standings = []models.StandingsRow{}
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EditionHandler) LoadEdition(w http.ResponseWriter, r *http.Request) {
	editionID, err := getIDFromURL(r, "editionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.session.LoadEdition(r.Context(), editionID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK)
}

func (h *EditionHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	edition := h.session.Edition()
	if edition == nil {
		conflictResponse(w, r, "no edition loaded")
		return
	}
	if err := h.session.CreateGroupAndKnockoutMatches(r.Context(), *edition); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated)
}

type addGoalInput struct {
	MatchID  int             `json:"matchId"`
	PlayerID int             `json:"playerId"`
	TeamID   int             `json:"teamId"`
	GoalType models.GoalType `json:"goalType"`
}

func (h *EditionHandler) AddGoal(w http.ResponseWriter, r *http.Request) {
	var input addGoalInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.GoalType == "" {
		input.GoalType = models.GoalTypeNormal
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	goal, err := h.session.AddGoal(r.Context(), input.MatchID, input.PlayerID, input.TeamID, input.GoalType)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"goal": goal, "edition": h.view()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EditionHandler) RemoveGoal(w http.ResponseWriter, r *http.Request) {
	goalID, err := getAnyIDFromURL(r, "goalID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.session.RemoveGoal(r.Context(), goalID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK)
}

type playedInput struct {
	IsPlayed *bool `json:"isPlayed"`
}

func (h *EditionHandler) SetMatchPlayed(w http.ResponseWriter, r *http.Request) {
	matchID, err := getAnyIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input playedInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.IsPlayed == nil {
		failedValidationResponse(w, r, errors.New("isPlayed is required"))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.session.MarkMatchAsPlayed(r.Context(), matchID, *input.IsPlayed); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK)
}

type draftInput struct {
	Draft *bool `json:"draft"`
}

func (h *EditionHandler) SetDraftMode(w http.ResponseWriter, r *http.Request) {
	var input draftInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Draft == nil {
		failedValidationResponse(w, r, errors.New("draft is required"))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.session.SetDraftMode(*input.Draft)
	if err := writeJSON(w, http.StatusOK, jsonResponse{"draft": h.session.IsDraft()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EditionHandler) SaveEdition(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session.Edition() == nil {
		conflictResponse(w, r, "no edition loaded")
		return
	}
	if err := h.session.SaveEdition(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK)
}

func (h *EditionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.session.Reset(r.Context())
	h.logger.Info("edition session reset")
	w.WriteHeader(http.StatusNoContent)
}
