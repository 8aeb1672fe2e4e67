package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/stefanciobanu13/galero/brackets"
	"github.com/stefanciobanu13/galero/models"
	"github.com/stefanciobanu13/galero/repositories"
	"github.com/stefanciobanu13/galero/storage"
	"go.uber.org/zap"
)

// Notifier is told about the edition after every recompute.
type Notifier interface {
	EditionUpdated(editionID int, matches []models.Match, standings []models.StandingsRow)
}

type SessionOption func(*Session)

func WithDraftMode(draft bool) SessionOption {
	return func(s *Session) { s.setStore(draft) }
}

func WithNotifier(n Notifier) SessionOption {
	return func(s *Session) { s.notifier = n }
}

func WithLogger(l *zap.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Session owns the working set of one edition: teams, players, matches and
// goals. Every mutation ends with Recompute, so scores, standings and
// knockout pairings are always consistent with the goals.
//
// A Session is not safe for concurrent use; callers serialize mutations.
type Session struct {
	gateway   repositories.EditionGateway
	snapshots storage.SnapshotStore
	notifier  Notifier
	logger    *zap.Logger
	store     goalStore

	edition   *models.Edition
	teams     []models.Team
	players   map[int][]models.Player
	matches   []models.Match
	goals     []models.Goal
	standings []models.StandingsRow
	warnings  []error

	// seeded holds scores that did not come from goals: external results
	// and 0-0 marked by hand. Goal-less matches fall back to them.
	seeded map[int][2]int
}

// NewSession builds a session in persistent mode unless WithDraftMode(true)
// is given. snapshots may be nil to disable the local cache.
func NewSession(gateway repositories.EditionGateway, snapshots storage.SnapshotStore, opts ...SessionOption) *Session {
	s := &Session{
		gateway:   gateway,
		snapshots: snapshots,
		logger:    zap.NewNop(),
		players:   make(map[int][]models.Player),
		seeded:    make(map[int][2]int),
	}
	s.setStore(false)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) setStore(draft bool) {
	if draft {
		s.store = draftGoalStore{}
		return
	}
	s.store = &persistentGoalStore{gateway: s.gateway}
}

// SetDraftMode switches where new goals go. Local goals created while in
// draft mode stay local after switching back.
func (s *Session) SetDraftMode(draft bool) {
	if s.store.draft() == draft {
		return
	}
	s.setStore(draft)
	s.logger.Info("draft mode changed", zap.Bool("draft", draft))
}

func (s *Session) IsDraft() bool { return s.store.draft() }

// LoadEdition replaces the working set with the edition fetched from the
// gateway. Loading a different edition than the current one clears the
// snapshot first.
func (s *Session) LoadEdition(ctx context.Context, editionID int) error {
	full, err := s.gateway.FetchFullEdition(ctx, editionID)
	if err != nil {
		return repositoryError(fmt.Sprintf("fetch edition %d", editionID), err)
	}
	if full == nil {
		return repositoryError(fmt.Sprintf("fetch edition %d", editionID), repositories.ErrEditionNotFound)
	}

	edition := full.Edition
	teams := make([]models.Team, 0, len(full.Teams))
	players := make(map[int][]models.Player, len(full.Teams))
	for _, t := range full.Teams {
		teams = append(teams, t.Team)
		players[t.ID] = append([]models.Player(nil), t.Players...)
	}
	matches := make([]models.Match, 0, len(full.Matches))
	var goals []models.Goal
	for _, m := range full.Matches {
		matches = append(matches, m.Match.Clone())
		for _, g := range m.Goals {
			if g.MatchID == 0 {
				g.MatchID = m.ID
			}
			goals = append(goals, g)
		}
	}
	if err := validateWorkingSet(teams, matches, goals); err != nil {
		return err
	}

	if s.edition != nil && s.edition.ID != edition.ID {
		s.Reset(ctx)
	}
	s.edition = &edition
	s.teams = teams
	s.players = players
	s.matches = matches
	s.goals = goals
	s.captureSeeded()

	s.Recompute()
	s.saveSnapshot(ctx)
	s.logger.Info("edition loaded",
		zap.Int("edition_id", edition.ID),
		zap.Int("teams", len(teams)),
		zap.Int("matches", len(matches)),
		zap.Int("goals", len(goals)),
	)
	return nil
}

// StartDraftEdition seeds a purely local edition and switches to draft mode.
func (s *Session) StartDraftEdition(ctx context.Context, edition models.Edition, teams []models.TeamWithPlayers) error {
	flat := make([]models.Team, 0, len(teams))
	players := make(map[int][]models.Player, len(teams))
	for _, t := range teams {
		flat = append(flat, t.Team)
		players[t.ID] = append([]models.Player(nil), t.Players...)
	}
	if err := validateWorkingSet(flat, nil, nil); err != nil {
		return err
	}

	s.Reset(ctx)
	s.SetDraftMode(true)
	s.edition = &edition
	s.teams = flat
	s.players = players

	s.Recompute()
	s.saveSnapshot(ctx)
	return nil
}

// AddGoal records a goal scored by playerID for teamID in matchID. For own
// goals teamID is still the scorer's team.
func (s *Session) AddGoal(ctx context.Context, matchID, playerID, teamID int, goalType models.GoalType) (*models.Goal, error) {
	m, ok := s.findMatch(matchID)
	if !ok {
		return nil, invalidf("unknown match %d", matchID)
	}
	if !goalType.Valid() {
		return nil, invalidf("unknown goal type %q", goalType)
	}
	if !m.Involves(teamID) {
		return nil, invalidf("team %d does not play match %d", teamID, matchID)
	}
	if roster := s.players[teamID]; len(roster) > 0 && !hasPlayer(roster, playerID) {
		return nil, invalidf("player %d is not on team %d", playerID, teamID)
	}
	if m.Local && !s.store.draft() {
		return nil, invalidf("match %d exists only locally", matchID)
	}

	goal, err := s.store.createGoal(ctx, models.Goal{
		MatchID:  matchID,
		TeamID:   teamID,
		PlayerID: playerID,
		GoalType: goalType,
	}, s.goals)
	if err != nil {
		return nil, err
	}
	s.goals = append(s.goals, goal)

	s.Recompute()
	s.saveSnapshot(ctx)
	s.logger.Debug("goal added",
		zap.Int("goal_id", goal.ID),
		zap.Int("match_id", matchID),
		zap.String("goal_type", string(goalType)),
		zap.Bool("local", goal.Local),
	)
	return &goal, nil
}

// RemoveGoal deletes a goal. Local goals never reach the gateway.
func (s *Session) RemoveGoal(ctx context.Context, goalID int) error {
	idx := -1
	for i, g := range s.goals {
		if g.ID == goalID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return notFoundf("goal %d", goalID)
	}
	goal := s.goals[idx]

	if !goal.Local {
		if err := s.store.deleteGoal(ctx, goal); err != nil {
			return err
		}
	}
	s.goals = append(s.goals[:idx:idx], s.goals[idx+1:]...)

	s.Recompute()
	s.saveSnapshot(ctx)
	s.logger.Debug("goal removed", zap.Int("goal_id", goalID), zap.Int("match_id", goal.MatchID))
	return nil
}

// MarkMatchAsPlayed records a goalless 0-0 (played) or clears the result.
// Matches with goals get their score from the goals and cannot be toggled.
func (s *Session) MarkMatchAsPlayed(ctx context.Context, matchID int, played bool) error {
	idx := s.matchIndex(matchID)
	if idx < 0 {
		return invalidf("unknown match %d", matchID)
	}
	for _, g := range s.goals {
		if g.MatchID == matchID {
			return invalidf("match %d has goals; its score follows them", matchID)
		}
	}

	m := &s.matches[idx]
	if played {
		m.HomeTeamScore = models.IntPtr(0)
		m.AwayTeamScore = models.IntPtr(0)
		s.seeded[matchID] = [2]int{0, 0}
	} else {
		m.HomeTeamScore = nil
		m.AwayTeamScore = nil
		delete(s.seeded, matchID)
	}
	m.IsPlayed = played

	s.Recompute()
	s.saveSnapshot(ctx)
	return nil
}

// CreateGroupAndKnockoutMatches materializes the fixed schedule for the
// edition. Group slots without a team for one of their colors are skipped
// and reported as warnings. In persistent mode the first gateway failure
// stops creation; matches created before it are kept.
func (s *Session) CreateGroupAndKnockoutMatches(ctx context.Context, edition models.Edition) error {
	if s.edition != nil && s.edition.ID != edition.ID {
		return invalidf("session holds edition %d, not %d", s.edition.ID, edition.ID)
	}
	if len(s.matches) > 0 {
		return invalidf("edition %d already has %d matches", edition.ID, len(s.matches))
	}
	if s.edition == nil {
		e := edition
		s.edition = &e
	}

	planned, problems := brackets.BuildScheduleMatches(edition.ID, s.teams, brackets.CalculateStandings(s.teams, nil))

	var createErr error
	for _, m := range planned {
		created, err := s.store.createMatch(ctx, m, s.matches)
		if err != nil {
			createErr = err
			break
		}
		s.matches = append(s.matches, created)
	}

	s.Recompute()
	for _, p := range problems {
		if errors.Is(p, brackets.ErrNotEnoughTeams) {
			continue
		}
		s.warn(&StateError{Msg: "schedule slot skipped", Err: p})
	}
	s.saveSnapshot(ctx)

	if createErr != nil {
		s.logger.Error("schedule creation aborted",
			zap.Int("edition_id", edition.ID),
			zap.Int("created", len(s.matches)),
			zap.Error(createErr),
		)
		return createErr
	}
	s.logger.Info("schedule created", zap.Int("edition_id", edition.ID), zap.Int("matches", len(s.matches)))
	return nil
}

// SaveEdition pushes the score of every persisted match to the gateway.
// Unplayed matches keep a nil score so a later load does not read them as
// 0-0 results. Local matches are skipped.
func (s *Session) SaveEdition(ctx context.Context) error {
	var saved, skipped int
	for _, m := range s.matches {
		if m.Local {
			skipped++
			continue
		}
		if _, err := s.gateway.UpdateMatch(ctx, m.ID, m.Clone()); err != nil {
			return repositoryError(fmt.Sprintf("update match %d", m.ID), err)
		}
		saved++
	}
	s.logger.Info("edition saved", zap.Int("matches", saved), zap.Int("skipped_local", skipped))
	return nil
}

// Recompute derives scores from goals, rebuilds the standings and reassigns
// the knockout matches. It is idempotent.
func (s *Session) Recompute() {
	s.warnings = nil
	s.restoreSeeded()
	s.matches = brackets.DeriveScores(s.matches, s.goals)
	s.standings = brackets.CalculateStandings(s.teams, s.matches)

	resolved, err := brackets.ResolveKnockout(s.standings, s.matches)
	s.matches = resolved
	if err != nil {
		s.warn(&StateError{Msg: "knockout left unassigned", Err: err})
	}

	if s.notifier != nil && s.edition != nil {
		s.notifier.EditionUpdated(s.edition.ID, s.Matches(), s.Standings())
	}
}

// Reset clears the working set and the snapshot. The draft mode is kept.
func (s *Session) Reset(ctx context.Context) {
	s.edition = nil
	s.teams = nil
	s.players = make(map[int][]models.Player)
	s.matches = nil
	s.goals = nil
	s.standings = nil
	s.warnings = nil
	s.seeded = make(map[int][2]int)

	if s.snapshots == nil {
		return
	}
	if err := storage.Clear(ctx, s.snapshots); err != nil {
		s.logger.Warn("snapshot clear failed", zap.Error(err))
	}
}

// SnapshotSave writes the working set to the snapshot store.
func (s *Session) SnapshotSave(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}
	snap := storage.Snapshot{
		Teams:   s.Teams(),
		Matches: s.Matches(),
		Goals:   s.Goals(),
	}
	if s.edition != nil {
		e := *s.edition
		snap.CurrentEdition = &e
	}
	return storage.Save(ctx, s.snapshots, snap)
}

// SnapshotLoad restores the working set from the snapshot store. It reports
// false when there is nothing to restore. Players are not part of the
// snapshot and come back empty.
func (s *Session) SnapshotLoad(ctx context.Context) (bool, error) {
	if s.snapshots == nil {
		return false, nil
	}
	snap, err := storage.Load(ctx, s.snapshots)
	if errors.Is(err, storage.ErrSnapshotNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	s.edition = snap.CurrentEdition
	s.teams = snap.Teams
	s.players = make(map[int][]models.Player)
	s.matches = snap.Matches
	s.goals = snap.Goals
	s.captureSeeded()
	s.Recompute()

	editionID := 0
	if s.edition != nil {
		editionID = s.edition.ID
	}
	s.logger.Info("snapshot restored",
		zap.Int("edition_id", editionID),
		zap.Int("matches", len(s.matches)),
		zap.Int("goals", len(s.goals)),
	)
	return true, nil
}

// captureSeeded records the scores of goal-less matches as they are now.
func (s *Session) captureSeeded() {
	s.seeded = make(map[int][2]int)
	withGoals := s.matchesWithGoals()
	for _, m := range s.matches {
		if withGoals[m.ID] || m.HomeTeamScore == nil || m.AwayTeamScore == nil {
			continue
		}
		s.seeded[m.ID] = [2]int{*m.HomeTeamScore, *m.AwayTeamScore}
	}
}

// restoreSeeded puts goal-less matches back on their seeded score, or clears
// them, so removing the last goal of a match undoes what that goal did.
func (s *Session) restoreSeeded() {
	withGoals := s.matchesWithGoals()
	for i := range s.matches {
		m := &s.matches[i]
		if withGoals[m.ID] {
			continue
		}
		if score, ok := s.seeded[m.ID]; ok {
			m.HomeTeamScore = models.IntPtr(score[0])
			m.AwayTeamScore = models.IntPtr(score[1])
			continue
		}
		m.HomeTeamScore = nil
		m.AwayTeamScore = nil
	}
}

func (s *Session) matchesWithGoals() map[int]bool {
	out := make(map[int]bool, len(s.goals))
	for _, g := range s.goals {
		out[g.MatchID] = true
	}
	return out
}

func (s *Session) saveSnapshot(ctx context.Context) {
	if err := s.SnapshotSave(ctx); err != nil {
		s.logger.Warn("snapshot save failed", zap.Error(err))
	}
}

func (s *Session) warn(err error) {
	s.warnings = append(s.warnings, err)
	s.logger.Warn("edition state", zap.Error(err))
}

// Edition returns a copy of the current edition, or nil.
func (s *Session) Edition() *models.Edition {
	if s.edition == nil {
		return nil
	}
	e := *s.edition
	return &e
}

func (s *Session) Teams() []models.Team {
	return append([]models.Team(nil), s.teams...)
}

func (s *Session) Matches() []models.Match {
	out := make([]models.Match, len(s.matches))
	for i, m := range s.matches {
		out[i] = m.Clone()
	}
	return out
}

func (s *Session) Goals() []models.Goal {
	return append([]models.Goal(nil), s.goals...)
}

// MatchGoals returns the goals of one match in insertion order.
func (s *Session) MatchGoals(matchID int) []models.Goal {
	var out []models.Goal
	for _, g := range s.goals {
		if g.MatchID == matchID {
			out = append(out, g)
		}
	}
	return out
}

func (s *Session) Standings() []models.StandingsRow {
	return append([]models.StandingsRow(nil), s.standings...)
}

// Warnings returns the state problems found by the last operation.
func (s *Session) Warnings() []error {
	return append([]error(nil), s.warnings...)
}

func (s *Session) TeamColor(teamID int) (models.TeamColor, bool) {
	for _, t := range s.teams {
		if t.ID == teamID {
			return t.Color, true
		}
	}
	return "", false
}

func (s *Session) TeamPlayers(teamID int) []models.Player {
	return append([]models.Player(nil), s.players[teamID]...)
}

func (s *Session) findMatch(matchID int) (models.Match, bool) {
	idx := s.matchIndex(matchID)
	if idx < 0 {
		return models.Match{}, false
	}
	return s.matches[idx], true
}

func (s *Session) matchIndex(matchID int) int {
	for i, m := range s.matches {
		if m.ID == matchID {
			return i
		}
	}
	return -1
}

func hasPlayer(roster []models.Player, playerID int) bool {
	for _, p := range roster {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

// validateWorkingSet checks the cross references of a working set before it
// replaces the current one.
func validateWorkingSet(teams []models.Team, matches []models.Match, goals []models.Goal) error {
	teamIDs := make(map[int]bool, len(teams))
	colors := make(map[models.TeamColor]int, len(teams))
	for _, t := range teams {
		if !t.Color.Valid() {
			return invalidf("team %d has unknown color %q", t.ID, t.Color)
		}
		if other, dup := colors[t.Color]; dup {
			return invalidf("teams %d and %d are both %s", other, t.ID, t.Color)
		}
		colors[t.Color] = t.ID
		teamIDs[t.ID] = true
	}

	matchByID := make(map[int]models.Match, len(matches))
	for _, m := range matches {
		for _, id := range []*int{m.HomeTeamID, m.AwayTeamID} {
			if id != nil && !teamIDs[*id] {
				return invalidf("match %d references unknown team %d", m.ID, *id)
			}
		}
		matchByID[m.ID] = m
	}

	for _, g := range goals {
		m, ok := matchByID[g.MatchID]
		if !ok {
			return invalidf("goal %d references unknown match %d", g.ID, g.MatchID)
		}
		if !m.MatchType.IsKnockout() && !m.Involves(g.TeamID) {
			return invalidf("goal %d: team %d does not play match %d", g.ID, g.TeamID, g.MatchID)
		}
	}
	return nil
}
