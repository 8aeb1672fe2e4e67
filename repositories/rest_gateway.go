package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/stefanciobanu13/galero/models"
	"golang.org/x/time/rate"
)

const defaultRESTTimeout = 10 * time.Second

type RESTGatewayConfig struct {
	BaseURL string // e.g. https://galero.example/api/v1
	Token   string
	// RateLimit caps requests per second towards the backend.
	RateLimit float64
	Client    *http.Client
}

// StatusError is a non-2xx answer from the REST backend.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

type restEditionGateway struct {
	baseURL string
	token   string
	client  *http.Client
	limiter *rate.Limiter
}

// NewRESTEditionGateway talks to the Galero HTTP API.
func NewRESTEditionGateway(cfg RESTGatewayConfig) EditionGateway {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: defaultRESTTimeout}
	}
	limit := rate.Inf
	burst := 1
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
		burst = int(cfg.RateLimit) + 1
	}
	return &restEditionGateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (g *restEditionGateway) FetchFullEdition(ctx context.Context, editionID int) (*models.FullEdition, error) {
	var full models.FullEdition
	if err := g.do(ctx, http.MethodGet, fmt.Sprintf("/editions/%d/full", editionID), nil, &full, ErrEditionNotFound); err != nil {
		return nil, err
	}
	return &full, nil
}

func (g *restEditionGateway) FetchTeamsByEdition(ctx context.Context, editionID int) ([]models.Team, error) {
	var teams []models.Team
	if err := g.do(ctx, http.MethodGet, fmt.Sprintf("/teams/edition/%d", editionID), nil, &teams, ErrEditionNotFound); err != nil {
		return nil, err
	}
	return teams, nil
}

func (g *restEditionGateway) CreateMatch(ctx context.Context, match models.Match) (*models.Match, error) {
	match.ID = 0
	match.Local = false
	var created models.Match
	if err := g.do(ctx, http.MethodPost, "/matches", match, &created, ErrReferenceInvalid); err != nil {
		return nil, err
	}
	return &created, nil
}

func (g *restEditionGateway) UpdateMatch(ctx context.Context, matchID int, match models.Match) (*models.Match, error) {
	match.ID = matchID
	var updated models.Match
	if err := g.do(ctx, http.MethodPut, fmt.Sprintf("/matches/%d", matchID), match, &updated, ErrMatchNotFound); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (g *restEditionGateway) CreateGoal(ctx context.Context, goal models.Goal) (*models.Goal, error) {
	goal.ID = 0
	goal.Local = false
	var created models.Goal
	if err := g.do(ctx, http.MethodPost, "/goals", goal, &created, ErrReferenceInvalid); err != nil {
		return nil, err
	}
	return &created, nil
}

func (g *restEditionGateway) DeleteGoal(ctx context.Context, goalID int) error {
	return g.do(ctx, http.MethodDelete, fmt.Sprintf("/goals/%d", goalID), nil, nil, ErrGoalNotFound)
}

// do sends one JSON request. A 404 answer becomes notFound.
func (g *restEditionGateway) do(ctx context.Context, method, path string, in, out interface{}, notFound error) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s %s: rate limiter: %w", method, path, err)
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s %s: encode request: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s %s: build request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return notFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
