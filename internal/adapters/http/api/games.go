package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okian/huddle/internal/adapters/live"
	"github.com/okian/huddle/internal/domain/model"
	"github.com/okian/huddle/internal/domain/types"
)

const maxBodyBytes = 1 << 16

// GamesHandler serves the per-game routes.
type GamesHandler struct {
	deps Dependencies
}

// NewGamesHandler creates a games handler.
func NewGamesHandler(deps Dependencies) *GamesHandler {
	return &GamesHandler{deps: deps}
}

type playsResponse struct {
	Game   model.GameInfo       `json:"game"`
	Source string               `json:"source"`
	Count  int                  `json:"count"`
	Plays  []model.StandardPlay `json:"plays"`
}

func newPlaysResponse(snap types.Snapshot) playsResponse {
	return playsResponse{Game: snap.Game, Source: snap.Source, Count: snap.Count(), Plays: snap.Plays}
}

type ackResponse struct {
	Status string `json:"status"`
	GameID string `json:"gameId"`
}

// HandleListTracked handles GET /api/v1/games.
func (h *GamesHandler) HandleListTracked(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"games": h.deps.Tracked()})
}

// HandleGetPlays handles GET /api/v1/games/{gameID}/plays.
func (h *GamesHandler) HandleGetPlays(w http.ResponseWriter, r *http.Request) {
	game, err := gameFromQuery(r)
	if err != nil {
		writeError(w, r, &Error{Op: "plays", Kind: ErrBadRequest, Err: err})
		return
	}
	snap, err := h.deps.Plays(r.Context(), game)
	if err != nil {
		writeError(w, r, &Error{Op: "plays", Err: err})
		return
	}
	writeJSON(w, http.StatusOK, newPlaysResponse(snap))
}

// HandleGetField handles GET /api/v1/games/{gameID}/field.
func (h *GamesHandler) HandleGetField(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.Field(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		writeError(w, r, &Error{Op: "field", Err: err})
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleTrack handles POST /api/v1/games/{gameID}/track. The body is an
// optional GameInfo; the path id always wins.
func (h *GamesHandler) HandleTrack(w http.ResponseWriter, r *http.Request) {
	game, err := gameFromBody(r)
	if err != nil {
		writeError(w, r, &Error{Op: "track", Kind: ErrBadRequest, Err: err})
		return
	}
	if err := h.deps.Track(r.Context(), game); err != nil {
		writeError(w, r, &Error{Op: "track", Err: err})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "tracking", GameID: game.GameID})
}

// HandleUntrack handles DELETE /api/v1/games/{gameID}/track.
func (h *GamesHandler) HandleUntrack(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	if err := h.deps.Untrack(r.Context(), gameID); err != nil {
		writeError(w, r, &Error{Op: "untrack", Err: err})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRefresh handles POST /api/v1/games/{gameID}/refresh.
func (h *GamesHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	if err := h.deps.Refresh(r.Context(), gameID); err != nil {
		writeError(w, r, &Error{Op: "refresh", Err: err})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "queued", GameID: gameID})
}

// HandleGetSnapshot handles GET /api/v1/games/{gameID}/snapshot.
func (h *GamesHandler) HandleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.deps.Snapshot(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		writeError(w, r, &Error{Op: "snapshot", Err: err})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleLive handles GET /api/v1/games/{gameID}/live. The game is tracked
// from the same query parameters the plays route accepts.
func (h *GamesHandler) HandleLive(w http.ResponseWriter, r *http.Request) {
	game, err := gameFromQuery(r)
	if err != nil {
		writeError(w, r, &Error{Op: "live", Kind: ErrBadRequest, Err: err})
		return
	}
	if err := h.deps.Subscribe(w, r, game); err != nil {
		// the handshake has already answered the request
		if errors.Is(err, live.ErrUpgrade) || errors.Is(err, live.ErrStopped) {
			return
		}
		writeError(w, r, &Error{Op: "live", Err: err})
	}
}

// gameFromQuery reads GameInfo from the path and query string:
// season, week, season_type, date, status, home, away.
func gameFromQuery(r *http.Request) (model.GameInfo, error) {
	q := r.URL.Query()
	game := model.GameInfo{
		GameID:     chi.URLParam(r, "gameID"),
		Season:     q.Get("season"),
		SeasonType: q.Get("season_type"),
		Status:     q.Get("status"),
		HomeTeam:   q.Get("home"),
		AwayTeam:   q.Get("away"),
	}
	if raw := q.Get("week"); raw != "" {
		week, err := strconv.Atoi(raw)
		if err != nil || week < 0 {
			return game, fmt.Errorf("invalid week %q", raw)
		}
		game.Week = &week
	}
	if raw := q.Get("date"); raw != "" {
		date, err := parseDate(raw)
		if err != nil {
			return game, err
		}
		game.Date = date
	}
	return game, game.Validate()
}

func gameFromBody(r *http.Request) (model.GameInfo, error) {
	var game model.GameInfo
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return game, err
	}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &game); err != nil {
			return game, errors.New("body must be a game object")
		}
	}
	game.GameID = chi.URLParam(r, "gameID")
	return game, game.Validate()
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q; use RFC3339 or YYYY-MM-DD", raw)
}
