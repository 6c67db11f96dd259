// Package api exposes the play pipeline over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	jsoniter "github.com/json-iterator/go"

	"github.com/okian/huddle/internal/domain/model"
	"github.com/okian/huddle/internal/domain/types"
	"github.com/okian/huddle/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultRequestTimeout = 30 * time.Second

// Dependencies required by HTTP handlers.
type Dependencies interface {
	// Plays runs the provider pipeline for game.
	Plays(ctx context.Context, game model.GameInfo) (types.Snapshot, error)

	// Field returns the ESPN field geometry view of a game.
	Field(ctx context.Context, gameID string) (types.FieldView, error)

	Track(ctx context.Context, game model.GameInfo) error
	Untrack(ctx context.Context, gameID string) error
	Tracked() []model.GameInfo

	// Refresh schedules a user refresh of a tracked game.
	Refresh(ctx context.Context, gameID string) error

	Snapshot(ctx context.Context, gameID string) (types.Snapshot, error)

	// Subscribe upgrades the request to a live feed of game.
	Subscribe(w http.ResponseWriter, r *http.Request, game model.GameInfo) error
}

// Option configures a Server.
type Option func(*Server)

// WithCORSOrigins sets the allowed CORS origins.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.corsOrigins = origins
		}
	}
}

// WithRequestTimeout bounds every non-streaming request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	gamesHandler  *GamesHandler

	corsOrigins    []string
	requestTimeout time.Duration
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		gamesHandler:   NewGamesHandler(deps),
		corsOrigins:    []string{"*"},
		requestTimeout: defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with every route attached.
func (s *Server) Router(_ context.Context) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	g := s.gamesHandler
	r.Route("/api/v1/games", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(s.requestTimeout))
			r.Get("/", MetricsMiddleware(g.HandleListTracked, "games"))
			r.Get("/{gameID}/plays", MetricsMiddleware(g.HandleGetPlays, "plays"))
			r.Get("/{gameID}/field", MetricsMiddleware(g.HandleGetField, "field"))
			r.Post("/{gameID}/track", MetricsMiddleware(g.HandleTrack, "track"))
			r.Delete("/{gameID}/track", MetricsMiddleware(g.HandleUntrack, "untrack"))
			r.Post("/{gameID}/refresh", MetricsMiddleware(g.HandleRefresh, "refresh"))
			r.Get("/{gameID}/snapshot", MetricsMiddleware(g.HandleGetSnapshot, "snapshot"))
		})
		r.Get("/{gameID}/live", MetricsMiddleware(g.HandleLive, "live"))
	})
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError classifies err and writes the matching error body. Server
// side failures are logged.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		logger.Get().Named("api").Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("request_id", middleware.GetReqID(r.Context())),
			logger.Error(err),
		)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}
