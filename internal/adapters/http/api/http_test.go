package api_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	jsoniter "github.com/json-iterator/go"

	"github.com/okian/huddle/internal/adapters/http/api"
	"github.com/okian/huddle/internal/adapters/live"
	"github.com/okian/huddle/internal/adapters/repository"
	service "github.com/okian/huddle/internal/app"
	"github.com/okian/huddle/internal/domain/model"
	"github.com/okian/huddle/internal/domain/types"
	"github.com/okian/huddle/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type mockDeps struct {
	mu sync.Mutex

	plays    types.Snapshot
	playsErr error
	lastGame model.GameInfo

	field    types.FieldView
	fieldErr error

	tracked      map[string]model.GameInfo
	refreshErr   error
	subscribeErr error
}

func newMockDeps() *mockDeps {
	return &mockDeps{tracked: map[string]model.GameInfo{}}
}

func (m *mockDeps) Plays(_ context.Context, game model.GameInfo) (types.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastGame = game
	if m.playsErr != nil {
		return types.Snapshot{}, m.playsErr
	}
	snap := m.plays
	snap.Game = game
	return snap, nil
}

func (m *mockDeps) Field(_ context.Context, _ string) (types.FieldView, error) {
	return m.field, m.fieldErr
}

func (m *mockDeps) Track(_ context.Context, game model.GameInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracked[game.GameID] = game
	return nil
}

func (m *mockDeps) Untrack(_ context.Context, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tracked[gameID]; !ok {
		return service.ErrNotTracked
	}
	delete(m.tracked, gameID)
	return nil
}

func (m *mockDeps) Tracked() []model.GameInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.GameInfo, 0, len(m.tracked))
	for _, g := range m.tracked {
		out = append(out, g)
	}
	return out
}

func (m *mockDeps) Refresh(_ context.Context, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tracked[gameID]; !ok {
		return service.ErrNotTracked
	}
	return m.refreshErr
}

func (m *mockDeps) Snapshot(_ context.Context, gameID string) (types.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	game, ok := m.tracked[gameID]
	if !ok {
		return types.Snapshot{}, fmt.Errorf("%w: %s", repository.ErrNotFound, gameID)
	}
	return types.Snapshot{Game: game, Source: "sleeper", Version: 3}, nil
}

func (m *mockDeps) Subscribe(w http.ResponseWriter, _ *http.Request, _ model.GameInfo) error {
	if m.subscribeErr != nil {
		return m.subscribeErr
	}
	w.WriteHeader(http.StatusBadRequest)
	return fmt.Errorf("%w: not a websocket handshake", live.ErrUpgrade)
}

type mockStats struct{}

func (mockStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "workerCount": 2}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(rec *httptest.ResponseRecorder, v any) error {
	return jsoniter.Unmarshal(rec.Body.Bytes(), v)
}

func TestServerRoutes(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatal(err)
	}

	Convey("Given an API server", t, func() {
		deps := newMockDeps()
		down := 1
		deps.plays = types.Snapshot{
			Source: "sleeper",
			Plays: []model.StandardPlay{
				{ID: "p1", GameID: "g1", Sequence: 1, Quarter: 1, Down: &down, PlayType: model.PlayRush},
			},
		}
		h := api.NewServer(deps, mockStats{}).Router(context.Background())

		Convey("When plays are requested with query parameters", func() {
			rec := do(h, http.MethodGet, "/api/v1/games/g1/plays?season=2024&week=5&season_type=regular&date=2024-10-06&home=KC&away=NO", "")

			Convey("Then the game is parsed and the plays returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldStartWith, "application/json")

				var body struct {
					Source string               `json:"source"`
					Count  int                  `json:"count"`
					Plays  []model.StandardPlay `json:"plays"`
				}
				So(decode(rec, &body), ShouldBeNil)
				So(body.Source, ShouldEqual, "sleeper")
				So(body.Count, ShouldEqual, 1)
				So(body.Plays[0].ID, ShouldEqual, "p1")

				So(deps.lastGame.GameID, ShouldEqual, "g1")
				So(deps.lastGame.Season, ShouldEqual, "2024")
				So(*deps.lastGame.Week, ShouldEqual, 5)
				So(deps.lastGame.SeasonType, ShouldEqual, "regular")
				So(deps.lastGame.HomeTeam, ShouldEqual, "KC")
				So(deps.lastGame.Date.Day(), ShouldEqual, 6)
			})
		})

		Convey("When the week is not a number", func() {
			rec := do(h, http.MethodGet, "/api/v1/games/g1/plays?week=five", "")

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				var body errorBody
				So(decode(rec, &body), ShouldBeNil)
				So(body.Code, ShouldEqual, "bad_request")
			})
		})

		Convey("When no provider has data", func() {
			deps.playsErr = service.ErrNoPlayData
			rec := do(h, http.MethodGet, "/api/v1/games/g1/plays", "")

			Convey("Then the status is bad gateway", func() {
				So(rec.Code, ShouldEqual, http.StatusBadGateway)
				var body errorBody
				So(decode(rec, &body), ShouldBeNil)
				So(body.Code, ShouldEqual, "no_play_data")
			})
		})

		Convey("When the field source is missing", func() {
			deps.fieldErr = service.ErrFieldSource
			rec := do(h, http.MethodGet, "/api/v1/games/g1/field", "")

			Convey("Then the service is unavailable", func() {
				So(rec.Code, ShouldEqual, http.StatusServiceUnavailable)
			})
		})

		Convey("When a game is tracked", func() {
			rec := do(h, http.MethodPost, "/api/v1/games/g1/track", `{"homeTeam":"KC","awayTeam":"NO","gameId":"ignored"}`)
			So(rec.Code, ShouldEqual, http.StatusAccepted)

			Convey("Then it is listed with the path id", func() {
				list := do(h, http.MethodGet, "/api/v1/games", "")
				So(list.Code, ShouldEqual, http.StatusOK)

				var body struct {
					Games []model.GameInfo `json:"games"`
				}
				So(decode(list, &body), ShouldBeNil)
				So(len(body.Games), ShouldEqual, 1)
				So(body.Games[0].GameID, ShouldEqual, "g1")
				So(body.Games[0].HomeTeam, ShouldEqual, "KC")
			})

			Convey("Then a refresh is accepted", func() {
				rec := do(h, http.MethodPost, "/api/v1/games/g1/refresh", "")
				So(rec.Code, ShouldEqual, http.StatusAccepted)
			})

			Convey("Then an in-flight refresh conflicts", func() {
				deps.refreshErr = service.ErrInFlight
				rec := do(h, http.MethodPost, "/api/v1/games/g1/refresh", "")
				So(rec.Code, ShouldEqual, http.StatusConflict)
			})

			Convey("Then a full queue asks the caller to back off", func() {
				deps.refreshErr = service.ErrBackpressure
				rec := do(h, http.MethodPost, "/api/v1/games/g1/refresh", "")
				So(rec.Code, ShouldEqual, http.StatusTooManyRequests)
			})

			Convey("Then the snapshot is served", func() {
				rec := do(h, http.MethodGet, "/api/v1/games/g1/snapshot", "")
				So(rec.Code, ShouldEqual, http.StatusOK)
			})

			Convey("Then untracking removes it", func() {
				rec := do(h, http.MethodDelete, "/api/v1/games/g1/track", "")
				So(rec.Code, ShouldEqual, http.StatusNoContent)
				So(deps.Tracked(), ShouldBeEmpty)
			})
		})

		Convey("When a track body is malformed", func() {
			rec := do(h, http.MethodPost, "/api/v1/games/g1/track", `[1,2`)

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When an untracked game is refreshed or read", func() {
			refresh := do(h, http.MethodPost, "/api/v1/games/zz/refresh", "")
			snap := do(h, http.MethodGet, "/api/v1/games/zz/snapshot", "")

			Convey("Then both are not found", func() {
				So(refresh.Code, ShouldEqual, http.StatusNotFound)
				So(snap.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When stats are requested", func() {
			rec := do(h, http.MethodGet, "/stats", "")

			Convey("Then the provider output is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var body map[string]any
				So(decode(rec, &body), ShouldBeNil)
				So(body["started"], ShouldEqual, true)
			})
		})

		Convey("When the metrics endpoint is requested", func() {
			rec := do(h, http.MethodGet, "/healthz", "")

			Convey("Then it responds", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When a plain request hits the live route", func() {
			rec := do(h, http.MethodGet, "/api/v1/games/g1/live", "")

			Convey("Then the failed handshake response is left alone", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(rec.Body.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the live service is not running", func() {
			deps.subscribeErr = service.ErrNotStarted
			rec := do(h, http.MethodGet, "/api/v1/games/g1/live", "")

			Convey("Then the error is reported", func() {
				So(rec.Code, ShouldEqual, http.StatusServiceUnavailable)
			})
		})
	})
}

func TestServerCORS(t *testing.T) {
	Convey("Given a server restricted to one origin", t, func() {
		h := api.NewServer(newMockDeps(), mockStats{}, api.WithCORSOrigins([]string{"https://app.example"})).Router(context.Background())

		Convey("When a preflight request arrives", func() {
			req := httptest.NewRequest(http.MethodOptions, "/api/v1/games", nil)
			req.Header.Set("Origin", "https://app.example")
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			Convey("Then the origin is allowed", func() {
				So(rec.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "https://app.example")
			})
		})
	})
}
