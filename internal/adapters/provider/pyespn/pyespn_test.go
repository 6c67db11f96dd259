package pyespn_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/okian/huddle/internal/adapters/provider/pyespn"
	"github.com/okian/huddle/internal/domain/model"
	"github.com/okian/huddle/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const gamePayload = `{
  "game": {"id": "401671789", "status": "in", "homeTeam": {"abbreviation": "DET"}, "awayTeam": {"abbreviation": "CHI"}},
  "plays": [
    {"id": "20", "sequence": 20, "type": {"text": "Pass Reception"}, "text": "J.Goff pass short right to S.LaPorta for 24 yards",
     "quarter": 1, "clock": {"minutes": 10, "seconds": 15}, "homeScore": 0, "awayScore": 0, "scoringPlay": false,
     "statYardage": 24, "start": {"down": 2, "yardsToGo": 7, "yardsToEndzone": 70, "team": {"abbreviation": "DET"}},
     "team": {"abbreviation": "DET"},
     "participants": [
       {"id": "3046779", "name": "Jared Goff", "position": "QB", "team": "DET", "stats": {"passingAttempts": 1, "passingYards": 24, "avgAirYards": 9}},
       {"id": "4430027", "name": "Sam LaPorta", "position": "TE", "team": "DET", "stats": {"receptions": 1, "receivingYards": 24, "yardsAfterCatch": 15}}
     ]},
    {"id": "21", "sequence": 21, "type": {"text": "Rushing Touchdown"}, "text": "D.Montgomery up the middle for 3 yards, TOUCHDOWN",
     "quarter": 1, "clock": {"minutes": "9", "seconds": "30"}, "homeScore": 7, "awayScore": 0, "scoringPlay": true,
     "statYardage": 3, "start": {"down": 1, "yardsToEndzone": 3}, "team": {"abbreviation": "DET"}},
    {"id": "22", "sequence": 22, "type": {"text": "Timeout"}, "text": "Timeout #1 by CHI", "clock": {},
     "start": {"team": {"abbreviation": "CHI"}}}
  ]
}`

func newServer(status int, body string, hits *atomic.Int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/api/espn/game/401671789" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestAdapter(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	game := model.GameInfo{GameID: "401671789", HomeTeam: "DET", AwayTeam: "CHI"}

	Convey("Given a proxy serving a game", t, func() {
		var hits atomic.Int32
		srv := newServer(http.StatusOK, gamePayload, &hits)
		defer srv.Close()

		a := pyespn.New(pyespn.WithProxyURL(srv.URL))

		Convey("When eligibility is checked and plays are fetched", func() {
			ok, err := a.CanHandleGame(ctx, game)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			plays, err := a.FetchPlays(ctx, game)
			So(err, ShouldBeNil)

			Convey("Then the payload was fetched once", func() {
				So(hits.Load(), ShouldEqual, 1)
				So(len(plays), ShouldEqual, 3)
			})

			Convey("Then a pass play is converted", func() {
				p := plays[0]
				So(p.ID, ShouldEqual, "pyespn_20")
				So(p.DataSource, ShouldEqual, model.SourceESPN)
				So(p.PlayType, ShouldEqual, model.PlayPass)
				So(p.GameClockSeconds, ShouldEqual, 285)
				So(p.Possession, ShouldEqual, "DET")
				So(p.StartFieldPos, ShouldEqual, 30.0)
				So(p.EndFieldPos, ShouldEqual, 54.0)
				So(p.YardsToEndzone, ShouldEqual, 70.0)
				So(*p.Down, ShouldEqual, 2)
				So(*p.YardsToGo, ShouldEqual, 7)
				So(p.Direction.Category, ShouldEqual, model.DirectionMiddle)
				So(p.Direction.IsDeep, ShouldBeTrue)
				So(p.Pass.IsComplete, ShouldBeTrue)
				So(*p.Pass.AirYards, ShouldEqual, 9.0)
				So(*p.Pass.YardsAfter, ShouldEqual, 15.0)
				So(p.Pass.Depth, ShouldEqual, "deep")
				So(p.Players[model.RoleReceiver].Name, ShouldEqual, "Sam LaPorta")
				So(p.RawData, ShouldNotBeEmpty)
			})

			Convey("Then a rushing touchdown is flagged", func() {
				p := plays[1]
				So(p.PlayType, ShouldEqual, model.PlayRush)
				So(p.IsTouchdown, ShouldBeTrue)
				So(p.EndFieldPos, ShouldEqual, 100.0)
				So(p.HomeScore, ShouldEqual, 7)
				So(p.Direction.IsShort, ShouldBeTrue)
				So(p.Rush, ShouldNotBeNil)
				So(p.Validate(), ShouldBeNil)
			})

			Convey("Then a play without field position or clock sits at midfield at the quarter start", func() {
				p := plays[2]
				So(p.PlayType, ShouldEqual, model.PlayTimeout)
				So(p.Quarter, ShouldEqual, 1)
				So(p.StartFieldPos, ShouldEqual, 50.0)
				So(p.EndFieldPos, ShouldEqual, 50.0)
				So(p.GameClockSeconds, ShouldEqual, 0)
				So(p.Possession, ShouldEqual, "CHI")
				So(p.Down, ShouldBeNil)
			})

			Convey("And the game is invalidated", func() {
				a.Invalidate(ctx, game.GameID)
				_, _ = a.FetchPlays(ctx, game)

				Convey("Then the proxy is asked again", func() {
					So(hits.Load(), ShouldEqual, 2)
				})
			})
		})
	})

	Convey("Given a proxy without the game", t, func() {
		var hits atomic.Int32
		srv := newServer(http.StatusNotFound, `{"error":"not found"}`, &hits)
		defer srv.Close()

		a := pyespn.New(pyespn.WithProxyURL(srv.URL))

		Convey("Then the game is not eligible and yields no plays", func() {
			ok, err := a.CanHandleGame(ctx, game)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)

			plays, err := a.FetchPlays(ctx, game)
			So(err, ShouldBeNil)
			So(plays, ShouldBeEmpty)

			_, err = a.Game(ctx, game.GameID)
			So(errors.Is(err, pyespn.ErrNotFound), ShouldBeTrue)
		})
	})
}
