package live_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/huddle/internal/adapters/live"
	"github.com/okian/huddle/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func dial(t *testing.T, srv *httptest.Server, gameID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?game=" + gameID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func read(conn *websocket.Conn) (live.Message, error) {
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg live.Message
	err := conn.ReadJSON(&msg)
	return msg, err
}

func TestHub(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatal(err)
	}

	Convey("Given a running hub behind a test server", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		hub := live.NewHub()
		go hub.Run(ctx)

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gameID := r.URL.Query().Get("game")
			initial := &live.Message{Type: live.TypePlays, GameID: gameID, Payload: map[string]int{"count": 0}, Timestamp: time.Now()}
			_ = hub.Serve(ctx, w, r, gameID, initial)
		}))
		defer srv.Close()

		a := dial(t, srv, "18821")
		defer a.Close()
		b := dial(t, srv, "18822")
		defer b.Close()

		So(waitFor(func() bool { return hub.Total() == 2 }), ShouldBeTrue)
		So(hub.Subscribers("18821"), ShouldEqual, 1)

		Convey("Then each subscriber first receives the initial frame", func() {
			msg, err := read(a)
			So(err, ShouldBeNil)
			So(msg.Type, ShouldEqual, live.TypePlays)
			So(msg.GameID, ShouldEqual, "18821")
		})

		Convey("When a game is broadcast", func() {
			_, _ = read(a)
			_, _ = read(b)
			So(hub.Broadcast("18821", live.TypePlays, map[string]int{"count": 3}), ShouldBeTrue)

			Convey("Then only that game's subscribers receive it", func() {
				msg, err := read(a)
				So(err, ShouldBeNil)
				So(msg.GameID, ShouldEqual, "18821")
				So(msg.Payload, ShouldResemble, map[string]any{"count": 3.0})

				_ = b.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
				var other live.Message
				So(b.ReadJSON(&other), ShouldNotBeNil)
			})
		})

		Convey("When a subscriber sends a heartbeat and an unknown frame", func() {
			_, _ = read(a)
			So(a.WriteJSON(map[string]string{"type": "heartbeat"}), ShouldBeNil)
			So(a.WriteJSON(map[string]string{"type": "subscribe"}), ShouldBeNil)

			Convey("Then it gets a heartbeat and an error back", func() {
				hb, err := read(a)
				So(err, ShouldBeNil)
				So(hb.Type, ShouldEqual, live.TypeHeartbeat)

				bad, err := read(a)
				So(err, ShouldBeNil)
				So(bad.Type, ShouldEqual, live.TypeError)
			})
		})

		Convey("When a subscriber disconnects", func() {
			_ = b.Close()

			Convey("Then the hub forgets it", func() {
				So(waitFor(func() bool { return hub.Subscribers("18822") == 0 }), ShouldBeTrue)
				So(hub.Total(), ShouldEqual, 1)
			})
		})
	})
}
