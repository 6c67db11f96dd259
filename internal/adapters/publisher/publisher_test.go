package publisher_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/okian/huddle/internal/adapters/publisher"
	"github.com/okian/huddle/internal/domain/model"
	"github.com/okian/huddle/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStreamPublisher(t *testing.T) {
	Convey("Given a publisher on a redis server", t, func() {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer client.Close()

		ctx := context.Background()
		p := publisher.NewStreamPublisher(client, publisher.WithPrefix("test.plays"))
		snap := types.Snapshot{
			Game:    model.GameInfo{GameID: "18821"},
			Source:  "sportsdataio",
			Version: 4,
			Plays:   []model.StandardPlay{{ID: "901", Sequence: 1}},
		}

		Convey("When a snapshot is published", func() {
			So(p.Publish(ctx, snap), ShouldBeNil)

			Convey("Then it lands on the game's stream with its metadata", func() {
				So(p.StreamKey("18821"), ShouldEqual, "test.plays.18821")

				entries, err := client.XRange(ctx, "test.plays.18821", "-", "+").Result()
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 1)

				values := entries[0].Values
				So(values["game_id"], ShouldEqual, "18821")
				So(values["source"], ShouldEqual, "sportsdataio")
				So(values["version"], ShouldEqual, "4")
				So(values["count"], ShouldEqual, "1")

				var decoded types.Snapshot
				So(jsoniter.UnmarshalFromString(values["data"].(string), &decoded), ShouldBeNil)
				So(decoded.Plays[0].ID, ShouldEqual, "901")
			})
		})

		Convey("When redis is gone", func() {
			mr.Close()

			Convey("Then publishing fails", func() {
				So(p.Publish(ctx, snap), ShouldNotBeNil)
			})
		})
	})

	Convey("The no-op publisher accepts everything", t, func() {
		So(publisher.Nop{}.Publish(context.Background(), types.Snapshot{}), ShouldBeNil)
	})
}
