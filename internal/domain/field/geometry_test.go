package field_test

import (
	"testing"

	"github.com/okian/huddle/internal/domain/field"
	"github.com/okian/huddle/internal/domain/pbp"
	. "github.com/smartystreets/goconvey/convey"
)

func f(v float64) *float64 { return &v }

func basePlay() pbp.Play {
	away := &pbp.Team{ID: "away", Name: "Away", Abbreviation: "AWY", Score: f(3)}
	return pbp.Play{
		ID:          "play-1",
		Sequence:    1,
		Text:        "Test play",
		Clock:       pbp.Clock{Minutes: "10", Seconds: "15", DisplayValue: "10:15"},
		StatYardage: f(5),
		Start:       &pbp.Situation{Down: f(1), Distance: f(10), YardsToGo: f(10), YardsToEndzone: f(75), Team: away},
		End:         &pbp.Situation{Down: f(2), Distance: f(5), YardsToGo: f(5), YardsToEndzone: f(70), Team: away},
		Team:        away,
		Coordinate:  &pbp.Coordinate{},
	}
}

func TestComputeGeometry(t *testing.T) {
	Convey("Given a play with start and end situations", t, func() {
		play := basePlay()

		Convey("Then yards to the end zone become field percentages", func() {
			g := field.ComputeGeometry(play)
			So(*g.Start, ShouldEqual, 25.0)
			So(*g.End, ShouldEqual, 30.0)
			So(*g.FirstDown, ShouldEqual, 35.0)
		})

		Convey("When the end situation is missing", func() {
			play.End = nil

			Convey("Then stat yardage moves the ball from the start", func() {
				g := field.ComputeGeometry(play)
				So(*g.Start, ShouldEqual, 25.0)
				So(*g.End, ShouldEqual, 30.0)
				So(*g.FirstDown, ShouldEqual, 35.0)
			})
		})

		Convey("When only a coordinate is available", func() {
			play.Start = nil
			play.End = nil
			play.StatYardage = nil
			play.Coordinate = &pbp.Coordinate{X: f(62)}

			Convey("Then start and end sit on the coordinate with no line to gain", func() {
				g := field.ComputeGeometry(play)
				So(*g.Start, ShouldEqual, 62.0)
				So(*g.End, ShouldEqual, 62.0)
				So(g.FirstDown, ShouldBeNil)
			})
		})

		Convey("When stat yardage pushes past the goal line", func() {
			play.Start.YardsToEndzone = f(5)
			play.End = nil
			play.StatYardage = f(15)

			Convey("Then every output is clamped to 100", func() {
				g := field.ComputeGeometry(play)
				So(*g.Start, ShouldEqual, 95.0)
				So(*g.End, ShouldEqual, 100.0)
				So(*g.FirstDown, ShouldEqual, 100.0)
			})
		})

		Convey("When yardsToGo is absent", func() {
			play.Start.YardsToGo = nil
			play.Start.Distance = f(7)

			Convey("Then distance sets the line to gain", func() {
				So(*field.ComputeGeometry(play).FirstDown, ShouldEqual, 32.0)
			})
		})

		Convey("When there is no location at all", func() {
			play.Start = nil
			play.End = nil
			play.Coordinate = nil

			Convey("Then nothing is reported", func() {
				g := field.ComputeGeometry(play)
				So(g.Start, ShouldBeNil)
				So(g.End, ShouldBeNil)
				So(g.FirstDown, ShouldBeNil)
			})
		})
	})
}

func TestResolvePossession(t *testing.T) {
	Convey("Given a play with its own team", t, func() {
		play := basePlay()
		play.Team = &pbp.Team{Abbreviation: "HME"}
		So(field.ResolvePossession(play), ShouldEqual, "HME")

		Convey("When the play team is missing", func() {
			play.Team = nil
			So(field.ResolvePossession(play), ShouldEqual, "AWY")
		})

		Convey("When no team is known", func() {
			play.Team = nil
			play.Start = nil
			So(field.ResolvePossession(play), ShouldEqual, "")
		})
	})
}

func TestClockLabel(t *testing.T) {
	cases := []struct {
		minutes, seconds any
		want             string
	}{
		{"4", "7", "4:07"},
		{nil, nil, "0:00"},
		{12.0, 30.0, "12:30"},
		{"3", "abc", "3:00"},
		{"10", "05.9", "10:05"},
	}
	for _, tc := range cases {
		play := pbp.Play{Clock: pbp.Clock{Minutes: tc.minutes, Seconds: tc.seconds}}
		if got := field.ClockLabel(play); got != tc.want {
			t.Errorf("ClockLabel(%v, %v) = %q, want %q", tc.minutes, tc.seconds, got, tc.want)
		}
	}
}
