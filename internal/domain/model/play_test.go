package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/huddle/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func validPlay() model.StandardPlay {
	return model.StandardPlay{
		ID:            "p1",
		GameID:        "g1",
		Sequence:      1,
		Quarter:       1,
		PlayType:      model.PlayRush,
		StartFieldPos: 25,
		EndFieldPos:   30,
		DataSource:    model.SourceSleeper,
	}
}

func TestStandardPlay_Validate(t *testing.T) {
	Convey("Given a well formed play", t, func() {
		p := validPlay()

		Convey("Then it validates", func() {
			So(p.Validate(), ShouldBeNil)
		})

		Convey("When two scoring flags are set", func() {
			p.IsTouchdown = true
			p.IsSafety = true

			Convey("Then validation reports conflicting flags", func() {
				So(errors.Is(p.Validate(), model.ErrConflictingScoreFlags), ShouldBeTrue)
			})
		})

		Convey("When the end position leaves the field scale", func() {
			p.EndFieldPos = 101
			So(errors.Is(p.Validate(), model.ErrInvalidPlay), ShouldBeTrue)
		})

		Convey("When the quarter is zero", func() {
			p.Quarter = 0
			So(errors.Is(p.Validate(), model.ErrInvalidPlay), ShouldBeTrue)
		})

		Convey("When the play type is outside the closed set", func() {
			p.PlayType = "sack"
			So(errors.Is(p.Validate(), model.ErrInvalidPlay), ShouldBeTrue)
		})

		Convey("When the id is missing", func() {
			p.ID = ""
			So(errors.Is(p.Validate(), model.ErrInvalidPlay), ShouldBeTrue)
		})
	})
}

func TestSortPlays(t *testing.T) {
	Convey("Given plays out of order", t, func() {
		plays := []model.StandardPlay{
			{ID: "q2-early", Quarter: 2, GameClockSeconds: 10, Sequence: 40},
			{ID: "q1-late", Quarter: 1, GameClockSeconds: 800, Sequence: 30},
			{ID: "q1-tie-b", Quarter: 1, GameClockSeconds: 120, Sequence: 12},
			{ID: "q1-tie-a", Quarter: 1, GameClockSeconds: 120, Sequence: 11},
			{ID: "q1-first", Quarter: 1, GameClockSeconds: 5, Sequence: 99},
		}

		Convey("When they are sorted", func() {
			sorted := model.SortPlays(plays)

			Convey("Then quarter, clock and sequence decide the order", func() {
				ids := make([]string, len(sorted))
				for i, p := range sorted {
					ids[i] = p.ID
				}
				So(ids, ShouldResemble, []string{"q1-first", "q1-tie-a", "q1-tie-b", "q1-late", "q2-early"})
			})
		})
	})

	Convey("Given an empty list", t, func() {
		So(model.SortPlays(nil), ShouldBeEmpty)
	})
}

func TestGameInfo(t *testing.T) {
	Convey("Given game descriptors", t, func() {
		g := model.GameInfo{GameID: "18821", Status: "IN_PROGRESS", Date: time.Now()}

		So(g.Validate(), ShouldBeNil)
		So(g.IsLive(), ShouldBeTrue)

		g.Status = model.StatusComplete
		So(g.IsLive(), ShouldBeFalse)

		So(errors.Is(model.GameInfo{}.Validate(), model.ErrInvalidGame), ShouldBeTrue)
	})
}
