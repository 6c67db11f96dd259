package inflight_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/okian/huddle/internal/domain/inflight"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGuard(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new guard", t, func() {
		g := inflight.NewGuard()
		So(g.Size(), ShouldEqual, 0)

		Convey("When a key is acquired", func() {
			So(g.TryAcquire(ctx, "401547353"), ShouldBeTrue)

			Convey("Then a second acquire for the same key is refused", func() {
				So(g.TryAcquire(ctx, "401547353"), ShouldBeFalse)
				So(g.Held(ctx, "401547353"), ShouldBeTrue)
				So(g.Size(), ShouldEqual, 1)
			})

			Convey("Then other keys are independent", func() {
				So(g.TryAcquire(ctx, "18821"), ShouldBeTrue)
				So(g.Size(), ShouldEqual, 2)
			})

			Convey("And it is released", func() {
				g.Release(ctx, "401547353")

				Convey("Then it can be acquired again", func() {
					So(g.Held(ctx, "401547353"), ShouldBeFalse)
					So(g.TryAcquire(ctx, "401547353"), ShouldBeTrue)
				})
			})
		})

		Convey("When releasing a key that is not held", func() {
			g.Release(ctx, "missing")
			So(g.Size(), ShouldEqual, 0)
		})
	})

	Convey("Given a guard bounded to three keys", t, func() {
		g := inflight.NewGuard(inflight.WithMaxKeys(3))
		for _, k := range []string{"a", "b", "c"} {
			So(g.TryAcquire(ctx, k), ShouldBeTrue)
		}

		Convey("When a fourth key arrives", func() {
			So(g.TryAcquire(ctx, "d"), ShouldBeTrue)

			Convey("Then the oldest key is forgotten", func() {
				So(g.Size(), ShouldEqual, 3)
				So(g.Held(ctx, "a"), ShouldBeFalse)
				So(g.Held(ctx, "b"), ShouldBeTrue)
				So(g.Held(ctx, "d"), ShouldBeTrue)
			})
		})

		Convey("When a middle key is released and two more arrive", func() {
			g.Release(ctx, "b")
			So(g.TryAcquire(ctx, "d"), ShouldBeTrue)
			So(g.TryAcquire(ctx, "e"), ShouldBeTrue)

			Convey("Then the list stays consistent", func() {
				So(g.Size(), ShouldEqual, 3)
				So(g.Held(ctx, "a"), ShouldBeFalse)
				So(g.Held(ctx, "c"), ShouldBeTrue)
				So(g.Held(ctx, "e"), ShouldBeTrue)
			})
		})
	})

	Convey("Given an unbounded guard", t, func() {
		g := inflight.NewGuard(inflight.WithMaxKeys(0))
		for i := 0; i < 5000; i++ {
			g.TryAcquire(ctx, fmt.Sprintf("game-%d", i))
		}
		So(g.Size(), ShouldEqual, 5000)
	})
}

func TestGuardConcurrency(t *testing.T) {
	Convey("Given many goroutines racing for one key", t, func() {
		g := inflight.NewGuard()
		var winners atomic.Int32
		var wg sync.WaitGroup

		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if g.TryAcquire(context.Background(), "same-game") {
					winners.Add(1)
				}
			}()
		}
		wg.Wait()

		Convey("Then exactly one wins", func() {
			So(winners.Load(), ShouldEqual, 1)
			So(g.Size(), ShouldEqual, 1)
		})
	})
}
