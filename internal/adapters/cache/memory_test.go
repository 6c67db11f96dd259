package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/huddle/internal/adapters/cache"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()

	Convey("Given a memory cache holding two entries", t, func() {
		c := cache.NewMemory("test", cache.WithSize(2), cache.WithTTL(time.Minute))

		Convey("When values are stored", func() {
			c.Set(ctx, "a", []byte("alpha"))
			c.Set(ctx, "b", []byte("beta"))

			Convey("Then they can be read back", func() {
				v, ok := c.Get(ctx, "a")
				So(ok, ShouldBeTrue)
				So(string(v), ShouldEqual, "alpha")
				So(c.Len(ctx), ShouldEqual, 2)
			})

			Convey("Then a third entry evicts the least recently used", func() {
				_, _ = c.Get(ctx, "a")
				c.Set(ctx, "c", []byte("gamma"))

				_, okA := c.Get(ctx, "a")
				_, okB := c.Get(ctx, "b")
				So(okA, ShouldBeTrue)
				So(okB, ShouldBeFalse)
				So(c.Len(ctx), ShouldEqual, 2)
			})

			Convey("Then a deleted entry is gone", func() {
				c.Delete(ctx, "a")
				_, ok := c.Get(ctx, "a")
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given a memory cache with a short TTL", t, func() {
		c := cache.NewMemory("ttl", cache.WithTTL(20*time.Millisecond))
		c.Set(ctx, "k", []byte("v"))

		Convey("When the TTL passes", func() {
			time.Sleep(60 * time.Millisecond)

			Convey("Then the entry has expired", func() {
				_, ok := c.Get(ctx, "k")
				So(ok, ShouldBeFalse)
			})
		})
	})
}
