package config_test

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/okian/huddle/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1_024)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.CacheTTL(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.PollInterval(), convey.ShouldEqual, 15*time.Second)
			convey.So(cfg.SleeperFreshDays, convey.ShouldEqual, 2)
			convey.So(cfg.SleeperFreshWindow(), convey.ShouldEqual, 48*time.Hour)
			convey.So(cfg.ProviderList(), convey.ShouldResemble, []string{config.ProviderSportsDataIO})
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Lists(t *testing.T) {
	convey.Convey("Given comma separated list settings", t, func() {
		cfg := config.New()
		cfg.Providers = " Sleeper, ,pyespn ,SPORTSDATAIO"
		cfg.CORSOrigins = "http://localhost:5173, https://app.example.com"

		convey.Convey("Then lists are trimmed, lowercased and ordered", func() {
			convey.So(cfg.ProviderList(), convey.ShouldResemble, []string{"sleeper", "pyespn", "sportsdataio"})
			convey.So(cfg.CORSOriginList(), convey.ShouldResemble, []string{"http://localhost:5173", "https://app.example.com"})
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given an otherwise valid config", t, func() {
		cfg := config.New()

		convey.Convey("When the provider list names an unknown provider", func() {
			cfg.Providers = "sportsdataio,nflverse"
			err := cfg.Validate()

			convey.Convey("Then validation fails with ErrInvalidConfig", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "nflverse")
			})
		})

		convey.Convey("When the provider list is empty", func() {
			cfg.Providers = " , "
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the poll interval is not positive", func() {
			cfg.PollIntervalSeconds = 0
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
