package service

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/okian/huddle/internal/adapters/cache"
	"github.com/okian/huddle/internal/adapters/provider"
	"github.com/okian/huddle/internal/adapters/provider/httpjson"
	"github.com/okian/huddle/internal/adapters/provider/pyespn"
	"github.com/okian/huddle/internal/adapters/provider/sleeper"
	"github.com/okian/huddle/internal/adapters/provider/sportsdataio"
	"github.com/okian/huddle/internal/config"
	"github.com/okian/huddle/internal/domain/pbp"
)

// FieldSource returns the raw ESPN game used by the field view.
type FieldSource interface {
	Game(ctx context.Context, gameID string) (*pbp.Game, error)
	Invalidate(ctx context.Context, gameID string)
}

// Providers is the wired provider pipeline.
type Providers struct {
	// Pipeline is the priority ordered list LoadPlays walks.
	Pipeline []provider.Provider

	// Field serves the field view; it is the ESPN proxy adapter whether or
	// not that adapter is part of the pipeline.
	Field FieldSource
}

// BuildProviders wires the adapters named in cfg. When rdb is non-nil the
// ESPN payload cache lives in Redis, otherwise in memory.
func BuildProviders(cfg *config.Config, rdb *redis.Client) (Providers, error) {
	var espnCache cache.Cache
	if rdb != nil {
		espnCache = cache.NewRedis(rdb, pyespn.Name, cache.WithTTL(cfg.CacheTTL()))
	} else {
		espnCache = cache.NewMemory(pyespn.Name, cache.WithSize(cfg.CacheSize), cache.WithTTL(cfg.CacheTTL()))
	}

	espn := pyespn.New(
		pyespn.WithProxyURL(cfg.ESPNProxyURL),
		pyespn.WithCache(espnCache),
		pyespn.WithClient(httpjson.New(pyespn.Name, httpjson.WithTimeout(cfg.HTTPTimeout()))),
	)

	out := Providers{Field: espn}
	for _, name := range cfg.ProviderList() {
		switch name {
		case config.ProviderSportsDataIO:
			out.Pipeline = append(out.Pipeline, sportsdataio.New(
				sportsdataio.WithBaseURL(cfg.SportsDataIOBaseURL),
				sportsdataio.WithAPIKey(cfg.SportsDataIOAPIKey),
				sportsdataio.WithClient(httpjson.New(sportsdataio.Name,
					httpjson.WithTimeout(cfg.HTTPTimeout()),
					httpjson.WithRateLimit(cfg.SportsDataIORPS, 1),
					httpjson.WithMaxRetries(cfg.SportsDataIOMaxRetries),
				)),
			))
		case config.ProviderPyESPN:
			out.Pipeline = append(out.Pipeline, espn)
		case config.ProviderSleeper:
			out.Pipeline = append(out.Pipeline, sleeper.New(
				sleeper.WithRESTURL(cfg.SleeperRESTURL),
				sleeper.WithGraphQLURL(cfg.SleeperGraphQLURL),
				sleeper.WithToken(cfg.SleeperToken),
				sleeper.WithFreshWindow(cfg.SleeperFreshWindow()),
				sleeper.WithClient(httpjson.New(sleeper.Name, httpjson.WithTimeout(cfg.HTTPTimeout()))),
			))
		default:
			return Providers{}, fmt.Errorf("%w: %q", provider.ErrUnknownProvider, name)
		}
	}
	return out, nil
}
