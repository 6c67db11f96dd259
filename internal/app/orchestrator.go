package service

import (
	"context"
	"time"

	"github.com/okian/huddle/internal/adapters/provider"
	"github.com/okian/huddle/internal/domain/model"
	"github.com/okian/huddle/pkg/logger"
	"github.com/okian/huddle/pkg/metrics"
)

// Provider request outcomes, as recorded in metrics.
const (
	outcomeIneligible = "ineligible"
	outcomeCheckError = "check_error"
	outcomeError      = "error"
	outcomeEmpty      = "empty"
	outcomeOK         = "ok"
)

// LoadPlays asks providers in order and returns the first non-empty result,
// sorted by quarter, clock and sequence, along with the provider's name.
// Providers after the first success are not consulted. An eligibility
// check error counts as ineligible and a fetch error moves on to the next
// provider. When nothing yields plays the error is ErrNoPlayData.
func LoadPlays(ctx context.Context, providers []provider.Provider, game model.GameInfo) ([]model.StandardPlay, string, error) {
	log := logger.Get().Named("orchestrator")

	for _, p := range providers {
		name := p.Name()
		fields := []logger.Field{logger.String("provider", name), logger.String("game_id", game.GameID)}

		ok, err := p.CanHandleGame(ctx, game)
		if err != nil {
			metrics.RecordProviderRequest(name, outcomeCheckError)
			log.Warn(ctx, "eligibility check failed", append(fields, logger.Error(err))...)
			continue
		}
		if !ok {
			metrics.RecordProviderRequest(name, outcomeIneligible)
			log.Debug(ctx, "provider cannot handle game", fields...)
			continue
		}

		start := time.Now()
		plays, err := p.FetchPlays(ctx, game)
		metrics.RecordProviderLatency(name, float64(time.Since(start).Milliseconds()))
		if err != nil {
			metrics.RecordProviderRequest(name, outcomeError)
			log.Warn(ctx, "fetch failed", append(fields, logger.Error(err))...)
			continue
		}
		if len(plays) == 0 {
			metrics.RecordProviderRequest(name, outcomeEmpty)
			log.Debug(ctx, "provider returned no plays", fields...)
			continue
		}

		metrics.RecordProviderRequest(name, outcomeOK)
		metrics.RecordPlaysNormalized(len(plays))
		metrics.RecordLoad(outcomeOK)
		log.Info(ctx, "plays loaded", append(fields, logger.Int("count", len(plays)))...)
		return model.SortPlays(plays), name, nil
	}

	metrics.RecordLoad("no_data")
	log.Warn(ctx, "no provider returned plays",
		logger.String("game_id", game.GameID),
		logger.Any("providers", provider.Names(providers)),
	)
	return nil, "", ErrNoPlayData
}
