package service

import (
	"time"

	"github.com/okian/huddle/internal/adapters/live"
	"github.com/okian/huddle/internal/adapters/provider"
	"github.com/okian/huddle/internal/adapters/publisher"
	"github.com/okian/huddle/internal/adapters/repository"
	"github.com/okian/huddle/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithProviders sets the priority ordered provider pipeline.
func WithProviders(providers ...provider.Provider) Option {
	return func(s *Service) {
		s.providers = providers
	}
}

// WithFieldSource sets where the field view reads raw games from.
func WithFieldSource(f FieldSource) Option {
	return func(s *Service) {
		s.field = f
	}
}

// WithStore replaces the in-memory snapshot store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithPublisher announces changed snapshots downstream.
func WithPublisher(p publisher.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithHub sets the live subscriber hub.
func WithHub(h *live.Hub) Option {
	return func(s *Service) {
		if h != nil {
			s.hub = h
		}
	}
}

// WithPollInterval sets how often tracked games are refreshed.
func WithPollInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithWorkerCount sets the number of refresh workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending refreshes.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithInflightSize bounds the number of games with a refresh in flight.
func WithInflightSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.inflightSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
