// Package service ties the provider pipeline to the transports: on-demand
// loads, tracked-game polling, refresh workers, snapshots and live fan-out.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/okian/huddle/internal/adapters/live"
	"github.com/okian/huddle/internal/adapters/mq/queue"
	"github.com/okian/huddle/internal/adapters/mq/worker"
	"github.com/okian/huddle/internal/adapters/provider"
	"github.com/okian/huddle/internal/adapters/publisher"
	"github.com/okian/huddle/internal/adapters/repository"
	"github.com/okian/huddle/internal/domain/inflight"
	"github.com/okian/huddle/internal/domain/model"
	"github.com/okian/huddle/internal/domain/types"
	"github.com/okian/huddle/pkg/logger"
	"github.com/okian/huddle/pkg/metrics"
)

// Service implements the API dependencies.
type Service struct {
	mu sync.RWMutex

	providers []provider.Provider
	field     FieldSource
	store     repository.Store
	publisher publisher.Publisher
	hub       *live.Hub
	guard     inflight.Guard
	queue     *queue.InMemoryQueue
	pool      *worker.Pool

	tracked map[string]model.GameInfo

	pollInterval time.Duration
	workerCount  int
	queueSize    int
	inflightSize int

	started bool
	runCtx  context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		publisher:    publisher.Nop{},
		tracked:      make(map[string]model.GameInfo),
		pollInterval: 15 * time.Second,
		workerCount:  runtime.NumCPU(),
		queueSize:    1024,
		inflightSize: 4096,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Start builds the runtime components and starts the workers, the poller
// and the live hub. A stopped service cannot be started again.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.runCtx != nil {
		return ErrStopped
	}

	s.runCtx, s.cancel = context.WithCancel(ctx)

	if s.store == nil {
		s.store = repository.NewMemoryStore(s.runCtx)
	}
	if s.hub == nil {
		s.hub = live.NewHub()
	}
	s.guard = inflight.NewGuard(inflight.WithMaxKeys(s.inflightSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, worker.HandlerFunc(s.handle))
	s.pool.Start(s.runCtx)

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.hub.Run(s.runCtx)
	}()
	go func() {
		defer s.wg.Done()
		s.poll(s.runCtx)
	}()

	s.started = true
	s.logger.Info(ctx, "service started",
		logger.Any("providers", provider.Names(s.providers)),
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Duration("pollInterval", s.pollInterval),
	)
	return nil
}

// Stop gracefully shuts down the service. Workers finish the refresh in
// hand before it returns.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	pool, cancel, store := s.pool, s.cancel, s.store
	s.mu.Unlock()

	ctx := context.Background()
	s.logger.Info(ctx, "stopping service...")

	shutdownCtx, done := context.WithTimeout(ctx, 10*time.Second)
	defer done()
	if err := pool.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
	}

	cancel()
	s.wg.Wait()

	if closer, ok := store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	s.logger.Info(ctx, "service stopped")
}

// Plays loads game's plays on demand through the provider pipeline.
func (s *Service) Plays(ctx context.Context, game model.GameInfo) (types.Snapshot, error) {
	if err := game.Validate(); err != nil {
		return types.Snapshot{}, err
	}
	plays, source, err := LoadPlays(ctx, s.providers, game)
	if err != nil {
		return types.Snapshot{}, err
	}
	return types.Snapshot{Game: game, Source: source, Plays: plays, UpdatedAt: time.Now()}, nil
}

// Field returns the field geometry view of gameID.
func (s *Service) Field(ctx context.Context, gameID string) (types.FieldView, error) {
	if s.field == nil {
		return types.FieldView{}, ErrFieldSource
	}
	g, err := s.field.Game(ctx, gameID)
	if err != nil {
		return types.FieldView{}, err
	}
	return types.NewFieldView(g), nil
}

// Track adds game to the polling set and schedules a first refresh.
// Tracking an already tracked game updates its info.
func (s *Service) Track(ctx context.Context, game model.GameInfo) error {
	if err := game.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	_, existed := s.tracked[game.GameID]
	s.tracked[game.GameID] = game
	n := len(s.tracked)
	started := s.started
	s.mu.Unlock()

	metrics.UpdateTrackedGames(n)
	if existed || !started {
		return nil
	}
	s.logger.Info(ctx, "tracking game", logger.String("game_id", game.GameID))
	if err := s.enqueue(ctx, game, model.TriggerPoll); err != nil && !errors.Is(err, ErrInFlight) {
		s.logger.Warn(ctx, "initial refresh not scheduled", logger.String("game_id", game.GameID), logger.Error(err))
	}
	return nil
}

// Untrack stops polling gameID and drops its snapshot.
func (s *Service) Untrack(ctx context.Context, gameID string) error {
	// The snapshot goes under the same lock handle stores with, so a
	// refresh finishing concurrently cannot bring it back.
	s.mu.Lock()
	_, ok := s.tracked[gameID]
	delete(s.tracked, gameID)
	n := len(s.tracked)
	if ok && s.store != nil {
		s.store.Delete(ctx, gameID)
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotTracked, gameID)
	}
	metrics.UpdateTrackedGames(n)
	return nil
}

// Tracked lists tracked games ordered by id.
func (s *Service) Tracked() []model.GameInfo {
	s.mu.RLock()
	out := make([]model.GameInfo, 0, len(s.tracked))
	for _, g := range s.tracked {
		out = append(out, g)
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b model.GameInfo) int {
		switch {
		case a.GameID < b.GameID:
			return -1
		case a.GameID > b.GameID:
			return 1
		}
		return 0
	})
	return out
}

// Refresh schedules a user refresh of a tracked game. Provider caches for
// the game are dropped first so the refresh reaches upstream.
func (s *Service) Refresh(ctx context.Context, gameID string) error {
	s.mu.RLock()
	game, ok := s.tracked[gameID]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotTracked, gameID)
	}
	return s.enqueue(ctx, game, model.TriggerUser)
}

// Snapshot returns the latest stored snapshot of gameID.
func (s *Service) Snapshot(ctx context.Context, gameID string) (types.Snapshot, error) {
	store := s.snapshots()
	if store == nil {
		return types.Snapshot{}, ErrNotStarted
	}
	return store.Get(ctx, gameID)
}

func (s *Service) snapshots() repository.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

// Subscribe tracks game and attaches the request as a live subscriber.
// The current snapshot, when there is one, is sent first.
func (s *Service) Subscribe(w http.ResponseWriter, r *http.Request, game model.GameInfo) error {
	s.mu.RLock()
	started, runCtx, hub := s.started, s.runCtx, s.hub
	s.mu.RUnlock()
	if !started {
		return ErrNotStarted
	}
	if err := s.Track(r.Context(), game); err != nil {
		return err
	}

	var initial *live.Message
	if snap, err := s.Snapshot(r.Context(), game.GameID); err == nil {
		initial = &live.Message{Type: live.TypePlays, GameID: game.GameID, Payload: snap, Timestamp: time.Now()}
	}
	return hub.Serve(runCtx, w, r, game.GameID, initial)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"providers":    provider.Names(s.providers),
		"trackedGames": len(s.tracked),
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"pollInterval": s.pollInterval.String(),
	}
	if s.started {
		ctx := context.Background()
		stats["queueLength"] = s.queue.Len(ctx)
		stats["snapshots"] = s.store.Count(ctx)
		stats["inflight"] = s.guard.Size()
		stats["subscribers"] = s.hub.Total()
		stats["refreshed"] = s.pool.Processed()
	}
	return stats
}

// enqueue claims the game's in-flight slot and queues a refresh. The slot
// is released by handle, or here when the job never made it in.
func (s *Service) enqueue(ctx context.Context, game model.GameInfo, trigger string) error {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return ErrNotStarted
	}

	if !s.guard.TryAcquire(ctx, game.GameID) {
		metrics.RecordRefreshSkipped()
		return fmt.Errorf("%w: %s", ErrInFlight, game.GameID)
	}
	if trigger == model.TriggerUser {
		provider.InvalidateAll(ctx, s.providers, game.GameID)
		if s.field != nil {
			s.field.Invalidate(ctx, game.GameID)
		}
	}

	job := model.RefreshJob{Game: game, Trigger: trigger, EnqueuedAt: time.Now()}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.guard.Release(ctx, game.GameID)
		if errors.Is(err, queue.ErrFull) {
			return fmt.Errorf("%w: %s", ErrBackpressure, game.GameID)
		}
		return err
	}
	return nil
}

// handle runs on a worker: load, store, then fan out when plays changed.
func (s *Service) handle(ctx context.Context, job model.RefreshJob) error {
	gameID := job.Game.GameID
	defer s.guard.Release(ctx, gameID)

	plays, source, err := LoadPlays(ctx, s.providers, job.Game)
	if err != nil {
		return err
	}

	var (
		snap    types.Snapshot
		changed bool
	)
	s.mu.RLock()
	_, stillTracked := s.tracked[gameID]
	if stillTracked {
		snap, changed, err = s.store.Put(ctx, types.Snapshot{Game: job.Game, Source: source, Plays: plays})
	}
	s.mu.RUnlock()
	if !stillTracked {
		return nil
	}
	if err != nil {
		return fmt.Errorf("storing snapshot: %w", err)
	}
	if !changed {
		return nil
	}

	s.hub.Broadcast(gameID, live.TypePlays, snap)
	if err := s.publisher.Publish(ctx, snap); err != nil {
		s.logger.Warn(ctx, "publish failed", logger.String("game_id", gameID), logger.Error(err))
	}
	s.logger.Debug(ctx, "snapshot updated",
		logger.String("game_id", gameID),
		logger.String("source", source),
		logger.Int("count", snap.Count()),
		logger.Any("version", snap.Version),
	)
	return nil
}

func (s *Service) poll(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, game := range s.Tracked() {
				err := s.enqueue(ctx, game, model.TriggerPoll)
				switch {
				case err == nil, errors.Is(err, ErrInFlight):
				case errors.Is(err, ErrBackpressure):
					s.logger.Warn(ctx, "poll skipped, queue full", logger.String("game_id", game.GameID))
				default:
					return
				}
			}
		}
	}
}
