package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/okian/huddle/internal/domain/model"
	"github.com/okian/huddle/internal/domain/types"
	"github.com/okian/huddle/pkg/metrics"
)

// map keys are sorted so equal plays always encode the same way.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// index is an immutable view published after every write. Readers load it
// without taking the write lock.
type index map[string]*entry

type entry struct {
	snap        types.Snapshot
	fingerprint uint64
}

// MemoryStore is a copy-on-write, in-memory Store.
type MemoryStore struct {
	mu      sync.Mutex
	current atomic.Pointer[index]

	now             func() time.Time
	metricsInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewMemoryStore constructs a store and starts its metrics updater, which
// runs until ctx is done or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		now:             time.Now,
		metricsInterval: 5 * time.Second,
		stopChan:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	empty := index{}
	s.current.Store(&empty)

	metrics.UpdateSnapshotCount(0)
	s.startMetricsUpdater(ctx)
	return s
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, snap types.Snapshot) (types.Snapshot, bool, error) {
	gameID := snap.Game.GameID
	if gameID == "" {
		return types.Snapshot{}, false, ErrInvalidGame
	}
	fp := fingerprint(snap.Plays)

	s.mu.Lock()
	defer s.mu.Unlock()

	old := *s.current.Load()
	prev, exists := old[gameID]

	snap.UpdatedAt = s.now()
	changed := !exists || prev.fingerprint != fp || prev.snap.Source != snap.Source
	switch {
	case !exists:
		snap.Version = 1
	case changed:
		snap.Version = prev.snap.Version + 1
	default:
		snap.Version = prev.snap.Version
	}

	next := make(index, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[gameID] = &entry{snap: snap, fingerprint: fp}
	s.current.Store(&next)

	if changed {
		metrics.RecordSnapshotUpdate()
	}
	metrics.UpdateSnapshotCount(len(next))
	return snap, changed, nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, gameID string) (types.Snapshot, error) {
	e, ok := (*s.current.Load())[gameID]
	if !ok {
		return types.Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, gameID)
	}
	return e.snap, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := *s.current.Load()
	if _, ok := old[gameID]; !ok {
		return
	}
	next := make(index, len(old))
	for k, v := range old {
		if k != gameID {
			next[k] = v
		}
	}
	s.current.Store(&next)
	metrics.UpdateSnapshotCount(len(next))
}

// GameIDs implements Store.
func (s *MemoryStore) GameIDs(_ context.Context) []string {
	idx := *s.current.Load()
	ids := make([]string, 0, len(idx))
	for id := range idx {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	return len(*s.current.Load())
}

// Close stops the background goroutine.
func (s *MemoryStore) Close() error {
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateSnapshotCount(s.Count(ctx))
			}
		}
	}()
}

// fingerprint hashes the JSON encoding of every play with the upstream
// payload left out, so any normalized field change is seen.
func fingerprint(plays []model.StandardPlay) uint64 {
	h := fnv.New64a()
	enc := json.NewEncoder(h)
	for i := range plays {
		p := plays[i]
		p.RawData = nil
		if err := enc.Encode(p); err != nil {
			// unencodable plays still count by identity
			_, _ = h.Write([]byte(p.ID))
			_, _ = h.Write([]byte(err.Error()))
		}
	}
	return h.Sum64()
}
