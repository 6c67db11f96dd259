package service_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/okian/huddle/internal/adapters/repository"
	"github.com/okian/huddle/internal/domain/model"
	"github.com/okian/huddle/internal/domain/types"
)

// fakeProvider is a scripted provider.Provider.
type fakeProvider struct {
	name     string
	eligible bool
	checkErr error
	fetchErr error
	plays    []model.StandardPlay

	// gate, when set, blocks FetchPlays until it is closed; entered
	// receives the game id as the fetch starts.
	gate    chan struct{}
	entered chan string

	checks  atomic.Int32
	fetches atomic.Int32

	mu          sync.Mutex
	invalidated []string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) CanHandleGame(context.Context, model.GameInfo) (bool, error) {
	f.checks.Add(1)
	return f.eligible, f.checkErr
}

func (f *fakeProvider) FetchPlays(ctx context.Context, game model.GameInfo) ([]model.StandardPlay, error) {
	f.fetches.Add(1)
	if f.entered != nil {
		f.entered <- game.GameID
	}
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	out := make([]model.StandardPlay, len(f.plays))
	copy(out, f.plays)
	return out, f.fetchErr
}

func (f *fakeProvider) Invalidate(_ context.Context, gameID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, gameID)
}

func (f *fakeProvider) invalidations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.invalidated...)
}

func play(id string, quarter, clock, seq int) model.StandardPlay {
	return model.StandardPlay{ID: id, Quarter: quarter, GameClockSeconds: clock, Sequence: seq, PlayType: model.PlayRush}
}

// gatedStore holds the first Put until release is closed; entered is
// closed once that Put has started.
type gatedStore struct {
	repository.Store

	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newGatedStore(inner repository.Store) *gatedStore {
	return &gatedStore{Store: inner, entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedStore) Put(ctx context.Context, snap types.Snapshot) (types.Snapshot, bool, error) {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		<-g.release
	}
	return g.Store.Put(ctx, snap)
}
