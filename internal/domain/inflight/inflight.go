// Package inflight tracks which games currently have a refresh running so
// that a second refresh for the same game is skipped instead of overlapping.
package inflight

import (
	"context"
	"sync"
	"sync/atomic"
)

// Guard hands out at most one slot per key.
type Guard interface {
	// TryAcquire claims key. It returns false when key is already held.
	TryAcquire(ctx context.Context, key string) bool

	// Release frees key. Releasing a key that is not held is a no-op.
	Release(ctx context.Context, key string)

	// Held reports whether key is currently claimed.
	Held(ctx context.Context, key string) bool

	Size() int64
}

// entry is a list node; the list runs newest first.
type entry struct {
	key  string
	prev *entry
	next *entry
}

func (e *entry) reset() {
	e.key = ""
	e.prev = nil
	e.next = nil
}

type memoryGuard struct {
	mu      sync.Mutex
	held    map[string]*entry
	head    *entry
	tail    *entry
	maxKeys int
	size    atomic.Int64
	pool    sync.Pool
}

// NewGuard returns an in-memory Guard. The default bound is 4096 keys.
func NewGuard(opts ...Option) Guard {
	g := &memoryGuard{maxKeys: 4096}
	for _, opt := range opts {
		opt(g)
	}
	g.held = make(map[string]*entry)
	g.pool = sync.Pool{New: func() any { return &entry{} }}
	return g
}

func (g *memoryGuard) TryAcquire(_ context.Context, key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.held[key]; busy {
		return false
	}
	if g.maxKeys > 0 && len(g.held) >= g.maxKeys {
		g.evictOldest()
	}

	e := g.pool.Get().(*entry)
	e.key = key
	e.next = g.head
	if g.head != nil {
		g.head.prev = e
	}
	g.head = e
	if g.tail == nil {
		g.tail = e
	}
	g.held[key] = e
	g.size.Add(1)
	return true
}

func (g *memoryGuard) Release(_ context.Context, key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e, ok := g.held[key]; ok {
		g.remove(e)
	}
}

func (g *memoryGuard) Held(_ context.Context, key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.held[key]
	return ok
}

func (g *memoryGuard) Size() int64 {
	return g.size.Load()
}

// evictOldest drops the tail. Caller holds g.mu.
func (g *memoryGuard) evictOldest() {
	if g.tail != nil {
		g.remove(g.tail)
	}
}

// remove unlinks e and returns it to the pool. Caller holds g.mu.
func (g *memoryGuard) remove(e *entry) {
	delete(g.held, e.key)
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		g.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		g.tail = e.prev
	}
	e.reset()
	g.pool.Put(e)
	g.size.Add(-1)
}
