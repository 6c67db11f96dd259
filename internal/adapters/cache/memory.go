package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/okian/huddle/pkg/metrics"
)

const (
	defaultSize = 256
	defaultTTL  = 30 * time.Second
)

// Memory is an in-process LRU cache whose entries also expire after a TTL.
type Memory struct {
	name string
	lru  *expirable.LRU[string, []byte]
}

// NewMemory creates a memory cache. name labels its metrics.
func NewMemory(name string, opts ...Option) *Memory {
	o := options{size: defaultSize, ttl: defaultTTL}
	for _, opt := range opts {
		opt(&o)
	}
	m := &Memory{name: name}
	m.lru = expirable.NewLRU[string, []byte](o.size, func(string, []byte) {
		metrics.RecordCacheEviction(name)
	}, o.ttl)
	return m
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := m.lru.Get(key)
	if !ok {
		metrics.RecordCacheMiss(m.name)
		return nil, false
	}
	metrics.RecordCacheHit(m.name)
	return v, true
}

func (m *Memory) Set(_ context.Context, key string, value []byte) {
	m.lru.Add(key, value)
	metrics.UpdateCacheEntries(m.name, m.lru.Len())
}

func (m *Memory) Delete(_ context.Context, key string) {
	m.lru.Remove(key)
	metrics.UpdateCacheEntries(m.name, m.lru.Len())
}

func (m *Memory) Len(_ context.Context) int {
	return m.lru.Len()
}
