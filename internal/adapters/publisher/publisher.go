// Package publisher announces changed play snapshots to downstream
// consumers over Redis streams.
package publisher

import (
	"context"
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/okian/huddle/internal/domain/types"
	"github.com/okian/huddle/pkg/metrics"
)

const (
	defaultPrefix = "plays.updates"
	defaultMaxLen = 1000
)

// Publisher sends snapshots somewhere.
type Publisher interface {
	Publish(ctx context.Context, snap types.Snapshot) error
}

// Nop discards every snapshot.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, types.Snapshot) error { return nil }

// Option configures a StreamPublisher.
type Option func(*StreamPublisher)

// WithPrefix sets the stream key prefix; the game id is appended after a dot.
func WithPrefix(prefix string) Option {
	return func(p *StreamPublisher) {
		if prefix != "" {
			p.prefix = prefix
		}
	}
}

// WithMaxLen caps each stream approximately. Zero disables trimming.
func WithMaxLen(n int64) Option {
	return func(p *StreamPublisher) {
		if n >= 0 {
			p.maxLen = n
		}
	}
}

// StreamPublisher publishes snapshots to one Redis stream per game.
type StreamPublisher struct {
	client *redis.Client
	prefix string
	maxLen int64
}

// NewStreamPublisher creates a stream publisher.
func NewStreamPublisher(client *redis.Client, opts ...Option) *StreamPublisher {
	p := &StreamPublisher{client: client, prefix: defaultPrefix, maxLen: defaultMaxLen}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// StreamKey returns the stream a game's updates go to.
func (p *StreamPublisher) StreamKey(gameID string) string {
	return p.prefix + "." + gameID
}

// Publish implements Publisher.
func (p *StreamPublisher) Publish(ctx context.Context, snap types.Snapshot) error {
	data, err := jsoniter.Marshal(snap)
	if err != nil {
		metrics.RecordStreamPublishError()
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.StreamKey(snap.Game.GameID),
		Values: map[string]interface{}{
			"data":    string(data),
			"game_id": snap.Game.GameID,
			"source":  snap.Source,
			"version": strconv.FormatUint(snap.Version, 10),
			"count":   strconv.Itoa(snap.Count()),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		metrics.RecordStreamPublishError()
		return fmt.Errorf("publishing %s: %w", args.Stream, err)
	}
	metrics.RecordStreamPublished()
	return nil
}
