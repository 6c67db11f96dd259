// Package pyespn adapts the ESPN data proxy (/api/espn/game/{id}) to
// StandardPlay and exposes the decoded play-by-play for the field view.
package pyespn

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/okian/huddle/internal/adapters/cache"
	"github.com/okian/huddle/internal/adapters/provider/httpjson"
	"github.com/okian/huddle/internal/domain/model"
	"github.com/okian/huddle/internal/domain/pbp"
	"github.com/okian/huddle/pkg/logger"
)

// Name is the provider name.
const Name = "pyespn"

const defaultProxyURL = "http://localhost:3001"

// Adapter reads games from the ESPN data proxy. Raw payloads are cached per
// game id.
type Adapter struct {
	client   *httpjson.Client
	proxyURL string
	cache    cache.Cache
	logger   logger.Logger
}

// New creates an ESPN proxy adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		proxyURL: defaultProxyURL,
		logger:   logger.Get().Named("provider." + Name),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.client == nil {
		a.client = httpjson.New(Name)
	}
	if a.cache == nil {
		a.cache = cache.NewMemory(Name)
	}
	return a
}

// Name implements provider.Provider.
func (a *Adapter) Name() string { return Name }

// CanHandleGame has no cheap check: it loads the game (through the cache)
// and reports whether anything came back.
func (a *Adapter) CanHandleGame(ctx context.Context, game model.GameInfo) (bool, error) {
	g, err := a.Game(ctx, game.GameID)
	if err != nil {
		a.logger.Warn(ctx, "eligibility check failed", logger.String("game_id", game.GameID), logger.Error(err))
		return false, nil
	}
	return g != nil, nil
}

// FetchPlays converts the cached or freshly loaded game.
func (a *Adapter) FetchPlays(ctx context.Context, game model.GameInfo) ([]model.StandardPlay, error) {
	g, err := a.Game(ctx, game.GameID)
	if err != nil {
		a.logger.Warn(ctx, "fetch failed", logger.String("game_id", game.GameID), logger.Error(err))
		return []model.StandardPlay{}, nil
	}
	return convertPlays(g.Plays, game), nil
}

// Invalidate drops the cached payload of gameID.
func (a *Adapter) Invalidate(ctx context.Context, gameID string) {
	a.cache.Delete(ctx, gameID)
}

// Game returns the decoded play-by-play of gameID. It returns ErrNotFound
// when the proxy has nothing for the game.
func (a *Adapter) Game(ctx context.Context, gameID string) (*pbp.Game, error) {
	if raw, ok := a.cache.Get(ctx, gameID); ok {
		if g, err := pbp.Decode(raw); err == nil {
			return g, nil
		}
		a.cache.Delete(ctx, gameID)
	}

	endpoint := fmt.Sprintf("%s/api/espn/game/%s", strings.TrimRight(a.proxyURL, "/"), url.PathEscape(gameID))
	raw, err := a.client.Get(ctx, endpoint, nil)
	if err != nil {
		if httpjson.StatusCode(err) == http.StatusNotFound {
			return nil, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
		}
		return nil, fmt.Errorf("load game %s: %w", gameID, err)
	}

	g, err := pbp.Decode(raw)
	if err != nil {
		if errors.Is(err, pbp.ErrEmptyPayload) {
			return nil, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
		}
		return nil, fmt.Errorf("decode game %s: %w", gameID, err)
	}
	a.cache.Set(ctx, gameID, raw)
	return g, nil
}
