// Package sportsdataio adapts the SportsDataIO NFL play-by-play feed to
// StandardPlay. It is the default provider of the pipeline.
package sportsdataio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/okian/huddle/internal/adapters/provider/httpjson"
	"github.com/okian/huddle/internal/domain/model"
	"github.com/okian/huddle/pkg/logger"
)

// Name is the provider name.
const Name = "sportsdataio"

const (
	defaultBaseURL    = "https://api.sportsdata.io"
	defaultRPS        = 2
	defaultMaxRetries = 3
	apiKeyHeader      = "Ocp-Apim-Subscription-Key"
)

// Adapter reads play-by-play from SportsDataIO. Requests are rate limited
// and retried with backoff by the underlying client.
type Adapter struct {
	client     *httpjson.Client
	baseURL    string
	apiKey     string
	rps        float64
	maxRetries int
	logger     logger.Logger
}

// New creates a SportsDataIO adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		baseURL:    defaultBaseURL,
		rps:        defaultRPS,
		maxRetries: defaultMaxRetries,
		logger:     logger.Get().Named("provider." + Name),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.client == nil {
		a.client = httpjson.New(Name,
			httpjson.WithRateLimit(a.rps, 1),
			httpjson.WithMaxRetries(a.maxRetries),
		)
	}
	return a
}

// Name implements provider.Provider.
func (a *Adapter) Name() string { return Name }

// CanHandleGame requires an API key and a numeric ScoreID.
func (a *Adapter) CanHandleGame(_ context.Context, game model.GameInfo) (bool, error) {
	return a.apiKey != "" && isScoreID(game.GameID), nil
}

type playByPlay struct {
	Plays []json.RawMessage `json:"Plays"`
}

// FetchPlays loads and converts the game's plays. Failures are logged and
// yield no plays.
func (a *Adapter) FetchPlays(ctx context.Context, game model.GameInfo) ([]model.StandardPlay, error) {
	if a.apiKey == "" {
		a.logger.Warn(ctx, "no api key configured", logger.String("game_id", game.GameID))
		return []model.StandardPlay{}, nil
	}

	endpoint := fmt.Sprintf("%s/v3/nfl/pbp/json/PlayByPlay/%s", strings.TrimRight(a.baseURL, "/"), url.PathEscape(game.GameID))
	headers := http.Header{apiKeyHeader: {a.apiKey}}

	var doc playByPlay
	if _, err := a.client.GetJSON(ctx, endpoint, headers, &doc); err != nil {
		a.logger.Warn(ctx, "fetch failed",
			logger.String("game_id", game.GameID),
			logger.Int("status", httpjson.StatusCode(err)),
			logger.Error(err))
		return []model.StandardPlay{}, nil
	}

	conv := newConverter(game)
	plays := make([]model.StandardPlay, 0, len(doc.Plays))
	for _, raw := range doc.Plays {
		var p rawPlay
		if err := jsoniter.Unmarshal(raw, &p); err != nil {
			a.logger.Warn(ctx, "skipping undecodable play", logger.String("game_id", game.GameID), logger.Error(err))
			continue
		}
		plays = append(plays, conv.convert(p, raw))
	}
	return plays, nil
}

func isScoreID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
