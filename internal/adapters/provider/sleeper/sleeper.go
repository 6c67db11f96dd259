// Package sleeper adapts Sleeper's play feed (REST with a GraphQL fallback)
// to StandardPlay.
package sleeper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/okian/huddle/internal/adapters/provider/httpjson"
	"github.com/okian/huddle/internal/domain/model"
	"github.com/okian/huddle/pkg/logger"
)

// Name is the provider name.
const Name = "sleeper"

const (
	defaultRESTURL     = "https://api.sleeper.app"
	defaultGraphQLURL  = "https://sleeper.com/graphql"
	defaultFreshWindow = 48 * time.Hour
)

const playsByGameQuery = `query PlaysByGame($sport: String!, $season: String!, $season_type: String!, $gameId: String!) {
  plays(sport: $sport, season: $season, season_type: $season_type, game_id: $gameId) {
    game_id
    play_id
    sequence
    date
    metadata
    play_stats {
      player_id
      stats
      player
    }
  }
}`

// Adapter fetches plays from Sleeper.
type Adapter struct {
	client      *httpjson.Client
	restURL     string
	graphqlURL  string
	token       string
	freshWindow time.Duration
	now         func() time.Time
	logger      logger.Logger
}

// New creates a Sleeper adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		restURL:     defaultRESTURL,
		graphqlURL:  defaultGraphQLURL,
		freshWindow: defaultFreshWindow,
		now:         time.Now,
		logger:      logger.Get().Named("provider." + Name),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.client == nil {
		a.client = httpjson.New(Name)
	}
	return a
}

// Name implements provider.Provider.
func (a *Adapter) Name() string { return Name }

// CanHandleGame accepts live and upcoming games, and any game dated within
// the freshness window of now. Older feeds are too sparse to be useful.
func (a *Adapter) CanHandleGame(_ context.Context, game model.GameInfo) (bool, error) {
	if game.IsLive() {
		return true, nil
	}
	if game.Date.IsZero() {
		return false, nil
	}
	diff := a.now().Sub(game.Date)
	if diff < 0 {
		diff = -diff
	}
	return diff <= a.freshWindow, nil
}

// FetchPlays tries the REST feed first and falls back to GraphQL when it
// fails or is empty. Failures are logged and yield no plays.
func (a *Adapter) FetchPlays(ctx context.Context, game model.GameInfo) ([]model.StandardPlay, error) {
	raw, err := a.fetchREST(ctx, game)
	if err != nil {
		a.logger.Warn(ctx, "rest fetch failed", logger.String("game_id", game.GameID), logger.Error(err))
	}
	if len(raw) == 0 {
		raw, err = a.fetchGraphQL(ctx, game)
		if err != nil {
			a.logger.Warn(ctx, "graphql fetch failed", logger.String("game_id", game.GameID), logger.Error(err))
		}
	}

	plays := make([]model.StandardPlay, 0, len(raw))
	for _, r := range raw {
		var p rawPlay
		if err := jsoniter.Unmarshal(r, &p); err != nil {
			a.logger.Debug(ctx, "skipping undecodable play", logger.String("game_id", game.GameID), logger.Error(err))
			continue
		}
		plays = append(plays, toStandardPlay(p, r, game))
	}
	return plays, nil
}

func (a *Adapter) fetchREST(ctx context.Context, game model.GameInfo) ([]json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/plays/nfl/%s/%s/game/%s?limit=0",
		strings.TrimRight(a.restURL, "/"),
		url.PathEscape(seasonType(game)),
		url.PathEscape(game.Season),
		url.PathEscape(game.GameID))

	var plays []json.RawMessage
	if _, err := a.client.GetJSON(ctx, endpoint, nil, &plays); err != nil {
		return nil, err
	}
	return plays, nil
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlResponse struct {
	Data struct {
		Plays []json.RawMessage `json:"plays"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (a *Adapter) fetchGraphQL(ctx context.Context, game model.GameInfo) ([]json.RawMessage, error) {
	if a.token == "" {
		return nil, nil
	}
	req := graphqlRequest{
		Query: playsByGameQuery,
		Variables: map[string]any{
			"sport":       "nfl",
			"season":      game.Season,
			"season_type": seasonType(game),
			"gameId":      game.GameID,
		},
	}
	headers := http.Header{"Authorization": {a.token}}

	var resp graphqlResponse
	if _, err := a.client.PostJSON(ctx, a.graphqlURL, req, headers, &resp); err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrGraphQL, resp.Errors[0].Message)
	}
	return resp.Data.Plays, nil
}
