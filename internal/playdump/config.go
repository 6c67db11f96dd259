package playdump

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/okian/huddle/internal/domain/coerce"
	"github.com/okian/huddle/internal/domain/model"
)

// ErrUsage is returned when the arguments cannot describe a game.
var ErrUsage = errors.New("usage")

// Config holds one dump request.
type Config struct {
	Game model.GameInfo

	// Providers overrides the configured provider list when set.
	Providers string

	// JSON writes the plays as a JSON document instead of a table.
	JSON bool

	Timeout time.Duration
}

const defaultTimeout = 60 * time.Second

// ParseArgs reads the command line into a Config. Flag errors are
// reported on stderr.
func ParseArgs(args []string, stderr io.Writer) (*Config, error) {
	fs := flag.NewFlagSet("playdump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { ShowHelp(stderr) }

	var (
		gameID     = fs.String("game", "", "Game id as understood by the providers (required)")
		season     = fs.String("season", "", "Season year, e.g. 2024")
		week       = fs.Int("week", -1, "Week number")
		seasonType = fs.String("season-type", "", "regular, preseason or postseason")
		date       = fs.String("date", "", "Game date, YYYY-MM-DD or RFC3339")
		status     = fs.String("status", "", "pre_game, in_progress or complete")
		home       = fs.String("home", "", "Home team abbreviation")
		away       = fs.String("away", "", "Away team abbreviation")
		providers  = fs.String("providers", "", "Comma separated provider order (default from config)")
		asJSON     = fs.Bool("json", false, "Print plays as JSON")
		timeout    = fs.Duration("timeout", defaultTimeout, "Overall timeout")
	)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	cfg := &Config{
		Game: model.GameInfo{
			GameID:     strings.TrimSpace(*gameID),
			Season:     *season,
			SeasonType: coerce.NormalizeSeasonType(*seasonType),
			Status:     *status,
			HomeTeam:   strings.ToUpper(*home),
			AwayTeam:   strings.ToUpper(*away),
		},
		Providers: *providers,
		JSON:      *asJSON,
		Timeout:   *timeout,
	}
	if *week >= 0 {
		w := *week
		cfg.Game.Week = &w
	}
	if *date != "" {
		t, err := parseDate(*date)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUsage, err)
		}
		cfg.Game.Date = t
	}
	if err := cfg.Game.Validate(); err != nil {
		return nil, fmt.Errorf("%w: -game is required", ErrUsage)
	}
	return cfg, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}
