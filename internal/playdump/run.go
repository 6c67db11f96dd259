// Package playdump loads one game's plays through the provider pipeline and
// prints them.
package playdump

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	jsoniter "github.com/json-iterator/go"

	service "github.com/okian/huddle/internal/app"
	"github.com/okian/huddle/internal/config"
	"github.com/okian/huddle/internal/domain/coerce"
	"github.com/okian/huddle/internal/domain/model"
	"github.com/okian/huddle/pkg/logger"
)

// Result is the JSON document written with -json.
type Result struct {
	Game     model.GameInfo       `json:"game"`
	Source   string               `json:"source"`
	Count    int                  `json:"count"`
	Duration string               `json:"duration"`
	Plays    []model.StandardPlay `json:"plays"`
}

// Run loads the plays for cfg.Game using base for provider settings and
// writes them to out.
func Run(ctx context.Context, base *config.Config, cfg *Config, out io.Writer) error {
	settings := *base
	if cfg.Providers != "" {
		settings.Providers = cfg.Providers
	}

	providers, err := service.BuildProviders(&settings, nil)
	if err != nil {
		return err
	}

	logger.Get().Info(ctx, "loading plays",
		logger.String("game_id", cfg.Game.GameID),
		logger.Any("providers", settings.ProviderList()))

	start := time.Now()
	plays, source, err := service.LoadPlays(ctx, providers.Pipeline, cfg.Game)
	if err != nil {
		return err
	}
	res := Result{
		Game:     cfg.Game,
		Source:   source,
		Count:    len(plays),
		Duration: time.Since(start).Round(time.Millisecond).String(),
		Plays:    plays,
	}

	if cfg.JSON {
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return writeTable(out, res)
}

func writeTable(out io.Writer, res Result) error {
	fmt.Fprintf(out, "game %s  source %s  plays %d  in %s\n\n", res.Game.GameID, res.Source, res.Count, res.Duration)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tQTR\tCLOCK\tPOS\tDOWN\tTYPE\tFIELD\tYDS\tSCORE\tDESCRIPTION")
	for _, p := range res.Plays {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%.0f>%.0f\t%.0f\t%d-%d\t%s\n",
			p.Sequence,
			quarterLabel(p.Quarter),
			clockLabel(p.GameClockSeconds),
			p.Possession,
			downLabel(p.Down, p.YardsToGo),
			p.PlayType,
			p.StartFieldPos, p.EndFieldPos,
			p.YardsGained,
			p.AwayScore, p.HomeScore,
			flags(p)+p.Description,
		)
	}
	return tw.Flush()
}

func quarterLabel(q int) string {
	if q > 4 {
		return "OT"
	}
	return fmt.Sprintf("Q%d", q)
}

// clockLabel prints time remaining, as a broadcast would.
func clockLabel(elapsed int) string {
	remaining := coerce.QuarterSeconds - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return fmt.Sprintf("%d:%02d", remaining/60, remaining%60)
}

func downLabel(down, toGo *int) string {
	if down == nil {
		return "-"
	}
	if toGo == nil {
		return fmt.Sprintf("%d", *down)
	}
	return fmt.Sprintf("%d&%d", *down, *toGo)
}

func flags(p model.StandardPlay) string {
	switch {
	case p.IsTouchdown:
		return "[TD] "
	case p.IsFieldGoal:
		return "[FG] "
	case p.IsSafety:
		return "[SAF] "
	}
	return ""
}
