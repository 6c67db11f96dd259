package sportsdataio

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/okian/huddle/internal/domain/coerce"
	"github.com/okian/huddle/internal/domain/direction"
	"github.com/okian/huddle/internal/domain/model"
)

// Every numeric field is decoded as any and coerced, since the feed is not
// consistent about quoting numbers.
type playStat struct {
	PlayerID             any    `json:"PlayerID"`
	Name                 string `json:"Name"`
	Team                 string `json:"Team"`
	Position             string `json:"Position"`
	PassingAttempts      any    `json:"PassingAttempts"`
	PassingCompletions   any    `json:"PassingCompletions"`
	PassingInterceptions any    `json:"PassingInterceptions"`
	RushingAttempts      any    `json:"RushingAttempts"`
	ReceivingTargets     any    `json:"ReceivingTargets"`
	Receptions           any    `json:"Receptions"`
	FieldGoalsAttempted  any    `json:"FieldGoalsAttempted"`
	ExtraPointsAttempted any    `json:"ExtraPointsAttempted"`
}

type scoringPlay struct {
	HomeScore any `json:"HomeScore"`
	AwayScore any `json:"AwayScore"`
}

type rawPlay struct {
	PlayID               any          `json:"PlayID"`
	QuarterName          any          `json:"QuarterName"`
	Sequence             any          `json:"Sequence"`
	TimeRemainingMinutes any          `json:"TimeRemainingMinutes"`
	TimeRemainingSeconds any          `json:"TimeRemainingSeconds"`
	Team                 string       `json:"Team"`
	Opponent             string       `json:"Opponent"`
	Down                 any          `json:"Down"`
	Distance             any          `json:"Distance"`
	YardsToEndZone       any          `json:"YardsToEndZone"`
	Type                 string       `json:"Type"`
	YardsGained          any          `json:"YardsGained"`
	Description          string       `json:"Description"`
	IsScoringPlay        any          `json:"IsScoringPlay"`
	ScoringPlay          *scoringPlay `json:"ScoringPlay"`
	PlayStats            []playStat   `json:"PlayStats"`
}

var playTypes = map[string]model.PlayType{
	"rush":               model.PlayRush,
	"passcompleted":      model.PlayPass,
	"passincomplete":     model.PlayPass,
	"passintercepted":    model.PlayPass,
	"sack":               model.PlayPass,
	"punt":               model.PlayPunt,
	"kickoff":            model.PlayKickoff,
	"fieldgoal":          model.PlayFieldGoal,
	"extrapoint":         model.PlayExtraPoint,
	"twopointconversion": model.PlayTwoPoint,
	"timeout":            model.PlayTimeout,
	"penalty":            model.PlayPenalty,
}

// converter carries the running score across a game's plays, since the
// feed only reports scores on scoring plays.
type converter struct {
	game      model.GameInfo
	homeScore int
	awayScore int
}

func newConverter(game model.GameInfo) *converter {
	return &converter{game: game}
}

func (c *converter) convert(p rawPlay, payload json.RawMessage) model.StandardPlay {
	playType := mapPlayType(p.Type)
	dir := direction.Infer(p.Description, string(playType))
	desc := strings.ToLower(p.Description)

	start := 50.0
	ytez, hasYTEZ := coerce.Float(p.YardsToEndZone)
	if hasYTEZ {
		start = coerce.ClampPercent(100 - ytez)
	}
	gained := coerce.SafeNumber(p.YardsGained, 0)

	remaining, hasClock := coerce.ClockSeconds(p.TimeRemainingMinutes, p.TimeRemainingSeconds)

	if p.ScoringPlay != nil {
		if home, ok := coerce.Int(p.ScoringPlay.HomeScore); ok {
			c.homeScore = home
		}
		if away, ok := coerce.Int(p.ScoringPlay.AwayScore); ok {
			c.awayScore = away
		}
	}

	sequence := int(coerce.SafeNumber(p.Sequence, 0))
	id := coerce.String(p.PlayID)
	if id == "" || id == "0" {
		id = "sportsdataio_" + strconv.Itoa(sequence)
	}

	out := model.StandardPlay{
		ID:               id,
		GameID:           c.game.GameID,
		Sequence:         sequence,
		Quarter:          quarter(coerce.String(p.QuarterName)),
		GameClockSeconds: coerce.ElapsedOrStart(remaining, hasClock),
		HomeTeam:         c.game.HomeTeam,
		AwayTeam:         c.game.AwayTeam,
		Possession:       p.Team,
		PlayType:         playType,
		Description:      p.Description,
		StartFieldPos:    start,
		EndFieldPos:      coerce.ClampPercent(start + gained),
		YardsGained:      gained,
		Down:             positiveInt(p.Down),
		YardsToGo:        positiveInt(p.Distance),
		YardsToEndzone:   ytez,
		Direction:        dir.Model(),
		HomeScore:        c.homeScore,
		AwayScore:        c.awayScore,
		Players:          players(p.PlayStats),
		DataSource:       model.SourceSportsDataIO,
		RawData:          payload,
	}

	if coerce.Bool(p.IsScoringPlay) {
		switch {
		case strings.Contains(desc, "safety"):
			out.IsSafety = true
		case playType == model.PlayFieldGoal:
			out.IsFieldGoal = true
		case strings.Contains(desc, "touchdown"):
			out.IsTouchdown = true
		}
	}

	switch playType {
	case model.PlayPass:
		out.Pass = &model.PassDetail{
			IsComplete:     strings.EqualFold(p.Type, "PassCompleted"),
			IsInterception: strings.EqualFold(p.Type, "PassIntercepted") || intercepted(p.PlayStats),
			Location:       string(dir.Category),
			Depth:          depth(dir),
		}
	case model.PlayRush:
		out.Rush = &model.RushDetail{Location: string(dir.Category)}
	}
	return out
}

func mapPlayType(t string) model.PlayType {
	if pt, ok := playTypes[strings.ToLower(strings.TrimSpace(t))]; ok {
		return pt
	}
	return model.PlayUnknown
}

// quarter maps QuarterName; "OT" is the fifth period.
func quarter(name string) int {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "OT" {
		return 5
	}
	if q, err := strconv.Atoi(n); err == nil && q > 0 {
		return q
	}
	return 1
}

func players(stats []playStat) map[string]model.Player {
	out := map[string]model.Player{}
	for _, s := range stats {
		player := model.Player{ID: coerce.String(s.PlayerID), Name: s.Name, Position: s.Position, Team: s.Team}
		switch {
		case positive(s.PassingAttempts):
			out[model.RolePasser] = player
		case positive(s.Receptions) || positive(s.ReceivingTargets):
			out[model.RoleReceiver] = player
		case positive(s.RushingAttempts):
			out[model.RoleRusher] = player
		case positive(s.FieldGoalsAttempted) || positive(s.ExtraPointsAttempted):
			out[model.RoleKicker] = player
		}
	}
	return out
}

func intercepted(stats []playStat) bool {
	for _, s := range stats {
		if positive(s.PassingInterceptions) {
			return true
		}
	}
	return false
}

func depth(d direction.Direction) string {
	switch {
	case d.IsDeep:
		return "deep"
	case d.IsShort:
		return "short"
	default:
		return ""
	}
}

func positive(v any) bool {
	return coerce.SafeNumber(v, 0) > 0
}

// positiveInt treats zero downs and distances as unknown.
func positiveInt(v any) *int {
	f, ok := coerce.Float(v)
	if !ok || f <= 0 {
		return nil
	}
	i := int(f)
	return &i
}
