package pyespn

import (
	"math"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/okian/huddle/internal/domain/coerce"
	"github.com/okian/huddle/internal/domain/field"
	"github.com/okian/huddle/internal/domain/model"
	"github.com/okian/huddle/internal/domain/pbp"
)

const (
	midfieldYards = 50
	deepYards     = 20
	shortYards    = 5
)

func convertPlays(plays []pbp.Play, game model.GameInfo) []model.StandardPlay {
	out := make([]model.StandardPlay, 0, len(plays))
	for _, p := range plays {
		out = append(out, convertPlay(p, game))
	}
	return out
}

// convertPlay maps one proxy play. Field position only uses yardsToEndzone
// and otherwise sits at midfield; it never looks at coordinates.
func convertPlay(p pbp.Play, game model.GameInfo) model.StandardPlay {
	startYTE := float64(midfieldYards)
	var down, toGo *int
	if p.Start != nil {
		if p.Start.YardsToEndzone != nil {
			startYTE = *p.Start.YardsToEndzone
		}
		down = floatToIntPtr(p.Start.Down)
		toGo = floatToIntPtr(p.Start.YardsToGo)
	}
	yardsGained := 0.0
	if p.StatYardage != nil {
		yardsGained = *p.StatYardage
	}
	endYTE := math.Max(0, startYTE-yardsGained)

	typeText := strings.ToLower(p.TypeText())
	playType := mapPlayType(typeText)
	players, stats := extractPlayers(p.Participants)

	quarter := 1
	if p.Quarter != nil && *p.Quarter > 0 {
		quarter = *p.Quarter
	}
	remaining, hasClock := coerce.ClockSeconds(p.Clock.Minutes, p.Clock.Seconds)

	out := model.StandardPlay{
		ID:               "pyespn_" + p.ID,
		GameID:           game.GameID,
		Sequence:         p.Sequence,
		Quarter:          quarter,
		GameClockSeconds: coerce.ElapsedOrStart(remaining, hasClock),
		HomeTeam:         game.HomeTeam,
		AwayTeam:         game.AwayTeam,
		Possession:       field.ResolvePossession(p),
		PlayType:         playType,
		Description:      p.Text,
		StartFieldPos:    coerce.ClampPercent(100 - startYTE),
		EndFieldPos:      coerce.ClampPercent(100 - endYTE),
		YardsGained:      yardsGained,
		Down:             down,
		YardsToGo:        toGo,
		YardsToEndzone:   startYTE,
		Direction: model.Direction{
			Category: model.DirectionMiddle,
			IsDeep:   yardsGained >= deepYards,
			IsShort:  yardsGained <= shortYards,
		},
		HomeScore:   derefScore(p.HomeScore),
		AwayScore:   derefScore(p.AwayScore),
		IsTouchdown: p.ScoringPlay != nil && *p.ScoringPlay && strings.Contains(typeText, "touchdown"),
		IsFieldGoal: strings.Contains(typeText, "field goal"),
		IsSafety:    strings.Contains(typeText, "safety"),
		Players:     players,
		DataSource:  model.SourceESPN,
	}

	switch playType {
	case model.PlayPass:
		_, hasPasser := players[model.RolePasser]
		_, hasReceiver := players[model.RoleReceiver]
		out.Pass = &model.PassDetail{
			IsComplete:     hasPasser && hasReceiver,
			IsInterception: stats[model.RolePasser]["interceptions"] != 0,
			AirYards:       statPtr(stats[model.RolePasser], "avgAirYards"),
			YardsAfter:     statPtr(stats[model.RoleReceiver], "yardsAfterCatch"),
			Depth:          passDepth(yardsGained),
		}
	case model.PlayRush:
		out.Rush = &model.RushDetail{}
	}

	if raw, err := jsoniter.Marshal(p); err == nil {
		out.RawData = raw
	}
	return out
}

// mapPlayType matches substrings of the lowercased ESPN type text in a
// fixed order.
func mapPlayType(t string) model.PlayType {
	switch {
	case strings.Contains(t, "pass"):
		return model.PlayPass
	case strings.Contains(t, "rush"), strings.Contains(t, "run"):
		return model.PlayRush
	case strings.Contains(t, "punt"):
		return model.PlayPunt
	case strings.Contains(t, "kickoff"):
		return model.PlayKickoff
	case strings.Contains(t, "field goal"):
		return model.PlayFieldGoal
	case strings.Contains(t, "extra point"):
		return model.PlayExtraPoint
	case strings.Contains(t, "two point"):
		return model.PlayTwoPoint
	case strings.Contains(t, "timeout"):
		return model.PlayTimeout
	case strings.Contains(t, "penalty"):
		return model.PlayPenalty
	}
	return model.PlayUnknown
}

// extractPlayers assigns roles from participant stats. A later participant
// overrides an earlier one in the same role.
func extractPlayers(participants []pbp.Participant) (map[string]model.Player, map[string]map[string]float64) {
	players := map[string]model.Player{}
	stats := map[string]map[string]float64{}
	assign := func(role string, p pbp.Participant) {
		players[role] = model.Player{ID: p.ID, Name: p.Name, Position: p.Position, Team: p.Team}
		stats[role] = p.Stats
	}
	for _, p := range participants {
		s := p.Stats
		if s["passingAttempts"] != 0 || s["passingYards"] != 0 {
			assign(model.RolePasser, p)
		}
		if s["receptions"] != 0 || s["receivingYards"] != 0 {
			assign(model.RoleReceiver, p)
		}
		if s["rushingAttempts"] != 0 || s["rushingYards"] != 0 {
			assign(model.RoleRusher, p)
		}
		if s["fieldGoalsMade"] != 0 || s["extraPointsMade"] != 0 {
			assign(model.RoleKicker, p)
		}
	}
	return players, stats
}

func passDepth(yards float64) string {
	switch {
	case yards >= deepYards:
		return "deep"
	case yards <= shortYards:
		return "short"
	default:
		return ""
	}
}

func statPtr(stats map[string]float64, key string) *float64 {
	v, ok := stats[key]
	if !ok {
		return nil
	}
	return &v
}

func floatToIntPtr(f *float64) *int {
	if f == nil {
		return nil
	}
	i := int(*f)
	return &i
}

func derefScore(s *int) int {
	if s == nil || *s < 0 {
		return 0
	}
	return *s
}
