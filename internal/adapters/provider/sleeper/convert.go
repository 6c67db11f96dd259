package sleeper

import (
	"encoding/json"
	"strconv"

	"github.com/okian/huddle/internal/domain/coerce"
	"github.com/okian/huddle/internal/domain/direction"
	"github.com/okian/huddle/internal/domain/model"
)

type playStat struct {
	PlayerID any            `json:"player_id"`
	Stats    map[string]any `json:"stats"`
	Player   map[string]any `json:"player"`
}

// rawPlay covers both the REST shape (stats) and the GraphQL shape
// (play_stats).
type rawPlay struct {
	PlayID    string         `json:"play_id"`
	GameID    string         `json:"game_id"`
	Sequence  any            `json:"sequence"`
	Metadata  map[string]any `json:"metadata"`
	Stats     map[string]any `json:"stats"`
	PlayStats []playStat     `json:"play_stats"`
}

var playTypes = map[string]model.PlayType{
	"rush":                 model.PlayRush,
	"pass":                 model.PlayPass,
	"punt":                 model.PlayPunt,
	"kickoff":              model.PlayKickoff,
	"field_goal":           model.PlayFieldGoal,
	"extra_point":          model.PlayExtraPoint,
	"two_point_conversion": model.PlayTwoPoint,
	"timeout":              model.PlayTimeout,
	"penalty":              model.PlayPenalty,
}

func seasonType(game model.GameInfo) string {
	return coerce.NormalizeSeasonType(game.SeasonType)
}

func normalizePlayType(t string) model.PlayType {
	if pt, ok := playTypes[t]; ok {
		return pt
	}
	return model.PlayUnknown
}

func toStandardPlay(raw rawPlay, payload json.RawMessage, game model.GameInfo) model.StandardPlay {
	meta := raw.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	stats := mergedStats(raw)

	description := coerce.FirstString(meta["description"], meta["fantasy_description"])
	rawType := coerce.String(meta["play_type"])
	playType := normalizePlayType(rawType)
	dir := direction.Infer(description, rawType)

	start := coerce.ClampPercent(100 - coerce.SafeNumber(meta["yards_to_end_zone"], 50))
	yardsGained := coerce.SafeNumber(meta["yards_gained"], 0)
	possession := coerce.FirstString(meta["team"], meta["possession"])

	sequence := int(coerce.SafeNumber(raw.Sequence, 0))
	id := raw.PlayID
	if id == "" {
		id = "sleeper_" + strconv.Itoa(sequence)
	}

	quarter := int(coerce.SafeNumber(meta["quarter"], 1))
	if quarter < 1 {
		quarter = 1
	}

	p := model.StandardPlay{
		ID:               id,
		GameID:           game.GameID,
		Sequence:         sequence,
		Quarter:          quarter,
		GameClockSeconds: coerce.ElapsedOrStart(coerce.LookupGameClock(coerce.String(meta["game_clock"]))),
		HomeTeam:         game.HomeTeam,
		AwayTeam:         game.AwayTeam,
		Possession:       possession,
		PlayType:         playType,
		Description:      description,
		StartFieldPos:    start,
		EndFieldPos:      coerce.ClampPercent(start + yardsGained),
		YardsGained:      yardsGained,
		Down:             coerce.IntPtr(meta["down"]),
		YardsToGo:        coerce.IntPtr(meta["distance"]),
		YardsToEndzone:   coerce.SafeNumber(meta["yards_to_end_zone"], 0),
		Direction:        dir.Model(),
		HomeScore:        nonNegative(coerce.SafeNumber(meta["home_points"], 0)),
		AwayScore:        nonNegative(coerce.SafeNumber(meta["away_points"], 0)),
		IsTouchdown:      truthy(stats["rec_td"]) || truthy(stats["rush_td"]) || truthy(stats["pass_td"]),
		IsFieldGoal:      rawType == "field_goal",
		IsSafety:         truthy(stats["def_st_td"]),
		Players:          extractPlayers(stats, possession),
		DataSource:       model.SourceSleeper,
		RawData:          payload,
	}

	switch playType {
	case model.PlayPass:
		p.Pass = &model.PassDetail{
			IsComplete:     truthy(stats["rec"]) || truthy(stats["pass_cmp"]),
			IsInterception: truthy(stats["pass_int"]),
			AirYards:       nonZero(stats["pass_air_yards"]),
			YardsAfter:     nonZero(stats["rec_yac"]),
			Location:       coerce.String(meta["pass_location"]),
			Depth:          depth(dir),
		}
	case model.PlayRush:
		p.Rush = &model.RushDetail{
			Location: coerce.String(meta["run_location"]),
			Gap:      coerce.String(meta["run_gap"]),
		}
	}
	return p
}

// mergedStats flattens GraphQL play_stats into one map when the REST stats
// map is absent. The first reporting player becomes player_id.
func mergedStats(raw rawPlay) map[string]any {
	if len(raw.Stats) > 0 || len(raw.PlayStats) == 0 {
		if raw.Stats == nil {
			return map[string]any{}
		}
		return raw.Stats
	}
	out := map[string]any{}
	for _, ps := range raw.PlayStats {
		for k, v := range ps.Stats {
			if _, exists := out[k]; !exists {
				out[k] = v
			}
		}
		if _, ok := out["player_id"]; !ok && ps.PlayerID != nil {
			out["player_id"] = ps.PlayerID
			if ps.Player != nil {
				first := coerce.String(ps.Player["first_name"])
				last := coerce.String(ps.Player["last_name"])
				if name := joinName(first, last); name != "" {
					out["player_name"] = name
				}
			}
		}
	}
	return out
}

func extractPlayers(stats map[string]any, possession string) map[string]model.Player {
	players := map[string]model.Player{}
	if truthy(stats["pass_att"]) || truthy(stats["pass_cmp"]) {
		players[model.RolePasser] = model.Player{
			ID:       coerce.FirstString(stats["player_id"], stats["pass_player_id"]),
			Name:     coerce.FirstString(stats["player_name"], stats["pass_player_name"]),
			Position: "QB",
			Team:     possession,
		}
	}
	if truthy(stats["rec"]) {
		players[model.RoleReceiver] = model.Player{
			ID:       coerce.String(stats["receiver_id"]),
			Name:     coerce.String(stats["receiver_name"]),
			Position: orDefault(coerce.String(stats["receiver_position"]), "WR"),
			Team:     possession,
		}
	}
	if truthy(stats["rush_att"]) {
		players[model.RoleRusher] = model.Player{
			ID:       coerce.String(stats["player_id"]),
			Name:     coerce.String(stats["player_name"]),
			Position: orDefault(coerce.String(stats["position"]), "RB"),
			Team:     possession,
		}
	}
	return players
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

// truthy follows loose JSON truthiness: non-zero numbers, non-empty strings
// and true.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	default:
		f, ok := coerce.Float(v)
		return ok && f != 0
	}
}

func nonZero(v any) *float64 {
	f, ok := coerce.Float(v)
	if !ok || f == 0 {
		return nil
	}
	return &f
}

func nonNegative(f float64) int {
	if f < 0 {
		return 0
	}
	return int(f)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
