package pbp

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/okian/huddle/internal/domain/coerce"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Decode parses a proxy payload. Two shapes are accepted: an already
// normalized {game, plays} document, or a raw ESPN event with
// competitions and drives (or a flat plays list). Plays without an id or a
// numeric sequence are dropped; the rest are ordered by sequence.
func Decode(data []byte) (*Game, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrEmptyPayload
	}
	var root map[string]any
	if err := json.Unmarshal(trimmed, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	return FromRecord(root)
}

// FromRecord normalizes an already decoded payload.
func FromRecord(root map[string]any) (*Game, error) {
	if root == nil {
		return nil, ErrEmptyPayload
	}

	var g Game
	meta, normalized := record(root["game"])
	if normalized && root["competitions"] == nil && root["drives"] == nil {
		g.Game = metaFromNormalized(meta)
		g.Plays = normalizePlays(list(root["plays"]))
	} else {
		g.Game = metaFromEvent(root)
		g.Plays = normalizePlays(eventPlays(root))
	}

	if g.Game.ID == "" && len(g.Plays) == 0 {
		return nil, ErrEmptyPayload
	}
	return &g, nil
}

func metaFromNormalized(meta map[string]any) GameMeta {
	out := GameMeta{
		ID:       coerce.FirstString(meta["id"]),
		Date:     coerce.String(meta["date"]),
		Quarter:  coerce.IntPtr(meta["quarter"]),
		Clock:    coerce.String(meta["clock"]),
		HomeTeam: normalizeTeam(meta["homeTeam"]),
		AwayTeam: normalizeTeam(meta["awayTeam"]),
	}
	if status, ok := record(meta["status"]); ok {
		out.Status = statusText(status)
	} else {
		out.Status = coerce.String(meta["status"])
	}
	return out
}

func metaFromEvent(root map[string]any) GameMeta {
	out := GameMeta{
		ID:   coerce.FirstString(root["id"]),
		Date: coerce.String(root["date"]),
	}

	var competition map[string]any
	for _, entry := range list(root["competitions"]) {
		if c, ok := record(entry); ok && list(c["competitors"]) != nil {
			competition = c
			break
		}
	}
	if competition == nil {
		return out
	}

	if status, ok := record(competition["status"]); ok {
		out.Status = statusText(status)
		out.Clock = coerce.FirstString(stringOnly(status["displayClock"]), stringOnly(status["clock"]))
		if period, ok := record(status["period"]); ok {
			out.Quarter = coerce.IntPtr(period["number"])
		} else {
			out.Quarter = coerce.IntPtr(status["period"])
		}
	}

	for _, entry := range list(competition["competitors"]) {
		c, ok := record(entry)
		if !ok {
			continue
		}
		switch coerce.String(c["homeAway"]) {
		case "home":
			if out.HomeTeam == nil {
				out.HomeTeam = normalizeTeam(c)
			}
		case "away":
			if out.AwayTeam == nil {
				out.AwayTeam = normalizeTeam(c)
			}
		}
	}
	return out
}

// eventPlays flattens drives[].plays (or drives[].plays.items) and falls back
// to the top level plays list when no drive carried any.
func eventPlays(root map[string]any) []any {
	var out []any
	for _, d := range list(root["drives"]) {
		drive, ok := record(d)
		if !ok {
			continue
		}
		if plays := list(drive["plays"]); plays != nil {
			out = append(out, plays...)
		} else if wrapped, ok := record(drive["plays"]); ok {
			out = append(out, list(wrapped["items"])...)
		}
	}
	if len(out) == 0 {
		out = list(root["plays"])
	}
	return out
}

func statusText(status map[string]any) string {
	if t, ok := record(status["type"]); ok {
		if s := coerce.FirstString(stringOnly(t["state"]), stringOnly(t["description"]), stringOnly(t["detail"]), stringOnly(t["shortDetail"])); s != "" {
			return s
		}
	} else if s, ok := status["type"].(string); ok {
		return s
	}
	return coerce.FirstString(stringOnly(status["name"]), stringOnly(status["text"]))
}

func normalizeTeam(v any) *Team {
	team, ok := record(v)
	if !ok {
		return nil
	}
	source := team
	if nested, ok := record(team["team"]); ok {
		source = nested
	}

	score := team["score"]
	if _, has := team["score"]; !has {
		score = source["score"]
	}

	return &Team{
		ID:           coerce.String(source["id"]),
		Name:         coerce.FirstString(stringOnly(source["displayName"]), stringOnly(source["shortDisplayName"]), stringOnly(source["name"])),
		Abbreviation: coerce.String(stringOnly(source["abbreviation"])),
		Score:        coerce.FloatPtr(score),
	}
}

func normalizePlays(raw []any) []Play {
	plays := make([]Play, 0, len(raw))
	for _, entry := range raw {
		if p, ok := normalizePlay(entry); ok {
			plays = append(plays, p)
		}
	}
	slices.SortStableFunc(plays, func(a, b Play) int { return a.Sequence - b.Sequence })
	return plays
}

func normalizePlay(v any) (Play, bool) {
	p, ok := record(v)
	if !ok {
		return Play{}, false
	}

	id := coerce.FirstString(p["id"], p["uid"])
	if id == "" {
		return Play{}, false
	}

	var candidate any
	for _, key := range []string{"sequence", "sequence_number", "sequenceNumber"} {
		if p[key] != nil {
			candidate = p[key]
			break
		}
	}
	if candidate == nil {
		if n, isNum := p["id"].(float64); isNum {
			candidate = n
		}
	}
	sequence, ok := coerce.Int(candidate)
	if !ok {
		return Play{}, false
	}

	out := Play{
		ID:           id,
		Sequence:     sequence,
		Text:         coerce.String(stringOnly(p["text"])),
		ShortText:    coerce.String(stringOnly(p["shortText"])),
		AltText:      coerce.String(stringOnly(p["altText"])),
		Quarter:      coerce.IntPtr(p["quarter"]),
		Clock:        normalizeClock(p["clock"]),
		HomeScore:    coerce.IntPtr(p["homeScore"]),
		AwayScore:    coerce.IntPtr(p["awayScore"]),
		ScoreValue:   coerce.IntPtr(p["scoreValue"]),
		StatYardage:  coerce.FloatPtr(p["statYardage"]),
		Start:        normalizeSituation(p["start"]),
		End:          normalizeSituation(p["end"]),
		Team:         normalizeTeam(p["team"]),
		Participants: normalizeParticipants(p["participants"]),
	}

	if out.Quarter == nil {
		if period, ok := record(p["period"]); ok {
			out.Quarter = coerce.IntPtr(period["number"])
		}
	}

	switch sp := p["scoringPlay"].(type) {
	case bool:
		out.ScoringPlay = &sp
	case string:
		b := strings.EqualFold(sp, "true")
		out.ScoringPlay = &b
	}

	if t, ok := record(p["type"]); ok {
		out.Type = &PlayType{
			ID:           coerce.String(t["id"]),
			Text:         coerce.String(stringOnly(t["text"])),
			ShortText:    coerce.String(stringOnly(t["shortText"])),
			Abbreviation: coerce.String(stringOnly(t["abbreviation"])),
			Description:  coerce.String(stringOnly(t["description"])),
			Slug:         coerce.String(stringOnly(t["slug"])),
		}
	}

	if c, ok := record(p["coordinate"]); ok {
		out.Coordinate = &Coordinate{X: coerce.FloatPtr(c["x"]), Y: coerce.FloatPtr(c["y"])}
	}

	return out, true
}

func normalizeClock(v any) Clock {
	c, ok := record(v)
	if !ok {
		return Clock{}
	}
	display := coerce.FirstString(stringOnly(c["displayValue"]), stringOnly(c["display_value"]))

	var fallbackMinutes, fallbackSeconds any
	if display != "" {
		parts := strings.Split(display, ":")
		fallbackMinutes = parts[0]
		if len(parts) > 1 {
			fallbackSeconds = parts[1]
		}
	}

	minutes := c["minutes"]
	if minutes == nil {
		minutes = fallbackMinutes
	}
	seconds := c["seconds"]
	if seconds == nil {
		seconds = fallbackSeconds
	}
	return Clock{
		Minutes:      sanitizeClockValue(minutes),
		Seconds:      sanitizeClockValue(seconds),
		DisplayValue: display,
	}
}

func sanitizeClockValue(v any) any {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil
		}
		return n
	case string:
		return strings.TrimSpace(n)
	default:
		return nil
	}
}

func normalizeSituation(v any) *Situation {
	s, ok := record(v)
	if !ok {
		return nil
	}
	out := &Situation{
		Down:                  coerce.FloatPtr(s["down"]),
		Distance:              coerce.FloatPtr(s["distance"]),
		YardsToGo:             coerce.FloatPtr(s["yardsToGo"]),
		YardsToEndzone:        coerce.FloatPtr(s["yardsToEndzone"]),
		Team:                  normalizeTeam(s["team"]),
		PossessionText:        coerce.String(stringOnly(s["possessionText"])),
		ShortDownDistanceText: coerce.String(stringOnly(s["shortDownDistanceText"])),
		DownDistanceText:      coerce.String(stringOnly(s["downDistanceText"])),
	}
	if rz, ok := s["isRedZone"].(bool); ok {
		out.IsRedZone = &rz
	}
	return out
}

func normalizeParticipants(v any) []Participant {
	raw := list(v)
	out := make([]Participant, 0, len(raw))
	for _, entry := range raw {
		p, ok := record(entry)
		if !ok {
			continue
		}
		stats := map[string]float64{}
		if rawStats, ok := record(p["stats"]); ok {
			for key, value := range rawStats {
				if f, ok := coerce.Float(value); ok {
					stats[key] = f
				}
			}
		}
		out = append(out, Participant{
			ID:       coerce.String(p["id"]),
			Name:     coerce.String(stringOnly(p["name"])),
			Position: coerce.String(stringOnly(p["position"])),
			Team:     coerce.String(stringOnly(p["team"])),
			Stats:    stats,
		})
	}
	return out
}

func record(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

func list(v any) []any {
	l, _ := v.([]any)
	return l
}

// stringOnly hides non-string values from coerce.String, which would
// otherwise format numbers.
func stringOnly(v any) any {
	if s, ok := v.(string); ok {
		return s
	}
	return nil
}
