// Package field converts ESPN style ball locations into positions on a
// 0..100 field scale, where 0 is the possessing team's own goal line.
package field

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/huddle/internal/domain/coerce"
	"github.com/okian/huddle/internal/domain/pbp"
)

// Geometry is where a play started, ended and where the line to gain sits.
// A nil value means the payload carried nothing usable for it.
type Geometry struct {
	Start     *float64 `json:"start"`
	End       *float64 `json:"end"`
	FirstDown *float64 `json:"firstDown"`
}

// ComputeGeometry derives the geometry of play. Every non-nil output is
// clamped to [0, 100].
func ComputeGeometry(play pbp.Play) Geometry {
	var g Geometry

	var startYTE, endYTE *float64
	if play.Start != nil {
		startYTE = play.Start.YardsToEndzone
	}
	if play.End != nil {
		endYTE = play.End.YardsToEndzone
	}
	coordinate := coordinateX(play)

	g.Start = yardsToPercent(startYTE)
	if g.Start == nil {
		g.Start = coordinate
	}

	switch {
	case yardsToPercent(endYTE) != nil:
		g.End = yardsToPercent(endYTE)
	case g.Start != nil && play.StatYardage != nil:
		g.End = ptr(coerce.ClampPercent(*g.Start + *play.StatYardage))
	case coordinate != nil:
		g.End = coordinate
	default:
		g.End = g.Start
	}

	if g.Start != nil {
		if toGo := lineToGain(play.Start); toGo != 0 {
			g.FirstDown = ptr(coerce.ClampPercent(*g.Start + toGo))
		}
	}
	return g
}

// lineToGain prefers yardsToGo and falls back to distance. Zero means unknown.
func lineToGain(s *pbp.Situation) float64 {
	if s == nil {
		return 0
	}
	if s.YardsToGo != nil && *s.YardsToGo != 0 {
		return *s.YardsToGo
	}
	if s.Distance != nil {
		return *s.Distance
	}
	return 0
}

func yardsToPercent(yardsToEndzone *float64) *float64 {
	if yardsToEndzone == nil || math.IsNaN(*yardsToEndzone) || math.IsInf(*yardsToEndzone, 0) {
		return nil
	}
	return ptr(coerce.ClampPercent(100 - *yardsToEndzone))
}

func coordinateX(play pbp.Play) *float64 {
	if play.Coordinate == nil || play.Coordinate.X == nil {
		return nil
	}
	x := *play.Coordinate.X
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return ptr(coerce.ClampPercent(x))
}

// ResolvePossession names the team with the ball: the play's own team
// first, then the team on the starting situation, else "".
func ResolvePossession(play pbp.Play) string {
	if play.Team != nil && play.Team.Abbreviation != "" {
		return play.Team.Abbreviation
	}
	if play.Start != nil && play.Start.Team != nil {
		return play.Start.Team.Abbreviation
	}
	return ""
}

// ClockLabel renders the play clock as "M:SS". Unparseable parts count as 0.
func ClockLabel(play pbp.Play) string {
	return fmt.Sprintf("%d:%02d", leadingInt(play.Clock.Minutes), leadingInt(play.Clock.Seconds))
}

// leadingInt reads the integer prefix of v the way a lenient parser would:
// "7" and "07.5" give 7, "abc" gives 0.
func leadingInt(v any) int {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return int(n)
	case int:
		return n
	case string:
		s := strings.TrimSpace(n)
		end := 0
		for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && (s[end] == '-' || s[end] == '+')) {
			end++
		}
		i, err := strconv.Atoi(s[:end])
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

func ptr(f float64) *float64 { return &f }
