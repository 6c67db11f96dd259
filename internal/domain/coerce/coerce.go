// Package coerce turns loosely typed upstream JSON values into the numbers,
// strings and clock figures the play model needs.
//
// Upstream feeds send the same field as a number in one payload and as a
// numeric string in the next, so every helper here accepts `any` and never
// panics.
package coerce

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// QuarterSeconds is the length of a regulation quarter.
const QuarterSeconds = 15 * 60

// Season types after normalization.
const (
	SeasonRegular    = "regular"
	SeasonPreseason  = "preseason"
	SeasonPostseason = "postseason"
)

// Float reports v as a finite float64. Numbers and numeric strings qualify;
// blank strings, NaN, infinities and every other type do not.
func Float(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// SafeNumber returns v as a finite float64 or fallback.
func SafeNumber(v any, fallback float64) float64 {
	if f, ok := Float(v); ok {
		return f
	}
	return fallback
}

// Int reports v truncated to an int when it is a finite number.
func Int(v any) (int, bool) {
	f, ok := Float(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// IntPtr returns a pointer to the truncated value of v, or nil.
func IntPtr(v any) *int {
	i, ok := Int(v)
	if !ok {
		return nil
	}
	return &i
}

// FloatPtr returns a pointer to the value of v, or nil.
func FloatPtr(v any) *float64 {
	f, ok := Float(v)
	if !ok {
		return nil
	}
	return &f
}

// String returns v when it is a string and "" otherwise. Numbers are
// formatted so that numeric identifiers survive.
func String(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return ""
	}
}

// Bool accepts true and the string "true".
func Bool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(strings.TrimSpace(b), "true")
	default:
		return false
	}
}

// FirstString returns the first non-blank string among values.
func FirstString(values ...any) string {
	for _, v := range values {
		if s := strings.TrimSpace(String(v)); s != "" {
			return s
		}
	}
	return ""
}

// Clamp bounds v to [lo, hi]. NaN clamps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampPercent bounds v to the 0..100 field scale.
func ClampPercent(v float64) float64 {
	return Clamp(v, 0, 100)
}

// NormalizeSeasonType maps provider spellings onto regular, preseason and
// postseason. Blank input means regular; unknown values are lowercased.
func NormalizeSeasonType(s string) string {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "", "reg", SeasonRegular:
		return SeasonRegular
	case "pre", SeasonPreseason:
		return SeasonPreseason
	case "post", "playoff", "playoffs", SeasonPostseason:
		return SeasonPostseason
	default:
		return v
	}
}

// ParseGameClock converts a "M:SS" clock to seconds. Anything that is not
// two numeric parts yields 0.
func ParseGameClock(clock string) int {
	secs, _ := LookupGameClock(clock)
	return secs
}

// LookupGameClock is ParseGameClock that also reports whether clock held
// a readable "M:SS" value.
func LookupGameClock(clock string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 {
		return 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	s, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	return m*60 + s, true
}

// ClockSeconds adds separately reported minutes and seconds remaining.
// It reports false when neither part is numeric; a single missing part
// counts as 0.
func ClockSeconds(minutes, seconds any) (int, bool) {
	m, okM := Float(minutes)
	s, okS := Float(seconds)
	if !okM && !okS {
		return 0, false
	}
	return int(math.Max(0, m*60+s)), true
}

// ElapsedOrStart is ElapsedInQuarter for a clock that may be unknown.
// Plays without a clock are placed at the start of their quarter.
func ElapsedOrStart(remaining int, known bool) int {
	if !known {
		return 0
	}
	return ElapsedInQuarter(remaining)
}

// ElapsedInQuarter converts seconds remaining on the game clock into seconds
// elapsed since the start of the quarter, so that ascending order is
// chronological within a quarter.
func ElapsedInQuarter(remaining int) int {
	return int(Clamp(float64(QuarterSeconds-remaining), 0, QuarterSeconds))
}
