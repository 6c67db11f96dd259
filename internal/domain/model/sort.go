package model

import (
	"cmp"
	"slices"
)

// SortPlays orders plays by quarter, then game clock, then sequence, all
// ascending. The sort is stable and in place; the slice is returned for
// chaining.
func SortPlays(plays []StandardPlay) []StandardPlay {
	slices.SortStableFunc(plays, func(a, b StandardPlay) int {
		if c := cmp.Compare(a.Quarter, b.Quarter); c != 0 {
			return c
		}
		if c := cmp.Compare(a.GameClockSeconds, b.GameClockSeconds); c != 0 {
			return c
		}
		return cmp.Compare(a.Sequence, b.Sequence)
	})
	return plays
}
