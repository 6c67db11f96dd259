// Package direction classifies a play's direction from its free text
// description. It is a keyword heuristic, not a geometry computation.
package direction

import (
	"regexp"
	"strings"

	"github.com/okian/huddle/internal/domain/model"
)

// Kind is the coarse play family used when animating a play.
type Kind string

const (
	KindRush    Kind = "rush"
	KindPass    Kind = "pass"
	KindKick    Kind = "kick"
	KindSpecial Kind = "special"
	KindUnknown Kind = "unknown"
)

// Direction is the inferred direction metadata for one play.
type Direction struct {
	Kind     Kind                    `json:"kind"`
	Category model.DirectionCategory `json:"category"`
	IsDeep   bool                    `json:"isDeep"`
	IsShort  bool                    `json:"isShort"`
}

// Model returns the subset stored on a StandardPlay.
func (d Direction) Model() model.Direction {
	return model.Direction{Category: d.Category, IsDeep: d.IsDeep, IsShort: d.IsShort}
}

// Checked in order; the first match wins.
var categoryPatterns = []struct {
	re       *regexp.Regexp
	category model.DirectionCategory
}{
	{regexp.MustCompile(`(?i)(left|outside left|left sideline|short left|deep left|left tackle|left guard|left end)`), model.DirectionLeft},
	{regexp.MustCompile(`(?i)(up the middle|middle|center|between the tackles|guard)`), model.DirectionMiddle},
	{regexp.MustCompile(`(?i)(right|outside right|right sideline|short right|deep right|right tackle|right guard|right end)`), model.DirectionRight},
}

var (
	deepPattern  = regexp.MustCompile(`(?i)(deep|long)`)
	shortPattern = regexp.MustCompile(`(?i)(short|screen|shovel|quick)`)
)

// Infer classifies description. playType, when known, decides the kind
// before the description is consulted.
func Infer(description, playType string) Direction {
	return Direction{
		Kind:     detectKind(playType, description),
		Category: detectCategory(description),
		IsDeep:   description != "" && deepPattern.MatchString(description),
		IsShort:  description != "" && shortPattern.MatchString(description),
	}
}

func detectKind(playType, description string) Kind {
	t := strings.ToLower(playType)
	switch {
	case strings.Contains(t, "rush"), strings.Contains(t, "kneel"):
		return KindRush
	case strings.Contains(t, "pass"), strings.Contains(t, "shovel"), strings.Contains(t, "spike"):
		return KindPass
	case strings.Contains(t, "kick"), strings.Contains(t, "punt"), strings.Contains(t, "field_goal"):
		return KindKick
	case strings.Contains(t, "timeout"), strings.Contains(t, "period"):
		return KindSpecial
	}

	d := strings.ToLower(description)
	switch {
	case d == "":
		return KindUnknown
	case strings.Contains(d, "pass"):
		return KindPass
	case strings.Contains(d, "rush"), strings.Contains(d, "run"), strings.Contains(d, "kneel"):
		return KindRush
	case strings.Contains(d, "kick"), strings.Contains(d, "punt"), strings.Contains(d, "field goal"):
		return KindKick
	}
	return KindUnknown
}

func detectCategory(description string) model.DirectionCategory {
	if description == "" {
		return model.DirectionMiddle
	}
	for _, p := range categoryPatterns {
		if p.re.MatchString(description) {
			return p.category
		}
	}
	return model.DirectionMiddle
}

// CategoryToVector maps a category onto a unit step for animation: x is the
// lateral component and y points downfield.
func CategoryToVector(category model.DirectionCategory) (x, y float64) {
	switch category {
	case model.DirectionLeft:
		return -1, 1
	case model.DirectionRight:
		return 1, 1
	default:
		return 0, 1
	}
}
