// Package types contains view types shared by the service and its transports.
package types

import (
	"time"

	"github.com/okian/huddle/internal/domain/direction"
	"github.com/okian/huddle/internal/domain/field"
	"github.com/okian/huddle/internal/domain/model"
	"github.com/okian/huddle/internal/domain/pbp"
)

// Snapshot is the latest normalized play list held for a tracked game.
// Version increases by one whenever a refresh changes the plays.
type Snapshot struct {
	Game      model.GameInfo       `json:"game"`
	Source    string               `json:"source"`
	Plays     []model.StandardPlay `json:"plays"`
	Version   uint64               `json:"version"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// Count returns the number of plays in the snapshot.
func (s *Snapshot) Count() int {
	return len(s.Plays)
}

// LastSequence returns the sequence of the latest play, or 0.
func (s *Snapshot) LastSequence() int {
	if len(s.Plays) == 0 {
		return 0
	}
	return s.Plays[len(s.Plays)-1].Sequence
}

// Vector is a unit step on the field used to animate a play.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FieldPlay is one play of the live field view.
type FieldPlay struct {
	ID          string              `json:"id"`
	Sequence    int                 `json:"sequence"`
	Quarter     *int                `json:"quarter,omitempty"`
	Clock       string              `json:"clock"`
	Possession  string              `json:"possession"`
	Type        string              `json:"type,omitempty"`
	Description string              `json:"description,omitempty"`
	Geometry    field.Geometry      `json:"geometry"`
	Direction   direction.Direction `json:"direction"`
	Vector      Vector              `json:"vector"`
	ScoringPlay bool                `json:"scoringPlay"`
	HomeScore   *int                `json:"homeScore,omitempty"`
	AwayScore   *int                `json:"awayScore,omitempty"`
}

// FieldView is the field geometry view of a whole game.
type FieldView struct {
	Game  pbp.GameMeta `json:"game"`
	Plays []FieldPlay  `json:"plays"`
}

// NewFieldPlay combines geometry, possession, clock and direction for p.
func NewFieldPlay(p pbp.Play) FieldPlay {
	d := direction.Infer(p.Text, p.TypeText())
	x, y := direction.CategoryToVector(d.Category)
	out := FieldPlay{
		ID:          p.ID,
		Sequence:    p.Sequence,
		Quarter:     p.Quarter,
		Clock:       field.ClockLabel(p),
		Possession:  field.ResolvePossession(p),
		Type:        p.TypeText(),
		Description: p.Text,
		Geometry:    field.ComputeGeometry(p),
		Direction:   d,
		Vector:      Vector{X: x, Y: y},
		HomeScore:   p.HomeScore,
		AwayScore:   p.AwayScore,
	}
	if p.ScoringPlay != nil {
		out.ScoringPlay = *p.ScoringPlay
	}
	return out
}

// NewFieldView builds the field view of g.
func NewFieldView(g *pbp.Game) FieldView {
	view := FieldView{Game: g.Game, Plays: make([]FieldPlay, 0, len(g.Plays))}
	for _, p := range g.Plays {
		view.Plays = append(view.Plays, NewFieldPlay(p))
	}
	return view
}
