// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"fmt"
)

// PlayType is the closed set of play classifications.
type PlayType string

// Play types.
const (
	PlayRush       PlayType = "rush"
	PlayPass       PlayType = "pass"
	PlayPunt       PlayType = "punt"
	PlayKickoff    PlayType = "kickoff"
	PlayFieldGoal  PlayType = "field_goal"
	PlayExtraPoint PlayType = "extra_point"
	PlayTwoPoint   PlayType = "two_point"
	PlayTimeout    PlayType = "timeout"
	PlayPenalty    PlayType = "penalty"
	PlayUnknown    PlayType = "unknown"
)

// Valid reports whether t is one of the known play types.
func (t PlayType) Valid() bool {
	switch t {
	case PlayRush, PlayPass, PlayPunt, PlayKickoff, PlayFieldGoal,
		PlayExtraPoint, PlayTwoPoint, PlayTimeout, PlayPenalty, PlayUnknown:
		return true
	}
	return false
}

// DirectionCategory is the coarse lateral direction of a play.
type DirectionCategory string

// Direction categories. The empty category means unknown.
const (
	DirectionLeft   DirectionCategory = "left"
	DirectionMiddle DirectionCategory = "middle"
	DirectionRight  DirectionCategory = "right"
)

// DataSource records which provider produced a play.
type DataSource string

// Data sources.
const (
	SourceSportsDataIO DataSource = "sportsdataio"
	SourceESPN         DataSource = "espn"
	SourceSleeper      DataSource = "sleeper"
	SourceMerged       DataSource = "merged"
)

// Player roles used as keys of StandardPlay.Players.
const (
	RolePasser   = "passer"
	RoleReceiver = "receiver"
	RoleRusher   = "rusher"
	RoleKicker   = "kicker"
)

// Direction describes where a play went.
type Direction struct {
	Category DirectionCategory `json:"category,omitempty"`
	IsDeep   bool              `json:"isDeep"`
	IsShort  bool              `json:"isShort"`
}

// PassDetail carries pass specific fields.
type PassDetail struct {
	IsComplete     bool     `json:"isComplete"`
	IsInterception bool     `json:"isInterception"`
	AirYards       *float64 `json:"airYards,omitempty"`
	YardsAfter     *float64 `json:"yardsAfterCatch,omitempty"`
	Location       string   `json:"location,omitempty"`
	Depth          string   `json:"depth,omitempty"`
}

// RushDetail carries rush specific fields.
type RushDetail struct {
	Location string `json:"location,omitempty"`
	Gap      string `json:"gap,omitempty"`
}

// Player is a participant reference.
type Player struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Position     string `json:"position,omitempty"`
	Team         string `json:"team,omitempty"`
	JerseyNumber string `json:"jerseyNumber,omitempty"`
}

// Penalty is an optional penalty record.
type Penalty struct {
	Description string  `json:"description"`
	Yards       *int    `json:"yards,omitempty"`
	Team        string  `json:"team,omitempty"`
	Player      *Player `json:"player,omitempty"`
}

// StandardPlay is the provider independent play record.
//
// Field positions are percentages of the field from the possessing team's
// own goal line (0) to the opponent's goal line (100). GameClockSeconds
// counts up from the start of the quarter.
type StandardPlay struct {
	ID               string            `json:"id"`
	GameID           string            `json:"gameId"`
	Sequence         int               `json:"sequence"`
	Quarter          int               `json:"quarter"`
	GameClockSeconds int               `json:"gameClockSeconds"`
	HomeTeam         string            `json:"homeTeam"`
	AwayTeam         string            `json:"awayTeam"`
	Possession       string            `json:"possession"`
	PlayType         PlayType          `json:"playType"`
	Description      string            `json:"description"`
	StartFieldPos    float64           `json:"startFieldPosition"`
	EndFieldPos      float64           `json:"endFieldPosition"`
	YardsGained      float64           `json:"yardsGained"`
	Down             *int              `json:"down"`
	YardsToGo        *int              `json:"yardsToGo"`
	YardsToEndzone   float64           `json:"yardsToEndzone"`
	Direction        Direction         `json:"direction"`
	HomeScore        int               `json:"homeScore"`
	AwayScore        int               `json:"awayScore"`
	IsTouchdown      bool              `json:"isTouchdown"`
	IsFieldGoal      bool              `json:"isFieldGoal"`
	IsSafety         bool              `json:"isSafety"`
	Pass             *PassDetail       `json:"pass,omitempty"`
	Rush             *RushDetail       `json:"rush,omitempty"`
	Players          map[string]Player `json:"players,omitempty"`
	Penalties        []Penalty         `json:"penalties,omitempty"`
	DataSource       DataSource        `json:"dataSource"`
	RawData          json.RawMessage   `json:"rawData,omitempty"`
}

// Validate checks the invariants every adapter output must hold.
func (p *StandardPlay) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidPlay)
	}
	if p.Quarter < 1 {
		return fmt.Errorf("%w: play %s: quarter %d", ErrInvalidPlay, p.ID, p.Quarter)
	}
	if !p.PlayType.Valid() {
		return fmt.Errorf("%w: play %s: play type %q", ErrInvalidPlay, p.ID, p.PlayType)
	}
	if p.StartFieldPos < 0 || p.StartFieldPos > 100 || p.EndFieldPos < 0 || p.EndFieldPos > 100 {
		return fmt.Errorf("%w: play %s: field position out of range", ErrInvalidPlay, p.ID)
	}
	if p.HomeScore < 0 || p.AwayScore < 0 {
		return fmt.Errorf("%w: play %s: negative score", ErrInvalidPlay, p.ID)
	}
	flags := 0
	for _, set := range []bool{p.IsTouchdown, p.IsFieldGoal, p.IsSafety} {
		if set {
			flags++
		}
	}
	if flags > 1 {
		return fmt.Errorf("%w: play %s", ErrConflictingScoreFlags, p.ID)
	}
	return nil
}
