package model

import (
	"fmt"
	"strings"
	"time"
)

// Game statuses shared by the providers.
const (
	StatusPreGame    = "pre_game"
	StatusInProgress = "in_progress"
	StatusComplete   = "complete"
)

// GameInfo identifies the game a caller wants plays for.
type GameInfo struct {
	GameID     string    `json:"gameId"`
	Week       *int      `json:"week,omitempty"`
	Season     string    `json:"season"`
	SeasonType string    `json:"seasonType"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status"`
	HomeTeam   string    `json:"homeTeam"`
	AwayTeam   string    `json:"awayTeam"`
}

// Validate requires a game id.
func (g GameInfo) Validate() error {
	if strings.TrimSpace(g.GameID) == "" {
		return fmt.Errorf("%w: missing game id", ErrInvalidGame)
	}
	return nil
}

// IsLive reports whether the game is in progress or about to start.
func (g GameInfo) IsLive() bool {
	switch strings.ToLower(g.Status) {
	case StatusInProgress, StatusPreGame:
		return true
	}
	return false
}
