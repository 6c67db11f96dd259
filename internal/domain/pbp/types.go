// Package pbp models ESPN style play-by-play payloads as served by the
// ESPN data proxy, after tolerant normalization.
package pbp

// Team is a team reference attached to a game or play.
type Team struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name,omitempty"`
	Abbreviation string   `json:"abbreviation,omitempty"`
	Score        *float64 `json:"score,omitempty"`
}

// Clock holds the remaining game clock. Minutes and Seconds keep the
// upstream representation: a string, a float64 or nil.
type Clock struct {
	Minutes      any    `json:"minutes"`
	Seconds      any    `json:"seconds"`
	DisplayValue string `json:"displayValue,omitempty"`
}

// Situation is the down and distance state at the start or end of a play.
type Situation struct {
	Down                  *float64 `json:"down,omitempty"`
	Distance              *float64 `json:"distance,omitempty"`
	YardsToGo             *float64 `json:"yardsToGo,omitempty"`
	YardsToEndzone        *float64 `json:"yardsToEndzone,omitempty"`
	Team                  *Team    `json:"team,omitempty"`
	PossessionText        string   `json:"possessionText,omitempty"`
	ShortDownDistanceText string   `json:"shortDownDistanceText,omitempty"`
	DownDistanceText      string   `json:"downDistanceText,omitempty"`
	IsRedZone             *bool    `json:"isRedZone,omitempty"`
}

// PlayType is ESPN's play classification.
type PlayType struct {
	ID           string `json:"id,omitempty"`
	Text         string `json:"text,omitempty"`
	ShortText    string `json:"shortText,omitempty"`
	Abbreviation string `json:"abbreviation,omitempty"`
	Description  string `json:"description,omitempty"`
	Slug         string `json:"slug,omitempty"`
}

// Participant is an athlete involved in a play with numeric stats only.
type Participant struct {
	ID       string             `json:"id,omitempty"`
	Name     string             `json:"name,omitempty"`
	Position string             `json:"position,omitempty"`
	Team     string             `json:"team,omitempty"`
	Stats    map[string]float64 `json:"stats"`
}

// Coordinate is a field location already expressed on the 0..100 scale.
type Coordinate struct {
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
}

// Play is one normalized play-by-play entry.
type Play struct {
	ID           string        `json:"id"`
	Sequence     int           `json:"sequence"`
	Type         *PlayType     `json:"type,omitempty"`
	Text         string        `json:"text,omitempty"`
	ShortText    string        `json:"shortText,omitempty"`
	AltText      string        `json:"altText,omitempty"`
	Quarter      *int          `json:"quarter,omitempty"`
	Clock        Clock         `json:"clock"`
	HomeScore    *int          `json:"homeScore,omitempty"`
	AwayScore    *int          `json:"awayScore,omitempty"`
	ScoringPlay  *bool         `json:"scoringPlay,omitempty"`
	ScoreValue   *int          `json:"scoreValue,omitempty"`
	StatYardage  *float64      `json:"statYardage,omitempty"`
	Start        *Situation    `json:"start,omitempty"`
	End          *Situation    `json:"end,omitempty"`
	Team         *Team         `json:"team,omitempty"`
	Participants []Participant `json:"participants"`
	Coordinate   *Coordinate   `json:"coordinate,omitempty"`
}

// TypeText returns the play type text or "".
func (p *Play) TypeText() string {
	if p.Type == nil {
		return ""
	}
	return p.Type.Text
}

// GameMeta summarizes the game the plays belong to.
type GameMeta struct {
	ID       string `json:"id"`
	Date     string `json:"date,omitempty"`
	Status   string `json:"status,omitempty"`
	Quarter  *int   `json:"quarter,omitempty"`
	Clock    string `json:"clock,omitempty"`
	HomeTeam *Team  `json:"homeTeam,omitempty"`
	AwayTeam *Team  `json:"awayTeam,omitempty"`
}

// Game is a normalized proxy payload.
type Game struct {
	Game  GameMeta `json:"game"`
	Plays []Play   `json:"plays"`
}
