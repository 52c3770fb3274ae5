package models

// Standing is a derived ranking row; it is never persisted.
type Standing struct {
	Rank          int    `json:"rank"`
	ParticipantID int    `json:"participant_id"`
	Name          string `json:"name"`
	Active        bool   `json:"active"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Draws         int    `json:"draws"`
	Points        int    `json:"points"`
}

// TotalStats is the summary row of a player's match history.
type TotalStats struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
	Points int `json:"points"`
}

// PlayerMatch is one entry of a participant's history.
type PlayerMatch struct {
	MatchID     int         `json:"match_id"`
	RoundID     int         `json:"round_id"`
	RoundNumber int         `json:"round_number"`
	TableNumber int         `json:"table_number"`
	Completed   bool        `json:"completed"`
	Players     []PlayerRef `json:"players"`
	Opponents   []PlayerRef `json:"opponents"`
	Result      *Result     `json:"result,omitempty"`
}

type PlayerMatches struct {
	ParticipantID int           `json:"participant_id"`
	Name          string        `json:"name"`
	Rank          int           `json:"rank"`
	Matches       []PlayerMatch `json:"matches"`
	TotalStats    TotalStats    `json:"total_stats"`
}

// StandingsSnapshot is the exported document.
type StandingsSnapshot struct {
	GeneratedAt string      `json:"generated_at"`
	RoundCount  int         `json:"round_count"`
	Standings   []*Standing `json:"standings"`
}
