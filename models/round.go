package models

import "time"

type Round struct {
	ID          int       `json:"id" db:"id"`
	RoundNumber int       `json:"round_number" db:"round_number"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// RoundSummary is the list view of a round. CanDelete is derived from result
// existence on every read and never stored.
type RoundSummary struct {
	ID          int  `json:"id"`
	RoundNumber int  `json:"round_number"`
	CanDelete   bool `json:"can_delete"`
}

// GeneratedRound is returned after a successful generation.
type GeneratedRound struct {
	Round   int      `json:"round"`
	RoundID int      `json:"round_id"`
	Matches []*Match `json:"matches"`
}
