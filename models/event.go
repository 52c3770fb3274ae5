package models

import "time"

type EventType string

const (
	EventRoundGenerated        EventType = "round_generated"
	EventRoundDeleted          EventType = "round_deleted"
	EventResultsSubmitted      EventType = "results_submitted"
	EventResultCleared         EventType = "result_cleared"
	EventPlayersSwapped        EventType = "players_swapped"
	EventParticipantRegistered EventType = "participant_registered"
	EventTournamentReset       EventType = "tournament_reset"
)

// Event is published after a committed change.
type Event struct {
	Type          EventType `json:"type"`
	RoundID       int       `json:"round_id,omitempty"`
	RoundNumber   int       `json:"round_number,omitempty"`
	MatchIDs      []int     `json:"match_ids,omitempty"`
	ParticipantID int       `json:"participant_id,omitempty"`
	At            time.Time `json:"at"`
}
