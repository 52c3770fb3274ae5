package models

// SlotsPerMatch is the number of seats at a table.
const SlotsPerMatch = 4

type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusCompleted MatchStatus = "completed"
)

// Match is one table of a round. A nil slot is a BYE.
type Match struct {
	ID          int                 `json:"id" db:"id"`
	RoundID     int                 `json:"round_id" db:"round_id"`
	TableNumber int                 `json:"table_number" db:"table_number"`
	PlayerIDs   [SlotsPerMatch]*int `json:"player_ids"`

	// Completed is populated by the service layer from result existence.
	Completed bool `json:"completed" db:"-"`
}

// Status returns the lifecycle state for the already derived Completed flag.
func (m *Match) Status() MatchStatus {
	if m.Completed {
		return MatchStatusCompleted
	}
	return MatchStatusPending
}

// Players returns the occupied participant ids in slot order.
func (m *Match) Players() []int {
	ids := make([]int, 0, SlotsPerMatch)
	for _, p := range m.PlayerIDs {
		if p != nil {
			ids = append(ids, *p)
		}
	}
	return ids
}

// SlotOf returns the slot index of participantID or -1.
func (m *Match) SlotOf(participantID int) int {
	for i, p := range m.PlayerIDs {
		if p != nil && *p == participantID {
			return i
		}
	}
	return -1
}

func (m *Match) HasPlayer(participantID int) bool {
	return m.SlotOf(participantID) >= 0
}

// Clone returns a deep copy, slots included.
func (m *Match) Clone() *Match {
	c := *m
	for i, p := range m.PlayerIDs {
		if p != nil {
			v := *p
			c.PlayerIDs[i] = &v
		}
	}
	return &c
}

// PlayerRef is a resolved slot. ID and Name are empty for a BYE.
type PlayerRef struct {
	Slot   int     `json:"slot"`
	ID     *int    `json:"id"`
	Name   string  `json:"name"`
	Bye    bool    `json:"bye"`
	Result *Result `json:"result,omitempty"`
}

// MatchView is a match with resolved player names.
type MatchView struct {
	ID          int         `json:"id"`
	RoundID     int         `json:"round_id"`
	RoundNumber int         `json:"round_number"`
	TableNumber int         `json:"table_number"`
	Completed   bool        `json:"completed"`
	Status      MatchStatus `json:"status"`
	Players     []PlayerRef `json:"players"`
}

// MatchDetail is a match with its results.
type MatchDetail struct {
	MatchView
	Results []*Result `json:"results"`
}

// RoundMatches is the response for a round's match listing.
type RoundMatches struct {
	Round   int         `json:"round"`
	RoundID int         `json:"round_id"`
	Matches []MatchView `json:"matches"`
}
