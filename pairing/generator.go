package pairing

import (
	"context"
	"errors"
	"sort"

	"github.com/Dosada05/swiss-tables/models"
)

var ErrNoEntrants = errors.New("pairing: no active participants")

// Entrant is an active participant together with its current score.
type Entrant struct {
	ID     int
	Points int
	Wins   int
}

// Table is one generated table. A nil slot is a BYE.
type Table struct {
	TableNumber int
	Slots       [models.SlotsPerMatch]*int
}

type GenerateParams struct {
	Entrants []Entrant
	History  History
}

type Generator interface {
	Generate(ctx context.Context, params GenerateParams) ([]*Table, error)

	GetName() string
}

// RankEntrants orders entrants by points desc, wins desc, then id asc.
// The input slice is not modified.
func RankEntrants(entrants []Entrant) []Entrant {
	ranked := make([]Entrant, len(entrants))
	copy(ranked, entrants)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.ID < b.ID
	})
	return ranked
}

type pairKey struct{ lo, hi int }

func newPairKey(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// History counts how often two participants shared a table.
type History map[pairKey]int

// NewHistory builds the pair history from every match played so far.
func NewHistory(matches []*models.Match) History {
	h := make(History)
	for _, m := range matches {
		h.Add(m.Players())
	}
	return h
}

// Add records one table.
func (h History) Add(players []int) {
	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			h[newPairKey(players[i], players[j])]++
		}
	}
}

func (h History) Count(a, b int) int {
	if h == nil {
		return 0
	}
	return h[newPairKey(a, b)]
}

// Repeats returns the number of earlier meetings among the given players.
func (h History) Repeats(players []int) int {
	total := 0
	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			total += h.Count(players[i], players[j])
		}
	}
	return total
}
