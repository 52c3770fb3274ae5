package pairing

import (
	"context"

	"github.com/Dosada05/swiss-tables/models"
)

// DefaultWindow is how many of the next-ranked players are considered as
// tablemates for the highest-ranked unseated player.
const DefaultWindow = 8

// SwissGenerator seats players in standings order, four to a table. For
// every table the highest-ranked unseated player is fixed and three
// tablemates are picked from the following Window players, minimizing
// first the number of repeat pairings and then the total rank distance.
// Remaining ties go to the lexicographically first choice, so equal input
// always yields equal tables.
type SwissGenerator struct {
	Window int
}

func NewSwissGenerator() Generator {
	return &SwissGenerator{Window: DefaultWindow}
}

func (g *SwissGenerator) GetName() string {
	return "Swiss4"
}

func (g *SwissGenerator) Generate(ctx context.Context, params GenerateParams) ([]*Table, error) {
	if len(params.Entrants) == 0 {
		return nil, ErrNoEntrants
	}
	window := g.Window
	if window < models.SlotsPerMatch-1 {
		window = models.SlotsPerMatch - 1
	}

	ranked := RankEntrants(params.Entrants)
	remaining := make([]int, len(ranked))
	for i, e := range ranked {
		remaining[i] = e.ID
	}

	tables := make([]*Table, 0, (len(remaining)+models.SlotsPerMatch-1)/models.SlotsPerMatch)
	for len(remaining) > models.SlotsPerMatch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		picked := pickTablemates(remaining, window, params.History)

		seated := []int{remaining[0]}
		rest := make([]int, 0, len(remaining)-models.SlotsPerMatch)
		next := 0
		for idx := 1; idx < len(remaining); idx++ {
			if next < len(picked) && picked[next] == idx {
				seated = append(seated, remaining[idx])
				next++
				continue
			}
			rest = append(rest, remaining[idx])
		}
		tables = append(tables, newTable(len(tables)+1, seated))
		remaining = rest
	}
	// 1..4 players left: the last table, short tables get BYEs.
	tables = append(tables, newTable(len(tables)+1, remaining))
	return tables, nil
}

// pickTablemates returns three ascending indexes into remaining (all > 0).
func pickTablemates(remaining []int, window int, history History) []int {
	anchor := remaining[0]
	limit := 1 + window
	if limit > len(remaining) {
		limit = len(remaining)
	}

	var best []int
	bestRepeats, bestGap := -1, -1
	for i := 1; i < limit; i++ {
		for j := i + 1; j < limit; j++ {
			for k := j + 1; k < limit; k++ {
				repeats := history.Repeats([]int{anchor, remaining[i], remaining[j], remaining[k]})
				gap := i + j + k
				if best == nil || repeats < bestRepeats || (repeats == bestRepeats && gap < bestGap) {
					best = []int{i, j, k}
					bestRepeats, bestGap = repeats, gap
				}
			}
		}
	}
	return best
}

func newTable(number int, players []int) *Table {
	t := &Table{TableNumber: number}
	for i, id := range players {
		v := id
		t.Slots[i] = &v
	}
	return t
}
