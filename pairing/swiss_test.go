package pairing

import (
	"context"
	"reflect"
	"testing"

	"github.com/Dosada05/swiss-tables/models"
)

func entrants(n int) []Entrant {
	out := make([]Entrant, n)
	for i := range out {
		out[i] = Entrant{ID: i + 1}
	}
	return out
}

func tableIDs(t *Table) []int {
	ids := []int{}
	for _, p := range t.Slots {
		if p != nil {
			ids = append(ids, *p)
		}
	}
	return ids
}

func TestGenerateTableCountAndOccupancy(t *testing.T) {
	gen := NewSwissGenerator()
	for n := 1; n <= 17; n++ {
		tables, err := gen.Generate(context.Background(), GenerateParams{Entrants: entrants(n)})
		if err != nil {
			t.Fatalf("n=%d: unexpected error %v", n, err)
		}
		wantTables := (n + 3) / 4
		if len(tables) != wantTables {
			t.Fatalf("n=%d: expected %d tables, got %d", n, wantTables, len(tables))
		}

		seen := map[int]bool{}
		occupied := 0
		for i, tbl := range tables {
			if tbl.TableNumber != i+1 {
				t.Fatalf("n=%d: table numbers not contiguous: %d at position %d", n, tbl.TableNumber, i)
			}
			ids := tableIDs(tbl)
			if i < len(tables)-1 && len(ids) != models.SlotsPerMatch {
				t.Fatalf("n=%d: only the last table may be short, table %d has %d", n, tbl.TableNumber, len(ids))
			}
			for _, id := range ids {
				if seen[id] {
					t.Fatalf("n=%d: participant %d seated twice", n, id)
				}
				seen[id] = true
			}
			occupied += len(ids)
		}
		if occupied != n {
			t.Fatalf("n=%d: expected %d occupied slots, got %d", n, n, occupied)
		}
	}
}

func TestGenerateFivePlayersLeavesOneSeatAtSecondTable(t *testing.T) {
	tables, err := NewSwissGenerator().Generate(context.Background(), GenerateParams{Entrants: entrants(5)})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(tables))
	}
	last := tables[1]
	if last.Slots[0] == nil || *last.Slots[0] != 5 {
		t.Fatalf("expected participant 5 in slot 0 of table 2, got %#v", last.Slots)
	}
	for i := 1; i < models.SlotsPerMatch; i++ {
		if last.Slots[i] != nil {
			t.Fatalf("expected BYE in slot %d", i)
		}
	}
}

func TestGenerateNoEntrants(t *testing.T) {
	_, err := NewSwissGenerator().Generate(context.Background(), GenerateParams{})
	if err != ErrNoEntrants {
		t.Fatalf("expected ErrNoEntrants, got %v", err)
	}
}

func TestGenerateFollowsStandings(t *testing.T) {
	in := []Entrant{
		{ID: 1, Points: 0},
		{ID: 2, Points: 6, Wins: 2},
		{ID: 3, Points: 3, Wins: 1},
		{ID: 4, Points: 6, Wins: 1},
		{ID: 5, Points: 3, Wins: 1},
		{ID: 6, Points: 1},
		{ID: 7, Points: 0},
		{ID: 8, Points: 9, Wins: 3},
	}
	tables, err := NewSwissGenerator().Generate(context.Background(), GenerateParams{Entrants: in})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got, want := tableIDs(tables[0]), []int{8, 2, 4, 3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("table 1: expected %v, got %v", want, got)
	}
	if got, want := tableIDs(tables[1]), []int{5, 6, 1, 7}; !reflect.DeepEqual(got, want) {
		t.Fatalf("table 2: expected %v, got %v", want, got)
	}
}

func TestGenerateAvoidsRepeatPairings(t *testing.T) {
	history := NewHistory([]*models.Match{
		{PlayerIDs: slots(1, 2, 3, 4)},
		{PlayerIDs: slots(5, 6, 7, 8)},
	})
	tables, err := NewSwissGenerator().Generate(context.Background(), GenerateParams{
		Entrants: entrants(8),
		History:  history,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// One old tablemate of player 1 plus two of 5..8 costs two repeats;
	// every other choice costs at least three.
	first := tableIDs(tables[0])
	if first[0] != 1 {
		t.Fatalf("expected top seed first, got %v", first)
	}
	if r := history.Repeats(first); r != 2 {
		t.Fatalf("expected 2 repeats at table 1, got %d (%v)", r, first)
	}
	if got, want := first, []int{1, 2, 5, 6}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected closest-ranked low-repeat table %v, got %v", want, got)
	}
	if got, want := tableIDs(tables[1]), []int{3, 4, 7, 8}; !reflect.DeepEqual(got, want) {
		t.Fatalf("table 2: expected %v, got %v", want, got)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	history := NewHistory([]*models.Match{
		{PlayerIDs: slots(1, 5, 9, 2)},
		{PlayerIDs: slots(3, 4, 6, 7)},
		{PlayerIDs: slots(8, 10, 11)},
	})
	in := entrants(11)
	for i := range in {
		in[i].Points = (i * 7) % 5
	}

	gen := NewSwissGenerator()
	first, err := gen.Generate(context.Background(), GenerateParams{Entrants: in, History: history})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for run := 0; run < 5; run++ {
		again, err := gen.Generate(context.Background(), GenerateParams{Entrants: in, History: history})
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from first run", run)
		}
	}
}

func TestHistoryRepeats(t *testing.T) {
	h := NewHistory([]*models.Match{
		{PlayerIDs: slots(1, 2, 3)},
		{PlayerIDs: slots(2, 1)},
	})
	if got := h.Count(1, 2); got != 2 {
		t.Fatalf("expected 1-2 met twice, got %d", got)
	}
	if got := h.Count(3, 1); got != 1 {
		t.Fatalf("expected 1-3 met once, got %d", got)
	}
	if got := h.Repeats([]int{1, 2, 3, 4}); got != 4 {
		t.Fatalf("expected 4 repeats, got %d", got)
	}
}

func slots(ids ...int) [models.SlotsPerMatch]*int {
	var s [models.SlotsPerMatch]*int
	for i, id := range ids {
		v := id
		s[i] = &v
	}
	return s
}
