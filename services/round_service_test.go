package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Dosada05/swiss-tables/models"
	"github.com/Dosada05/swiss-tables/repositories"
)

func TestGenerateRoundShape(t *testing.T) {
	for _, n := range []int{1, 3, 4, 5, 8, 9, 13} {
		env := newTestEnv(t)
		env.register(t, names(n)...)
		round := env.generate(t)

		if round.Round != 1 {
			t.Fatalf("n=%d: expected round number 1, got %d", n, round.Round)
		}
		if want := (n + 3) / 4; len(round.Matches) != want {
			t.Fatalf("n=%d: expected %d tables, got %d", n, want, len(round.Matches))
		}
		occupied := 0
		for i, m := range round.Matches {
			if m.TableNumber != i+1 {
				t.Fatalf("n=%d: table numbers not contiguous", n)
			}
			seen := map[int]bool{}
			for _, id := range m.Players() {
				if seen[id] {
					t.Fatalf("n=%d: participant %d twice at table %d", n, id, m.TableNumber)
				}
				seen[id] = true
			}
			occupied += len(m.Players())
		}
		if occupied != n {
			t.Fatalf("n=%d: expected %d occupied slots, got %d", n, n, occupied)
		}
	}
}

func TestGenerateRequiresActiveParticipants(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.rounds.GenerateNextRound(ctx, admin); !errors.Is(err, ErrNoParticipants) {
		t.Fatalf("expected ErrNoParticipants, got %v", err)
	}

	ps := env.register(t, "A")
	if _, err := env.participants.SetActive(ctx, admin, ps[0].ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if _, err := env.rounds.GenerateNextRound(ctx, admin); !errors.Is(err, ErrNoParticipants) {
		t.Fatalf("expected ErrNoParticipants with only inactive participants, got %v", err)
	}
	if _, err := env.rounds.GenerateNextRound(ctx, models.ParticipantCaller(ps[0].ID, "A")); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestGenerateAvoidsRepeatsAcrossRounds(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, names(8)...)
	first := env.generate(t)
	second := env.generate(t)

	table := map[int]int{}
	for _, m := range first.Matches {
		for _, id := range m.Players() {
			table[id] = m.TableNumber
		}
	}
	for _, m := range second.Matches {
		counts := map[int]int{}
		for _, id := range m.Players() {
			counts[table[id]]++
		}
		for tbl, c := range counts {
			if c > 2 {
				t.Fatalf("round 2 table %d reunites %d players from round 1 table %d", m.TableNumber, c, tbl)
			}
		}
	}
}

func TestDeleteRound(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, names(4)...)
	ctx := context.Background()

	r1 := env.generate(t)
	r2 := env.generate(t)
	if _, err := env.matches.SubmitResults(ctx, admin, r1.Matches[0].ID, []models.ResultEntry{win(r1.Matches[0].Players()[0], 3)}); err != nil {
		t.Fatalf("SubmitResults: %v", err)
	}

	if err := env.rounds.DeleteRound(ctx, admin, r1.RoundID); !errors.Is(err, ErrResultsExist) {
		t.Fatalf("expected ErrResultsExist, got %v", err)
	}
	if rm, err := env.rounds.GetRoundMatches(ctx, r1.RoundID); err != nil || len(rm.Matches) != 1 {
		t.Fatalf("rejected delete changed round 1: %v %#v", err, rm)
	}

	summaries, err := env.rounds.ListRounds(ctx)
	if err != nil {
		t.Fatalf("ListRounds: %v", err)
	}
	if len(summaries) != 2 || summaries[0].RoundNumber != 2 || !summaries[0].CanDelete || summaries[1].CanDelete {
		t.Fatalf("unexpected summaries %#v", summaries)
	}

	if err := env.rounds.DeleteRound(ctx, models.Anonymous, r2.RoundID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := env.rounds.DeleteRound(ctx, admin, r2.RoundID); err != nil {
		t.Fatalf("DeleteRound: %v", err)
	}
	if _, err := env.rounds.GetRoundMatches(ctx, r2.RoundID); !errors.Is(err, ErrRoundNotFound) {
		t.Fatalf("expected ErrRoundNotFound after delete, got %v", err)
	}
	if _, err := env.store.Matches().GetByID(ctx, r2.Matches[0].ID); !errors.Is(err, repositories.ErrMatchNotFound) {
		t.Fatalf("expected matches of the deleted round to be gone, got %v", err)
	}
	if err := env.rounds.DeleteRound(ctx, admin, r2.RoundID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeletedRoundNumberIsNotReused(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, names(4)...)
	ctx := context.Background()

	env.generate(t)
	r2 := env.generate(t)
	env.generate(t)
	if err := env.rounds.DeleteRound(ctx, admin, r2.RoundID); err != nil {
		t.Fatalf("DeleteRound: %v", err)
	}
	r4 := env.generate(t)
	if r4.Round != 4 {
		t.Fatalf("expected round number 4, got %d", r4.Round)
	}

	summaries, _ := env.rounds.ListRounds(ctx)
	got := []int{}
	for _, s := range summaries {
		got = append(got, s.RoundNumber)
	}
	if len(got) != 3 || got[0] != 4 || got[1] != 3 || got[2] != 1 {
		t.Fatalf("expected rounds [4 3 1], got %v", got)
	}

	current, err := env.rounds.GetCurrentRound(ctx)
	if err != nil || current.Round != 4 {
		t.Fatalf("expected current round 4, got %v %#v", err, current)
	}
}

func TestResetTournament(t *testing.T) {
	env := newTestEnv(t)
	players := env.register(t, names(5)...)
	ctx := context.Background()

	r1 := env.generate(t)
	if _, err := env.matches.SubmitResults(ctx, admin, r1.Matches[0].ID, []models.ResultEntry{win(r1.Matches[0].Players()[0], 3)}); err != nil {
		t.Fatalf("SubmitResults: %v", err)
	}

	if err := env.rounds.ResetTournament(ctx, models.ParticipantCaller(players[0].ID, players[0].Name)); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for participant, got %v", err)
	}
	if err := env.rounds.ResetTournament(ctx, models.Anonymous); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for anonymous, got %v", err)
	}
	if rounds, _ := env.rounds.ListRounds(ctx); len(rounds) != 1 {
		t.Fatalf("rejected reset changed rounds: %#v", rounds)
	}

	if err := env.rounds.ResetTournament(ctx, admin); err != nil {
		t.Fatalf("ResetTournament: %v", err)
	}

	if rounds, _ := env.rounds.ListRounds(ctx); len(rounds) != 0 {
		t.Fatalf("expected no rounds, got %#v", rounds)
	}
	if _, err := env.rounds.GetCurrentRound(ctx); !errors.Is(err, ErrRoundNotFound) {
		t.Fatalf("expected ErrRoundNotFound, got %v", err)
	}
	if list, _ := env.participants.List(ctx); len(list) != 0 {
		t.Fatalf("expected no participants, got %d", len(list))
	}
	if table, _ := env.standings.Standings(ctx); len(table) != 0 {
		t.Fatalf("expected empty standings, got %d rows", len(table))
	}
	if all, _ := env.store.Results().ListAll(ctx); len(all) != 0 {
		t.Fatalf("expected no results, got %d", len(all))
	}

	// после сброса турнир начинается заново
	fresh := env.register(t, names(4)...)
	if fresh[0].ID != 1 {
		t.Fatalf("expected participant ids to restart at 1, got %d", fresh[0].ID)
	}
	if r := env.generate(t); r.Round != 1 || r.RoundID != 1 {
		t.Fatalf("expected round 1 with id 1, got %#v", r)
	}

	types := env.events.types()
	found := false
	for _, typ := range types {
		if typ == models.EventTournamentReset {
			found = true
		}
	}
	if !found {
		t.Fatalf("tournament_reset not published: %v", types)
	}
}

func TestGetCurrentRoundWithoutRounds(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.rounds.GetCurrentRound(context.Background()); !errors.Is(err, ErrRoundNotFound) {
		t.Fatalf("expected ErrRoundNotFound, got %v", err)
	}
}

func TestConcurrentGenerationYieldsDistinctNumbers(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, names(6)...)

	const workers = 5
	var wg sync.WaitGroup
	numbers := make(chan int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := env.rounds.GenerateNextRound(context.Background(), admin)
			if err != nil {
				t.Errorf("GenerateNextRound: %v", err)
				return
			}
			numbers <- r.Round
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[int]bool{}
	for n := range numbers {
		if seen[n] {
			t.Fatalf("round number %d generated twice", n)
		}
		seen[n] = true
	}
	for n := 1; n <= workers; n++ {
		if !seen[n] {
			t.Fatalf("expected round numbers 1..%d, missing %d", workers, n)
		}
	}
}

// conflictStore fails the first failures round inserts the way a losing
// concurrent generator would.
type conflictStore struct {
	*repositories.MemoryStore
	mu       sync.Mutex
	failures int
}

func (s *conflictStore) InTx(ctx context.Context, fn func(tx repositories.Store) error) error {
	return s.MemoryStore.InTx(ctx, func(tx repositories.Store) error {
		return fn(&conflictTx{Store: tx, parent: s})
	})
}

type conflictTx struct {
	repositories.Store
	parent *conflictStore
}

func (t *conflictTx) Rounds() repositories.RoundRepository {
	return &conflictRounds{RoundRepository: t.Store.Rounds(), parent: t.parent}
}

type conflictRounds struct {
	repositories.RoundRepository
	parent *conflictStore
}

func (r *conflictRounds) Create(ctx context.Context, round *models.Round) error {
	r.parent.mu.Lock()
	fail := r.parent.failures > 0
	if fail {
		r.parent.failures--
	}
	r.parent.mu.Unlock()
	if fail {
		return repositories.ErrRoundNumberConflict
	}
	return r.RoundRepository.Create(ctx, round)
}

func TestGenerateRetriesOnceOnConflict(t *testing.T) {
	mem := repositories.NewMemoryStore()
	store := &conflictStore{MemoryStore: mem, failures: 1}
	env := newTestEnvWithStore(t, store, mem)
	env.register(t, names(4)...)

	round, err := env.rounds.GenerateNextRound(context.Background(), admin)
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if round.Round != 1 {
		t.Fatalf("expected round 1, got %d", round.Round)
	}

	store.failures = 2
	_, err = env.rounds.GenerateNextRound(context.Background(), admin)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict after a failed retry, got %v", err)
	}
	rounds, _ := mem.Rounds().List(context.Background())
	if len(rounds) != 1 {
		t.Fatalf("failed generation must not persist a round, got %d rounds", len(rounds))
	}
}
