package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/swiss-tables/models"
)

type resultKey struct {
	matchID  int
	playerID int
}

type memoryState struct {
	participants map[int]*models.Participant
	rounds       map[int]*models.Round
	matches      map[int]*models.Match
	results      map[resultKey]*models.Result
	resultOrder  map[resultKey]int

	nextParticipantID int
	nextRoundID       int
	nextMatchID       int
	nextResultSeq     int
}

func newMemoryState() *memoryState {
	return &memoryState{
		participants: make(map[int]*models.Participant),
		rounds:       make(map[int]*models.Round),
		matches:      make(map[int]*models.Match),
		results:      make(map[resultKey]*models.Result),
		resultOrder:  make(map[resultKey]int),
	}
}

func resetState(st *memoryState) error {
	*st = *newMemoryState()
	return nil
}

func (st *memoryState) clone() *memoryState {
	c := newMemoryState()
	for id, p := range st.participants {
		cp := *p
		c.participants[id] = &cp
	}
	for id, r := range st.rounds {
		cr := *r
		c.rounds[id] = &cr
	}
	for id, m := range st.matches {
		c.matches[id] = m.Clone()
	}
	for k, r := range st.results {
		cr := *r
		c.results[k] = &cr
		c.resultOrder[k] = st.resultOrder[k]
	}
	c.nextParticipantID = st.nextParticipantID
	c.nextRoundID = st.nextRoundID
	c.nextMatchID = st.nextMatchID
	c.nextResultSeq = st.nextResultSeq
	return c
}

// MemoryStore keeps the whole tournament in process memory. Transactions
// work on a private copy of the state which replaces the shared one on
// commit, so readers never see a half-applied transaction.
type MemoryStore struct {
	mu      sync.RWMutex // guards state
	writeMu sync.Mutex   // one writer at a time
	state   *memoryState

	afterWrite func()
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newMemoryState()}
}

// SetAfterWriteHook installs fn to run after every write made inside a
// transaction, before commit. Used to widen race windows in tests.
func (s *MemoryStore) SetAfterWriteHook(fn func()) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.afterWrite = fn
}

func (s *MemoryStore) view() *memoryView {
	return &memoryView{store: s}
}

func (s *MemoryStore) Participants() ParticipantRepository { return &memoryParticipantRepository{s.view()} }
func (s *MemoryStore) Rounds() RoundRepository             { return &memoryRoundRepository{s.view()} }
func (s *MemoryStore) Matches() MatchRepository            { return &memoryMatchRepository{s.view()} }
func (s *MemoryStore) Results() ResultRepository           { return &memoryResultRepository{s.view()} }

func (s *MemoryStore) LockRounds(context.Context) error {
	return fmt.Errorf("LockRounds requires a transaction")
}

func (s *MemoryStore) Reset(context.Context) error {
	return s.view().write(resetState)
}

func (s *MemoryStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	return s.commit(func(st *memoryState) error {
		return fn(&memoryTx{store: s, state: st})
	})
}

func (s *MemoryStore) commit(fn func(st *memoryState) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	next := s.state.clone()
	s.mu.RUnlock()

	if err := fn(next); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
	return nil
}

type memoryTx struct {
	store *MemoryStore
	state *memoryState
}

func (t *memoryTx) view() *memoryView {
	return &memoryView{store: t.store, tx: t.state}
}

func (t *memoryTx) Participants() ParticipantRepository { return &memoryParticipantRepository{t.view()} }
func (t *memoryTx) Rounds() RoundRepository             { return &memoryRoundRepository{t.view()} }
func (t *memoryTx) Matches() MatchRepository            { return &memoryMatchRepository{t.view()} }
func (t *memoryTx) Results() ResultRepository           { return &memoryResultRepository{t.view()} }

// LockRounds is satisfied by the store-wide writer lock.
func (t *memoryTx) LockRounds(context.Context) error { return nil }

func (t *memoryTx) Reset(context.Context) error {
	return t.view().write(resetState)
}

func (t *memoryTx) InTx(_ context.Context, fn func(tx Store) error) error {
	return fn(t)
}

// memoryView routes reads and writes either to the committed state or to
// the private state of a running transaction.
type memoryView struct {
	store *MemoryStore
	tx    *memoryState
}

func (v *memoryView) read(fn func(st *memoryState) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	return fn(v.store.state)
}

func (v *memoryView) write(fn func(st *memoryState) error) error {
	if v.tx == nil {
		return v.store.commit(fn)
	}
	if err := fn(v.tx); err != nil {
		return err
	}
	if hook := v.store.afterWrite; hook != nil {
		hook()
	}
	return nil
}

// --- participants ---

type memoryParticipantRepository struct{ v *memoryView }

func (r *memoryParticipantRepository) Create(_ context.Context, p *models.Participant) error {
	return r.v.write(func(st *memoryState) error {
		for _, existing := range st.participants {
			if existing.Name == p.Name {
				return ErrParticipantNameConflict
			}
		}
		st.nextParticipantID++
		p.ID = st.nextParticipantID
		p.CreatedAt = time.Now()
		cp := *p
		st.participants[p.ID] = &cp
		return nil
	})
}

func (r *memoryParticipantRepository) GetByID(_ context.Context, id int) (*models.Participant, error) {
	var out *models.Participant
	err := r.v.read(func(st *memoryState) error {
		p, ok := st.participants[id]
		if !ok {
			return ErrParticipantNotFound
		}
		cp := *p
		out = &cp
		return nil
	})
	return out, err
}

func (r *memoryParticipantRepository) GetByName(_ context.Context, name string) (*models.Participant, error) {
	var out *models.Participant
	err := r.v.read(func(st *memoryState) error {
		for _, p := range st.participants {
			if p.Name == name {
				cp := *p
				out = &cp
				return nil
			}
		}
		return ErrParticipantNotFound
	})
	return out, err
}

func (r *memoryParticipantRepository) list(activeOnly bool) ([]*models.Participant, error) {
	out := make([]*models.Participant, 0)
	err := r.v.read(func(st *memoryState) error {
		for _, p := range st.participants {
			if activeOnly && !p.Active {
				continue
			}
			cp := *p
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (r *memoryParticipantRepository) List(context.Context) ([]*models.Participant, error) {
	return r.list(false)
}

func (r *memoryParticipantRepository) ListActive(context.Context) ([]*models.Participant, error) {
	return r.list(true)
}

func (r *memoryParticipantRepository) SetActive(_ context.Context, id int, active bool) error {
	return r.v.write(func(st *memoryState) error {
		p, ok := st.participants[id]
		if !ok {
			return ErrParticipantNotFound
		}
		p.Active = active
		return nil
	})
}

func (r *memoryParticipantRepository) Delete(_ context.Context, id int) error {
	return r.v.write(func(st *memoryState) error {
		if _, ok := st.participants[id]; !ok {
			return ErrParticipantNotFound
		}
		if st.referenced(id) {
			return ErrParticipantInUse
		}
		delete(st.participants, id)
		return nil
	})
}

func (r *memoryParticipantRepository) IsReferenced(_ context.Context, id int) (bool, error) {
	var referenced bool
	err := r.v.read(func(st *memoryState) error {
		referenced = st.referenced(id)
		return nil
	})
	return referenced, err
}

func (st *memoryState) referenced(participantID int) bool {
	for _, m := range st.matches {
		if m.HasPlayer(participantID) {
			return true
		}
	}
	return false
}

// --- rounds ---

type memoryRoundRepository struct{ v *memoryView }

func (r *memoryRoundRepository) Create(_ context.Context, round *models.Round) error {
	return r.v.write(func(st *memoryState) error {
		for _, existing := range st.rounds {
			if existing.RoundNumber == round.RoundNumber {
				return ErrRoundNumberConflict
			}
		}
		st.nextRoundID++
		round.ID = st.nextRoundID
		round.CreatedAt = time.Now()
		cr := *round
		st.rounds[round.ID] = &cr
		return nil
	})
}

func (r *memoryRoundRepository) GetByID(_ context.Context, id int) (*models.Round, error) {
	var out *models.Round
	err := r.v.read(func(st *memoryState) error {
		round, ok := st.rounds[id]
		if !ok {
			return ErrRoundNotFound
		}
		cr := *round
		out = &cr
		return nil
	})
	return out, err
}

func (r *memoryRoundRepository) GetLatest(ctx context.Context) (*models.Round, error) {
	rounds, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(rounds) == 0 {
		return nil, ErrRoundNotFound
	}
	return rounds[0], nil
}

func (r *memoryRoundRepository) List(context.Context) ([]*models.Round, error) {
	out := make([]*models.Round, 0)
	err := r.v.read(func(st *memoryState) error {
		for _, round := range st.rounds {
			cr := *round
			out = append(out, &cr)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].RoundNumber > out[j].RoundNumber })
	return out, err
}

func (r *memoryRoundRepository) MaxRoundNumber(context.Context) (int, error) {
	max := 0
	err := r.v.read(func(st *memoryState) error {
		for _, round := range st.rounds {
			if round.RoundNumber > max {
				max = round.RoundNumber
			}
		}
		return nil
	})
	return max, err
}

func (r *memoryRoundRepository) Delete(_ context.Context, id int) error {
	return r.v.write(func(st *memoryState) error {
		if _, ok := st.rounds[id]; !ok {
			return ErrRoundNotFound
		}
		for matchID, m := range st.matches {
			if m.RoundID != id {
				continue
			}
			for k := range st.results {
				if k.matchID == matchID {
					delete(st.results, k)
					delete(st.resultOrder, k)
				}
			}
			delete(st.matches, matchID)
		}
		delete(st.rounds, id)
		return nil
	})
}

// --- matches ---

type memoryMatchRepository struct{ v *memoryView }

func (r *memoryMatchRepository) Create(_ context.Context, m *models.Match) error {
	return r.v.write(func(st *memoryState) error {
		if _, ok := st.rounds[m.RoundID]; !ok {
			return ErrRoundNotFound
		}
		for _, p := range m.Players() {
			if _, ok := st.participants[p]; !ok {
				return ErrParticipantNotFound
			}
		}
		for _, existing := range st.matches {
			if existing.RoundID == m.RoundID && existing.TableNumber == m.TableNumber {
				return ErrTableConflict
			}
		}
		st.nextMatchID++
		m.ID = st.nextMatchID
		stored := m.Clone()
		stored.Completed = false
		st.matches[m.ID] = stored
		return nil
	})
}

func (r *memoryMatchRepository) GetByID(_ context.Context, id int) (*models.Match, error) {
	var out *models.Match
	err := r.v.read(func(st *memoryState) error {
		m, ok := st.matches[id]
		if !ok {
			return ErrMatchNotFound
		}
		out = m.Clone()
		return nil
	})
	return out, err
}

func (r *memoryMatchRepository) GetForUpdate(_ context.Context, ids ...int) ([]*models.Match, error) {
	out := make([]*models.Match, 0, len(ids))
	err := r.v.read(func(st *memoryState) error {
		seen := make(map[int]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			m, ok := st.matches[id]
			if !ok {
				return fmt.Errorf("%w: id %d", ErrMatchNotFound, id)
			}
			out = append(out, m.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryMatchRepository) filter(keep func(st *memoryState, m *models.Match) bool) ([]*models.Match, error) {
	out := make([]*models.Match, 0)
	roundNumbers := make(map[int]int)
	err := r.v.read(func(st *memoryState) error {
		for _, m := range st.matches {
			if keep(st, m) {
				out = append(out, m.Clone())
			}
		}
		for id, round := range st.rounds {
			roundNumbers[id] = round.RoundNumber
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		ri, rj := roundNumbers[out[i].RoundID], roundNumbers[out[j].RoundID]
		if ri != rj {
			return ri < rj
		}
		return out[i].TableNumber < out[j].TableNumber
	})
	return out, err
}

func (r *memoryMatchRepository) ListByRound(_ context.Context, roundID int) ([]*models.Match, error) {
	return r.filter(func(_ *memoryState, m *models.Match) bool { return m.RoundID == roundID })
}

func (r *memoryMatchRepository) ListAll(context.Context) ([]*models.Match, error) {
	return r.filter(func(*memoryState, *models.Match) bool { return true })
}

func (r *memoryMatchRepository) ListByParticipant(_ context.Context, participantID int) ([]*models.Match, error) {
	return r.filter(func(_ *memoryState, m *models.Match) bool { return m.HasPlayer(participantID) })
}

func (r *memoryMatchRepository) UpdateSlots(_ context.Context, m *models.Match) error {
	return r.v.write(func(st *memoryState) error {
		stored, ok := st.matches[m.ID]
		if !ok {
			return ErrMatchNotFound
		}
		for _, p := range m.Players() {
			if _, ok := st.participants[p]; !ok {
				return ErrParticipantNotFound
			}
		}
		updated := m.Clone()
		stored.PlayerIDs = updated.PlayerIDs
		return nil
	})
}

// --- results ---

type memoryResultRepository struct{ v *memoryView }

func (r *memoryResultRepository) Upsert(_ context.Context, res *models.Result) error {
	return r.v.write(func(st *memoryState) error {
		if _, ok := st.matches[res.MatchID]; !ok {
			return ErrMatchNotFound
		}
		if _, ok := st.participants[res.PlayerID]; !ok {
			return ErrParticipantNotFound
		}
		key := resultKey{res.MatchID, res.PlayerID}
		if _, exists := st.results[key]; !exists {
			st.nextResultSeq++
			st.resultOrder[key] = st.nextResultSeq
		}
		cr := *res
		st.results[key] = &cr
		return nil
	})
}

func (r *memoryResultRepository) Delete(_ context.Context, matchID, playerID int) error {
	return r.v.write(func(st *memoryState) error {
		key := resultKey{matchID, playerID}
		if _, ok := st.results[key]; !ok {
			return ErrResultNotFound
		}
		delete(st.results, key)
		delete(st.resultOrder, key)
		return nil
	})
}

func (r *memoryResultRepository) filter(keep func(k resultKey) bool) ([]*models.Result, error) {
	out := make([]*models.Result, 0)
	order := make(map[*models.Result]int)
	err := r.v.read(func(st *memoryState) error {
		for k, res := range st.results {
			if !keep(k) {
				continue
			}
			cr := *res
			out = append(out, &cr)
			order[&cr] = st.resultOrder[k]
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return order[out[i]] < order[out[j]] })
	return out, err
}

func (r *memoryResultRepository) ListByMatch(_ context.Context, matchID int) ([]*models.Result, error) {
	return r.filter(func(k resultKey) bool { return k.matchID == matchID })
}

func (r *memoryResultRepository) ListAll(context.Context) ([]*models.Result, error) {
	return r.filter(func(resultKey) bool { return true })
}

func (r *memoryResultRepository) CountByMatches(_ context.Context, matchIDs []int) (map[int]int, error) {
	counts := make(map[int]int, len(matchIDs))
	want := make(map[int]bool, len(matchIDs))
	for _, id := range matchIDs {
		want[id] = true
	}
	err := r.v.read(func(st *memoryState) error {
		for k := range st.results {
			if want[k.matchID] {
				counts[k.matchID]++
			}
		}
		return nil
	})
	return counts, err
}
