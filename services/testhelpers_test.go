package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/Dosada05/swiss-tables/models"
	"github.com/Dosada05/swiss-tables/pairing"
	"github.com/Dosada05/swiss-tables/repositories"
)

var admin = models.AdminCaller("admin")

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e models.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []models.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type testEnv struct {
	store        *repositories.MemoryStore
	events       *recordingPublisher
	rounds       RoundService
	matches      MatchService
	editor       PairingEditor
	standings    StandingsService
	participants ParticipantService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repositories.NewMemoryStore()
	return newTestEnvWithStore(t, store, store)
}

// newTestEnvWithStore wires the services to store. mem must be the memory
// store behind it, for direct inspection.
func newTestEnvWithStore(t *testing.T, store repositories.Store, mem *repositories.MemoryStore) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gate := NewAccessGate()
	events := &recordingPublisher{}
	standings := NewStandingsService(store, gate)
	return &testEnv{
		store:        mem,
		events:       events,
		rounds:       NewRoundService(store, pairing.NewSwissGenerator(), gate, events, logger),
		matches:      NewMatchService(store, gate, events, logger),
		editor:       NewPairingEditor(store, gate, events, logger),
		standings:    standings,
		participants: NewParticipantService(store, gate, admin.Name, events, logger),
	}
}

func (e *testEnv) register(t *testing.T, names ...string) []*models.Participant {
	t.Helper()
	out := make([]*models.Participant, 0, len(names))
	for _, name := range names {
		p, err := e.participants.Register(context.Background(), RegisterParticipantInput{Name: name})
		if err != nil {
			t.Fatalf("register %q: %v", name, err)
		}
		out = append(out, p)
	}
	return out
}

func (e *testEnv) generate(t *testing.T) *models.GeneratedRound {
	t.Helper()
	round, err := e.rounds.GenerateNextRound(context.Background(), admin)
	if err != nil {
		t.Fatalf("GenerateNextRound: %v", err)
	}
	return round
}

func (e *testEnv) match(t *testing.T, id int) *models.Match {
	t.Helper()
	m, err := e.store.Matches().GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get match %d: %v", id, err)
	}
	return m
}

func names(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = string(rune('A' + i))
	}
	return out
}

func win(id, points int) models.ResultEntry {
	return models.ResultEntry{PlayerID: id, Win: 1, Points: points}
}

func loss(id int) models.ResultEntry {
	return models.ResultEntry{PlayerID: id, Loss: 1}
}
