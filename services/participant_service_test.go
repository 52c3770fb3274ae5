package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/swiss-tables/models"
)

func TestRegisterParticipant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.participants.Register(ctx, RegisterParticipantInput{Name: "  Misty "})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if p.Name != "Misty" || !p.Active || p.ID == 0 {
		t.Fatalf("unexpected participant %#v", p)
	}

	if _, err := env.participants.Register(ctx, RegisterParticipantInput{Name: "Misty"}); !errors.Is(err, ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}
	if _, err := env.participants.Register(ctx, RegisterParticipantInput{Name: "   "}); !errors.Is(err, ErrNameRequired) || !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
}

func TestRegisterRejectsAdminName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.participants.Register(ctx, RegisterParticipantInput{Name: " " + admin.Name + " ", Password: "secret"})
	if !errors.Is(err, ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}
	if list, _ := env.participants.List(ctx); len(list) != 0 {
		t.Fatalf("rejected registration was stored: %#v", list)
	}
}

func TestListParticipantsCarriesDerivedStats(t *testing.T) {
	env := newTestEnv(t)
	ps := env.register(t, "A", "B")
	m := env.generate(t).Matches[0]
	if _, err := env.matches.SubmitResults(context.Background(), admin, m.ID, []models.ResultEntry{
		{PlayerID: ps[1].ID, Win: 1, Points: 3},
		{PlayerID: ps[0].ID, Loss: 1},
	}); err != nil {
		t.Fatalf("SubmitResults: %v", err)
	}

	list, err := env.participants.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Name != "A" || list[1].Name != "B" {
		t.Fatalf("expected registration order, got %#v", list)
	}
	if list[0].LossCount != 1 || list[1].WinCount != 1 || list[1].Points != 3 {
		t.Fatalf("unexpected stats %#v %#v", list[0], list[1])
	}
}

func TestRemoveParticipant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ps := env.register(t, "A", "B", "C", "D")
	env.generate(t)
	late := env.register(t, "E")[0]

	soft, err := env.participants.Remove(ctx, admin, late.ID)
	if err != nil || soft {
		t.Fatalf("expected hard delete of unreferenced participant, got soft=%v err=%v", soft, err)
	}
	if _, err := env.store.Participants().GetByID(ctx, late.ID); err == nil {
		t.Fatalf("expected participant %d to be gone", late.ID)
	}

	soft, err = env.participants.Remove(ctx, admin, ps[0].ID)
	if err != nil || !soft {
		t.Fatalf("expected soft removal of referenced participant, got soft=%v err=%v", soft, err)
	}
	p, err := env.store.Participants().GetByID(ctx, ps[0].ID)
	if err != nil || p.Active {
		t.Fatalf("expected inactive participant, got %#v (%v)", p, err)
	}

	next := env.generate(t)
	for _, m := range next.Matches {
		if m.HasPlayer(ps[0].ID) {
			t.Fatalf("removed participant seated in a new round")
		}
	}

	if _, err := env.participants.Remove(ctx, models.ParticipantCaller(ps[1].ID, "B"), ps[1].ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := env.participants.Remove(ctx, admin, 999); !errors.Is(err, ErrParticipantNotFound) {
		t.Fatalf("expected ErrParticipantNotFound, got %v", err)
	}

	restored, err := env.participants.SetActive(ctx, admin, ps[0].ID, true)
	if err != nil || !restored.Active {
		t.Fatalf("expected reactivated participant, got %#v (%v)", restored, err)
	}
}
