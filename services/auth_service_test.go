package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dosada05/swiss-tables/repositories"
	"github.com/Dosada05/swiss-tables/utils"
)

func TestLoginAndParseToken(t *testing.T) {
	store := repositories.NewMemoryStore()
	env := newTestEnvWithStore(t, store, store)
	ctx := context.Background()

	p, err := env.participants.Register(ctx, RegisterParticipantInput{Name: "Brock", Password: "onix-rocks"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	adminHash, err := utils.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	auth := NewAuthService(store, AuthConfig{
		Secret:            []byte("test-secret"),
		TTL:               time.Hour,
		AdminName:         "admin",
		AdminPasswordHash: adminHash,
	})

	res, err := auth.Login(ctx, LoginInput{Name: "Brock", Password: "onix-rocks"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	caller, err := auth.ParseToken(ctx, res.Token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if caller.IsAdmin || !caller.IsParticipant(p.ID) || caller.Name != "Brock" {
		t.Fatalf("unexpected caller %#v", caller)
	}

	res, err = auth.Login(ctx, LoginInput{Name: "admin", Password: "s3cret"})
	if err != nil {
		t.Fatalf("admin Login: %v", err)
	}
	caller, err = auth.ParseToken(ctx, res.Token)
	if err != nil || !caller.IsAdmin || caller.ParticipantID != nil {
		t.Fatalf("expected admin caller, got %#v (%v)", caller, err)
	}

	for _, in := range []LoginInput{
		{Name: "Brock", Password: "wrong"},
		{Name: "admin", Password: "wrong"},
		{Name: "nobody", Password: "x"},
		{Name: "Brock"},
	} {
		if _, err := auth.Login(ctx, in); !errors.Is(err, ErrAuthInvalidCredentials) {
			t.Fatalf("%+v: expected ErrAuthInvalidCredentials, got %v", in, err)
		}
	}

	if _, err := auth.ParseToken(ctx, res.Token + "x"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed for tampered token, got %v", err)
	}
	other := NewAuthService(store, AuthConfig{Secret: []byte("other-secret")})
	if _, err := other.ParseToken(ctx, res.Token); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed for foreign key, got %v", err)
	}
}

func TestParticipantWithoutPasswordCannotLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ash")
	auth := NewAuthService(env.store, AuthConfig{Secret: []byte("k")})
	if _, err := auth.Login(context.Background(), LoginInput{Name: "Ash", Password: "pikachu"}); !errors.Is(err, ErrAuthInvalidCredentials) {
		t.Fatalf("expected ErrAuthInvalidCredentials, got %v", err)
	}
}

func TestParticipantTokenRejectedAfterReset(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	auth := NewAuthService(env.store, AuthConfig{Secret: []byte("k"), TTL: time.Hour})

	if _, err := env.participants.Register(ctx, RegisterParticipantInput{Name: "Ash", Password: "pikachu"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	res, err := auth.Login(ctx, LoginInput{Name: "Ash", Password: "pikachu"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := env.rounds.ResetTournament(ctx, admin); err != nil {
		t.Fatalf("ResetTournament: %v", err)
	}
	if _, err := auth.ParseToken(ctx, res.Token); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed for removed participant, got %v", err)
	}

	// новый участник получает тот же id, но старый токен ему не подходит
	gary, err := env.participants.Register(ctx, RegisterParticipantInput{Name: "Gary"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !res.Caller.IsParticipant(gary.ID) {
		t.Fatalf("expected reused id, got %d", gary.ID)
	}
	if _, err := auth.ParseToken(ctx, res.Token); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed for reused id, got %v", err)
	}
}
