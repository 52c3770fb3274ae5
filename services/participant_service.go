package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/swiss-tables/models"
	"github.com/Dosada05/swiss-tables/repositories"
	"github.com/Dosada05/swiss-tables/utils"
)

type RegisterParticipantInput struct {
	Name     string `json:"name"`
	Password string `json:"password,omitempty"`
}

type ParticipantService interface {
	Register(ctx context.Context, input RegisterParticipantInput) (*models.Participant, error)
	List(ctx context.Context) ([]*models.ParticipantWithStats, error)
	// Remove deletes an unreferenced participant and deactivates a
	// referenced one. It reports whether the row was kept.
	Remove(ctx context.Context, caller models.Caller, participantID int) (softRemoved bool, err error)
	SetActive(ctx context.Context, caller models.Caller, participantID int, active bool) (*models.Participant, error)
}

type participantService struct {
	store     repositories.Store
	gate      AccessGate
	adminName string
	events    EventPublisher
	logger    *slog.Logger
}

// NewParticipantService builds the service. adminName is reserved: Login
// resolves it to the admin account, so nobody may register under it.
func NewParticipantService(store repositories.Store, gate AccessGate, adminName string, events EventPublisher, logger *slog.Logger) ParticipantService {
	return &participantService{
		store:     store,
		gate:      gate,
		adminName: strings.TrimSpace(adminName),
		events:    publisherOrNop(events),
		logger:    loggerOrDefault(logger),
	}
}

func (s *participantService) Register(ctx context.Context, input RegisterParticipantInput) (*models.Participant, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if s.adminName != "" && name == s.adminName {
		return nil, ErrNameTaken
	}
	if len(input.Password) > utils.MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	p := &models.Participant{Name: name, Active: true}
	if input.Password != "" {
		hash, err := utils.HashPassword(input.Password)
		if err != nil {
			return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
		}
		p.PasswordHash = hash
	}

	err := s.store.InTx(ctx, func(tx repositories.Store) error {
		return tx.Participants().Create(ctx, p)
	})
	if err != nil {
		return nil, translateStoreError(err)
	}

	s.logger.InfoContext(ctx, "participant registered", slog.Int("participant_id", p.ID))
	publish(ctx, s.events, models.Event{Type: models.EventParticipantRegistered, ParticipantID: p.ID})
	return p, nil
}

func (s *participantService) List(ctx context.Context) ([]*models.ParticipantWithStats, error) {
	var (
		participants []*models.Participant
		results      []*models.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		participants, err = s.store.Participants().List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		results, err = s.store.Results().ListAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	totals := tallyResults(results)
	out := make([]*models.ParticipantWithStats, 0, len(participants))
	for _, p := range participants {
		t := totals[p.ID]
		out = append(out, &models.ParticipantWithStats{
			Participant: *p,
			WinCount:    t.Wins,
			LossCount:   t.Losses,
			DrawCount:   t.Draws,
			Points:      t.Points,
		})
	}
	return out, nil
}

func (s *participantService) Remove(ctx context.Context, caller models.Caller, participantID int) (bool, error) {
	if err := requireAdmin(s.gate, caller); err != nil {
		return false, err
	}

	soft := false
	err := s.store.InTx(ctx, func(tx repositories.Store) error {
		if _, err := tx.Participants().GetByID(ctx, participantID); err != nil {
			return err
		}
		referenced, err := tx.Participants().IsReferenced(ctx, participantID)
		if err != nil {
			return err
		}
		if !referenced {
			return tx.Participants().Delete(ctx, participantID)
		}
		soft = true
		return tx.Participants().SetActive(ctx, participantID, false)
	})
	if err != nil {
		return false, translateStoreError(err)
	}

	s.logger.InfoContext(ctx, "participant removed", slog.Int("participant_id", participantID), slog.Bool("soft", soft))
	return soft, nil
}

func (s *participantService) SetActive(ctx context.Context, caller models.Caller, participantID int, active bool) (*models.Participant, error) {
	if err := requireAdmin(s.gate, caller); err != nil {
		return nil, err
	}

	var p *models.Participant
	err := s.store.InTx(ctx, func(tx repositories.Store) error {
		if err := tx.Participants().SetActive(ctx, participantID, active); err != nil {
			return err
		}
		var err error
		p, err = tx.Participants().GetByID(ctx, participantID)
		return err
	})
	if err != nil {
		return nil, translateStoreError(err)
	}
	return p, nil
}
