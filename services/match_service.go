package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/swiss-tables/models"
	"github.com/Dosada05/swiss-tables/repositories"
)

// MatchService tracks match completion and per-player results.
type MatchService interface {
	GetMatch(ctx context.Context, matchID int) (*models.MatchDetail, error)
	SubmitResults(ctx context.Context, caller models.Caller, matchID int, entries []models.ResultEntry) (*models.MatchDetail, error)
	ClearResult(ctx context.Context, caller models.Caller, matchID, playerID int) (*models.MatchDetail, error)
}

type matchService struct {
	store  repositories.Store
	gate   AccessGate
	events EventPublisher
	logger *slog.Logger
}

func NewMatchService(store repositories.Store, gate AccessGate, events EventPublisher, logger *slog.Logger) MatchService {
	return &matchService{
		store:  store,
		gate:   gate,
		events: publisherOrNop(events),
		logger: loggerOrDefault(logger),
	}
}

func (s *matchService) GetMatch(ctx context.Context, matchID int) (*models.MatchDetail, error) {
	match, err := s.store.Matches().GetByID(ctx, matchID)
	if err != nil {
		return nil, translateStoreError(err)
	}

	var (
		round        *models.Round
		participants []*models.Participant
		results      []*models.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		round, err = s.store.Rounds().GetByID(gctx, match.RoundID)
		return err
	})
	g.Go(func() error {
		var err error
		participants, err = s.store.Participants().List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		results, err = s.store.Results().ListByMatch(gctx, matchID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, translateStoreError(err)
	}

	view := toMatchView(match, round.RoundNumber, participantIndex(participants), resultsByPlayer(results), len(results) > 0)
	return &models.MatchDetail{MatchView: view, Results: results}, nil
}

func validateEntry(e models.ResultEntry) error {
	for _, flag := range []int{e.Win, e.Loss, e.Draw} {
		if flag != 0 && flag != 1 {
			return fmt.Errorf("%w (player %d)", ErrInvalidOutcome, e.PlayerID)
		}
	}
	if e.Win+e.Loss+e.Draw > 1 || e.Points < 0 {
		return fmt.Errorf("%w (player %d)", ErrInvalidOutcome, e.PlayerID)
	}
	return nil
}

// SubmitResults upserts every non-blank row. The whole call is rejected when
// any row is invalid or when no row carries an outcome.
func (s *matchService) SubmitResults(ctx context.Context, caller models.Caller, matchID int, entries []models.ResultEntry) (*models.MatchDetail, error) {
	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		if err := validateEntry(e); err != nil {
			return nil, err
		}
		if seen[e.PlayerID] {
			return nil, fmt.Errorf("%w (player %d)", ErrDuplicateEntry, e.PlayerID)
		}
		seen[e.PlayerID] = true
	}

	written := 0
	err := s.store.InTx(ctx, func(tx repositories.Store) error {
		locked, err := tx.Matches().GetForUpdate(ctx, matchID)
		if err != nil {
			return err
		}
		match := locked[0]

		for _, e := range entries {
			if !match.HasPlayer(e.PlayerID) {
				return fmt.Errorf("%w: player %d is not seated at match %d", ErrInvalidSlot, e.PlayerID, matchID)
			}
		}
		for _, e := range entries {
			if !e.Blank() && !s.gate.CanModify(caller, e.PlayerID) {
				return fmt.Errorf("%w: cannot submit a result for player %d", ErrForbidden, e.PlayerID)
			}
		}

		for _, e := range entries {
			if e.Blank() {
				continue
			}
			res := &models.Result{
				MatchID:  matchID,
				PlayerID: e.PlayerID,
				Win:      e.Win,
				Loss:     e.Loss,
				Draw:     e.Draw,
				Points:   e.Points,
			}
			if err := tx.Results().Upsert(ctx, res); err != nil {
				return err
			}
			written++
		}
		if written == 0 {
			return ErrNoResultSelected
		}
		return nil
	})
	if err != nil {
		return nil, translateStoreError(err)
	}

	s.logger.InfoContext(ctx, "results submitted", slog.Int("match_id", matchID), slog.Int("rows", written))
	detail, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, models.Event{
		Type:        models.EventResultsSubmitted,
		RoundID:     detail.RoundID,
		RoundNumber: detail.RoundNumber,
		MatchIDs:    []int{matchID},
	})
	return detail, nil
}

// ClearResult removes one player's result. The match falls back to pending
// once its last result is gone.
func (s *matchService) ClearResult(ctx context.Context, caller models.Caller, matchID, playerID int) (*models.MatchDetail, error) {
	err := s.store.InTx(ctx, func(tx repositories.Store) error {
		locked, err := tx.Matches().GetForUpdate(ctx, matchID)
		if err != nil {
			return err
		}
		if !locked[0].HasPlayer(playerID) {
			return fmt.Errorf("%w: player %d is not seated at match %d", ErrInvalidSlot, playerID, matchID)
		}
		if !s.gate.CanModify(caller, playerID) {
			return ErrForbidden
		}
		return tx.Results().Delete(ctx, matchID, playerID)
	})
	if err != nil {
		return nil, translateStoreError(err)
	}

	s.logger.InfoContext(ctx, "result cleared", slog.Int("match_id", matchID), slog.Int("player_id", playerID))
	detail, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, models.Event{
		Type:          models.EventResultCleared,
		RoundID:       detail.RoundID,
		RoundNumber:   detail.RoundNumber,
		MatchIDs:      []int{matchID},
		ParticipantID: playerID,
	})
	return detail, nil
}
