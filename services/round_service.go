package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/swiss-tables/models"
	"github.com/Dosada05/swiss-tables/pairing"
	"github.com/Dosada05/swiss-tables/repositories"
)

type RoundService interface {
	GenerateNextRound(ctx context.Context, caller models.Caller) (*models.GeneratedRound, error)
	ListRounds(ctx context.Context) ([]models.RoundSummary, error)
	GetRoundMatches(ctx context.Context, roundID int) (*models.RoundMatches, error)
	GetCurrentRound(ctx context.Context) (*models.RoundMatches, error)
	DeleteRound(ctx context.Context, caller models.Caller, roundID int) error
	ResetTournament(ctx context.Context, caller models.Caller) error
}

type roundService struct {
	store     repositories.Store
	generator pairing.Generator
	gate      AccessGate
	events    EventPublisher
	logger    *slog.Logger
}

func NewRoundService(
	store repositories.Store,
	generator pairing.Generator,
	gate AccessGate,
	events EventPublisher,
	logger *slog.Logger,
) RoundService {
	return &roundService{
		store:     store,
		generator: generator,
		gate:      gate,
		events:    publisherOrNop(events),
		logger:    loggerOrDefault(logger),
	}
}

func (s *roundService) GenerateNextRound(ctx context.Context, caller models.Caller) (*models.GeneratedRound, error) {
	if err := requireAdmin(s.gate, caller); err != nil {
		return nil, err
	}

	var generated *models.GeneratedRound
	err := withConflictRetry(ctx, s.logger, "generate round", func() error {
		generated = nil
		return s.store.InTx(ctx, func(tx repositories.Store) error {
			var err error
			generated, err = s.generateInTx(ctx, tx)
			return err
		})
	})
	if err != nil {
		return nil, translateStoreError(err)
	}

	s.logger.InfoContext(ctx, "round generated",
		slog.Int("round_id", generated.RoundID),
		slog.Int("round_number", generated.Round),
		slog.Int("tables", len(generated.Matches)),
	)
	publish(ctx, s.events, models.Event{
		Type:        models.EventRoundGenerated,
		RoundID:     generated.RoundID,
		RoundNumber: generated.Round,
		MatchIDs:    matchIDs(generated.Matches),
	})
	return generated, nil
}

func (s *roundService) generateInTx(ctx context.Context, tx repositories.Store) (*models.GeneratedRound, error) {
	if err := tx.LockRounds(ctx); err != nil {
		return nil, fmt.Errorf("lock rounds: %w", err)
	}

	active, err := tx.Participants().ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active participants: %w", err)
	}
	if len(active) == 0 {
		return nil, ErrNoParticipants
	}
	results, err := tx.Results().ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	history, err := tx.Matches().ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	totals := tallyResults(results)
	entrants := make([]pairing.Entrant, 0, len(active))
	for _, p := range active {
		t := totals[p.ID]
		entrants = append(entrants, pairing.Entrant{ID: p.ID, Points: t.Points, Wins: t.Wins})
	}

	tables, err := s.generator.Generate(ctx, pairing.GenerateParams{
		Entrants: entrants,
		History:  pairing.NewHistory(history),
	})
	if err != nil {
		if errors.Is(err, pairing.ErrNoEntrants) {
			return nil, ErrNoParticipants
		}
		return nil, fmt.Errorf("%s generator: %w", s.generator.GetName(), err)
	}

	last, err := tx.Rounds().MaxRoundNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("max round number: %w", err)
	}
	round := &models.Round{RoundNumber: last + 1}
	if err := tx.Rounds().Create(ctx, round); err != nil {
		return nil, err
	}

	matches := make([]*models.Match, 0, len(tables))
	for _, t := range tables {
		m := &models.Match{
			RoundID:     round.ID,
			TableNumber: t.TableNumber,
			PlayerIDs:   t.Slots,
		}
		if err := tx.Matches().Create(ctx, m); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}

	return &models.GeneratedRound{
		Round:   round.RoundNumber,
		RoundID: round.ID,
		Matches: matches,
	}, nil
}

func (s *roundService) ListRounds(ctx context.Context) ([]models.RoundSummary, error) {
	var (
		rounds  []*models.Round
		matches []*models.Match
		results []*models.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rounds, err = s.store.Rounds().List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.store.Matches().ListAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		results, err = s.store.Results().ListAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}

	done := matchesWithResults(results)
	locked := make(map[int]bool)
	for _, m := range matches {
		if done[m.ID] {
			locked[m.RoundID] = true
		}
	}

	summaries := make([]models.RoundSummary, 0, len(rounds))
	for _, r := range rounds {
		summaries = append(summaries, models.RoundSummary{
			ID:          r.ID,
			RoundNumber: r.RoundNumber,
			CanDelete:   !locked[r.ID],
		})
	}
	return summaries, nil
}

func (s *roundService) GetRoundMatches(ctx context.Context, roundID int) (*models.RoundMatches, error) {
	round, err := s.store.Rounds().GetByID(ctx, roundID)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return s.roundMatches(ctx, round)
}

func (s *roundService) GetCurrentRound(ctx context.Context) (*models.RoundMatches, error) {
	round, err := s.store.Rounds().GetLatest(ctx)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return s.roundMatches(ctx, round)
}

func (s *roundService) roundMatches(ctx context.Context, round *models.Round) (*models.RoundMatches, error) {
	var (
		matches      []*models.Match
		participants []*models.Participant
		results      []*models.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = s.store.Matches().ListByRound(gctx, round.ID)
		return err
	})
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
		return nil, fmt.Errorf("load round %d: %w", round.ID, err)
	}

	names := participantIndex(participants)
	perMatch := make(map[int][]*models.Result)
	for _, r := range results {
		perMatch[r.MatchID] = append(perMatch[r.MatchID], r)
	}

	views := make([]models.MatchView, 0, len(matches))
	for _, m := range matches {
		rs := perMatch[m.ID]
		views = append(views, toMatchView(m, round.RoundNumber, names, resultsByPlayer(rs), len(rs) > 0))
	}
	return &models.RoundMatches{
		Round:   round.RoundNumber,
		RoundID: round.ID,
		Matches: views,
	}, nil
}

// DeleteRound removes a round whose matches have no results. Other rounds
// keep their numbers, so deleting an earlier round leaves a gap.
func (s *roundService) DeleteRound(ctx context.Context, caller models.Caller, roundID int) error {
	if err := requireAdmin(s.gate, caller); err != nil {
		return err
	}

	var round *models.Round
	err := withConflictRetry(ctx, s.logger, "delete round", func() error {
		return s.store.InTx(ctx, func(tx repositories.Store) error {
			if err := tx.LockRounds(ctx); err != nil {
				return fmt.Errorf("lock rounds: %w", err)
			}
			var err error
			round, err = tx.Rounds().GetByID(ctx, roundID)
			if err != nil {
				return err
			}
			matches, err := tx.Matches().ListByRound(ctx, roundID)
			if err != nil {
				return err
			}
			if len(matches) > 0 {
				ids := matchIDs(matches)
				// блокируем матчи, чтобы параллельная отправка результатов не проскочила
				if _, err := tx.Matches().GetForUpdate(ctx, ids...); err != nil {
					return err
				}
				counts, err := tx.Results().CountByMatches(ctx, ids)
				if err != nil {
					return err
				}
				for _, n := range counts {
					if n > 0 {
						return ErrResultsExist
					}
				}
			}
			return tx.Rounds().Delete(ctx, roundID)
		})
	})
	if err != nil {
		return translateStoreError(err)
	}

	s.logger.InfoContext(ctx, "round deleted", slog.Int("round_id", round.ID), slog.Int("round_number", round.RoundNumber))
	publish(ctx, s.events, models.Event{
		Type:        models.EventRoundDeleted,
		RoundID:     round.ID,
		RoundNumber: round.RoundNumber,
	})
	return nil
}

// ResetTournament wipes participants, rounds, matches and results in one
// transaction. Ids start from 1 again afterwards.
func (s *roundService) ResetTournament(ctx context.Context, caller models.Caller) error {
	if err := requireAdmin(s.gate, caller); err != nil {
		return err
	}

	err := s.store.InTx(ctx, func(tx repositories.Store) error {
		if err := tx.LockRounds(ctx); err != nil {
			return fmt.Errorf("lock rounds: %w", err)
		}
		return tx.Reset(ctx)
	})
	if err != nil {
		return translateStoreError(err)
	}

	s.logger.WarnContext(ctx, "tournament reset", slog.String("by", caller.Name))
	publish(ctx, s.events, models.Event{Type: models.EventTournamentReset})
	return nil
}
