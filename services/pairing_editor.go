package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/swiss-tables/models"
	"github.com/Dosada05/swiss-tables/repositories"
)

// SwapInput names two occupied seats whose players trade places.
type SwapInput struct {
	MatchA int `json:"match_a"`
	SlotA  int `json:"slot_a"`
	MatchB int `json:"match_b"`
	SlotB  int `json:"slot_b"`
}

// PairingEditor corrects generated pairings before any result is recorded.
type PairingEditor interface {
	Swap(ctx context.Context, caller models.Caller, input SwapInput) ([]*models.Match, error)
}

type pairingEditor struct {
	store  repositories.Store
	gate   AccessGate
	events EventPublisher
	logger *slog.Logger
}

func NewPairingEditor(store repositories.Store, gate AccessGate, events EventPublisher, logger *slog.Logger) PairingEditor {
	return &pairingEditor{
		store:  store,
		gate:   gate,
		events: publisherOrNop(events),
		logger: loggerOrDefault(logger),
	}
}

func validSlot(slot int) bool {
	return slot >= 0 && slot < models.SlotsPerMatch
}

// Swap exchanges the two occupants in a single transaction. Both matches are
// locked and their result counts re-read before anything is written.
func (e *pairingEditor) Swap(ctx context.Context, caller models.Caller, input SwapInput) ([]*models.Match, error) {
	if err := requireAdmin(e.gate, caller); err != nil {
		return nil, err
	}
	if !validSlot(input.SlotA) || !validSlot(input.SlotB) {
		return nil, fmt.Errorf("%w: slot must be between 0 and %d", ErrValidation, models.SlotsPerMatch-1)
	}
	if input.MatchA == input.MatchB && input.SlotA == input.SlotB {
		return nil, fmt.Errorf("%w: cannot swap a slot with itself", ErrValidation)
	}

	var updated []*models.Match
	err := e.store.InTx(ctx, func(tx repositories.Store) error {
		locked, err := tx.Matches().GetForUpdate(ctx, input.MatchA, input.MatchB)
		if err != nil {
			return err
		}
		byID := make(map[int]*models.Match, len(locked))
		for _, m := range locked {
			byID[m.ID] = m
		}
		a, b := byID[input.MatchA], byID[input.MatchB]

		if a.RoundID != b.RoundID {
			return ErrCrossRoundSwap
		}
		playerA, playerB := a.PlayerIDs[input.SlotA], b.PlayerIDs[input.SlotB]
		if playerA == nil || playerB == nil {
			return fmt.Errorf("%w: cannot swap a BYE", ErrInvalidSlot)
		}

		counts, err := tx.Results().CountByMatches(ctx, matchIDs(locked))
		if err != nil {
			return err
		}
		for _, m := range locked {
			if counts[m.ID] > 0 {
				return fmt.Errorf("%w: match %d", ErrResultsExist, m.ID)
			}
		}

		if a.ID == b.ID {
			a.PlayerIDs[input.SlotA], a.PlayerIDs[input.SlotB] = playerB, playerA
			if err := tx.Matches().UpdateSlots(ctx, a); err != nil {
				return err
			}
			updated = []*models.Match{a}
			return nil
		}

		if b.HasPlayer(*playerA) || a.HasPlayer(*playerB) {
			return ErrDuplicatePlayer
		}
		a.PlayerIDs[input.SlotA] = playerB
		b.PlayerIDs[input.SlotB] = playerA
		if err := tx.Matches().UpdateSlots(ctx, a); err != nil {
			return err
		}
		if err := tx.Matches().UpdateSlots(ctx, b); err != nil {
			return err
		}
		updated = []*models.Match{a, b}
		return nil
	})
	if err != nil {
		return nil, translateStoreError(err)
	}

	e.logger.InfoContext(ctx, "players swapped",
		slog.Int("match_a", input.MatchA), slog.Int("slot_a", input.SlotA),
		slog.Int("match_b", input.MatchB), slog.Int("slot_b", input.SlotB),
	)
	publish(ctx, e.events, models.Event{
		Type:     models.EventPlayersSwapped,
		RoundID:  updated[0].RoundID,
		MatchIDs: matchIDs(updated),
	})
	return updated, nil
}
