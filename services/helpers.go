package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Dosada05/swiss-tables/models"
	"github.com/Dosada05/swiss-tables/repositories"
)

// translateStoreError переводит ошибки хранилища в ошибки сервисного слоя.
func translateStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrParticipantNotFound):
		return ErrParticipantNotFound
	case errors.Is(err, repositories.ErrRoundNotFound):
		return ErrRoundNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrResultNotFound):
		return ErrResultNotFound
	case errors.Is(err, repositories.ErrParticipantNameConflict):
		return ErrNameTaken
	case isRetryable(err):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return err
	}
}

func isRetryable(err error) bool {
	return errors.Is(err, repositories.ErrRoundNumberConflict) ||
		errors.Is(err, repositories.ErrTableConflict) ||
		errors.Is(err, repositories.ErrSerialization)
}

// withConflictRetry повторяет fn один раз, если первая попытка проиграла
// гонку за номер раунда или транзакция не сериализовалась.
func withConflictRetry(ctx context.Context, logger *slog.Logger, op string, fn func() error) error {
	err := fn()
	if err == nil || !isRetryable(err) {
		return err
	}
	logger.WarnContext(ctx, "conflict, retrying once", slog.String("op", op), slog.Any("error", err))
	return fn()
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// --- агрегация результатов ---

func tallyResults(results []*models.Result) map[int]models.TotalStats {
	totals := make(map[int]models.TotalStats)
	for _, r := range results {
		t := totals[r.PlayerID]
		t.Wins += r.Win
		t.Losses += r.Loss
		t.Draws += r.Draw
		t.Points += r.Points
		totals[r.PlayerID] = t
	}
	return totals
}

// rankStandings orders participants by points desc, wins desc and keeps the
// registration order of the input for remaining ties. Ranks are sequential.
func rankStandings(participants []*models.Participant, totals map[int]models.TotalStats) []*models.Standing {
	standings := make([]*models.Standing, 0, len(participants))
	for _, p := range participants {
		t := totals[p.ID]
		standings = append(standings, &models.Standing{
			ParticipantID: p.ID,
			Name:          p.Name,
			Active:        p.Active,
			Wins:          t.Wins,
			Losses:        t.Losses,
			Draws:         t.Draws,
			Points:        t.Points,
		})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		return a.Wins > b.Wins
	})
	for i, s := range standings {
		s.Rank = i + 1
	}
	return standings
}

func matchesWithResults(results []*models.Result) map[int]bool {
	done := make(map[int]bool)
	for _, r := range results {
		done[r.MatchID] = true
	}
	return done
}

func matchIDs(matches []*models.Match) []int {
	ids := make([]int, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	return ids
}

// --- представления ---

func participantIndex(participants []*models.Participant) map[int]*models.Participant {
	idx := make(map[int]*models.Participant, len(participants))
	for _, p := range participants {
		idx[p.ID] = p
	}
	return idx
}

func playerRefs(m *models.Match, names map[int]*models.Participant, results map[int]*models.Result) []models.PlayerRef {
	refs := make([]models.PlayerRef, 0, models.SlotsPerMatch)
	for slot, pid := range m.PlayerIDs {
		ref := models.PlayerRef{Slot: slot}
		if pid == nil {
			ref.Bye = true
			ref.Name = "BYE"
			refs = append(refs, ref)
			continue
		}
		id := *pid
		ref.ID = &id
		if p, ok := names[id]; ok {
			ref.Name = p.Name
		} else {
			ref.Name = fmt.Sprintf("Participant %d", id)
		}
		if r, ok := results[id]; ok {
			ref.Result = r
		}
		refs = append(refs, ref)
	}
	return refs
}

func toMatchView(m *models.Match, roundNumber int, names map[int]*models.Participant, results map[int]*models.Result, completed bool) models.MatchView {
	m.Completed = completed
	return models.MatchView{
		ID:          m.ID,
		RoundID:     m.RoundID,
		RoundNumber: roundNumber,
		TableNumber: m.TableNumber,
		Completed:   completed,
		Status:      m.Status(),
		Players:     playerRefs(m, names, results),
	}
}

func resultsByPlayer(results []*models.Result) map[int]*models.Result {
	byPlayer := make(map[int]*models.Result, len(results))
	for _, r := range results {
		byPlayer[r.PlayerID] = r
	}
	return byPlayer
}
