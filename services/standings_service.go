package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/swiss-tables/models"
	"github.com/Dosada05/swiss-tables/repositories"
)

// StandingsService is a read-only projection over participants and results.
type StandingsService interface {
	Standings(ctx context.Context) ([]*models.Standing, error)
	PlayerMatches(ctx context.Context, caller models.Caller, participantID int) (*models.PlayerMatches, error)
}

type standingsService struct {
	store repositories.Store
	gate  AccessGate
}

func NewStandingsService(store repositories.Store, gate AccessGate) StandingsService {
	return &standingsService{store: store, gate: gate}
}

// Standings ranks every participant, removed ones included, by points then
// wins; remaining ties keep registration order.
func (s *standingsService) Standings(ctx context.Context) ([]*models.Standing, error) {
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
		return nil, fmt.Errorf("load standings: %w", err)
	}
	return rankStandings(participants, tallyResults(results)), nil
}

func (s *standingsService) PlayerMatches(ctx context.Context, caller models.Caller, participantID int) (*models.PlayerMatches, error) {
	if !s.gate.CanModify(caller, participantID) {
		return nil, ErrForbidden
	}

	var (
		participants []*models.Participant
		rounds       []*models.Round
		matches      []*models.Match
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
		rounds, err = s.store.Rounds().List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.store.Matches().ListByParticipant(gctx, participantID)
		return err
	})
	g.Go(func() error {
		var err error
		results, err = s.store.Results().ListAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load player matches: %w", err)
	}

	names := participantIndex(participants)
	self, ok := names[participantID]
	if !ok {
		return nil, ErrParticipantNotFound
	}

	roundNumbers := make(map[int]int, len(rounds))
	for _, r := range rounds {
		roundNumbers[r.ID] = r.RoundNumber
	}
	perMatch := make(map[int][]*models.Result)
	for _, r := range results {
		perMatch[r.MatchID] = append(perMatch[r.MatchID], r)
	}

	history := make([]models.PlayerMatch, 0, len(matches))
	for _, m := range matches {
		rs := perMatch[m.ID]
		byPlayer := resultsByPlayer(rs)
		players := playerRefs(m, names, byPlayer)

		opponents := make([]models.PlayerRef, 0, models.SlotsPerMatch-1)
		for _, p := range players {
			if p.Bye || *p.ID == participantID {
				continue
			}
			opponents = append(opponents, p)
		}

		history = append(history, models.PlayerMatch{
			MatchID:     m.ID,
			RoundID:     m.RoundID,
			RoundNumber: roundNumbers[m.RoundID],
			TableNumber: m.TableNumber,
			Completed:   len(rs) > 0,
			Players:     players,
			Opponents:   opponents,
			Result:      byPlayer[participantID],
		})
	}

	out := &models.PlayerMatches{
		ParticipantID: self.ID,
		Name:          self.Name,
		Matches:       history,
	}
	for _, st := range rankStandings(participants, tallyResults(results)) {
		if st.ParticipantID == participantID {
			out.Rank = st.Rank
			out.TotalStats = models.TotalStats{Wins: st.Wins, Losses: st.Losses, Draws: st.Draws, Points: st.Points}
			break
		}
	}
	return out, nil
}
