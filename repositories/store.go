package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/swiss-tables/models"
)

type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

var (
	ErrParticipantNotFound     = errors.New("participant not found")
	ErrParticipantNameConflict = errors.New("participant name already registered")
	ErrParticipantInUse        = errors.New("participant is referenced by matches")
	ErrRoundNotFound           = errors.New("round not found")
	ErrRoundNumberConflict     = errors.New("round number already taken")
	ErrMatchNotFound           = errors.New("match not found")
	ErrTableConflict           = errors.New("table number already taken in round")
	ErrResultNotFound          = errors.New("result not found")
	ErrSerialization           = errors.New("transaction could not be serialized")
)

type ParticipantRepository interface {
	Create(ctx context.Context, p *models.Participant) error
	GetByID(ctx context.Context, id int) (*models.Participant, error)
	GetByName(ctx context.Context, name string) (*models.Participant, error)
	// List returns every participant in registration order.
	List(ctx context.Context) ([]*models.Participant, error)
	ListActive(ctx context.Context) ([]*models.Participant, error)
	SetActive(ctx context.Context, id int, active bool) error
	Delete(ctx context.Context, id int) error
	IsReferenced(ctx context.Context, id int) (bool, error)
}

type RoundRepository interface {
	Create(ctx context.Context, r *models.Round) error
	GetByID(ctx context.Context, id int) (*models.Round, error)
	GetLatest(ctx context.Context) (*models.Round, error)
	// List returns rounds ordered by round number, newest first.
	List(ctx context.Context) ([]*models.Round, error)
	MaxRoundNumber(ctx context.Context) (int, error)
	// Delete removes the round together with its matches and results.
	Delete(ctx context.Context, id int) error
}

type MatchRepository interface {
	Create(ctx context.Context, m *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	// GetForUpdate loads and locks the given matches in ascending id order.
	GetForUpdate(ctx context.Context, ids ...int) ([]*models.Match, error)
	ListByRound(ctx context.Context, roundID int) ([]*models.Match, error)
	ListAll(ctx context.Context) ([]*models.Match, error)
	ListByParticipant(ctx context.Context, participantID int) ([]*models.Match, error)
	UpdateSlots(ctx context.Context, m *models.Match) error
}

type ResultRepository interface {
	// Upsert replaces the row for (MatchID, PlayerID) if present.
	Upsert(ctx context.Context, r *models.Result) error
	Delete(ctx context.Context, matchID, playerID int) error
	ListByMatch(ctx context.Context, matchID int) ([]*models.Result, error)
	ListAll(ctx context.Context) ([]*models.Result, error)
	CountByMatches(ctx context.Context, matchIDs []int) (map[int]int, error)
}

// Store is the Entity Store. Every mutation of the engine runs inside InTx.
type Store interface {
	Participants() ParticipantRepository
	Rounds() RoundRepository
	Matches() MatchRepository
	Results() ResultRepository

	// LockRounds serializes round generation and deletion for the rest of
	// the current transaction.
	LockRounds(ctx context.Context) error

	// Reset removes every participant, round, match and result and restarts
	// id sequences.
	Reset(ctx context.Context) error

	// InTx runs fn against a transactional view of the store. The view is
	// committed when fn returns nil and discarded otherwise. Nested calls
	// reuse the outer transaction.
	InTx(ctx context.Context, fn func(tx Store) error) error
}
