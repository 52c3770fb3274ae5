package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/lib/pq"
)

// roundsLockKey is the pg_advisory_xact_lock key guarding round numbering.
const roundsLockKey = 4_404_001

type postgresStore struct {
	db   *sql.DB
	exec SQLExecutor
	inTx bool
}

func NewPostgresStore(db *sql.DB) Store {
	return &postgresStore{db: db, exec: db}
}

func (s *postgresStore) Participants() ParticipantRepository {
	return &postgresParticipantRepository{exec: s.exec}
}

func (s *postgresStore) Rounds() RoundRepository {
	return &postgresRoundRepository{exec: s.exec}
}

func (s *postgresStore) Matches() MatchRepository {
	return &postgresMatchRepository{exec: s.exec}
}

func (s *postgresStore) Results() ResultRepository {
	return &postgresResultRepository{exec: s.exec}
}

func (s *postgresStore) LockRounds(ctx context.Context) error {
	if !s.inTx {
		return errors.New("LockRounds requires a transaction")
	}
	if _, err := s.exec.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, roundsLockKey); err != nil {
		return fmt.Errorf("failed to acquire rounds lock: %w", err)
	}
	return nil
}

func (s *postgresStore) Reset(ctx context.Context) error {
	query := `TRUNCATE match_results, matches, rounds, participants RESTART IDENTITY CASCADE`
	if _, err := s.exec.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to reset tournament: %w", err)
	}
	return nil
}

func (s *postgresStore) InTx(ctx context.Context, fn func(tx Store) error) (txErr error) {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("Error during rollback: %v. Original error: %v", rbErr, txErr)
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				txErr = mapPQError(fmt.Errorf("failed to commit transaction: %w", cErr))
			}
		}
	}()

	return fn(&postgresStore{db: s.db, exec: tx, inTx: true})
}

// mapPQError translates constraint and serialization failures into
// repository sentinels. Unknown errors are returned unchanged.
func mapPQError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case "23505": // unique_violation
		switch pqErr.Constraint {
		case "rounds_round_number_key":
			return ErrRoundNumberConflict
		case "matches_round_id_table_number_key":
			return ErrTableConflict
		case "participants_name_key":
			return ErrParticipantNameConflict
		}
	case "23503": // foreign_key_violation
		switch pqErr.Constraint {
		case "matches_player1_id_fkey", "matches_player2_id_fkey",
			"matches_player3_id_fkey", "matches_player4_id_fkey",
			"match_results_player_id_fkey":
			return ErrParticipantNotFound
		case "matches_round_id_fkey":
			return ErrRoundNotFound
		case "match_results_match_id_fkey":
			return ErrMatchNotFound
		}
	case "40001", "40P01": // serialization_failure, deadlock_detected
		return fmt.Errorf("%w: %v", ErrSerialization, pqErr.Message)
	}
	return err
}
