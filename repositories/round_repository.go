package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/swiss-tables/models"
)

type postgresRoundRepository struct {
	exec SQLExecutor
}

func (r *postgresRoundRepository) Create(ctx context.Context, round *models.Round) error {
	query := `
		INSERT INTO rounds (round_number)
		VALUES ($1)
		RETURNING id, created_at`

	err := r.exec.QueryRowContext(ctx, query, round.RoundNumber).Scan(&round.ID, &round.CreatedAt)
	if err != nil {
		if mapped := mapPQError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to create round %d: %w", round.RoundNumber, err)
	}
	return nil
}

func (r *postgresRoundRepository) scanRound(rowScanner interface{ Scan(...interface{}) error }) (*models.Round, error) {
	var round models.Round
	if err := rowScanner.Scan(&round.ID, &round.RoundNumber, &round.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to scan round: %w", err)
	}
	return &round, nil
}

func (r *postgresRoundRepository) GetByID(ctx context.Context, id int) (*models.Round, error) {
	query := `SELECT id, round_number, created_at FROM rounds WHERE id = $1`
	return r.scanRound(r.exec.QueryRowContext(ctx, query, id))
}

func (r *postgresRoundRepository) GetLatest(ctx context.Context) (*models.Round, error) {
	query := `SELECT id, round_number, created_at FROM rounds ORDER BY round_number DESC LIMIT 1`
	return r.scanRound(r.exec.QueryRowContext(ctx, query))
}

func (r *postgresRoundRepository) List(ctx context.Context) ([]*models.Round, error) {
	rows, err := r.exec.QueryContext(ctx, `SELECT id, round_number, created_at FROM rounds ORDER BY round_number DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %w", err)
	}
	defer rows.Close()

	rounds := make([]*models.Round, 0)
	for rows.Next() {
		round, scanErr := r.scanRound(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		rounds = append(rounds, round)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during round rows iteration: %w", err)
	}
	return rounds, nil
}

func (r *postgresRoundRepository) MaxRoundNumber(ctx context.Context) (int, error) {
	var max int
	if err := r.exec.QueryRowContext(ctx, `SELECT COALESCE(MAX(round_number), 0) FROM rounds`).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to read max round number: %w", err)
	}
	return max, nil
}

// Delete relies on ON DELETE CASCADE from matches and match_results.
func (r *postgresRoundRepository) Delete(ctx context.Context, id int) error {
	result, err := r.exec.ExecContext(ctx, `DELETE FROM rounds WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete round %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrRoundNotFound)
}
