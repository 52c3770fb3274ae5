package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/swiss-tables/models"
	"github.com/lib/pq"
)

type postgresParticipantRepository struct {
	exec SQLExecutor
}

const participantColumns = `id, name, active, password_hash, created_at`

func (r *postgresParticipantRepository) Create(ctx context.Context, p *models.Participant) error {
	query := `
		INSERT INTO participants (name, active, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.exec.QueryRowContext(ctx, query, p.Name, p.Active, p.PasswordHash).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if mapped := mapPQError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) scanParticipant(rowScanner interface {
	Scan(dest ...interface{}) error
}) (*models.Participant, error) {
	p := &models.Participant{}
	err := rowScanner.Scan(&p.ID, &p.Name, &p.Active, &p.PasswordHash, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to scan participant: %w", err)
	}
	return p, nil
}

func (r *postgresParticipantRepository) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`
	return r.scanParticipant(r.exec.QueryRowContext(ctx, query, id))
}

func (r *postgresParticipantRepository) GetByName(ctx context.Context, name string) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE name = $1`
	return r.scanParticipant(r.exec.QueryRowContext(ctx, query, name))
}

func (r *postgresParticipantRepository) List(ctx context.Context) ([]*models.Participant, error) {
	return r.list(ctx, `SELECT `+participantColumns+` FROM participants ORDER BY id ASC`)
}

func (r *postgresParticipantRepository) ListActive(ctx context.Context) ([]*models.Participant, error) {
	return r.list(ctx, `SELECT `+participantColumns+` FROM participants WHERE active ORDER BY id ASC`)
}

func (r *postgresParticipantRepository) list(ctx context.Context, query string) ([]*models.Participant, error) {
	rows, err := r.exec.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		p, scanErr := r.scanParticipant(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		participants = append(participants, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during participant rows iteration: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) SetActive(ctx context.Context, id int, active bool) error {
	result, err := r.exec.ExecContext(ctx, `UPDATE participants SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("failed to update participant %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) Delete(ctx context.Context, id int) error {
	result, err := r.exec.ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrParticipantInUse
		}
		return fmt.Errorf("failed to delete participant %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) IsReferenced(ctx context.Context, id int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM matches
			WHERE $1 IN (player1_id, player2_id, player3_id, player4_id)
		)`
	var exists bool
	if err := r.exec.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check references for participant %d: %w", id, err)
	}
	return exists, nil
}
