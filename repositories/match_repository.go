package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/swiss-tables/models"
	"github.com/lib/pq"
)

type postgresMatchRepository struct {
	exec SQLExecutor
}

const matchColumns = `m.id, m.round_id, m.table_number, m.player1_id, m.player2_id, m.player3_id, m.player4_id`

func slotArgs(m *models.Match) []interface{} {
	args := make([]interface{}, models.SlotsPerMatch)
	for i, p := range m.PlayerIDs {
		if p != nil {
			args[i] = *p
		}
	}
	return args
}

func (r *postgresMatchRepository) Create(ctx context.Context, m *models.Match) error {
	query := `
		INSERT INTO matches (round_id, table_number, player1_id, player2_id, player3_id, player4_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	args := append([]interface{}{m.RoundID, m.TableNumber}, slotArgs(m)...)
	if err := r.exec.QueryRowContext(ctx, query, args...).Scan(&m.ID); err != nil {
		if mapped := mapPQError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to create match for round %d table %d: %w", m.RoundID, m.TableNumber, err)
	}
	return nil
}

func (r *postgresMatchRepository) scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var (
		m     models.Match
		slots [models.SlotsPerMatch]sql.NullInt64
	)
	err := rowScanner.Scan(&m.ID, &m.RoundID, &m.TableNumber, &slots[0], &slots[1], &slots[2], &slots[3])
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}
	for i := range slots {
		m.PlayerIDs[i] = nullableInt(slots[i])
	}
	return &m, nil
}

func (r *postgresMatchRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches m WHERE m.id = $1`
	return r.scanMatch(r.exec.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) GetForUpdate(ctx context.Context, ids ...int) ([]*models.Match, error) {
	if len(ids) == 0 {
		return []*models.Match{}, nil
	}
	query := `SELECT ` + matchColumns + ` FROM matches m WHERE m.id = ANY($1) ORDER BY m.id ASC FOR UPDATE`
	matches, err := r.list(ctx, query, pq.Array(toInt64s(ids)))
	if err != nil {
		return nil, mapPQError(err)
	}
	found := make(map[int]bool, len(matches))
	for _, m := range matches {
		found[m.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return nil, fmt.Errorf("%w: id %d", ErrMatchNotFound, id)
		}
	}
	return matches, nil
}

func (r *postgresMatchRepository) ListByRound(ctx context.Context, roundID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches m WHERE m.round_id = $1 ORDER BY m.table_number ASC`
	return r.list(ctx, query, roundID)
}

func (r *postgresMatchRepository) ListAll(ctx context.Context) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches m
		JOIN rounds r ON r.id = m.round_id
		ORDER BY r.round_number ASC, m.table_number ASC`
	return r.list(ctx, query)
}

func (r *postgresMatchRepository) ListByParticipant(ctx context.Context, participantID int) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches m
		JOIN rounds r ON r.id = m.round_id
		WHERE $1 IN (m.player1_id, m.player2_id, m.player3_id, m.player4_id)
		ORDER BY r.round_number ASC, m.table_number ASC`
	return r.list(ctx, query, participantID)
}

func (r *postgresMatchRepository) UpdateSlots(ctx context.Context, m *models.Match) error {
	query := `
		UPDATE matches
		SET player1_id = $1, player2_id = $2, player3_id = $3, player4_id = $4
		WHERE id = $5`
	args := append(slotArgs(m), m.ID)
	result, err := r.exec.ExecContext(ctx, query, args...)
	if err != nil {
		if mapped := mapPQError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("UpdateSlots: failed to execute query for match %d: %w", m.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}
