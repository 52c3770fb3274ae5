package repositories

import (
	"context"
	"fmt"

	"github.com/Dosada05/swiss-tables/models"
	"github.com/lib/pq"
)

type postgresResultRepository struct {
	exec SQLExecutor
}

func (r *postgresResultRepository) Upsert(ctx context.Context, res *models.Result) error {
	query := `
		INSERT INTO match_results (match_id, player_id, win, loss, draw, points)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (match_id, player_id) DO UPDATE
		SET win = EXCLUDED.win, loss = EXCLUDED.loss, draw = EXCLUDED.draw, points = EXCLUDED.points`

	_, err := r.exec.ExecContext(ctx, query, res.MatchID, res.PlayerID, res.Win, res.Loss, res.Draw, res.Points)
	if err != nil {
		if mapped := mapPQError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to upsert result for match %d player %d: %w", res.MatchID, res.PlayerID, err)
	}
	return nil
}

func (r *postgresResultRepository) Delete(ctx context.Context, matchID, playerID int) error {
	result, err := r.exec.ExecContext(ctx, `DELETE FROM match_results WHERE match_id = $1 AND player_id = $2`, matchID, playerID)
	if err != nil {
		return fmt.Errorf("failed to delete result for match %d player %d: %w", matchID, playerID, err)
	}
	return checkAffectedRows(result, ErrResultNotFound)
}

func (r *postgresResultRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Result, error) {
	rows, err := r.exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	results := make([]*models.Result, 0)
	for rows.Next() {
		var res models.Result
		if scanErr := rows.Scan(&res.MatchID, &res.PlayerID, &res.Win, &res.Loss, &res.Draw, &res.Points); scanErr != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", scanErr)
		}
		results = append(results, &res)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during result rows iteration: %w", err)
	}
	return results, nil
}

func (r *postgresResultRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.Result, error) {
	query := `
		SELECT match_id, player_id, win, loss, draw, points
		FROM match_results
		WHERE match_id = $1
		ORDER BY id ASC`
	return r.list(ctx, query, matchID)
}

func (r *postgresResultRepository) ListAll(ctx context.Context) ([]*models.Result, error) {
	query := `SELECT match_id, player_id, win, loss, draw, points FROM match_results ORDER BY id ASC`
	return r.list(ctx, query)
}

func (r *postgresResultRepository) CountByMatches(ctx context.Context, matchIDs []int) (map[int]int, error) {
	counts := make(map[int]int, len(matchIDs))
	if len(matchIDs) == 0 {
		return counts, nil
	}
	query := `
		SELECT match_id, COUNT(*)
		FROM match_results
		WHERE match_id = ANY($1)
		GROUP BY match_id`
	rows, err := r.exec.QueryContext(ctx, query, pq.Array(toInt64s(matchIDs)))
	if err != nil {
		return nil, fmt.Errorf("failed to count results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var matchID, n int
		if err := rows.Scan(&matchID, &n); err != nil {
			return nil, fmt.Errorf("failed to scan result count: %w", err)
		}
		counts[matchID] = n
	}
	return counts, rows.Err()
}
